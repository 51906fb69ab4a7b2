package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidsum/internal/logging"
	"vidsum/internal/services"
)

// AudioExtractor writes the primary audio stream of a video to a WAV file.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath, outputPath string) (string, error)
}

// Transcriber turns a WAV file into plain text.
type Transcriber interface {
	Load(ctx context.Context) error
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Summarizer condenses transcript text.
type Summarizer interface {
	Provision(ctx context.Context) error
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Options tune a single run.
type Options struct {
	// KeepAudio disables removal of the extracted WAV file.
	KeepAudio bool
	// AudioPath overrides the per-run artifact path. The path is locked for
	// the duration of the run.
	AudioPath string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID         string
	Title         string
	VideoPath     string
	AudioPath     string
	AudioRetained bool
	Transcription string
	Summary       string
	Duration      time.Duration
}

// Pipeline runs extraction, transcription, and summarization in sequence.
type Pipeline struct {
	extractor   AudioExtractor
	transcriber Transcriber
	summarizer  Summarizer
	logger      *slog.Logger
	workDir     string
	observer    Observer
	newRunID    func() string
	now         func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkDir sets the directory that holds per-run audio artifacts.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) {
		p.workDir = strings.TrimSpace(dir)
	}
}

// WithObserver registers a callback for state transitions.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

// WithRunIDGenerator replaces the UUID run id source.
func WithRunIDGenerator(fn func() string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newRunID = fn
		}
	}
}

// New constructs a pipeline around the three collaborators.
func New(extractor AudioExtractor, transcriber Transcriber, summarizer Summarizer, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   extractor,
		transcriber: transcriber,
		summarizer:  summarizer,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
		workDir:     ".",
		newRunID:    uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Prepare loads the transcription model and provisions the summary model.
// Errors are returned unchanged.
func (p *Pipeline) Prepare(ctx context.Context) error {
	if p.transcriber == nil || p.summarizer == nil {
		return services.Wrap(services.ErrConfiguration, "prepare", "", "pipeline collaborators not configured", nil)
	}
	start := p.now()
	if err := p.transcriber.Load(services.WithStage(ctx, "loading")); err != nil {
		return err
	}
	if err := p.summarizer.Provision(services.WithStage(ctx, "provisioning")); err != nil {
		return err
	}
	p.logger.Debug("pipeline prepared", logging.Duration("elapsed", p.now().Sub(start)))
	return nil
}

// Run processes one video. On failure no partial result is returned and the
// error carries services.ErrPipeline plus the failing step's kind.
func (p *Pipeline) Run(ctx context.Context, videoPath string, opts Options) (*Result, error) {
	if p.extractor == nil || p.transcriber == nil || p.summarizer == nil {
		return nil, services.Wrap(services.ErrPipeline, "", "run", "pipeline collaborators not configured", nil)
	}

	runID := p.newRunID()
	ctx = services.WithRunID(ctx, runID)
	r := &run{
		id:       runID,
		state:    StateIdle,
		logger:   logging.WithContext(ctx, p.logger),
		observer: p.observer,
	}
	start := p.now()

	art, err := reserveArtifact(p.workDir, runID, opts.AudioPath)
	if err != nil {
		r.advance(StateFailed)
		return nil, services.Wrap(services.ErrPipeline, "", "reserve audio path", "", err)
	}
	defer func() {
		if err := art.release(); err != nil {
			r.logger.Warn("failed to release audio lock", logging.Error(err))
		}
	}()

	r.logger.Info(
		"pipeline started",
		logging.String(logging.FieldEventType, "pipeline_start"),
		logging.String("video_path", videoPath),
		logging.String("audio_path", art.path),
		logging.Bool("cleanup", !opts.KeepAudio),
	)

	result, err := p.execute(ctx, r, art, videoPath)
	if err != nil {
		r.advance(StateFailed)
		if !opts.KeepAudio {
			p.cleanup(r, art)
		}
		logging.ErrorWithContext(
			r.logger,
			"pipeline failed",
			"pipeline_failed",
			"check the external tool output in the error message",
			logging.Error(err),
			logging.Duration("elapsed", p.now().Sub(start)),
		)
		return nil, err
	}

	r.advance(StateCleaningUp)
	if opts.KeepAudio {
		result.AudioRetained = art.exists()
	} else {
		p.cleanup(r, art)
	}
	r.advance(StateDone)

	result.RunID = runID
	result.Title = titleFromPath(videoPath)
	result.VideoPath = videoPath
	result.AudioPath = art.path
	result.Duration = p.now().Sub(start)
	r.logger.Info(
		"pipeline completed",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.Duration("elapsed", result.Duration),
		logging.Int("transcript_chars", len(result.Transcription)),
		logging.Int("summary_chars", len(result.Summary)),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, r *run, art *artifact, videoPath string) (*Result, error) {
	var audioPath string
	err := r.step(ctx, StateExtracting, func(stageCtx context.Context) error {
		path, err := p.extractor.Extract(stageCtx, videoPath, art.path)
		if err != nil {
			return err
		}
		if strings.TrimSpace(path) != "" {
			audioPath = path
		} else {
			audioPath = art.path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if audioPath != art.path {
		// The extractor may normalize the path; cleanup follows the real file.
		art.path = audioPath
	}

	var transcript string
	err = r.step(ctx, StateTranscribing, func(stageCtx context.Context) error {
		text, err := p.transcriber.Transcribe(stageCtx, audioPath)
		transcript = text
		return err
	})
	if err != nil {
		return nil, err
	}

	var summary string
	err = r.step(ctx, StateSummarizing, func(stageCtx context.Context) error {
		text, err := p.summarizer.Summarize(stageCtx, transcript)
		summary = text
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{Transcription: transcript, Summary: summary}, nil
}

func (p *Pipeline) cleanup(r *run, art *artifact) {
	removed, err := art.remove()
	if err != nil {
		r.logger.Warn("failed to remove audio artifact",
			logging.String("audio_path", art.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the file manually"),
		)
		return
	}
	if removed {
		r.logger.Debug("audio artifact removed", logging.String("audio_path", art.path))
	}
}

// run tracks the state of one Run invocation.
type run struct {
	id       string
	state    State
	logger   *slog.Logger
	observer Observer
}

func (r *run) advance(next State) {
	prev := r.state
	if !prev.CanTransition(next) {
		r.logger.Warn("ignoring invalid state transition",
			logging.String("from", prev.String()),
			logging.String("to", next.String()),
		)
		return
	}
	r.state = next
	r.logger.Debug("state transition",
		logging.String("from", prev.String()),
		logging.String("to", next.String()),
	)
	if r.observer != nil {
		r.observer(r.id, prev, next)
	}
}

// step enters state, runs fn with a stage-tagged context, and wraps failures
// exactly once with the pipeline marker.
func (r *run) step(ctx context.Context, state State, fn func(context.Context) error) error {
	r.advance(state)
	stageCtx := services.WithStage(ctx, state.String())
	logger := r.logger.With(logging.String(logging.FieldStage, state.String()))
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrPipeline, state.String(), "", "run interrupted", err)
	}
	start := time.Now()
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := fn(stageCtx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("stage interrupted")
		}
		return services.Wrap(services.ErrPipeline, state.String(), "", "", err)
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// titleFromPath derives a display title from the video filename.
func titleFromPath(videoPath string) string {
	base := filepath.Base(strings.TrimSpace(videoPath))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", ".", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Untitled"
	}
	return cases.Title(language.Und).String(stem)
}
