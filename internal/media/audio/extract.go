package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"vidsum/internal/logging"
	"vidsum/internal/media/ffprobe"
	"vidsum/internal/services"
)

// DefaultOutputName is the artifact name used when no output path is given.
const DefaultOutputName = "extracted_audio.wav"

const stageName = "extract"

// Config captures the binaries and output format used for extraction.
type Config struct {
	FFmpegBinary  string
	FFprobeBinary string
	SampleRate    int
	Channels      int
}

// CommandRunner executes a command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ProbeFunc inspects a media container.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Extractor writes the primary audio track of a video to a WAV file.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
	run    CommandRunner
	probe  ProbeFunc
}

// NewExtractor constructs an Extractor, filling unset fields with ffmpeg
// defaults for speech recognition input.
func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if strings.TrimSpace(cfg.FFmpegBinary) == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(cfg.FFprobeBinary) == "" {
		cfg.FFprobeBinary = "ffprobe"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	return &Extractor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "extractor"),
		run:    defaultRunner,
		probe:  ffprobe.Inspect,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		e.run = runner
	}
}

// WithProbe sets a custom container probe (for testing).
func (e *Extractor) WithProbe(probe ProbeFunc) {
	if probe != nil {
		e.probe = probe
	}
}

// Extract writes the audio track of videoPath to outputPath and returns the
// written path. An empty outputPath means DefaultOutputName in the current
// directory. All failures carry services.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, videoPath, outputPath string) (string, error) {
	logger := logging.WithContext(ctx, e.logger)
	videoPath = strings.TrimSpace(videoPath)
	if videoPath == "" {
		return "", services.Wrap(services.ErrExtraction, stageName, "validate", "video path required", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		outputPath = DefaultOutputName
	}

	probe, err := e.probe(ctx, e.cfg.FFprobeBinary, videoPath)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, stageName, "ffprobe", fmt.Sprintf("open container %q", videoPath), err)
	}
	stream, ok := Select(probe.Streams)
	if !ok {
		return "", services.Wrap(services.ErrExtraction, stageName, "select", fmt.Sprintf("no audio stream in %q", videoPath), nil)
	}
	logger.Debug("audio stream selected",
		logging.String("stream", Describe(stream)),
		logging.Int("audio_streams", probe.AudioStreamCount()),
	)

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", services.Wrap(services.ErrExtraction, stageName, "prepare", "create output directory", err)
		}
	}

	args := e.buildArgs(videoPath, stream.Index, outputPath)
	if output, err := e.run(ctx, e.cfg.FFmpegBinary, args...); err != nil {
		detail := strings.Join(strings.Fields(string(output)), " ")
		if detail == "" {
			detail = "ffmpeg failed"
		}
		return "", services.Wrap(services.ErrExtraction, stageName, "ffmpeg", detail, err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, stageName, "verify", "output not written", err)
	}
	if info.Size() == 0 {
		return "", services.Wrap(services.ErrExtraction, stageName, "verify", fmt.Sprintf("output %q is empty", outputPath), nil)
	}

	logger.Info("audio extracted",
		logging.String("audio_path", outputPath),
		logging.Int64("bytes", info.Size()),
	)
	return outputPath, nil
}

func (e *Extractor) buildArgs(source string, streamIndex int, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", fmt.Sprintf("0:%d", streamIndex),
		"-vn",
		"-sn",
		"-dn",
		"-ac", strconv.Itoa(e.cfg.Channels),
		"-ar", strconv.Itoa(e.cfg.SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
}

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		return output, ctx.Err()
	}
	return output, err
}
