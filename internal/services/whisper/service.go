package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"vidsum/internal/logging"
	"vidsum/internal/services"
)

const stageName = "transcribe"

// engine is the backend contract behind Service.
type engine interface {
	name() string
	load(ctx context.Context) error
	transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// Service transcribes audio files with the configured engine.
type Service struct {
	cfg      Config
	language string
	logger   *slog.Logger
	engine   engine
	loaded   bool
}

// NewService validates cfg and builds the selected engine. No external work
// happens until Load.
func NewService(cfg Config, logger *slog.Logger) (*Service, error) {
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	if cfg.Engine == "" {
		cfg.Engine = EngineCLI
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	lang, err := NormalizeLanguage(cfg.Language)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "language", "", err)
	}

	svc := &Service{
		cfg:      cfg,
		language: lang,
		logger:   logging.NewComponentLogger(logger, "transcriber"),
	}
	switch cfg.Engine {
	case EngineCLI:
		svc.engine = newCLIEngine(cfg)
	case EngineOpenAI:
		svc.engine = newOpenAIEngine(cfg)
	default:
		return nil, services.Wrap(services.ErrConfiguration, stageName, "engine", fmt.Sprintf("unsupported engine %q", cfg.Engine), nil)
	}
	return svc, nil
}

// Model returns the model identifier the active engine uses.
func (s *Service) Model() string {
	if s.cfg.Engine == EngineOpenAI {
		return s.cfg.RemoteModel
	}
	return s.cfg.Model
}

// Load prepares the engine. It is safe to call more than once.
//
// For the whisper CLI engine Load only validates the model name and resolves
// the binary. The CLI reads model weights itself on every Transcribe call, so
// a corrupt or missing checkpoint surfaces during transcription, not here.
func (s *Service) Load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	logger := logging.WithContext(ctx, s.logger)
	start := time.Now()
	logger.Info("loading transcription model",
		logging.String("engine", s.engine.name()),
		logging.String("model", s.Model()),
	)
	if err := s.engine.load(ctx); err != nil {
		return services.Wrap(services.ErrTranscription, stageName, "load", fmt.Sprintf("model %q", s.Model()), err)
	}
	s.loaded = true
	logger.Debug("transcription model ready", logging.Duration("elapsed", time.Since(start)))
	return nil
}

// Transcribe returns the full text spoken in audioPath.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if !s.loaded {
		return "", services.Wrap(services.ErrTranscription, stageName, "", "model not loaded", nil)
	}
	logger := logging.WithContext(ctx, s.logger)

	info, err := os.Stat(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, stageName, "open", "audio file unreadable", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return "", services.Wrap(services.ErrTranscription, stageName, "open", fmt.Sprintf("audio file %q is empty", audioPath), nil)
	}

	start := time.Now()
	text, err := s.engine.transcribe(ctx, audioPath, s.language)
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, stageName, s.engine.name(), "", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", services.Wrap(services.ErrTranscription, stageName, s.engine.name(), "empty transcript", nil)
	}
	logger.Info("transcription complete",
		logging.Int("characters", len(text)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}
