package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vidsum/internal/logging"
	"vidsum/internal/services"
	"vidsum/internal/services/ollama"
)

// DefaultModel is the Ollama model used when none is configured.
const DefaultModel = "mistral"

const stageName = "summarize"

// ChatClient is the subset of the Ollama client the summarizer uses.
type ChatClient interface {
	Pull(ctx context.Context, model string, onProgress func(ollama.PullProgress)) error
	Chat(ctx context.Context, model string, messages []ollama.Message) (string, error)
}

// Summarizer produces transcript summaries with a single Ollama model.
type Summarizer struct {
	model       string
	client      ChatClient
	logger      *slog.Logger
	provisioned bool
}

// New constructs a Summarizer for model. No network call happens until Provision.
func New(model string, client ChatClient, logger *slog.Logger) *Summarizer {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{
		model:  model,
		client: client,
		logger: logging.NewComponentLogger(logger, "summarizer"),
	}
}

// Model returns the configured model name.
func (s *Summarizer) Model() string {
	return s.model
}

// Provision pulls the model, which is a no-op download when it is already
// current. It is safe to call more than once.
func (s *Summarizer) Provision(ctx context.Context) error {
	if s.provisioned {
		return nil
	}
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("provisioning summary model", logging.String("model", s.model))
	start := time.Now()
	if err := s.client.Pull(ctx, s.model, nil); err != nil {
		return &ProvisionError{Model: s.model, Err: err}
	}
	s.provisioned = true
	logger.Info("summary model ready",
		logging.String("model", s.model),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Summarize returns a concise summary of transcript.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", services.Wrap(services.ErrSummarization, stageName, "", "transcript is empty", nil)
	}
	logger := logging.WithContext(ctx, s.logger)
	start := time.Now()
	content, err := s.client.Chat(ctx, s.model, BuildMessages(transcript))
	if err != nil {
		return "", services.Wrap(services.ErrSummarization, stageName, "chat", fmt.Sprintf("model %q", s.model), err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", services.Wrap(services.ErrSummarization, stageName, "chat", fmt.Sprintf("model %q returned no content", s.model), nil)
	}
	logger.Info("summary generated",
		logging.Int("characters", len(content)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return content, nil
}

// ProvisionError reports that the summary model could not be made available.
// It matches services.ErrModelProvision under errors.Is.
type ProvisionError struct {
	Model string
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("Error pulling Ollama model %q: %v. Make sure Ollama is running locally", e.Model, e.Err)
}

func (e *ProvisionError) Unwrap() []error {
	return []error{services.ErrModelProvision, e.Err}
}
