package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type openAIEngine struct {
	model  string
	client *openai.Client
}

func newOpenAIEngine(cfg Config) *openAIEngine {
	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		clientCfg.BaseURL = base
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := strings.TrimSpace(cfg.RemoteModel)
	if model == "" {
		model = openai.Whisper1
	}
	return &openAIEngine{
		model:  model,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (e *openAIEngine) name() string { return EngineOpenAI }

// load verifies the endpoint answers the model listing. Servers that do not
// list the configured model are accepted; some local servers load models on
// demand.
func (e *openAIEngine) load(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return describeAPIError(err)
	}
	return nil
}

func (e *openAIEngine) transcribe(ctx context.Context, audioPath, language string) (string, error) {
	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    e.model,
		FilePath: audioPath,
		Language: language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", describeAPIError(err)
	}
	return resp.Text, nil
}

func describeAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("http %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("http %d: %w", reqErr.HTTPStatusCode, err)
	}
	return err
}
