package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidsum/internal/logging"
)

// DefaultBaseURL is the address a stock Ollama install listens on.
const DefaultBaseURL = "http://127.0.0.1:11434"

// Config captures the runtime settings required to talk to Ollama.
type Config struct {
	BaseURL string
	// Timeout bounds chat, tags, and version requests. Zero disables it.
	// Pulls are never bounded by it since downloads can take minutes.
	Timeout time.Duration
}

// Client wraps the Ollama REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pullClient *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for pull progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs an Ollama client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.pullClient = &http.Client{Transport: client.httpClient.Transport}
	client.logger = logging.NewComponentLogger(client.logger, "ollama")
	return client
}

// BaseURL returns the resolved Ollama endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Message is a role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Model      string  `json:"model"`
	Message    Message `json:"message"`
	Done       bool    `json:"done"`
	DoneReason string  `json:"done_reason"`
	Error      string  `json:"error"`
}

// Chat sends messages to model and returns the assistant reply content.
func (c *Client) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	payload := chatRequest{Model: model, Messages: messages, Stream: false}
	var resp chatResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, "/api/chat", payload, &resp); err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama chat: %s", resp.Error)
	}
	return resp.Message.Content, nil
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp struct {
		Version string `json:"version"`
	}
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/version", nil, &resp); err != nil {
		return "", fmt.Errorf("ollama version: %w", err)
	}
	return resp.Version, nil
}

// ModelInfo describes a locally available model.
type ModelInfo struct {
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ListModels returns the models present on the server.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var resp struct {
		Models []ModelInfo `json:"models"`
	}
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		return nil, fmt.Errorf("ollama tags: %w", err)
	}
	return resp.Models, nil
}

// HasModel reports whether model is present locally. A name without a tag
// matches its ":latest" variant.
func (c *Client) HasModel(ctx context.Context, model string) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	want := canonicalName(model)
	for _, m := range models {
		if canonicalName(m.Name) == want || canonicalName(m.Model) == want {
			return true, nil
		}
	}
	return false, nil
}

func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if !strings.Contains(name[strings.LastIndex(name, "/")+1:], ":") {
		name += ":latest"
	}
	return name
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (c *Client) endpoint(path string) (string, error) {
	return url.JoinPath(c.baseURL, path)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, client *http.Client, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		message = payload.Error
	}
	return &StatusError{StatusCode: code, Message: message}
}
