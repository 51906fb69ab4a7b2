package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vidsum/internal/logging"
)

// PullProgress is one NDJSON line of a pull stream.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Percent returns download completion in percent, or -1 when the total is unknown.
func (p PullProgress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

type pullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// Pull downloads model, or confirms it is current. Progress lines are passed
// to onProgress when non-nil and logged at a sampled rate. Pull fails on an
// error line or when the stream ends without a "success" status.
func (c *Client) Pull(ctx context.Context, model string, onProgress func(PullProgress)) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return errors.New("ollama pull: model required")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/pull", pullRequest{Model: model, Stream: true})
	if err != nil {
		return fmt.Errorf("ollama pull: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.pullClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama pull: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return fmt.Errorf("ollama pull: %w", statusError(resp.StatusCode, body))
	}

	logger := logging.WithContext(ctx, c.logger).With(logging.String("model", model))
	sampler := logging.NewProgressSampler(25)
	var last string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var progress PullProgress
		if err := json.Unmarshal([]byte(line), &progress); err != nil {
			return fmt.Errorf("ollama pull: decode progress: %w", err)
		}
		if progress.Error != "" {
			return fmt.Errorf("ollama pull: %s", progress.Error)
		}
		if onProgress != nil {
			onProgress(progress)
		}
		if sampler.ShouldLog(progress.Percent(), progress.Status) {
			attrs := []logging.Attr{logging.String("status", progress.Status)}
			if pct := progress.Percent(); pct >= 0 {
				attrs = append(attrs, logging.Int("percent", int(pct)))
			}
			logger.Debug("pull progress", logging.Args(attrs...)...)
		}
		last = progress.Status
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ollama pull: read stream: %w", err)
	}
	if last != "success" {
		if last == "" {
			return errors.New("ollama pull: empty response stream")
		}
		return fmt.Errorf("ollama pull: stream ended with status %q", last)
	}
	return nil
}
