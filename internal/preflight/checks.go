package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"vidsum/internal/config"
	"vidsum/internal/deps"
	"vidsum/internal/logging"
	"vidsum/internal/services/whisper"
)

const checkTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// The pipeline creates the work dir on demand; the parent must be writable.
			return checkCreatable(name, path)
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func checkCreatable(name, path string) Result {
	parent := path
	for {
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
		if info, err := os.Stat(parent); err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, parent)}
			}
			if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
		}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
}

// FromDeps converts binary availability into check results.
func FromDeps(statuses []deps.Status) []Result {
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		r := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
		if status.Available {
			r.Detail = status.Path
		} else {
			r.Detail = status.Detail
			if status.Description != "" {
				r.Detail = fmt.Sprintf("%s (%s)", status.Detail, strings.ToLower(status.Description))
			}
		}
		results = append(results, r)
	}
	return results
}

// CheckTranscriber loads the configured transcription engine: the whisper
// CLI validates its model name, the openai engine lists remote models.
func CheckTranscriber(ctx context.Context, cfg *config.Config) Result {
	const name = "Transcriber"
	svc, err := whisper.NewService(whisper.FromConfig(cfg), logging.NewNop())
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := svc.Load(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err, "transcription endpoint")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", svc.Model(), cfg.Transcriber.Engine)}
}

// CheckOllama verifies that the Ollama API answers.
func CheckOllama(ctx context.Context, baseURL string, probe OllamaProbe) Result {
	const name = "Ollama"
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	version, err := probe.Version(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s unreachable: %s", baseURL, summarizeError(err, "Ollama"))}
	}
	detail := baseURL
	if version != "" {
		detail = fmt.Sprintf("%s (version %s)", baseURL, version)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckOllamaModel reports whether the summary model is already pulled. A
// missing model is not fatal since the run pulls it.
func CheckOllamaModel(ctx context.Context, model string, probe OllamaProbe) Result {
	name := "Summary model"
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	present, err := probe.HasModel(checkCtx, model)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err, "Ollama")}
	}
	if !present {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s not pulled yet (pulled on first run)", model)}
	}
	return Result{Name: name, Passed: true, Detail: model}
}

// summarizeError produces a human-readable summary for check failures.
func summarizeError(err error, service string) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("check timed out (%s unresponsive)", service)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("check timed out (%s unreachable)", service)
	}
	return err.Error()
}
