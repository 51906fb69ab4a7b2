package preflight

import (
	"context"

	"vidsum/internal/config"
	"vidsum/internal/deps"
	"vidsum/internal/services/ollama"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// OllamaProbe is the subset of the Ollama client used by the checks.
type OllamaProbe interface {
	Version(ctx context.Context) (string, error)
	HasModel(ctx context.Context, model string) (bool, error)
}

// RunAll executes every applicable check for cfg. When probe is nil an Ollama
// client is built from the [summarizer] section.
func RunAll(ctx context.Context, cfg *config.Config, probe OllamaProbe) []Result {
	if cfg == nil {
		return nil
	}
	if probe == nil {
		probe = ollama.NewClient(ollama.Config{BaseURL: cfg.Summarizer.BaseURL, Timeout: cfg.SummarizerTimeout()})
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, FromDeps(deps.CheckBinaries(deps.Requirements(cfg)))...)
	results = append(results, CheckTranscriber(ctx, cfg))

	reachable := CheckOllama(ctx, cfg.Summarizer.BaseURL, probe)
	results = append(results, reachable)
	if reachable.Passed {
		results = append(results, CheckOllamaModel(ctx, cfg.Summarizer.Model, probe))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
