package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandRunner executes a command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

type cliEngine struct {
	binary   string
	model    string
	device   string
	run      CommandRunner
	lookPath func(string) (string, error)
	tempDir  string
}

func newCLIEngine(cfg Config) *cliEngine {
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = "whisper"
	}
	return &cliEngine{
		binary:   binary,
		model:    strings.TrimSpace(cfg.Model),
		device:   strings.TrimSpace(cfg.Device),
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

// WithCommandRunner sets a custom command runner for the CLI engine (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if cli, ok := s.engine.(*cliEngine); ok && runner != nil {
		cli.run = runner
		cli.lookPath = func(name string) (string, error) { return name, nil }
	}
}

func (e *cliEngine) name() string { return EngineCLI }

// load checks the model name and binary. Weights are loaded per invocation.
func (e *cliEngine) load(context.Context) error {
	if !KnownModel(e.model) && !isCheckpoint(e.model) {
		return fmt.Errorf("unknown whisper model %q", e.model)
	}
	resolved, err := e.lookPath(e.binary)
	if err != nil {
		return fmt.Errorf("whisper binary %q not found: %w", e.binary, err)
	}
	e.binary = resolved
	return nil
}

func (e *cliEngine) transcribe(ctx context.Context, audioPath, language string) (string, error) {
	outputDir, err := os.MkdirTemp(e.tempDir, "vidsum-whisper-")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := e.buildArgs(audioPath, outputDir, language)
	if output, err := e.run(ctx, e.binary, args...); err != nil {
		if detail := lastLines(string(output), 5); detail != "" {
			return "", fmt.Errorf("%w: %s", err, detail)
		}
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return loadTranscriptText(filepath.Join(outputDir, base+".json"))
}

func (e *cliEngine) buildArgs(audioPath, outputDir, language string) []string {
	args := []string{
		audioPath,
		"--model", e.model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--verbose", "False",
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if e.device != "" {
		args = append(args, "--device", e.device)
		if e.device == "cpu" {
			args = append(args, "--fp16", "False")
		}
	}
	return args
}

// Segment is one timed span of a whisper JSON transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type transcriptPayload struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// loadTranscriptText reads a whisper JSON result, preferring the top-level
// text and falling back to joined segment texts.
func loadTranscriptText(jsonPath string) (string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	var payload transcriptPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("parse whisper json: %w", err)
	}
	if text := strings.TrimSpace(payload.Text); text != "" {
		return text, nil
	}
	parts := make([]string, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func isCheckpoint(model string) bool {
	if !strings.HasSuffix(model, ".pt") {
		return false
	}
	info, err := os.Stat(model)
	return err == nil && !info.IsDir()
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		return output, ctx.Err()
	}
	return output, err
}

func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "; ")
}
