package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vidsum/internal/config"
	"vidsum/internal/media/audio"
	"vidsum/internal/media/ffprobe"
	"vidsum/internal/pipeline"
	"vidsum/internal/services"
	"vidsum/internal/summary"
)

type fakeRunner struct {
	prepareErr error
	runErr     error
	result     *pipeline.Result
	calls      []string
	videos     []string
	opts       []pipeline.Options
}

func (f *fakeRunner) Prepare(context.Context) error {
	f.calls = append(f.calls, "prepare")
	return f.prepareErr
}

func (f *fakeRunner) Run(_ context.Context, videoPath string, opts pipeline.Options) (*pipeline.Result, error) {
	f.calls = append(f.calls, "run")
	f.videos = append(f.videos, videoPath)
	f.opts = append(f.opts, opts)
	if f.runErr != nil {
		return nil, f.runErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &pipeline.Result{
		RunID:         "run-1",
		Title:         "Talk",
		VideoPath:     videoPath,
		Transcription: "hello world",
		Summary:       "a greeting",
		Duration:      1500 * time.Millisecond,
	}, nil
}

type factoryRecorder struct {
	runner  *fakeRunner
	configs []*config.Config
}

func (f *factoryRecorder) build(cfg *config.Config, _ *slog.Logger) (runner, error) {
	f.configs = append(f.configs, cfg)
	return f.runner, nil
}

// isolateEnv keeps the developer's config, .env, and environment out of the test.
func isolateEnv(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	for _, key := range []string{"OLLAMA_HOST", "VIDSUM_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "VIDSUM_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	work := filepath.Join(base, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	t.Chdir(work)
	return work
}

func writeVideo(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "talk.mp4")
	if err := os.WriteFile(path, []byte("not really a video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}

func runCLI(t *testing.T, factory pipelineFactory, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, factory)
	return stdout.String(), stderr.String(), code
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func TestMissingVideoBuildsNothing(t *testing.T) {
	work := isolateEnv(t)
	rec := &factoryRecorder{runner: &fakeRunner{}}

	missing := filepath.Join(work, "nope.mp4")
	stdout, stderr, code := runCLI(t, rec.build, missing)
	if code != services.ExitUsage {
		t.Fatalf("exit code = %d, want %d", code, services.ExitUsage)
	}
	requireContains(t, stderr, "Error: Video file not found at "+missing)
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
	if len(rec.configs) != 0 {
		t.Fatal("factory should not be called for a missing video")
	}

	_, stderr, code = runCLI(t, rec.build, work)
	if code != services.ExitUsage {
		t.Fatalf("directory exit code = %d", code)
	}
	requireContains(t, stderr, "Video file not found at "+work)
}

func TestSummarizePrintsBlocks(t *testing.T) {
	work := isolateEnv(t)
	video := writeVideo(t, work)
	rec := &factoryRecorder{runner: &fakeRunner{}}

	stdout, stderr, code := runCLI(t, rec.build, video)
	if code != services.ExitOK {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr)
	}
	want := "\n=== Transcription ===\nhello world\n\n=== Summary ===\na greeting\n"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
	if got := strings.Join(rec.runner.calls, ","); got != "prepare,run" {
		t.Fatalf("calls = %s", got)
	}
	if rec.runner.opts[0].KeepAudio {
		t.Fatal("cleanup should be enabled by default")
	}
	if rec.configs[0].Summarizer.Model != summary.DefaultModel {
		t.Fatalf("model = %q", rec.configs[0].Summarizer.Model)
	}
}

func TestSummarizeFlagOverrides(t *testing.T) {
	work := isolateEnv(t)
	video := writeVideo(t, work)
	rec := &factoryRecorder{runner: &fakeRunner{}}
	audioOut := filepath.Join(work, "keep", "audio.wav")

	_, stderr, code := runCLI(t, rec.build,
		video,
		"--model", "llama3",
		"--no-cleanup",
		"--audio-output", audioOut,
		"--whisper-model", "small",
		"--language", "en-US",
		"--work-dir", filepath.Join(work, "tmp"),
	)
	if code != services.ExitOK {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr)
	}
	cfg := rec.configs[0]
	if cfg.Summarizer.Model != "llama3" || cfg.Transcriber.Model != "small" || cfg.Transcriber.Language != "en-US" {
		t.Fatalf("flags not applied: %+v %+v", cfg.Summarizer, cfg.Transcriber)
	}
	if cfg.Paths.WorkDir != filepath.Join(work, "tmp") {
		t.Fatalf("work dir = %q", cfg.Paths.WorkDir)
	}
	opts := rec.runner.opts[0]
	if !opts.KeepAudio || opts.AudioPath != audioOut {
		t.Fatalf("unexpected run options %+v", opts)
	}
}

func TestSummarizeJSONOutput(t *testing.T) {
	work := isolateEnv(t)
	video := writeVideo(t, work)
	rec := &factoryRecorder{runner: &fakeRunner{}}

	stdout, _, code := runCLI(t, rec.build, video, "--json")
	if code != services.ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("decode json: %v (%q)", err, stdout)
	}
	if doc["transcription"] != "hello world" || doc["summary"] != "a greeting" || doc["run_id"] != "run-1" {
		t.Fatalf("unexpected document %v", doc)
	}
	if doc["duration_seconds"] != 1.5 {
		t.Fatalf("duration = %v", doc["duration_seconds"])
	}
	if _, ok := doc["audio_path"]; ok {
		t.Fatal("audio_path should be omitted when the file was cleaned up")
	}
}

func TestSummarizeErrorsExitFailure(t *testing.T) {
	tests := []struct {
		name    string
		runner  *fakeRunner
		wantMsg string
	}{
		{
			name: "pipeline",
			runner: &fakeRunner{runErr: services.Wrap(services.ErrPipeline, "transcribing", "", "",
				services.Wrap(services.ErrTranscription, "transcribe", "", "corrupt audio", nil))},
			wantMsg: "Error: pipeline error: transcribing: transcription error: transcribe: corrupt audio",
		},
		{
			name:    "provisioning",
			runner:  &fakeRunner{prepareErr: &summary.ProvisionError{Model: "mistral", Err: errors.New("connection refused")}},
			wantMsg: `Error: Error pulling Ollama model "mistral": connection refused. Make sure Ollama is running locally`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := isolateEnv(t)
			video := writeVideo(t, work)
			rec := &factoryRecorder{runner: tt.runner}

			stdout, stderr, code := runCLI(t, rec.build, video)
			if code != services.ExitFailure {
				t.Fatalf("exit code = %d, want %d", code, services.ExitFailure)
			}
			requireContains(t, stderr, tt.wantMsg)
			if strings.Contains(stdout, "=== Summary ===") {
				t.Fatalf("no result should be printed on failure, got %q", stdout)
			}
		})
	}
}

type stubTranscriber struct{}

func (stubTranscriber) Load(context.Context) error { return nil }

func (stubTranscriber) Transcribe(context.Context, string) (string, error) {
	return "hello world", nil
}

type stubSummarizer struct{}

func (stubSummarizer) Provision(context.Context) error { return nil }

func (stubSummarizer) Summarize(context.Context, string) (string, error) {
	return "a greeting", nil
}

func TestToolFailurePrintsSingleErrorLine(t *testing.T) {
	work := isolateEnv(t)
	video := writeVideo(t, work)

	factory := func(cfg *config.Config, logger *slog.Logger) (runner, error) {
		extractor := audio.NewExtractor(audio.Config{}, logger)
		extractor.WithProbe(func(context.Context, string, string) (ffprobe.Result, error) {
			return ffprobe.Result{Streams: []ffprobe.Stream{{Index: 0, CodecType: "audio", Channels: 2}}}, nil
		})
		extractor.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
			out := "[mov,mp4 @ 0x1] moov atom not found\n" + video + ": Invalid data found when processing input\n"
			return []byte(out), errors.New("exit status 1")
		})
		return pipeline.New(extractor, stubTranscriber{}, stubSummarizer{}, logger, pipeline.WithWorkDir(work)), nil
	}

	stdout, stderr, code := runCLI(t, factory, "--log-level", "error", video)
	if code != services.ExitFailure {
		t.Fatalf("exit code = %d, want %d (stderr=%s)", code, services.ExitFailure, stderr)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
	var errorLines []string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.HasPrefix(line, "Error: ") {
			errorLines = append(errorLines, line)
		}
	}
	if len(errorLines) != 1 {
		t.Fatalf("expected exactly one Error line, got %d:\n%s", len(errorLines), stderr)
	}
	for _, want := range []string{"extraction error", "moov atom not found", "Invalid data found when processing input"} {
		requireContains(t, errorLines[0], want)
	}
	if !strings.HasSuffix(stderr, errorLines[0]+"\n") {
		t.Fatalf("Error line should end stderr, got:\n%s", stderr)
	}
}

func TestSingleLine(t *testing.T) {
	got := singleLine("ffmpeg failed: first\r\n  second \n\nthird")
	if want := "ffmpeg failed: first; second; third"; got != want {
		t.Fatalf("singleLine = %q, want %q", got, want)
	}
}

func TestMissingVideoReportedBeforeConfig(t *testing.T) {
	work := isolateEnv(t)
	bad := filepath.Join(work, "bad.toml")
	if err := os.WriteFile(bad, []byte("[summarizer]\nmodle = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &factoryRecorder{runner: &fakeRunner{}}

	missing := filepath.Join(work, "nope.mp4")
	_, stderr, code := runCLI(t, rec.build, "--config", bad, missing)
	if code != services.ExitUsage {
		t.Fatalf("exit code = %d, want %d (stderr=%s)", code, services.ExitUsage, stderr)
	}
	requireContains(t, stderr, "Error: Video file not found at "+missing)

	video := writeVideo(t, work)
	_, stderr, code = runCLI(t, rec.build, "--config", bad, video)
	if code != services.ExitFailure {
		t.Fatalf("bad config with a real video: exit = %d (stderr=%s)", code, stderr)
	}
	if strings.Contains(stderr, "Video file not found") {
		t.Fatalf("config error expected, got %s", stderr)
	}
	if len(rec.configs) != 0 {
		t.Fatal("factory should not be called")
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"too many args", []string{"a.mp4", "b.mp4"}},
		{"unknown flag", []string{"--bogus"}},
		{"invalid engine", []string{"video.mp4", "--engine", "vosk"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := isolateEnv(t)
			writeVideo(t, work)
			if err := os.WriteFile(filepath.Join(work, "video.mp4"), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
			rec := &factoryRecorder{runner: &fakeRunner{}}
			_, stderr, code := runCLI(t, rec.build, tt.args...)
			if code != services.ExitUsage {
				t.Fatalf("exit code = %d, want %d (stderr=%s)", code, services.ExitUsage, stderr)
			}
			requireContains(t, stderr, "Error: ")
			if len(rec.configs) != 0 {
				t.Fatal("factory should not be called on usage errors")
			}
		})
	}
}

func TestEnvFileLoadedBeforeConfig(t *testing.T) {
	work := isolateEnv(t)
	video := writeVideo(t, work)
	os.Unsetenv("VIDSUM_MODEL")
	envFile := filepath.Join(work, "custom.env")
	if err := os.WriteFile(envFile, []byte("VIDSUM_MODEL=phi3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &factoryRecorder{runner: &fakeRunner{}}

	_, stderr, code := runCLI(t, rec.build, video, "--env-file", envFile)
	if code != services.ExitOK {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr)
	}
	if got := rec.configs[0].Summarizer.Model; got != "phi3" {
		t.Fatalf("model = %q, want phi3 from env file", got)
	}

	rec = &factoryRecorder{runner: &fakeRunner{}}
	_, _, code = runCLI(t, rec.build, video, "--env-file", envFile, "--model", "gemma")
	if code != services.ExitOK || rec.configs[0].Summarizer.Model != "gemma" {
		t.Fatalf("flag should win over env: code=%d model=%q", code, rec.configs[0].Summarizer.Model)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	work := isolateEnv(t)
	target := filepath.Join(work, "conf", "vidsum.toml")

	stdout, stderr, code := runCLI(t, nil, "config", "init", "--path", target)
	if code != services.ExitOK {
		t.Fatalf("config init exit %d: %s", code, stderr)
	}
	requireContains(t, stdout, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, stderr, code = runCLI(t, nil, "config", "init", "--path", target)
	if code != services.ExitUsage {
		t.Fatalf("second init exit = %d", code)
	}
	requireContains(t, stderr, "--overwrite")

	if _, _, code = runCLI(t, nil, "config", "init", "--path", target, "--overwrite"); code != services.ExitOK {
		t.Fatalf("overwrite exit = %d", code)
	}

	stdout, stderr, code = runCLI(t, nil, "config", "validate", "--config", target)
	if code != services.ExitOK {
		t.Fatalf("validate exit %d: %s", code, stderr)
	}
	requireContains(t, stdout, "Config path: "+target)
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	work := isolateEnv(t)
	path := filepath.Join(work, "bad.toml")
	if err := os.WriteFile(path, []byte("[summarizer]\nmodle = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, stderr, code := runCLI(t, nil, "config", "validate", "--config", path)
	if code != services.ExitFailure {
		t.Fatalf("exit = %d", code)
	}
	requireContains(t, stderr, "Error: ")
}

func TestCheckCommand(t *testing.T) {
	work := isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			_, _ = w.Write([]byte(`{"version":"0.6.0"}`))
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"mistral:latest"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	bin := t.TempDir()
	for _, name := range []string{"ffmpeg", "ffprobe", "whisper"} {
		if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", bin)

	cfgPath := filepath.Join(work, "vidsum.toml")
	content := fmt.Sprintf("[paths]\nwork_dir = %q\n\n[summarizer]\nbase_url = %q\n", work, srv.URL)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCLI(t, nil, "check", "--config", cfgPath)
	if code != services.ExitOK {
		t.Fatalf("check exit %d: %s\n%s", code, stderr, stdout)
	}
	for _, want := range []string{"Work directory", "FFmpeg", "Whisper", "Ollama", "version 0.6.0", "Summary model", "OK"} {
		requireContains(t, stdout, want)
	}
	if strings.Contains(stdout, "\x1b[") {
		t.Fatal("output to a buffer should not be colorized")
	}

	t.Setenv("PATH", t.TempDir())
	stdout, _, code = runCLI(t, nil, "check", "--config", cfgPath, "--json")
	if code != services.ExitFailure {
		t.Fatalf("expected failure without binaries, got %d", code)
	}
	var results []map[string]any
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("decode json: %v (%q)", err, stdout)
	}
	if len(results) == 0 {
		t.Fatal("expected check results")
	}
}
