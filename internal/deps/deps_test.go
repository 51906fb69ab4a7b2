package deps

import (
	"os"
	"path/filepath"
	"testing"

	"vidsum/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Optional", Command: "also-not-present", Optional: true},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[3].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[3].Detail)
	}

	missing := Missing(results)
	if len(missing) != 2 || missing[0].Name != "Missing" || missing[1].Name != "Blank" {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
}

func TestRequirementsFollowEngine(t *testing.T) {
	cfg := config.Default()
	reqs := Requirements(&cfg)
	if len(reqs) != 3 || reqs[2].Command != "whisper" {
		t.Fatalf("expected ffmpeg, ffprobe and whisper, got %#v", reqs)
	}

	cfg.Transcriber.Engine = config.EngineOpenAI
	reqs = Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected whisper to be dropped for remote engine, got %#v", reqs)
	}
	for _, req := range reqs {
		if req.Name == "Whisper" {
			t.Fatal("unexpected whisper requirement")
		}
	}

	if got := Requirements(nil); len(got) != 3 {
		t.Fatalf("nil config should use defaults, got %#v", got)
	}
}
