package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func pullServer(t *testing.T, status int, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pull" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req pullRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode pull request: %v", err)
		}
		if req.Model == "" || !req.Stream {
			t.Errorf("unexpected pull request %+v", req)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(status)
		for _, line := range lines {
			_, _ = io.WriteString(w, line+"\n")
		}
	}))
}

func TestPullSuccess(t *testing.T) {
	server := pullServer(t, http.StatusOK,
		`{"status":"pulling manifest"}`,
		`{"status":"pulling 6a0746a1ec1a","digest":"sha256:6a07","total":100,"completed":40}`,
		`{"status":"pulling 6a0746a1ec1a","digest":"sha256:6a07","total":100,"completed":100}`,
		``,
		`{"status":"verifying sha256 digest"}`,
		`{"status":"writing manifest"}`,
		`{"status":"success"}`,
	)
	defer server.Close()

	var seen []PullProgress
	err := NewClient(Config{BaseURL: server.URL}).Pull(context.Background(), "mistral", func(p PullProgress) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("Pull returned error: %v", err)
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 progress updates, got %d", len(seen))
	}
	if seen[1].Percent() != 40 || seen[0].Percent() != -1 {
		t.Fatalf("unexpected percent values %v / %v", seen[1].Percent(), seen[0].Percent())
	}
}

func TestPullErrorLine(t *testing.T) {
	server := pullServer(t, http.StatusOK,
		`{"status":"pulling manifest"}`,
		`{"error":"pull model manifest: file does not exist"}`,
	)
	defer server.Close()

	err := NewClient(Config{BaseURL: server.URL}).Pull(context.Background(), "no-such-model", nil)
	if err == nil || !strings.Contains(err.Error(), "file does not exist") {
		t.Fatalf("expected error line surfaced, got %v", err)
	}
}

func TestPullStreamWithoutSuccess(t *testing.T) {
	server := pullServer(t, http.StatusOK, `{"status":"pulling manifest"}`)
	defer server.Close()

	err := NewClient(Config{BaseURL: server.URL}).Pull(context.Background(), "mistral", nil)
	if err == nil || !strings.Contains(err.Error(), `"pulling manifest"`) {
		t.Fatalf("expected incomplete stream error, got %v", err)
	}
}

func TestPullHTTPError(t *testing.T) {
	server := pullServer(t, http.StatusInternalServerError, `{"error":"disk full"}`)
	defer server.Close()

	err := NewClient(Config{BaseURL: server.URL}).Pull(context.Background(), "mistral", nil)
	var statusErr *StatusError
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected http error, got %v", err)
	}
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected StatusError, got %v", err)
	}
}

func TestPullRequiresModel(t *testing.T) {
	if err := NewClient(Config{}).Pull(context.Background(), " ", nil); err == nil {
		t.Fatal("expected error for empty model")
	}
}
