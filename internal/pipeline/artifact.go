package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const artifactPrefix = "extracted_audio"

// artifact is the temporary WAV file owned by one run.
type artifact struct {
	path string
	lock *flock.Flock
}

// defaultArtifactPath returns <workDir>/extracted_audio-<runID>.wav.
func defaultArtifactPath(workDir, runID string) string {
	if strings.TrimSpace(workDir) == "" {
		workDir = "."
	}
	return filepath.Join(workDir, fmt.Sprintf("%s-%s.wav", artifactPrefix, runID))
}

// reserveArtifact picks the run's audio path. A caller-supplied path is shared
// state between processes, so it is held under an advisory lock until release.
func reserveArtifact(workDir, runID, override string) (*artifact, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		return &artifact{path: defaultArtifactPath(workDir, runID)}, nil
	}
	path, err := filepath.Abs(override)
	if err != nil {
		return nil, fmt.Errorf("resolve audio path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audio directory: %w", err)
	}
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire audio lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("audio path %s is in use by another run", path)
	}
	return &artifact{path: path, lock: lock}, nil
}

// remove deletes the audio file if it exists. It reports whether a file was removed.
func (a *artifact) remove() (bool, error) {
	if a == nil || a.path == "" {
		return false, nil
	}
	err := os.Remove(a.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (a *artifact) exists() bool {
	if a == nil || a.path == "" {
		return false
	}
	info, err := os.Stat(a.path)
	return err == nil && !info.IsDir()
}

// release drops the advisory lock and its lock file.
func (a *artifact) release() error {
	if a == nil || a.lock == nil {
		return nil
	}
	if err := a.lock.Unlock(); err != nil {
		return err
	}
	if err := os.Remove(a.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
