package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vidsum/internal/config"
)

// Requirement defines an external binary vidsum relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Path is the resolved executable location when Available.
	Path   string
	Detail string
}

// Requirements lists the binaries the configured pipeline needs. The whisper
// CLI is only required for the local transcription engine.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	reqs := []Requirement{
		{Name: "FFmpeg", Command: cfg.Media.FFmpegBinary, Description: "Extracts the audio track from video files"},
		{Name: "FFprobe", Command: cfg.Media.FFprobeBinary, Description: "Inspects video containers for audio streams"},
	}
	if cfg.Transcriber.Engine == config.EngineWhisper {
		reqs = append(reqs, Requirement{
			Name:        "Whisper",
			Command:     cfg.Transcriber.Binary,
			Description: "Transcribes extracted audio locally",
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// Missing returns the required (non-optional) dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
