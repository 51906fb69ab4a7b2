package services

import (
	"errors"
	"fmt"
	"strings"
)

// Step kinds. Each pipeline step tags its failures with exactly one of these.
var (
	ErrExtraction     = errors.New("extraction error")
	ErrTranscription  = errors.New("transcription error")
	ErrModelProvision = errors.New("model provision error")
	ErrSummarization  = errors.New("summarization error")
	ErrPipeline       = errors.New("pipeline error")
)

// Generic markers used by configuration and input validation.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
)

// Exit codes reported by the CLI.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var stepKinds = []error{ErrExtraction, ErrTranscription, ErrModelProvision, ErrSummarization}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above. The cause stays reachable through errors.Is and
// errors.As.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf returns the step kind carried by err, or ErrPipeline when err only
// carries the pipeline marker. Unknown errors yield nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range stepKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	if errors.Is(err, ErrPipeline) {
		return ErrPipeline
	}
	return nil
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
