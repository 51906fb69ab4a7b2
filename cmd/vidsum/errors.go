package main

import (
	"fmt"

	"vidsum/internal/services"
)

// cliError is an error whose message is shown verbatim while still carrying
// a classification marker for exit code mapping.
type cliError struct {
	msg    string
	marker error
}

func (e *cliError) Error() string { return e.msg }

func (e *cliError) Unwrap() error { return e.marker }

func usageErrorf(format string, args ...any) error {
	return &cliError{msg: fmt.Sprintf(format, args...), marker: services.ErrValidation}
}

func videoNotFound(path string) error {
	return &cliError{msg: fmt.Sprintf("Video file not found at %s", path), marker: services.ErrNotFound}
}
