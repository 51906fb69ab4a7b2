// Package logging assembles structured slog loggers and formatting helpers used
// across vidsum.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stderr by default so stdout carries only command results). Context-aware
// helpers tag log lines with the pipeline run id and stage. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
