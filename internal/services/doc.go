// Package services defines shared utilities consumed by the pipeline steps and
// their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Tagged error kinds (extraction, transcription, model provisioning,
//     summarization, pipeline) plus the Wrap helper that keeps both the kind and
//     the original cause reachable through errors.Is.
//   - Exit status mapping for the CLI.
//
// Use these helpers when wiring new step logic so error handling and
// observability stay uniform across the pipeline.
package services
