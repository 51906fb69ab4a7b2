// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties including disposition and tags
//
// Inspect executes ffprobe and returns the parsed Result. Helper methods on
// Result expose audio stream filtering and duration parsing.
package ffprobe
