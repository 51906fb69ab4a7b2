// Package ollama is a small client for the local Ollama HTTP API.
//
// It covers the endpoints vidsum needs: /api/pull (streamed NDJSON progress),
// /api/chat (non-streaming), /api/tags, and /api/version. Requests are
// issued once; callers decide what a failure means.
package ollama
