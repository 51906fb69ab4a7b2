// Package whisper converts extracted audio into plain text.
//
// Two engines sit behind one Service:
//   - "whisper": the openai-whisper command line tool, invoked once per file
//     with JSON output written to a scratch directory
//   - "openai": any OpenAI-compatible /v1/audio/transcriptions endpoint,
//     reached through github.com/sashabaranov/go-openai
//
// Load performs the slow, fallible initialization step (binary resolution and
// model validation, or endpoint reachability) and must succeed before
// Transcribe is called. Every failure carries services.ErrTranscription.
package whisper
