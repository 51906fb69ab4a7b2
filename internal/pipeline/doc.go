// Package pipeline sequences a single video summarization run.
//
// A Pipeline owns the audio artifact for the duration of a run and drives the
// extractor, transcriber, and summarizer strictly in order. Each run gets a
// UUID run id that is attached to the context (and therefore every log line),
// moves through a small state machine, and either returns a complete Result or
// a single error tagged with services.ErrPipeline. The temporary WAV file is
// removed on every exit path unless the caller asks to keep it.
//
// Prepare performs the slow, explicit initialization of the collaborators
// (model load and Ollama provisioning) and returns their errors untouched.
package pipeline
