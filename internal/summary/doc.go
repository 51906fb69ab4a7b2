// Package summary condenses a transcript with a chat model served by Ollama.
//
// Provision makes sure the configured model is present (pulling it when
// needed) and Summarize sends the transcript wrapped in a fixed two-message
// prompt. Provisioning failures carry services.ErrModelProvision; everything
// else carries services.ErrSummarization.
package summary
