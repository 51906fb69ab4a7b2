package summary

import "vidsum/internal/services/ollama"

// SystemPrompt is the system message sent with every summary request.
const SystemPrompt = "You are a helpful assistant that summarizes text concisely."

const (
	userPromptPrefix = "Please provide a concise summary of the following text:\n\n"
	userPromptSuffix = "\n\nKeep the summary focused on the main points and key information."
)

// BuildMessages returns the chat messages used to summarize transcript.
func BuildMessages(transcript string) []ollama.Message {
	return []ollama.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: userPromptPrefix + transcript + userPromptSuffix},
	}
}
