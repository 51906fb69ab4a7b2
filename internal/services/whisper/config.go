package whisper

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"vidsum/internal/config"
)

// Engine identifiers.
const (
	EngineCLI    = "whisper"
	EngineOpenAI = "openai"
)

// DefaultModel is the whisper model size used when none is configured.
const DefaultModel = "base"

// Config captures runtime settings for transcription.
type Config struct {
	Engine string
	// Model is the whisper model size for the CLI engine.
	Model string
	// RemoteModel is the model identifier sent to an OpenAI-compatible endpoint.
	RemoteModel string
	Binary      string
	Language    string
	Device      string
	BaseURL     string
	APIKey      string
	// Timeout bounds HTTP requests of the openai engine. Zero disables it.
	Timeout time.Duration
}

// FromConfig maps the [transcriber] section onto a service Config.
func FromConfig(cfg *config.Config) Config {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	t := cfg.Transcriber
	return Config{
		Engine:      t.Engine,
		Model:       t.Model,
		RemoteModel: t.RemoteModel,
		Binary:      t.Binary,
		Language:    t.Language,
		Device:      t.Device,
		BaseURL:     t.BaseURL,
		APIKey:      t.APIKey,
		Timeout:     cfg.TranscriberTimeout(),
	}
}

var knownModels = map[string]struct{}{
	"tiny": {}, "tiny.en": {},
	"base": {}, "base.en": {},
	"small": {}, "small.en": {},
	"medium": {}, "medium.en": {},
	"large": {}, "large-v1": {}, "large-v2": {}, "large-v3": {},
	"large-v3-turbo": {}, "turbo": {},
}

// KnownModel reports whether name is a model size the whisper CLI can download.
func KnownModel(name string) bool {
	_, ok := knownModels[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// NormalizeLanguage reduces a BCP-47 tag or ISO 639 code to the two-letter
// base language whisper expects. An empty input yields an empty result.
func NormalizeLanguage(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("language %q: %w", value, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("language %q: unknown base language", value)
	}
	return base.String(), nil
}
