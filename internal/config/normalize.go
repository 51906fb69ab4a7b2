package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMedia()
	c.normalizeTranscriber()
	if err := c.normalizeSummarizer(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMedia() {
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	c.Media.FFprobeBinary = strings.TrimSpace(c.Media.FFprobeBinary)
	if c.Media.FFprobeBinary == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Engine = strings.ToLower(strings.TrimSpace(c.Transcriber.Engine))
	if c.Transcriber.Engine == "" {
		c.Transcriber.Engine = defaultTranscriberEngine
	}
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = defaultWhisperModel
	}
	c.Transcriber.RemoteModel = strings.TrimSpace(c.Transcriber.RemoteModel)
	if c.Transcriber.RemoteModel == "" {
		c.Transcriber.RemoteModel = defaultRemoteModel
	}
	c.Transcriber.Binary = strings.TrimSpace(c.Transcriber.Binary)
	if c.Transcriber.Binary == "" {
		c.Transcriber.Binary = defaultWhisperBinary
	}
	c.Transcriber.Language = strings.TrimSpace(c.Transcriber.Language)
	c.Transcriber.Device = strings.ToLower(strings.TrimSpace(c.Transcriber.Device))

	if value, ok := lookupEnv("OPENAI_API_KEY"); ok {
		c.Transcriber.APIKey = value
	}
	c.Transcriber.APIKey = strings.TrimSpace(c.Transcriber.APIKey)
	if value, ok := lookupEnv("OPENAI_BASE_URL"); ok {
		c.Transcriber.BaseURL = value
	}
	c.Transcriber.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcriber.BaseURL), "/")
	if c.Transcriber.BaseURL == "" {
		c.Transcriber.BaseURL = defaultOpenAIBaseURL
	}
}

func (c *Config) normalizeSummarizer() error {
	if value, ok := lookupEnv("VIDSUM_MODEL"); ok {
		c.Summarizer.Model = value
	}
	c.Summarizer.Model = strings.TrimSpace(c.Summarizer.Model)
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = defaultSummarizerModel
	}

	if value, ok := lookupEnv("OLLAMA_HOST"); ok {
		c.Summarizer.BaseURL = value
	}
	base, err := normalizeOllamaHost(c.Summarizer.BaseURL)
	if err != nil {
		return fmt.Errorf("summarizer.base_url: %w", err)
	}
	c.Summarizer.BaseURL = base
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := lookupEnv("VIDSUM_LOG_LEVEL"); ok {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeOllamaHost accepts the same shapes as OLLAMA_HOST: a bare host, a
// host:port pair, or a full URL. A bare host gets http and port 11434; an
// explicit scheme gets that scheme's well-known port.
func normalizeOllamaHost(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultOllamaBaseURL, nil
	}
	port := defaultOllamaPort
	scheme, _, ok := strings.Cut(raw, "://")
	switch {
	case !ok:
		raw = "http://" + raw
	case scheme == "http":
		port = "80"
	case scheme == "https":
		port = "443"
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	if parsed.Port() == "" {
		parsed.Host = net.JoinHostPort(parsed.Hostname(), port)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String(), nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
