package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateSummarizer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.SampleRate <= 0 {
		return errors.New("media.sample_rate must be positive")
	}
	if c.Media.Channels <= 0 {
		return errors.New("media.channels must be positive")
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	switch c.Transcriber.Engine {
	case EngineWhisper:
		if strings.TrimSpace(c.Transcriber.Model) == "" {
			return errors.New("transcriber.model must be set")
		}
	case EngineOpenAI:
		if err := validateHTTPURL("transcriber.base_url", c.Transcriber.BaseURL); err != nil {
			return err
		}
		if c.Transcriber.APIKey == "" && strings.HasPrefix(c.Transcriber.BaseURL, defaultOpenAIBaseURL) {
			return errors.New("transcriber.api_key is required for the hosted OpenAI endpoint. Set OPENAI_API_KEY or point transcriber.base_url at a local server")
		}
	default:
		return fmt.Errorf("transcriber.engine must be %q or %q, got %q", EngineWhisper, EngineOpenAI, c.Transcriber.Engine)
	}
	if c.Transcriber.TimeoutSeconds < 0 {
		return errors.New("transcriber.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateSummarizer() error {
	if strings.TrimSpace(c.Summarizer.Model) == "" {
		return errors.New("summarizer.model must be set")
	}
	if err := validateHTTPURL("summarizer.base_url", c.Summarizer.BaseURL); err != nil {
		return err
	}
	if c.Summarizer.TimeoutSeconds < 0 {
		return errors.New("summarizer.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, value)
	}
	return nil
}
