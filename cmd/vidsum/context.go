package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidsum/internal/config"
	"vidsum/internal/logging"
	"vidsum/internal/services"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
}

// runFlags override configuration for a summarization run.
type runFlags struct {
	model        string
	noCleanup    bool
	audioOutput  string
	workDir      string
	engine       string
	whisperModel string
	language     string
	jsonOutput   bool
}

type commandContext struct {
	global *globalFlags
	run    *runFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{
		global: &globalFlags{envFile: config.DefaultEnvFile},
		run:    &runFlags{},
	}
}

// ensureConfig loads .env, the TOML file, and flag overrides exactly once.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if envFile := strings.TrimSpace(c.global.envFile); envFile != "" {
			if _, err := config.LoadEnvFile(envFile); err != nil {
				c.configErr = services.Wrap(services.ErrConfiguration, "", "env file", "", err)
				return
			}
		}
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.global.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = services.Wrap(services.ErrValidation, "", "flags", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if level := strings.TrimSpace(c.global.logLevel); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	r := c.run
	if model := strings.TrimSpace(r.model); model != "" {
		cfg.Summarizer.Model = model
	}
	if r.noCleanup {
		cfg.Pipeline.Cleanup = false
	}
	if dir := strings.TrimSpace(r.workDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return fmt.Errorf("resolve work dir: %w", err)
		}
		cfg.Paths.WorkDir = expanded
	}
	if engine := strings.TrimSpace(r.engine); engine != "" {
		cfg.Transcriber.Engine = strings.ToLower(engine)
	}
	if model := strings.TrimSpace(r.whisperModel); model != "" {
		if cfg.Transcriber.Engine == config.EngineOpenAI {
			cfg.Transcriber.RemoteModel = model
		} else {
			cfg.Transcriber.Model = model
		}
	}
	if lang := strings.TrimSpace(r.language); lang != "" {
		cfg.Transcriber.Language = lang
	}
	return nil
}

// ensureLogger builds the stderr logger from the resolved configuration.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: cmd.ErrOrStderr(),
		})
	})
	return c.logger, c.loggerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
