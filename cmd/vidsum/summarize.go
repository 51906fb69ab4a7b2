package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vidsum/internal/logging"
	"vidsum/internal/pipeline"
)

func runSummarize(cmd *cobra.Command, ctx *commandContext, factory pipelineFactory, videoPath string) error {
	videoPath = strings.TrimSpace(videoPath)
	if info, err := os.Stat(videoPath); err != nil || info.IsDir() {
		return videoNotFound(videoPath)
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger(cmd)
	if err != nil {
		return err
	}

	p, err := factory(cfg, logger)
	if err != nil {
		return err
	}

	runCtx := cmd.Context()
	if err := p.Prepare(runCtx); err != nil {
		return err
	}

	result, err := p.Run(runCtx, videoPath, pipeline.Options{
		KeepAudio: !cfg.Pipeline.Cleanup,
		AudioPath: ctx.run.audioOutput,
	})
	if err != nil {
		return err
	}
	if result.AudioRetained {
		logger.Info("audio retained", logging.String("audio_path", result.AudioPath))
	}

	if ctx.run.jsonOutput {
		return writeJSON(cmd, newResultView(result))
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}
