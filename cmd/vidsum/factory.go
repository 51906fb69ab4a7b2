package main

import (
	"context"
	"log/slog"

	"vidsum/internal/config"
	"vidsum/internal/media/audio"
	"vidsum/internal/pipeline"
	"vidsum/internal/services/ollama"
	"vidsum/internal/services/whisper"
	"vidsum/internal/summary"
)

// runner is what the summarize command needs from a pipeline.
type runner interface {
	Prepare(ctx context.Context) error
	Run(ctx context.Context, videoPath string, opts pipeline.Options) (*pipeline.Result, error)
}

// pipelineFactory builds the collaborators for a run from resolved config.
type pipelineFactory func(cfg *config.Config, logger *slog.Logger) (runner, error)

func defaultPipelineFactory(cfg *config.Config, logger *slog.Logger) (runner, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	extractor := audio.NewExtractor(audio.Config{
		FFmpegBinary:  cfg.Media.FFmpegBinary,
		FFprobeBinary: cfg.Media.FFprobeBinary,
		SampleRate:    cfg.Media.SampleRate,
		Channels:      cfg.Media.Channels,
	}, logger)

	transcriber, err := whisper.NewService(whisper.FromConfig(cfg), logger)
	if err != nil {
		return nil, err
	}

	client := ollama.NewClient(
		ollama.Config{BaseURL: cfg.Summarizer.BaseURL, Timeout: cfg.SummarizerTimeout()},
		ollama.WithLogger(logger),
	)
	summarizer := summary.New(cfg.Summarizer.Model, client, logger)

	return pipeline.New(extractor, transcriber, summarizer, logger, pipeline.WithWorkDir(cfg.Paths.WorkDir)), nil
}
