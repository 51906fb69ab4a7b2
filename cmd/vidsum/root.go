package main

import (
	"github.com/spf13/cobra"

	"vidsum/internal/services"
)

func newRootCommand(factory pipelineFactory) *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:   "vidsum <video_path>",
		Short: "Summarize video content using a local speech model and Ollama",
		Long: "vidsum extracts the audio track of a video, transcribes it with whisper,\n" +
			"and asks a local Ollama model for a concise summary.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("accepts at most one video path, received %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The summarize path loads config itself after the video check.
			if cmd == cmd.Root() || shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("a video path is required (see vidsum --help)")
			}
			return runSummarize(cmd, ctx, factory, args[0])
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cliError{msg: err.Error(), marker: services.ErrValidation}
	})

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&ctx.global.configPath, "config", "c", "", "Configuration file path")
	persistent.StringVar(&ctx.global.envFile, "env-file", ctx.global.envFile, "Environment file loaded before configuration (missing file is ignored)")
	persistent.StringVar(&ctx.global.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	flags := rootCmd.Flags()
	flags.StringVar(&ctx.run.model, "model", "", "Ollama model name (default: mistral)")
	flags.BoolVar(&ctx.run.noCleanup, "no-cleanup", false, "Don't remove temporary files")
	flags.StringVar(&ctx.run.audioOutput, "audio-output", "", "Write extracted audio to this path instead of the work directory")
	flags.StringVar(&ctx.run.workDir, "work-dir", "", "Directory for temporary audio files")
	flags.StringVar(&ctx.run.engine, "engine", "", "Transcription engine (whisper or openai)")
	flags.StringVar(&ctx.run.whisperModel, "whisper-model", "", "Transcription model (size for whisper, model id for openai)")
	flags.StringVar(&ctx.run.language, "language", "", "Spoken language code (auto-detect when empty)")
	flags.BoolVar(&ctx.run.jsonOutput, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
