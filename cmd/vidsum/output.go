package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vidsum/internal/pipeline"
)

// resultView is the --json document.
type resultView struct {
	RunID           string  `json:"run_id"`
	Title           string  `json:"title"`
	VideoPath       string  `json:"video_path"`
	AudioPath       string  `json:"audio_path,omitempty"`
	AudioRetained   bool    `json:"audio_retained"`
	Transcription   string  `json:"transcription"`
	Summary         string  `json:"summary"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func newResultView(result *pipeline.Result) resultView {
	view := resultView{
		RunID:           result.RunID,
		Title:           result.Title,
		VideoPath:       result.VideoPath,
		AudioRetained:   result.AudioRetained,
		Transcription:   result.Transcription,
		Summary:         result.Summary,
		DurationSeconds: result.Duration.Seconds(),
	}
	if result.AudioRetained {
		view.AudioPath = result.AudioPath
	}
	return view
}

func printResult(out io.Writer, result *pipeline.Result) {
	fmt.Fprintln(out, "\n=== Transcription ===")
	fmt.Fprintln(out, result.Transcription)
	fmt.Fprintln(out, "\n=== Summary ===")
	fmt.Fprintln(out, result.Summary)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
