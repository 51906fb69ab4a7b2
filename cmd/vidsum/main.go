package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"vidsum/internal/services"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, defaultPipelineFactory))
}

// run executes the command tree and maps the outcome to an exit status.
func run(args []string, stdout, stderr io.Writer, factory pipelineFactory) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if args == nil {
		// cobra falls back to os.Args on a nil slice.
		args = []string{}
	}
	cmd := newRootCommand(factory)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, "Error: interrupted")
			return services.ExitFailure
		}
		fmt.Fprintf(stderr, "Error: %s\n", singleLine(err.Error()))
		return services.ExitCode(err)
	}
	return services.ExitOK
}

// singleLine folds line breaks so an error always prints as one line.
func singleLine(msg string) string {
	lines := strings.FieldsFunc(msg, func(r rune) bool { return r == '\n' || r == '\r' })
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "; ")
}
