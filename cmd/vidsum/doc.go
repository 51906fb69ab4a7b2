// Package main hosts the vidsum CLI entrypoint and command graph.
//
// The root command takes a single video path, runs the extraction,
// transcription, and summary pipeline, and prints both texts to stdout. The
// check subcommand renders a readiness table for the external tools and the
// Ollama service; the config subcommands scaffold and validate the TOML file.
//
// Configuration is resolved once per invocation: the .env file is loaded
// first, then the TOML file with environment overrides, then command-line
// flags. Logs go to stderr.
package main
