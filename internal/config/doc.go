// Package config loads, normalizes, and validates vidsum configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies environment overrides such as
// OLLAMA_HOST, VIDSUM_MODEL, and OPENAI_API_KEY. A dotenv file can be merged
// into the environment first through LoadEnvFile.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical engine names, and clear validation errors.
package config
