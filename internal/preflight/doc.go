// Package preflight provides readiness checks for the binaries, directories,
// and services a vidsum run depends on.
//
// The "vidsum check" command renders the results as a table. Checks never
// mutate state: the Ollama model check reports a missing model instead of
// pulling it.
package preflight
