// Package config loads and validates the TOML configuration shared by all
// vorleser subcommands: the corpus directory layout, the external
// transcriber, the testament book partitions, and the error-rate thresholds
// driving analysis and purge decisions.
package config
