// Package config loads, normalizes, and validates the dupescan configuration
// file. Configuration is TOML; a missing file is not an error and yields the
// repository defaults.
package config
