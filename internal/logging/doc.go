// Package logging constructs the application's slog loggers and defines the
// standardized attribute keys used across components. Two output formats are
// supported: a compact console format for interactive use and JSON for log
// files or machine consumption.
package logging
