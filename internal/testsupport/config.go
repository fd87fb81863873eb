package testsupport

import (
	"path/filepath"
	"testing"

	"dupescan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TrashDir = filepath.Join(base, "trash")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithWorkers sets the hashing concurrency on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Workers = workers
	}
}

// WithLogging sets the log format and level on the test config.
func WithLogging(format, level string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Logging.Format = format
		cfg.Logging.Level = level
	}
}
