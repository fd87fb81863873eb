package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"dupescan/internal/config"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(prev) })

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("no config file should exist at %s", path)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Scan.Workers != 0 {
		t.Fatalf("workers should default to automatic: %d", cfg.Scan.Workers)
	}
	if cfg.Paths.LogDir != filepath.Join(home, ".local/share/dupescan/logs") {
		t.Fatalf("unexpected log dir: %s", cfg.Paths.LogDir)
	}
	if cfg.Paths.TrashDir != filepath.Join(home, ".local/share/dupescan/trash") {
		t.Fatalf("unexpected trash dir: %s", cfg.Paths.TrashDir)
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[paths]
log_dir = "~/logs"
trash_dir = "~/trash"

[scan]
workers = 8

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatalf("expected config at %s to be found", resolved)
	}
	if cfg.Scan.Workers != 8 {
		t.Fatalf("workers = %d", cfg.Scan.Workers)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	home, _ := os.UserHomeDir()
	if cfg.Paths.LogDir != filepath.Join(home, "logs") {
		t.Fatalf("tilde not expanded: %s", cfg.Paths.LogDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := map[string]string{
		"bad format":     "[logging]\nformat = \"yaml\"\n",
		"bad level":      "[logging]\nlevel = \"loud\"\n",
		"negative pool":  "[scan]\nworkers = -1\n",
		"oversized pool": "[scan]\nworkers = 1000\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("%s: write: %v", name, err)
		}
		if _, _, _, err := config.Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	} else if !exists {
		t.Fatalf("sample config not found at %s", path)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TrashDir = filepath.Join(base, "trash")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.TrashDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing: %v", dir, err)
		}
	}
}
