package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dupescan/internal/fileutil"
	"dupescan/internal/logging"
)

// Mover relocates files into a holding directory.
type Mover struct {
	dir    string
	logger *slog.Logger
}

// NewMover returns a Mover targeting dir.
func NewMover(dir string, logger *slog.Logger) *Mover {
	return &Mover{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "trash"),
	}
}

// Dir returns the holding directory.
func (m *Mover) Dir() string { return m.dir }

// Move relocates path into the holding directory and returns the destination.
// Name collisions get a short unique suffix. When rename crosses filesystems
// the file is copied and the original removed.
func (m *Mover) Move(path string) (string, error) {
	if strings.TrimSpace(m.dir) == "" {
		return "", fmt.Errorf("trash directory not configured")
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create trash directory: %w", err)
	}

	target := filepath.Join(m.dir, filepath.Base(path))
	if _, err := os.Lstat(target); err == nil {
		suffix := uuid.NewString()[:8]
		target = filepath.Join(m.dir, filepath.Base(path)+"."+suffix)
	}

	if err := os.Rename(path, target); err != nil {
		// Rename fails across filesystems; fall back to a verified copy.
		if copyErr := fileutil.CopyFileVerified(path, target); copyErr != nil {
			return "", fmt.Errorf("move %s to trash: %w", path, err)
		}
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("remove original after copy: %w", err)
		}
	}

	m.logger.Info("moved to trash",
		logging.String(logging.FieldPath, path),
		logging.String("target", target),
	)
	return target, nil
}
