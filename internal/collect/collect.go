package collect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var errNotRegular = errors.New("not a regular file")

// Warning describes an input or directory entry that was skipped.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Paths resolves each input to an absolute path and expands directories
// recursively into the regular files beneath them, visited in lexical walk
// order. The returned list preserves first-seen order and contains no
// duplicates; a path contributed by an earlier input keeps its original
// position. Inputs or entries that are missing, unreadable, or not regular
// files are skipped and reported as warnings.
func Paths(inputs []string) ([]string, []Warning) {
	seen := make(map[string]struct{})
	var collected []string
	var warnings []Warning

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		collected = append(collected, path)
	}
	warn := func(path string, err error) {
		warnings = append(warnings, Warning{Path: path, Err: err})
	}

	for _, input := range inputs {
		if input == "" {
			continue
		}
		abs, err := filepath.Abs(input)
		if err != nil {
			warn(input, err)
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			warn(abs, err)
			continue
		}

		switch {
		case info.IsDir():
			_ = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, walkErr error) error {
				if walkErr != nil {
					warn(path, walkErr)
					if entry != nil && entry.IsDir() {
						return fs.SkipDir
					}
					return nil
				}
				if !entry.IsDir() && entry.Type().IsRegular() {
					add(path)
				}
				return nil
			})
		case info.Mode().IsRegular():
			add(abs)
		default:
			warn(abs, errNotRegular)
		}
	}

	return collected, warnings
}
