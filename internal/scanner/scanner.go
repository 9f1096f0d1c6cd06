package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Scanner discovers candidate files beneath a set of input paths.
type Scanner struct {
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
}

// Extensions recognized during directory traversal. Explicitly named
// files bypass this filter entirely.
var candidateExts = map[string]bool{
	".py":    true,
	".ipynb": true,
}

func New(excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{}

	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		s.dirGlobs = append(s.dirGlobs, g)
	}

	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}

	return s, nil
}

// Discover resolves the input paths to an order-stable, deduplicated list
// of candidate files. Files named directly are trusted regardless of
// extension; directories are walked recursively with excluded directories
// (hidden trees by default) never descended into. Missing paths warn and
// are skipped.
func (s *Scanner) Discover(paths []string) []string {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			slog.Warn("input path not found, skipping", "path", path)
			continue
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Warn("walk error, skipping entry", "path", p, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			base := filepath.Base(p)
			if d.IsDir() {
				// Never descend past the walk root itself.
				if p != path {
					for _, g := range s.dirGlobs {
						if g.Match(base) {
							return filepath.SkipDir
						}
					}
				}
				return nil
			}

			if !candidateExts[filepath.Ext(p)] {
				return nil
			}

			for _, g := range s.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			add(p)
			return nil
		})
		if err != nil {
			slog.Warn("failed to walk directory", "path", path, "error", err)
		}
	}

	return files
}
