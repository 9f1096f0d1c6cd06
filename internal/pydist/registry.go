package pydist

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Distribution is one installed Python package as recorded by its
// dist-info (or legacy egg-info) directory.
type Distribution struct {
	Name    string // as declared in METADATA, original punctuation
	Version string
}

// Registry indexes the installed distributions of one or more
// site-packages roots. It is built once per run and queried read-only.
type Registry struct {
	byCanonical map[string]Distribution
	// byImport maps importable top-level module names (from top_level.txt)
	// to their distribution. This is what links `import cv2` to
	// opencv-python when the names share nothing.
	byImport map[string]Distribution
}

// Discover scans the given site-packages roots. Roots that do not exist
// are skipped silently; a run against an empty environment is valid and
// simply resolves nothing.
func Discover(roots []string) *Registry {
	r := &Registry{
		byCanonical: make(map[string]Distribution),
		byImport:    make(map[string]Distribution),
	}

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			slog.Debug("skipping unreadable site-packages root", "path", root, "error", err)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			switch {
			case strings.HasSuffix(name, ".dist-info"):
				r.addInfoDir(filepath.Join(root, name), "METADATA")
			case strings.HasSuffix(name, ".egg-info"):
				r.addInfoDir(filepath.Join(root, name), "PKG-INFO")
			}
		}
	}

	return r
}

// DefaultRoots probes conventional site-packages locations without
// executing a Python interpreter. An activated virtualenv or conda
// environment wins; system locations are a best-effort fallback.
func DefaultRoots() []string {
	var roots []string

	appendGlobs := func(patterns ...string) {
		for _, pattern := range patterns {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				continue
			}
			roots = append(roots, matches...)
		}
	}

	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		appendGlobs(
			filepath.Join(venv, "lib", "python*", "site-packages"),
			filepath.Join(venv, "Lib", "site-packages"),
		)
	}
	if conda := os.Getenv("CONDA_PREFIX"); conda != "" {
		appendGlobs(filepath.Join(conda, "lib", "python*", "site-packages"))
	}
	if len(roots) > 0 {
		return roots
	}

	if home, err := os.UserHomeDir(); err == nil {
		appendGlobs(filepath.Join(home, ".local", "lib", "python*", "site-packages"))
	}
	appendGlobs(
		"/usr/lib/python3/dist-packages",
		"/usr/lib/python*/site-packages",
		"/usr/local/lib/python*/site-packages",
	)

	return roots
}

// Resolve maps an import name to an installed distribution. top_level.txt
// entries take precedence; otherwise the import name is matched against
// canonical distribution names (case and separator insensitive).
func (r *Registry) Resolve(importName string) (Distribution, bool) {
	if dist, ok := r.byImport[strings.ToLower(importName)]; ok {
		return dist, true
	}
	dist, ok := r.byCanonical[Canonicalize(importName)]
	return dist, ok
}

// Len reports the number of indexed distributions.
func (r *Registry) Len() int {
	return len(r.byCanonical)
}

func (r *Registry) addInfoDir(dir, metadataFile string) {
	name, version := readMetadata(filepath.Join(dir, metadataFile))
	if name == "" || version == "" {
		return
	}

	dist := Distribution{Name: name, Version: version}
	r.byCanonical[Canonicalize(name)] = dist

	for _, mod := range readTopLevel(filepath.Join(dir, "top_level.txt")) {
		r.byImport[strings.ToLower(mod)] = dist
	}
}

// readMetadata extracts the Name and Version headers from a METADATA or
// PKG-INFO file. Headers end at the first blank line; the long description
// that follows is never read.
func readMetadata(path string) (name, version string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "Name:"); ok {
			name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Version:"); ok {
			version = strings.TrimSpace(v)
		}
		if name != "" && version != "" {
			break
		}
	}

	return name, version
}

func readTopLevel(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var modules []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			modules = append(modules, line)
		}
	}
	return modules
}
