package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("import os\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"))
	writeFile(t, filepath.Join(root, "nb", "b.ipynb"))
	writeFile(t, filepath.Join(root, ".git", "hooks", "c.py"))
	writeFile(t, filepath.Join(root, ".venv", "lib", "d.py"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	s, err := New([]string{".*"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := s.Discover([]string{root})
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		rel, _ := filepath.Rel(root, f)
		if rel != "a.py" && rel != filepath.Join("nb", "b.ipynb") {
			t.Errorf("unexpected file discovered: %s", rel)
		}
	}
}

func TestDiscoverHiddenRootIsWalked(t *testing.T) {
	// Exclusion applies to subdirectories, not to the walk root the caller
	// explicitly asked for.
	base := t.TempDir()
	root := filepath.Join(base, ".project")
	writeFile(t, filepath.Join(root, "a.py"))

	s, err := New([]string{".*"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := s.Discover([]string{root})
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %v", files)
	}
}

func TestDiscoverTrustsExplicitFiles(t *testing.T) {
	root := t.TempDir()
	odd := filepath.Join(root, "script.pyw")
	writeFile(t, odd)

	s, err := New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := s.Discover([]string{odd})
	if len(files) != 1 || files[0] != filepath.Clean(odd) {
		t.Fatalf("expected explicit file included, got %v", files)
	}
}

func TestDiscoverMissingPathSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"))

	s, err := New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := s.Discover([]string{filepath.Join(root, "nope"), root})
	if len(files) != 1 {
		t.Fatalf("expected 1 file after skipping missing path, got %v", files)
	}
}

func TestDiscoverDeduplicates(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.py")
	writeFile(t, a)

	s, err := New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := s.Discover([]string{a, root, a})
	if len(files) != 1 {
		t.Fatalf("expected deduplicated result, got %v", files)
	}
}

func TestDiscoverFileExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.py"))
	writeFile(t, filepath.Join(root, "skip_test.py"))

	s, err := New(nil, []string{"*_test.py"})
	if err != nil {
		t.Fatal(err)
	}

	files := s.Discover([]string{root})
	if len(files) != 1 || filepath.Base(files[0]) != "keep.py" {
		t.Fatalf("expected only keep.py, got %v", files)
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	if _, err := New([]string{"["}, nil); err == nil {
		t.Error("expected error for invalid glob pattern")
	}
}
