package pydist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDistInfo(t *testing.T, root, dirName, name, version string, topLevel []string) {
	t.Helper()

	dir := filepath.Join(root, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	metadata := "Metadata-Version: 2.1\nName: " + name + "\nVersion: " + version + "\n\nLong description here.\n"
	metaFile := "METADATA"
	if filepath.Ext(dirName) == ".egg-info" {
		metaFile = "PKG-INFO"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, metaFile), []byte(metadata), 0o644))

	if len(topLevel) > 0 {
		content := ""
		for _, mod := range topLevel {
			content += mod + "\n"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "top_level.txt"), []byte(content), 0o644))
	}
}

func TestDiscoverAndResolve(t *testing.T) {
	root := t.TempDir()
	writeDistInfo(t, root, "numpy-1.23.1.dist-info", "numpy", "1.23.1", []string{"numpy"})
	writeDistInfo(t, root, "opencv_python-4.8.0.74.dist-info", "opencv-python", "4.8.0.74", []string{"cv2"})
	writeDistInfo(t, root, "Flask-2.2.5.dist-info", "Flask", "2.2.5", []string{"flask"})
	writeDistInfo(t, root, "legacy_pkg.egg-info", "legacy-pkg", "0.9", nil)

	reg := Discover([]string{root, filepath.Join(root, "does-not-exist")})
	require.Equal(t, 4, reg.Len())

	dist, ok := reg.Resolve("numpy")
	require.True(t, ok)
	require.Equal(t, "1.23.1", dist.Version)

	// top_level.txt links an import name to a differently named distribution.
	dist, ok = reg.Resolve("cv2")
	require.True(t, ok)
	require.Equal(t, "opencv-python", dist.Name)

	// Case-insensitive canonical matching.
	dist, ok = reg.Resolve("flask")
	require.True(t, ok)
	require.Equal(t, "Flask", dist.Name)

	// Separator normalization: import uses underscore, dist uses hyphen.
	dist, ok = reg.Resolve("legacy_pkg")
	require.True(t, ok)
	require.Equal(t, "0.9", dist.Version)

	_, ok = reg.Resolve("requests")
	require.False(t, ok)
}

func TestDiscoverIgnoresBrokenMetadata(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "broken-1.0.dist-info")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "METADATA"), []byte("no headers here\n"), 0o644))

	reg := Discover([]string{root})
	require.Equal(t, 0, reg.Len())
}

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"Flask":             "flask",
		"typing_extensions": "typing-extensions",
		"zope.interface":    "zope-interface",
		"a--b__c":           "a-b-c",
		"  Spaced  ":        "spaced",
	}
	for in, want := range cases {
		if got := Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStdlibSet(t *testing.T) {
	set := StdlibSet(nil, []string{"company_internal"})
	if _, ok := set["os"]; !ok {
		t.Error("expected os in default stdlib set")
	}
	if _, ok := set["company_internal"]; !ok {
		t.Error("expected extra name in stdlib set")
	}

	override := StdlibSet([]string{"only"}, nil)
	if _, ok := override["os"]; ok {
		t.Error("override should replace the built-in set")
	}
	if _, ok := override["only"]; !ok {
		t.Error("expected override name present")
	}
}
