package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reqscan/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeDistInfo(t *testing.T, sitePackages, dirName, name, version string) {
	t.Helper()
	dir := filepath.Join(sitePackages, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	metadata := "Metadata-Version: 2.1\nName: " + name + "\nVersion: " + version + "\n\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "METADATA"), []byte(metadata), 0o644))
}

func testConfig(t *testing.T, sitePackages, output string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.SitePackages = []string{sitePackages}
	cfg.Output = output
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	src := t.TempDir()
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "requirements.txt")

	writeFile(t, filepath.Join(src, "a.py"), "import numpy as np\n")
	writeFile(t, filepath.Join(src, "b.py"), "from pandas import DataFrame\n")
	writeFile(t, filepath.Join(src, "c.py"), "import numpy\nimport os, sys\n")
	writeFile(t, filepath.Join(src, ".git", "hook.py"), "import hidden_dep\n")
	writeFile(t, filepath.Join(src, "broken.py"), "x = \n")

	writeDistInfo(t, site, "numpy-1.23.1.dist-info", "numpy", "1.23.1")
	writeDistInfo(t, site, "pandas-1.4.2.dist-info", "pandas", "1.4.2")
	writeDistInfo(t, site, "hidden_dep-9.9.dist-info", "hidden_dep", "9.9")

	a, err := New(testConfig(t, site, out))
	require.NoError(t, err)

	summary, err := a.Run([]string{src})
	require.NoError(t, err)

	require.Equal(t, 4, summary.FilesScanned)
	require.Equal(t, 1, summary.ParseFailures)
	require.Equal(t, 2, summary.WrittenCount)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "numpy==1.23.1\npandas==1.4.2\n", string(data))
}

func TestRunDeterministic(t *testing.T) {
	src := t.TempDir()
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "requirements.txt")

	writeFile(t, filepath.Join(src, "a.py"), "import flask\nimport numpy\n")
	writeDistInfo(t, site, "Flask-2.2.5.dist-info", "Flask", "2.2.5")
	writeDistInfo(t, site, "numpy-1.23.1.dist-info", "numpy", "1.23.1")

	a, err := New(testConfig(t, site, out))
	require.NoError(t, err)

	_, err = a.Run([]string{src})
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = a.Run([]string{src})
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
	require.Equal(t, "Flask==2.2.5\nnumpy==1.23.1\n", string(first))
}

func TestRunStdlibAndUnresolvedDropped(t *testing.T) {
	src := t.TempDir()
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "requirements.txt")

	// os is stdlib, requests is not installed: both must vanish.
	nb := `{"cells": [{"cell_type": "code", "source": ["import os, requests\n"]}], "nbformat": 4}`
	writeFile(t, filepath.Join(src, "nb.ipynb"), nb)

	a, err := New(testConfig(t, site, out))
	require.NoError(t, err)

	summary, err := a.Run([]string{src})
	require.NoError(t, err)
	require.Equal(t, 0, summary.WrittenCount)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "", string(data))
}

func TestRunEmitUnresolvedPolicy(t *testing.T) {
	src := t.TempDir()
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "requirements.txt")

	writeFile(t, filepath.Join(src, "a.py"), "import requests\n")

	cfg := testConfig(t, site, out)
	cfg.Resolve.EmitUnresolved = true

	a, err := New(cfg)
	require.NoError(t, err)

	summary, err := a.Run([]string{src})
	require.NoError(t, err)
	require.Equal(t, 1, summary.WrittenCount)
	require.Equal(t, 0, summary.ResolvedCount)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "requests\n", string(data))
}

func TestRunNoInput(t *testing.T) {
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "requirements.txt")

	a, err := New(testConfig(t, site, out))
	require.NoError(t, err)

	_, err = a.Run([]string{filepath.Join(t.TempDir(), "missing")})
	require.ErrorIs(t, err, ErrNoInput)
}

func TestRunAliasedAndRepeatedImportsCollapse(t *testing.T) {
	src := t.TempDir()
	site := t.TempDir()
	out := filepath.Join(t.TempDir(), "requirements.txt")

	writeFile(t, filepath.Join(src, "a.py"), "import numpy as np\n")
	writeFile(t, filepath.Join(src, "b.py"), "import numpy\nfrom numpy.linalg import norm\n")
	writeDistInfo(t, site, "numpy-1.23.1.dist-info", "numpy", "1.23.1")

	a, err := New(testConfig(t, site, out))
	require.NoError(t, err)

	summary, err := a.Run([]string{src})
	require.NoError(t, err)
	require.Equal(t, 1, summary.WrittenCount)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "numpy==1.23.1\n", string(data))
}
