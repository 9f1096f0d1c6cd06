package app

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"reqscan/internal/config"
	"reqscan/internal/manifest"
	"reqscan/internal/observability"
	"reqscan/internal/parser"
	"reqscan/internal/pydist"
	"reqscan/internal/scanerr"
	"reqscan/internal/scanner"
)

// ErrNoInput is the fatal no-usable-input condition; everything else the
// pipeline hits is recovered per file with a warning.
var ErrNoInput = errors.New("no valid input files found")

// App wires the pipeline: discover, parse, aggregate, resolve, write.
type App struct {
	cfg      *config.Config
	scanner  *scanner.Scanner
	parser   *parser.Parser
	registry *pydist.Registry
	stdlib   map[string]struct{}
}

// Summary reports what one run did.
type Summary struct {
	OutputPath    string
	FilesScanned  int
	ParseFailures int
	ImportCount   int
	ResolvedCount int
	WrittenCount  int
	Entries       []manifest.Entry
}

func New(cfg *config.Config) (*App, error) {
	s, err := scanner.New(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	roots := cfg.SitePackages
	if len(roots) == 0 {
		roots = pydist.DefaultRoots()
	}
	registry := pydist.Discover(roots)
	slog.Debug("indexed installed distributions", "roots", roots, "count", registry.Len())

	return &App{
		cfg:      cfg,
		scanner:  s,
		parser:   parser.New(parser.NewGrammarLoader()),
		registry: registry,
		stdlib:   pydist.StdlibSet(cfg.Python.StdlibOverride, cfg.Python.ExtraStdlib),
	}, nil
}

// Run executes the full pipeline over the given input paths and writes the
// manifest. Per-file failures warn and continue; the run only fails on
// empty input or a manifest write error.
func (a *App) Run(paths []string) (Summary, error) {
	start := time.Now()
	defer func() {
		observability.RunDuration.Observe(time.Since(start).Seconds())
	}()

	files := a.scanner.Discover(paths)
	if len(files) == 0 {
		return Summary{}, ErrNoInput
	}
	observability.FilesDiscovered.Add(float64(len(files)))

	summary := Summary{OutputPath: a.cfg.Output, FilesScanned: len(files)}

	// Aggregation is a monotone set union; repeated names and aliases
	// collapse here.
	aggregate := make(map[string]struct{})
	for _, file := range files {
		res := a.parser.ExtractFile(file)
		if res.Failed() {
			summary.ParseFailures++
			code := string(scanerr.CodeOf(res.Err))
			observability.ParseFailures.WithLabelValues(code).Inc()
			slog.Warn("skipping file", "path", res.Path, "error", res.Err)
			continue
		}
		for name := range res.Names {
			if _, isStdlib := a.stdlib[name]; isStdlib {
				continue
			}
			aggregate[name] = struct{}{}
		}
	}

	summary.ImportCount = len(aggregate)
	observability.ImportsAggregated.Set(float64(len(aggregate)))

	summary.Entries = a.resolve(aggregate)
	summary.ResolvedCount = 0
	for _, e := range summary.Entries {
		if e.Version != "" {
			summary.ResolvedCount++
		}
	}

	written, err := manifest.Write(a.cfg.Output, summary.Entries)
	if err != nil {
		return summary, err
	}
	summary.WrittenCount = written
	observability.ManifestEntries.Set(float64(written))

	return summary, nil
}

// resolve maps aggregated import names to installed distributions. A name
// that matches an installed distribution is emitted under the
// distribution's declared name; unresolved names are dropped unless the
// emit-unresolved policy keeps them as bare requirement lines.
func (a *App) resolve(aggregate map[string]struct{}) []manifest.Entry {
	names := make([]string, 0, len(aggregate))
	for name := range aggregate {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []manifest.Entry
	seen := make(map[string]bool)
	for _, name := range names {
		dist, ok := a.registry.Resolve(name)
		if !ok {
			observability.ResolveMisses.Inc()
			slog.Debug("no installed distribution for import", "name", name)
			if a.cfg.Resolve.EmitUnresolved {
				entries = append(entries, manifest.Entry{Name: name})
			}
			continue
		}

		observability.ResolveHits.Inc()
		key := pydist.Canonicalize(dist.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, manifest.Entry{Name: dist.Name, Version: dist.Version})
	}

	return entries
}
