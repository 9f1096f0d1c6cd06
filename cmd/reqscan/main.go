package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"reqscan/internal/app"
	"reqscan/internal/config"
	"reqscan/internal/history"
	"reqscan/internal/observability"
	"reqscan/internal/watcher"
)

var (
	configPath     = flag.String("config", "./reqscan.toml", "Path to config file")
	output         = flag.String("o", "", "Output file path (default requirements.txt)")
	sitePackages   = flag.String("site-packages", "", "Comma-separated site-packages roots (overrides config and auto-detection)")
	emitUnresolved = flag.Bool("emit-unresolved", false, "Write unresolved import names as bare requirement lines")
	watchMode      = flag.Bool("watch", false, "Re-run on input changes")
	ui             = flag.Bool("ui", false, "Terminal UI mode (implies -watch)")
	historyPath    = flag.String("history", "", "Record run snapshots into this SQLite file")
	metricsAddr    = flag.String("metrics-addr", "", "Serve prometheus metrics on this address in watch mode")
	verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	version        = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("reqscan v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logOutput := os.Stderr
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: reqscan [flags] <path> [<path>...]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	paths := flag.Args()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *sitePackages != "" {
		cfg.SitePackages = splitList(*sitePackages)
	}
	if *emitUnresolved {
		cfg.Resolve.EmitUnresolved = true
	}
	if *historyPath != "" {
		cfg.History.Path = *historyPath
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			slog.Error("failed to open history store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	runOnce := func() (app.Summary, error) {
		summary, err := a.Run(paths)
		if err == nil && store != nil {
			if _, herr := store.SaveRun(history.Snapshot{
				Timestamp:     time.Now(),
				OutputPath:    summary.OutputPath,
				FileCount:     summary.FilesScanned,
				FailureCount:  summary.ParseFailures,
				ImportCount:   summary.ImportCount,
				ResolvedCount: summary.ResolvedCount,
				WrittenCount:  summary.WrittenCount,
			}); herr != nil {
				slog.Warn("failed to record run snapshot", "error", herr)
			}
		}
		return summary, err
	}

	summary, err := runOnce()
	if err != nil {
		if errors.Is(err, app.ErrNoInput) {
			fmt.Fprintln(os.Stderr, "no valid Python or notebook files found")
		} else {
			slog.Error("run failed", "error", err)
		}
		os.Exit(1)
	}

	if !*watchMode && !*ui {
		printSummary(summary)
		os.Exit(0)
	}

	w, err := watcher.New(cfg.Watch.Debounce, cfg.Watch.MaxScansPerSec, cfg.Exclude.Dirs, func() {
		s, err := runOnce()
		if err != nil {
			slog.Error("rescan failed", "error", err)
			return
		}
		notifyUI(s)
		if !*ui {
			printSummary(s)
		}
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Watch(paths); err != nil {
		slog.Error("failed to watch inputs", "error", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		observability.ServeMetrics(*metricsAddr)
	}

	if *ui {
		if err := runUI(summary); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
		return
	}

	printSummary(summary)
	select {}
}

func printSummary(s app.Summary) {
	fmt.Printf("%s %d dependencies written to %s (%d files scanned, %d skipped)\n",
		successStyle.Render("✓"),
		s.WrittenCount,
		pathStyle.Render(s.OutputPath),
		s.FilesScanned,
		s.ParseFailures,
	)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
