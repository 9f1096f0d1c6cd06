package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Output       string   `toml:"output"`
	SitePackages []string `toml:"site_packages"`
	Exclude      Exclude  `toml:"exclude"`
	Python       Python   `toml:"python"`
	Resolve      Resolve  `toml:"resolve"`
	Watch        Watch    `toml:"watch"`
	History      History  `toml:"history"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Python struct {
	// ExtraStdlib extends the built-in standard-library module set.
	ExtraStdlib []string `toml:"extra_stdlib"`
	// StdlibOverride replaces the built-in set entirely when non-empty.
	StdlibOverride []string `toml:"stdlib_override"`
}

type Resolve struct {
	// EmitUnresolved writes import names with no installed distribution as
	// bare requirement lines instead of dropping them.
	EmitUnresolved bool `toml:"emit_unresolved"`
}

type Watch struct {
	Debounce       time.Duration `toml:"debounce"`
	MaxScansPerSec float64       `toml:"max_scans_per_sec"`
}

type History struct {
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Output == "" {
		cfg.Output = "requirements.txt"
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"__pycache__", "node_modules"}
	}
	// Hidden trees (VCS metadata, venvs) must never be descended into,
	// whatever exclusions the config lists.
	hasHidden := false
	for _, d := range cfg.Exclude.Dirs {
		if d == ".*" {
			hasHidden = true
			break
		}
	}
	if !hasHidden {
		cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, ".*")
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxScansPerSec == 0 {
		cfg.Watch.MaxScansPerSec = 2
	}
}
