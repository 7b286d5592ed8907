// Package config carries the converter's static configuration tables
// and the thin override layers on top of the defaults: an optional TOML
// file and a handful of environment variables (loaded from .env by the
// entry points).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"netconvert/adapters/coercer"
)

// Config holds every tunable the pipeline and front-ends consume.
// Defaults cover the common case; nothing here is required.
type Config struct {
	// Parsing
	QuoteAware  bool
	SampleLines int

	// Coercion
	NumericColumns []string

	// Pareto cutoff selection
	CutoffTarget float64
	BandLow      float64
	BandHigh     float64

	// Output
	OutputPath string

	// Picker UI
	ListenAddr string
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		QuoteAware:     true,
		SampleLines:    5,
		NumericColumns: coercer.DefaultNumericColumns(),
		CutoffTarget:   80,
		BandLow:        78,
		BandHigh:       90,
		OutputPath:     "converted.xlsx",
		ListenAddr:     ":8090",
	}
}

// fileConfig mirrors the TOML file shape. Only keys present in the file
// override the incoming config.
type fileConfig struct {
	QuoteAware     bool     `toml:"quote_aware"`
	SampleLines    int      `toml:"sample_lines"`
	NumericColumns []string `toml:"numeric_columns"`
	CutoffTarget   float64  `toml:"cutoff_target"`
	BandLow        float64  `toml:"band_low"`
	BandHigh       float64  `toml:"band_high"`
	OutputPath     string   `toml:"output"`
	ListenAddr     string   `toml:"listen_addr"`
}

// LoadFile applies a TOML override file on top of cfg.
func LoadFile(path string, cfg Config) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("quote_aware") {
		cfg.QuoteAware = raw.QuoteAware
	}
	if meta.IsDefined("sample_lines") && raw.SampleLines > 0 {
		cfg.SampleLines = raw.SampleLines
	}
	if meta.IsDefined("numeric_columns") && len(raw.NumericColumns) > 0 {
		cfg.NumericColumns = raw.NumericColumns
	}
	if meta.IsDefined("cutoff_target") && raw.CutoffTarget > 0 {
		cfg.CutoffTarget = raw.CutoffTarget
	}
	if meta.IsDefined("band_low") && raw.BandLow > 0 {
		cfg.BandLow = raw.BandLow
	}
	if meta.IsDefined("band_high") && raw.BandHigh > 0 {
		cfg.BandHigh = raw.BandHigh
	}
	if meta.IsDefined("output") {
		if out := strings.TrimSpace(raw.OutputPath); out != "" {
			cfg.OutputPath = out
		}
	}
	if meta.IsDefined("listen_addr") {
		if addr := strings.TrimSpace(raw.ListenAddr); addr != "" {
			cfg.ListenAddr = addr
		}
	}

	if cfg.BandLow > cfg.BandHigh {
		return cfg, fmt.Errorf("load config %s: band_low %.1f exceeds band_high %.1f", path, cfg.BandLow, cfg.BandHigh)
	}

	return cfg, nil
}

// FromEnv applies environment overrides. The entry points load .env
// first so a dropped-in file behaves like exported variables.
func FromEnv(cfg Config) Config {
	if out := strings.TrimSpace(os.Getenv("NETCONVERT_OUTPUT")); out != "" {
		cfg.OutputPath = out
	}
	if addr := strings.TrimSpace(os.Getenv("NETCONVERT_ADDR")); addr != "" {
		cfg.ListenAddr = addr
	}
	return cfg
}
