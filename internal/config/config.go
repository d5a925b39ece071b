// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and KDRAMA_ env vars over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath is the drama dataset file.
	DatasetPath string `koanf:"dataset_path"`

	// DatasetDelimiter is the single-character field separator of the dataset.
	DatasetDelimiter string `koanf:"dataset_delimiter"`

	// WatchDataset reloads the dataset when its file changes.
	WatchDataset bool `koanf:"watch_dataset"`

	// YearMin and YearMax bound the year slider when the dataset is empty.
	YearMin int `koanf:"year_min"`
	YearMax int `koanf:"year_max"`

	// TopN is the default ranking size.
	TopN int `koanf:"top_n"`

	// MaxLimit caps GET /api/ranking?limit.
	MaxLimit int `koanf:"max_limit"`

	// SearchDefaultLimit is the number of rows shown for an empty search.
	SearchDefaultLimit int `koanf:"search_default_limit"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DatasetPath:        "data/kdrama.csv",
		DatasetDelimiter:   ",",
		WatchDataset:       false,
		YearMin:            2003,
		YearMax:            2022,
		TopN:               15,
		MaxLimit:           100,
		SearchDefaultLimit: 10,
	}
}

// Delimiter returns DatasetDelimiter as a rune. Validate guarantees it is a
// single character.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.DatasetDelimiter)
	return r
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatasetPath == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case utf8.RuneCountInString(c.DatasetDelimiter) != 1:
		return fmt.Errorf("%w: dataset_delimiter must be a single character, got %q", ErrInvalidConfig, c.DatasetDelimiter)
	case c.YearMin > c.YearMax:
		return fmt.Errorf("%w: year_min %d > year_max %d", ErrInvalidConfig, c.YearMin, c.YearMax)
	case c.TopN < 1:
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	case c.MaxLimit < 1:
		return fmt.Errorf("%w: max_limit must be positive", ErrInvalidConfig)
	case c.SearchDefaultLimit < 1:
		return fmt.Errorf("%w: search_default_limit must be positive", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}
