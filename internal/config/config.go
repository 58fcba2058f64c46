// Package config defines the poker board configuration and how it is loaded.
//
// Values are layered from low to high precedence: defaults from New, an
// optional YAML file, then POKER_BOARD_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Tokyo without a system zoneinfo database

	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/source"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

// DefaultSourceURL is the published listing sheet.
const DefaultSourceURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQzRfrIH1vQwDxdZqaoE8t7Q33O5Hxig_18xijgI77yRhfgGUOEUsioJ9zD08hoNuMklZXOxqmmejfq/pub?gid=1600443875&single=true&output=csv"

// Config contains process configuration.
type Config struct {
	// SourceURL is an http(s) URL or a local file path of the sheet.
	SourceURL string `koanf:"source_url"`

	// SourceFormat is auto, csv or html.
	SourceFormat string `koanf:"source_format"`

	// Timezone is the IANA zone the sheet's local times are written in.
	Timezone string `koanf:"timezone"`

	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// CacheTTL is how long the server reuses a loaded sheet.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CORSOrigins lists origins allowed to call the JSON API.
	CORSOrigins []string `koanf:"cors_origins"`

	Multiplier MultiplierConfig `koanf:"multiplier"`

	// DayRule is window (late registration inside a 30 hour span) or
	// calendar (date column equality).
	DayRule string `koanf:"day_rule"`

	DayWindowHours int `koanf:"day_window_hours"`

	// AreaKeywords and TitleKeywords are the preset toggles on the page.
	AreaKeywords  []string `koanf:"area_keywords"`
	TitleKeywords []string `koanf:"title_keywords"`
}

// MultiplierConfig tunes the prize multiplier.
type MultiplierConfig struct {
	CostBasis       string  `koanf:"cost_basis"`
	Ceiling         float64 `koanf:"ceiling"`
	SatelliteMarker string  `koanf:"satellite_marker"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		SourceURL:    DefaultSourceURL,
		SourceFormat: string(source.FormatAuto),
		Timezone:     "Asia/Tokyo",
		FetchTimeout: source.Timeout,
		CacheTTL:     source.DefaultCacheTTL,
		Addr:         ":8080",
		LogLevel:     "info",
		CORSOrigins:  []string{"*"},
		Multiplier: MultiplierConfig{
			CostBasis:       string(tournament.CostEntryPlusAddOn),
			Ceiling:         tournament.DefaultMultiplierCeiling,
			SatelliteMarker: tournament.DefaultSatelliteMarker,
		},
		DayRule:        string(filter.DayWindow),
		DayWindowHours: filter.DefaultWindowHours,
		AreaKeywords:   []string{"渋谷", "新宿", "池袋", "秋葉原", "上野", "六本木"},
		TitleKeywords:  []string{"サテ", "ターボ", "ディープ", "PKO"},
	}
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceURL) == "" {
		return fmt.Errorf("%w: source_url must not be empty", ErrInvalidConfig)
	}
	if _, err := source.ParseFormat(c.SourceFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := tournament.ParseCostBasis(c.Multiplier.CostBasis); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Multiplier.Ceiling <= 0 {
		return fmt.Errorf("%w: multiplier.ceiling must be positive", ErrInvalidConfig)
	}
	if _, err := filter.ParseDayRule(c.DayRule); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.DayWindowHours <= 0 {
		return fmt.Errorf("%w: day_window_hours must be positive", ErrInvalidConfig)
	}
	if c.FetchTimeout < 0 || c.CacheTTL < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Location loads Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Policy returns the multiplier policy. Call Validate first.
func (c *Config) Policy() tournament.MultiplierPolicy {
	basis, _ := tournament.ParseCostBasis(c.Multiplier.CostBasis)
	return tournament.MultiplierPolicy{
		CostBasis:       basis,
		Ceiling:         c.Multiplier.Ceiling,
		SatelliteMarker: c.Multiplier.SatelliteMarker,
	}
}

// FilterOptions returns the day bucketing options. Call Validate first.
func (c *Config) FilterOptions() filter.Options {
	rule, _ := filter.ParseDayRule(c.DayRule)
	return filter.Options{DayRule: rule, WindowHours: c.DayWindowHours}
}

// Format returns the sheet format. Call Validate first.
func (c *Config) Format() source.Format {
	f, _ := source.ParseFormat(c.SourceFormat)
	return f
}

// Level returns the log level. Call Validate first.
func (c *Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}
