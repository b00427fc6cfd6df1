//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of CardPrep.
//
// CardPrep is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// CardPrep is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with CardPrep. If not, see https://www.gnu.org/licenses/.

// Package config loads CardPrep run configuration from YAML. All knobs the
// preparation pipeline consumes as data live here: the name cleaning rules,
// structure flattening separator, timestamp handling, and quality thresholds.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aaronlmathis/cardprep/names"
	"github.com/aaronlmathis/cardprep/quality"
)

// Config is the root of a CardPrep run configuration.
type Config struct {
	Names      NamesConfig      `yaml:"names"`
	Flatten    FlattenConfig    `yaml:"flatten"`
	Timestamps TimestampsConfig `yaml:"timestamps"`
	Quality    QualityConfig    `yaml:"quality"`
}

// NamesConfig configures the name normalizer. Symbols and suffixes are data,
// not code: feeds from different providers carry different corruption
// patterns.
type NamesConfig struct {
	Field    string   `yaml:"field"`    // Record field holding the raw name
	Symbols  []string `yaml:"symbols"`  // Characters treated as separator stand-ins
	Suffixes []string `yaml:"suffixes"` // Junk suffix tokens stripped from the end
}

// FlattenConfig configures nested structure flattening.
type FlattenConfig struct {
	Separator string `yaml:"separator"`
}

// TimestampsConfig configures timestamp parsing and normalization.
type TimestampsConfig struct {
	Field    string `yaml:"field"`
	Layout   string `yaml:"layout"`
	Location string `yaml:"location"` // IANA zone the zone-less values are expressed in
}

// QualityConfig configures run acceptance thresholds.
type QualityConfig struct {
	MinRecords          int64              `yaml:"min_records"`
	MinParseSuccessRate float64            `yaml:"min_parse_success_rate"`
	MaxSpecialCharRate  float64            `yaml:"max_special_char_rate"`
	MaxNullRates        map[string]float64 `yaml:"max_null_rates"`
}

// Default returns the configuration used when a knob is not set: the stock
// name cleaning rules, underscore flattening, and the common export timestamp
// layout with no acceptance thresholds.
func Default() Config {
	rules := names.DefaultRules()
	return Config{
		Names: NamesConfig{
			Field:    "personal_name",
			Symbols:  rules.Symbols,
			Suffixes: rules.Suffixes,
		},
		Flatten: FlattenConfig{Separator: "_"},
		Timestamps: TimestampsConfig{
			Field:    "trans_date_trans_time",
			Layout:   "2006-01-02 15:04:05",
			Location: "UTC",
		},
	}
}

// Load reads and parses a YAML configuration file, applying defaults for
// unset fields and validating the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration bytes, applying defaults for unset fields
// and validating the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Names.Field == "" {
		return fmt.Errorf("names.field is required")
	}
	for _, symbol := range c.Names.Symbols {
		if len(symbol) == 0 {
			return fmt.Errorf("names.symbols entries must be non-empty")
		}
	}
	for _, suffix := range c.Names.Suffixes {
		if suffix == "" {
			return fmt.Errorf("names.suffixes entries must be non-empty")
		}
	}
	if c.Flatten.Separator == "" {
		return fmt.Errorf("flatten.separator is required")
	}
	if c.Timestamps.Field != "" && c.Timestamps.Layout == "" {
		return fmt.Errorf("timestamps.layout is required when timestamps.field is set")
	}
	if c.Timestamps.Location != "" {
		if _, err := time.LoadLocation(c.Timestamps.Location); err != nil {
			return fmt.Errorf("invalid timestamps.location: %w", err)
		}
	}
	if c.Quality.MinParseSuccessRate < 0 || c.Quality.MinParseSuccessRate > 1 {
		return fmt.Errorf("quality.min_parse_success_rate must be within [0, 1]")
	}
	if c.Quality.MaxSpecialCharRate < 0 || c.Quality.MaxSpecialCharRate > 1 {
		return fmt.Errorf("quality.max_special_char_rate must be within [0, 1]")
	}
	for field, max := range c.Quality.MaxNullRates {
		if max < 0 || max > 1 {
			return fmt.Errorf("quality.max_null_rates[%s] must be within [0, 1]", field)
		}
	}
	return nil
}

// Rules builds the name normalizer rules from the configuration.
func (c Config) Rules() names.Rules {
	return names.Rules{Symbols: c.Names.Symbols, Suffixes: c.Names.Suffixes}
}

// Thresholds builds the quality acceptance thresholds from the configuration.
func (c Config) Thresholds() quality.Thresholds {
	return quality.Thresholds{
		MinRecords:          c.Quality.MinRecords,
		MinParseSuccessRate: c.Quality.MinParseSuccessRate,
		MaxSpecialCharRate:  c.Quality.MaxSpecialCharRate,
		MaxNullRates:        c.Quality.MaxNullRates,
	}
}

// Location resolves the configured IANA zone. Call Validate first; an
// unresolvable zone falls back to UTC here.
func (c Config) Location() *time.Location {
	if c.Timestamps.Location == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timestamps.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}
