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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, "personal_name", cfg.Names.Field)
	assert.Equal(t, []string{"@", "|", "!", "/"}, cfg.Names.Symbols)
	assert.Equal(t, []string{"NOOOO", "eeeee"}, cfg.Names.Suffixes)
	assert.Equal(t, "_", cfg.Flatten.Separator)
	assert.Equal(t, "2006-01-02 15:04:05", cfg.Timestamps.Layout)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestParse_Overrides(t *testing.T) {
	raw := []byte(`
names:
  field: customer_name
  symbols: ["#", ";"]
  suffixes: ["JUNK"]
flatten:
  separator: "."
timestamps:
  field: created_at
  layout: "2006-01-02T15:04:05"
  location: America/Chicago
quality:
  min_records: 10
  min_parse_success_rate: 0.9
  max_special_char_rate: 0.5
  max_null_rates:
    last_name: 0.1
`)

	cfg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "customer_name", cfg.Names.Field)
	assert.Equal(t, []string{"#", ";"}, cfg.Rules().Symbols)
	assert.Equal(t, []string{"JUNK"}, cfg.Rules().Suffixes)
	assert.Equal(t, ".", cfg.Flatten.Separator)
	assert.Equal(t, "America/Chicago", cfg.Location().String())

	thresholds := cfg.Thresholds()
	assert.Equal(t, int64(10), thresholds.MinRecords)
	assert.InDelta(t, 0.9, thresholds.MinParseSuccessRate, 1e-9)
	assert.InDelta(t, 0.1, thresholds.MaxNullRates["last_name"], 1e-9)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed yaml", "names: ["},
		{"empty name field", "names:\n  field: \"\""},
		{"empty symbol", "names:\n  symbols: [\"\"]"},
		{"empty suffix", "names:\n  suffixes: [\"\"]"},
		{"empty separator", "flatten:\n  separator: \"\""},
		{"missing layout", "timestamps:\n  field: ts\n  layout: \"\""},
		{"bad location", "timestamps:\n  location: Mars/Olympus"},
		{"rate above one", "quality:\n  min_parse_success_rate: 1.5"},
		{"negative rate", "quality:\n  max_special_char_rate: -0.1"},
		{"bad null rate", "quality:\n  max_null_rates:\n    last_name: 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("names:\n  field: customer_name\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "customer_name", cfg.Names.Field)
	// Unset sections keep their defaults.
	assert.Equal(t, "_", cfg.Flatten.Separator)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
