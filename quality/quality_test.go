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

package quality

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/cardprep/core"
	"github.com/aaronlmathis/cardprep/names"
	"github.com/aaronlmathis/cardprep/transform"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector()

	c.Observe(core.Record{"first_name": "Edward", "last_name": "Sanchez", "had_special_char": true, "parse_successful": true})
	c.Observe(core.Record{"first_name": "Madonna", "last_name": nil, "had_special_char": false, "parse_successful": false})
	c.Observe(core.Record{"first_name": nil, "last_name": nil, "had_special_char": true, "parse_successful": false})

	report := c.Report()
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, int64(3), report.TotalRecords)
	assert.Equal(t, int64(2), report.SpecialCharCount)
	assert.Equal(t, int64(1), report.ParseSuccessCount)
	assert.Equal(t, int64(2), report.ParseFailureCount)
	assert.Equal(t, int64(2), report.NullValueCounts["last_name"])
	assert.Equal(t, int64(1), report.NullValueCounts["first_name"])
}

// TestCollector_CountsCleanNameOutput feeds the collector records produced by
// the name cleaning stage itself, so the flag field names stay in lockstep
// with what CleanName merges in.
func TestCollector_CountsCleanNameOutput(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()
	clean := transform.CleanName(names.Default(), "personal_name")

	for _, raw := range []interface{}{"Edward@Sanchez", "Madonna", nil} {
		record, err := clean.Transform(ctx, core.Record{"personal_name": raw})
		require.NoError(t, err)
		c.Observe(record)
	}

	report := c.Report()
	assert.Equal(t, int64(3), report.TotalRecords)
	assert.Equal(t, int64(1), report.SpecialCharCount)
	assert.Equal(t, int64(1), report.ParseSuccessCount)
	assert.Equal(t, int64(2), report.ParseFailureCount)
	assert.Equal(t, int64(2), report.NullValueCounts[transform.FieldLastName])
}

func TestCollector_RecordsWithoutNameFields(t *testing.T) {
	c := NewCollector()

	// Records that never went through name cleaning only count toward
	// totals and null tracking.
	c.Observe(core.Record{"amount": 12.5})
	c.Observe(core.Record{"amount": nil})

	report := c.Report()
	assert.Equal(t, int64(2), report.TotalRecords)
	assert.Equal(t, int64(0), report.ParseSuccessCount)
	assert.Equal(t, int64(0), report.ParseFailureCount)
	assert.Equal(t, int64(1), report.NullValueCounts["amount"])
}

func TestCollector_TapPassesThrough(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()

	record := core.Record{"trans_num": "abc", "parse_successful": true}
	got, err := c.Tap().Transform(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Equal(t, int64(1), c.Report().TotalRecords)
}

func TestCollector_ConcurrentObserve(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Observe(core.Record{"parse_successful": true})
			}
		}()
	}
	wg.Wait()

	report := c.Report()
	assert.Equal(t, int64(800), report.TotalRecords)
	assert.Equal(t, int64(800), report.ParseSuccessCount)
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector()
	c.Observe(core.Record{"a": nil})
	c.Reset()

	report := c.Report()
	assert.Equal(t, int64(0), report.TotalRecords)
	assert.Empty(t, report.NullValueCounts)
}

func TestReport_Rates(t *testing.T) {
	report := Report{
		TotalRecords:      8,
		SpecialCharCount:  2,
		ParseSuccessCount: 6,
		ParseFailureCount: 2,
		NullValueCounts:   map[string]int64{"last_name": 2},
	}

	assert.InDelta(t, 0.75, report.ParseSuccessRate(), 1e-9)
	assert.InDelta(t, 0.25, report.SpecialCharRate(), 1e-9)
	assert.InDelta(t, 0.25, report.NullRate("last_name"), 1e-9)
	assert.Zero(t, report.NullRate("never_seen"))
}

func TestReport_EmptyRunRatesAreZero(t *testing.T) {
	var report Report
	assert.Zero(t, report.ParseSuccessRate())
	assert.Zero(t, report.SpecialCharRate())
	assert.Zero(t, report.NullRate("anything"))
}

func TestReport_Render(t *testing.T) {
	c := NewCollector()
	c.Observe(core.Record{"last_name": nil, "had_special_char": true, "parse_successful": false})
	c.Observe(core.Record{"last_name": "Smith", "had_special_char": false, "parse_successful": true})
	report := c.Report()

	var buf bytes.Buffer
	report.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, report.RunID)
	assert.Contains(t, out, "records:          2")
	assert.Contains(t, out, "special chars:    1 (50.0%)")
	assert.Contains(t, out, "parse successful: 1 (50.0%)")
	assert.Contains(t, out, "parse failed:     1")
	assert.Contains(t, out, "last_name")
}

func TestThresholds_Check(t *testing.T) {
	report := Report{
		TotalRecords:      100,
		SpecialCharCount:  30,
		ParseSuccessCount: 90,
		ParseFailureCount: 10,
		NullValueCounts:   map[string]int64{"last_name": 10},
	}

	tests := []struct {
		name       string
		thresholds Thresholds
		wantErr    string
	}{
		{
			name:       "all pass",
			thresholds: Thresholds{MinRecords: 50, MinParseSuccessRate: 0.8, MaxSpecialCharRate: 0.5, MaxNullRates: map[string]float64{"last_name": 0.2}},
		},
		{
			name:       "zero thresholds check nothing",
			thresholds: Thresholds{},
		},
		{
			name:       "too few records",
			thresholds: Thresholds{MinRecords: 1000},
			wantErr:    "min_records",
		},
		{
			name:       "parse success too low",
			thresholds: Thresholds{MinParseSuccessRate: 0.95},
			wantErr:    "min_parse_success_rate",
		},
		{
			name:       "special char rate too high",
			thresholds: Thresholds{MaxSpecialCharRate: 0.25},
			wantErr:    "max_special_char_rate",
		},
		{
			name:       "null rate too high",
			thresholds: Thresholds{MaxNullRates: map[string]float64{"last_name": 0.05}},
			wantErr:    "max_null_rate(last_name)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.thresholds.Check(report)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should mention %q", err, tt.wantErr)

			var terr *ThresholdError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.wantErr, terr.Check)
		})
	}
}
