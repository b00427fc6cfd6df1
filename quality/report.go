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

// report.go - Quality report rendering and acceptance thresholds
package quality

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
)

// Report is a point-in-time summary of the quality counters collected over a
// pipeline run.
type Report struct {
	RunID             string           `json:"run_id"`
	StartedAt         time.Time        `json:"started_at"`
	FinishedAt        time.Time        `json:"finished_at"`
	TotalRecords      int64            `json:"total_records"`
	SpecialCharCount  int64            `json:"special_char_count"`
	ParseSuccessCount int64            `json:"parse_success_count"`
	ParseFailureCount int64            `json:"parse_failure_count"`
	NullValueCounts   map[string]int64 `json:"null_value_counts"`
}

// ParseSuccessRate returns the fraction of records whose name parse produced
// both components. An empty run reports 0.
func (r Report) ParseSuccessRate() float64 {
	return rate(r.ParseSuccessCount, r.TotalRecords)
}

// SpecialCharRate returns the fraction of records whose raw name carried a
// configured symbol. An empty run reports 0.
func (r Report) SpecialCharRate() float64 {
	return rate(r.SpecialCharCount, r.TotalRecords)
}

// NullRate returns the fraction of records with a null value in field.
func (r Report) NullRate(field string) float64 {
	return rate(r.NullValueCounts[field], r.TotalRecords)
}

// Duration returns the elapsed observation time.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func rate(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// Render writes a human-readable summary of the report to w. Output is
// colorized when w is a terminal; color handling follows the NO_COLOR
// convention automatically.
func (r Report) Render(w io.Writer) {
	header := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	header.Fprintf(w, "Data quality report %s\n", r.RunID)
	fmt.Fprintf(w, "  window:           %s .. %s (%s)\n",
		r.StartedAt.Format(time.RFC3339), r.FinishedAt.Format(time.RFC3339), r.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "  records:          %d\n", r.TotalRecords)
	fmt.Fprintf(w, "  special chars:    %d (%.1f%%)\n", r.SpecialCharCount, 100*r.SpecialCharRate())

	successLine := fmt.Sprintf("  parse successful: %d (%.1f%%)\n", r.ParseSuccessCount, 100*r.ParseSuccessRate())
	if r.ParseFailureCount == 0 {
		good.Fprint(w, successLine)
	} else {
		fmt.Fprint(w, successLine)
		bad.Fprintf(w, "  parse failed:     %d\n", r.ParseFailureCount)
	}

	if len(r.NullValueCounts) > 0 {
		fmt.Fprintln(w, "  null values:")
		fields := make([]string, 0, len(r.NullValueCounts))
		for field := range r.NullValueCounts {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(w, "    %-24s %d (%.1f%%)\n", field, r.NullValueCounts[field], 100*r.NullRate(field))
		}
	}
}

// Thresholds defines acceptance criteria applied to a finished run's Report.
// Zero-valued criteria are not checked.
type Thresholds struct {
	MinRecords          int64              // Minimum number of records processed
	MinParseSuccessRate float64            // Minimum fraction of successful name parses (0.0-1.0)
	MaxSpecialCharRate  float64            // Maximum fraction of special-char names (0.0-1.0, 0 = unchecked)
	MaxNullRates        map[string]float64 // Per-field maximum null fraction (0.0-1.0)
}

// ThresholdError reports a threshold violation with the measured and allowed
// values.
type ThresholdError struct {
	Check    string
	Measured float64
	Allowed  float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("quality threshold %s: measured %.4f, allowed %.4f", e.Check, e.Measured, e.Allowed)
}

// Check evaluates the report against the thresholds and returns the first
// violation found, or nil when the run is acceptable.
func (t Thresholds) Check(r Report) error {
	if t.MinRecords > 0 && r.TotalRecords < t.MinRecords {
		return &ThresholdError{Check: "min_records", Measured: float64(r.TotalRecords), Allowed: float64(t.MinRecords)}
	}
	if t.MinParseSuccessRate > 0 && r.ParseSuccessRate() < t.MinParseSuccessRate {
		return &ThresholdError{Check: "min_parse_success_rate", Measured: r.ParseSuccessRate(), Allowed: t.MinParseSuccessRate}
	}
	if t.MaxSpecialCharRate > 0 && r.SpecialCharRate() > t.MaxSpecialCharRate {
		return &ThresholdError{Check: "max_special_char_rate", Measured: r.SpecialCharRate(), Allowed: t.MaxSpecialCharRate}
	}

	fields := make([]string, 0, len(t.MaxNullRates))
	for field := range t.MaxNullRates {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if allowed := t.MaxNullRates[field]; r.NullRate(field) > allowed {
			return &ThresholdError{Check: "max_null_rate(" + field + ")", Measured: r.NullRate(field), Allowed: allowed}
		}
	}

	return nil
}
