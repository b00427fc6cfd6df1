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

// collector.go - Streaming data quality accumulation
package quality

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aaronlmathis/cardprep/core"
	"github.com/aaronlmathis/cardprep/transform"
)

// Collector accumulates data quality counters while records stream through a
// pipeline. It is safe for concurrent use; a single Collector can be tapped
// into multiple pipeline stages.
//
// The collector watches the fields produced by the name cleaning stage
// (had_special_char, parse_successful) when present, and tracks null values
// per field across all records.
type Collector struct {
	mu sync.Mutex

	startedAt         time.Time
	totalRecords      int64
	specialCharCount  int64
	parseSuccessCount int64
	parseFailureCount int64
	nullValueCounts   map[string]int64
}

// NewCollector creates a Collector with the observation clock started.
func NewCollector() *Collector {
	return &Collector{
		startedAt:       time.Now(),
		nullValueCounts: make(map[string]int64),
	}
}

// Observe records quality counters for a single record.
func (c *Collector) Observe(record core.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRecords++
	for field, value := range record {
		if value == nil {
			c.nullValueCounts[field]++
		}
	}

	if flagged, ok := record[transform.FieldHadSpecialChar].(bool); ok && flagged {
		c.specialCharCount++
	}
	if parsed, ok := record[transform.FieldParseSuccessful].(bool); ok {
		if parsed {
			c.parseSuccessCount++
		} else {
			c.parseFailureCount++
		}
	}
}

// Tap returns a pass-through transformer that observes each record without
// modifying it. Place it at the point in the pipeline whose output should be
// measured, typically after the name cleaning stage.
func (c *Collector) Tap() core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		c.Observe(record)
		return record, nil
	})
}

// Report produces an immutable snapshot of the collected counters, stamped
// with a unique run id. The collector keeps accumulating after the snapshot.
func (c *Collector) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	nulls := make(map[string]int64, len(c.nullValueCounts))
	for field, count := range c.nullValueCounts {
		nulls[field] = count
	}

	return Report{
		RunID:             uuid.NewString(),
		StartedAt:         c.startedAt,
		FinishedAt:        time.Now(),
		TotalRecords:      c.totalRecords,
		SpecialCharCount:  c.specialCharCount,
		ParseSuccessCount: c.parseSuccessCount,
		ParseFailureCount: c.parseFailureCount,
		NullValueCounts:   nulls,
	}
}

// Reset clears all counters and restarts the observation clock.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startedAt = time.Now()
	c.totalRecords = 0
	c.specialCharCount = 0
	c.parseSuccessCount = 0
	c.parseFailureCount = 0
	c.nullValueCounts = make(map[string]int64)
}
