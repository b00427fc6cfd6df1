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

package readers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aaronlmathis/cardprep/core"
)

// JSONReaderError wraps structured error information for the JSON reader.
type JSONReaderError struct {
	Op  string
	Err error
}

func (e *JSONReaderError) Error() string {
	return fmt.Sprintf("json reader %s: %v", e.Op, e.Err)
}

func (e *JSONReaderError) Unwrap() error {
	return e.Err
}

// JSONReaderStats holds statistics about the JSON reader's progress.
type JSONReaderStats struct {
	RecordsRead  int64
	LinesSkipped int64
	ReadDuration time.Duration
	LastReadTime time.Time
}

// JSONReaderOptions configures the JSON reader.
type JSONReaderOptions struct {
	SkipBlankLines bool
	MaxLineBytes   int
}

// ReaderOptionJSON allows functional customization of JSONReader.
type ReaderOptionJSON func(*JSONReaderOptions)

// WithJSONSkipBlankLines controls whether blank lines are skipped rather than
// treated as malformed input.
func WithJSONSkipBlankLines(skip bool) ReaderOptionJSON {
	return func(o *JSONReaderOptions) { o.SkipBlankLines = skip }
}

// WithJSONMaxLineBytes raises the per-line buffer limit for feeds with very
// wide records.
func WithJSONMaxLineBytes(n int) ReaderOptionJSON {
	return func(o *JSONReaderOptions) { o.MaxLineBytes = n }
}

// JSONReader implements DataSource for line-delimited JSON transaction
// exports. Each line is one JSON object; nested objects are preserved as-is
// so a downstream flatten stage can lift them.
type JSONReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	stats   JSONReaderStats
	opts    JSONReaderOptions
}

// NewJSONReader creates a JSON lines reader with default or overridden
// options.
func NewJSONReader(r io.ReadCloser, options ...ReaderOptionJSON) *JSONReader {
	opts := JSONReaderOptions{
		SkipBlankLines: true,
		MaxLineBytes:   1024 * 1024,
	}
	for _, opt := range options {
		opt(&opts)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), opts.MaxLineBytes)

	return &JSONReader{
		scanner: scanner,
		closer:  r,
		opts:    opts,
	}
}

// Read implements the DataSource interface.
func (j *JSONReader) Read(ctx context.Context) (core.Record, error) {
	start := time.Now()

	select {
	case <-ctx.Done():
		return nil, &JSONReaderError{Op: "read", Err: ctx.Err()}
	default:
	}

	for j.scanner.Scan() {
		line := j.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 && j.opts.SkipBlankLines {
			j.stats.LinesSkipped++
			continue
		}

		var record core.Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, &JSONReaderError{Op: "unmarshal", Err: err}
		}

		j.stats.RecordsRead++
		j.stats.LastReadTime = time.Now()
		j.stats.ReadDuration += time.Since(start)
		return record, nil
	}

	if err := j.scanner.Err(); err != nil {
		return nil, &JSONReaderError{Op: "scan", Err: err}
	}
	return nil, io.EOF
}

// Close implements the DataSource interface.
func (j *JSONReader) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

// Stats returns JSON reader progress stats.
func (j *JSONReader) Stats() JSONReaderStats {
	return j.stats
}
