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

package writers

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/apache/arrow/go/v12/parquet"
	"github.com/apache/arrow/go/v12/parquet/compress"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"

	"github.com/aaronlmathis/cardprep/core"
)

// ParquetWriterError wraps Parquet-specific write errors with context about
// the operation.
type ParquetWriterError struct {
	Op  string // Operation that failed (e.g., "open_file", "schema", "write_batch")
	Err error  // Underlying error
}

func (e *ParquetWriterError) Error() string {
	return fmt.Sprintf("parquet writer %s: %v", e.Op, e.Err)
}

func (e *ParquetWriterError) Unwrap() error {
	return e.Err
}

// ParquetWriterStats holds statistics about the Parquet writer's performance.
type ParquetWriterStats struct {
	RecordsWritten  int64
	BatchesWritten  int64
	FlushDuration   time.Duration
	LastFlushTime   time.Time
	NullValueCounts map[string]int64
}

// ParquetWriterOptions configures the Parquet writer.
type ParquetWriterOptions struct {
	BatchSize    int64                // Number of records to buffer before writing
	Schema       *arrow.Schema        // Pre-defined schema (optional, else inferred)
	Compression  compress.Compression // Compression algorithm
	FieldOrder   []string             // Explicit column ordering
	RowGroupSize int64                // Maximum rows per row group
}

// WriterOptionParquet represents a configuration function for ParquetWriterOptions.
type WriterOptionParquet func(*ParquetWriterOptions)

// WithParquetBatchSize sets the number of records to buffer before writing a batch.
func WithParquetBatchSize(size int64) WriterOptionParquet {
	return func(opts *ParquetWriterOptions) {
		opts.BatchSize = size
	}
}

// WithParquetCompression sets the Parquet compression algorithm.
func WithParquetCompression(compression compress.Compression) WriterOptionParquet {
	return func(opts *ParquetWriterOptions) {
		opts.Compression = compression
	}
}

// WithParquetSchema supplies a pre-defined Arrow schema instead of inferring
// one from the first record.
func WithParquetSchema(schema *arrow.Schema) WriterOptionParquet {
	return func(opts *ParquetWriterOptions) {
		opts.Schema = schema
	}
}

// WithParquetFieldOrder sets the explicit column ordering for the schema.
func WithParquetFieldOrder(fields ...string) WriterOptionParquet {
	return func(opts *ParquetWriterOptions) {
		opts.FieldOrder = make([]string, len(fields))
		copy(opts.FieldOrder, fields)
	}
}

// WithParquetRowGroupSize sets the row group size for the Parquet file.
func WithParquetRowGroupSize(size int64) WriterOptionParquet {
	return func(opts *ParquetWriterOptions) {
		opts.RowGroupSize = size
	}
}

// ParquetWriter implements core.DataSink for Parquet files. The schema is
// inferred from the first record unless supplied, so prepared transaction
// batches keep their converted types (float amounts, bool flags, UTC
// timestamps) in the columnar output.
type ParquetWriter struct {
	file         *os.File
	writer       *pqarrow.FileWriter
	schema       *arrow.Schema
	closed       bool
	errorState   bool
	fieldOrder   []string
	recordBuffer []core.Record
	builders     []array.Builder
	allocator    memory.Allocator
	stats        ParquetWriterStats
	opts         ParquetWriterOptions
}

// NewParquetWriter creates a new Parquet writer for a file. Parent
// directories are created as needed.
func NewParquetWriter(filename string, options ...WriterOptionParquet) (*ParquetWriter, error) {
	opts := ParquetWriterOptions{
		BatchSize:    1000,
		Compression:  compress.Codecs.Snappy,
		RowGroupSize: 10000,
	}
	for _, option := range options {
		option(&opts)
	}

	dir := filepath.Dir(filename)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &ParquetWriterError{
				Op:  "create_directory",
				Err: fmt.Errorf("failed to create directory %s: %w", dir, err),
			}
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, &ParquetWriterError{
			Op:  "open_file",
			Err: fmt.Errorf("failed to create parquet file %s: %w", filename, err),
		}
	}

	w := &ParquetWriter{
		file:         file,
		schema:       opts.Schema,
		fieldOrder:   append([]string(nil), opts.FieldOrder...),
		recordBuffer: make([]core.Record, 0, opts.BatchSize),
		allocator:    memory.NewGoAllocator(),
		stats:        ParquetWriterStats{NullValueCounts: make(map[string]int64)},
		opts:         opts,
	}

	if w.schema != nil {
		if err := w.initializeWriter(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return w, nil
}

// Write implements the core.DataSink interface. Records are buffered and
// written in batches.
func (p *ParquetWriter) Write(ctx context.Context, record core.Record) error {
	if p.closed {
		return &ParquetWriterError{Op: "write", Err: fmt.Errorf("parquet writer is closed")}
	}
	if p.errorState {
		return &ParquetWriterError{Op: "write", Err: fmt.Errorf("writer is in error state")}
	}

	if p.schema == nil {
		if err := p.initializeSchemaFromRecord(record); err != nil {
			p.errorState = true
			return err
		}
	}

	p.recordBuffer = append(p.recordBuffer, record)
	p.stats.RecordsWritten++

	if int64(len(p.recordBuffer)) >= p.opts.BatchSize {
		if err := p.flushBatch(); err != nil {
			p.errorState = true
			return err
		}
	}

	return nil
}

// Flush implements the core.DataSink interface.
func (p *ParquetWriter) Flush() error {
	if len(p.recordBuffer) > 0 {
		return p.flushBatch()
	}
	return nil
}

// Close implements the core.DataSink interface. Flushes and closes all
// resources.
func (p *ParquetWriter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if len(p.recordBuffer) > 0 {
		if err := p.flushBatch(); err != nil {
			return err
		}
	}

	for _, builder := range p.builders {
		if builder != nil {
			builder.Release()
		}
	}
	p.builders = nil

	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			return &ParquetWriterError{
				Op:  "close_writer",
				Err: fmt.Errorf("failed to close parquet writer: %w", err),
			}
		}
		p.writer = nil
		p.file = nil
		return nil
	}

	// No record was ever written; close the bare file handle.
	if p.file != nil {
		err := p.file.Close()
		p.file = nil
		return err
	}
	return nil
}

// Stats returns the current statistics of the Parquet writer.
func (p *ParquetWriter) Stats() ParquetWriterStats {
	return p.stats
}

// Schema returns the Arrow schema once it has been supplied or inferred.
func (p *ParquetWriter) Schema() *arrow.Schema {
	return p.schema
}

// initializeSchemaFromRecord creates an Arrow schema from the first record.
func (p *ParquetWriter) initializeSchemaFromRecord(record core.Record) error {
	fieldNames := p.fieldOrder
	if len(fieldNames) == 0 {
		fieldNames = make([]string, 0, len(record))
		for name := range record {
			fieldNames = append(fieldNames, name)
		}
		sort.Strings(fieldNames)
		p.fieldOrder = fieldNames
	}

	var fields []arrow.Field
	for _, name := range fieldNames {
		value, exists := record[name]

		var dataType arrow.DataType
		if exists && value != nil {
			inferred, err := p.inferArrowType(value)
			if err != nil {
				return &ParquetWriterError{
					Op:  "schema",
					Err: fmt.Errorf("failed to infer arrow type for field %s: %w", name, err),
				}
			}
			dataType = inferred
		} else {
			// Field missing or null in the first record - default to string
			dataType = arrow.BinaryTypes.String
		}

		fields = append(fields, arrow.Field{Name: name, Type: dataType, Nullable: true})
	}

	p.schema = arrow.NewSchema(fields, nil)
	return p.initializeWriter()
}

// initializeWriter creates the pqarrow writer and the column builders once
// the schema is known.
func (p *ParquetWriter) initializeWriter() error {
	if len(p.fieldOrder) == 0 {
		for _, field := range p.schema.Fields() {
			p.fieldOrder = append(p.fieldOrder, field.Name)
		}
	}

	props := parquet.NewWriterProperties(
		parquet.WithCompression(p.opts.Compression),
		parquet.WithMaxRowGroupLength(p.opts.RowGroupSize),
	)

	writer, err := pqarrow.NewFileWriter(p.schema, p.file, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return &ParquetWriterError{
			Op:  "create_writer",
			Err: fmt.Errorf("failed to create parquet file writer: %w", err),
		}
	}
	p.writer = writer

	p.builders = make([]array.Builder, len(p.fieldOrder))
	for i, fieldName := range p.fieldOrder {
		indices := p.schema.FieldIndices(fieldName)
		if len(indices) == 0 {
			return &ParquetWriterError{
				Op:  "initialize_builders",
				Err: fmt.Errorf("field %s not found in schema", fieldName),
			}
		}
		p.builders[i] = array.NewBuilder(p.allocator, p.schema.Field(indices[0]).Type)
	}

	return nil
}

// inferArrowType infers the Arrow data type from a Go value.
func (p *ParquetWriter) inferArrowType(value interface{}) (arrow.DataType, error) {
	switch v := value.(type) {
	case bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case int32:
		return arrow.PrimitiveTypes.Int32, nil
	case int64:
		return arrow.PrimitiveTypes.Int64, nil
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return arrow.PrimitiveTypes.Int32, nil
		}
		return arrow.PrimitiveTypes.Int64, nil
	case float32:
		return arrow.PrimitiveTypes.Float32, nil
	case float64:
		return arrow.PrimitiveTypes.Float64, nil
	case string:
		return arrow.BinaryTypes.String, nil
	case time.Time:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case []byte:
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, fmt.Errorf("unsupported type %T for value %v", value, value)
	}
}

// flushBatch writes the current buffer to the Parquet file.
func (p *ParquetWriter) flushBatch() error {
	if len(p.recordBuffer) == 0 {
		return nil
	}

	startTime := time.Now()

	record, err := p.createArrowRecord(p.recordBuffer)
	if err != nil {
		return err
	}
	defer record.Release()

	if err := p.writer.Write(record); err != nil {
		return &ParquetWriterError{
			Op:  "write_batch",
			Err: fmt.Errorf("failed to write record batch: %w", err),
		}
	}

	p.stats.BatchesWritten++
	p.stats.FlushDuration += time.Since(startTime)
	p.stats.LastFlushTime = time.Now()
	p.recordBuffer = p.recordBuffer[:0]

	return nil
}

// createArrowRecord converts buffered records to an Arrow Record.
func (p *ParquetWriter) createArrowRecord(records []core.Record) (arrow.Record, error) {
	for _, record := range records {
		for i, fieldName := range p.fieldOrder {
			value, exists := record[fieldName]

			if !exists || value == nil {
				p.builders[i].AppendNull()
				p.stats.NullValueCounts[fieldName]++
				continue
			}

			if err := p.appendValueToBuilder(p.builders[i], value, fieldName); err != nil {
				return nil, err
			}
		}
	}

	arrays := make([]arrow.Array, len(p.builders))
	for i, builder := range p.builders {
		arrays[i] = builder.NewArray()
		defer arrays[i].Release()
	}

	return array.NewRecord(p.schema, arrays, int64(len(records))), nil
}

// appendValueToBuilder appends a value to the appropriate Arrow array builder.
// Values of an unexpected type for their column are written as null.
func (p *ParquetWriter) appendValueToBuilder(builder array.Builder, value interface{}, fieldName string) error {
	appendNull := func() {
		builder.AppendNull()
		p.stats.NullValueCounts[fieldName]++
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		if v, ok := value.(bool); ok {
			b.Append(v)
		} else {
			appendNull()
		}
	case *array.Int32Builder:
		switch v := value.(type) {
		case int:
			if v < math.MinInt32 || v > math.MaxInt32 {
				return &ParquetWriterError{
					Op:  "append_value",
					Err: fmt.Errorf("int value %d out of range for int32 field %s", v, fieldName),
				}
			}
			b.Append(int32(v))
		case int32:
			b.Append(v)
		default:
			appendNull()
		}
	case *array.Int64Builder:
		switch v := value.(type) {
		case int64:
			b.Append(v)
		case int:
			b.Append(int64(v))
		default:
			appendNull()
		}
	case *array.Float32Builder:
		switch v := value.(type) {
		case float32:
			b.Append(v)
		case float64:
			b.Append(float32(v))
		default:
			appendNull()
		}
	case *array.Float64Builder:
		switch v := value.(type) {
		case float64:
			b.Append(v)
		case float32:
			b.Append(float64(v))
		default:
			appendNull()
		}
	case *array.StringBuilder:
		if v, ok := value.(string); ok {
			b.Append(v)
		} else {
			b.Append(fmt.Sprintf("%v", value))
		}
	case *array.BinaryBuilder:
		if v, ok := value.([]byte); ok {
			b.Append(v)
		} else {
			appendNull()
		}
	case *array.TimestampBuilder:
		if v, ok := value.(time.Time); ok {
			b.Append(arrow.Timestamp(v.UnixMicro()))
		} else {
			appendNull()
		}
	default:
		return &ParquetWriterError{
			Op:  "append_value",
			Err: fmt.Errorf("unsupported builder type for field %s", fieldName),
		}
	}
	return nil
}
