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

package cardprep

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/cardprep/core"
	"github.com/aaronlmathis/cardprep/filter"
	"github.com/aaronlmathis/cardprep/names"
	"github.com/aaronlmathis/cardprep/quality"
	"github.com/aaronlmathis/cardprep/transform"
)

// sliceSource feeds records from memory for pipeline tests.
type sliceSource struct {
	records []core.Record
	index   int
	closed  bool
}

func (s *sliceSource) Read(ctx context.Context) (core.Record, error) {
	if s.index >= len(s.records) {
		return nil, io.EOF
	}
	record := s.records[s.index]
	s.index++
	return record, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// sliceSink collects written records in memory.
type sliceSink struct {
	records []core.Record
	flushed bool
	closed  bool
	failOn  int // 1-based write index that fails, 0 = never
}

func (s *sliceSink) Write(ctx context.Context, record core.Record) error {
	if s.failOn > 0 && len(s.records)+1 == s.failOn {
		return fmt.Errorf("sink write failed")
	}
	s.records = append(s.records, record)
	return nil
}

func (s *sliceSink) Flush() error {
	s.flushed = true
	return nil
}

func (s *sliceSink) Close() error {
	s.closed = true
	return nil
}

// TestPipeline_EndToEnd runs the full preparation flow on raw export records:
// flatten, cast, clean names, tap quality, filter, write.
func TestPipeline_EndToEnd(t *testing.T) {
	source := &sliceSource{records: []core.Record{
		{
			"trans_num": "t1",
			"amount":    "42.50",
			"is_fraud":  "0",
			"personal": map[string]interface{}{
				"name": "Edward@Sanchez",
				"address": map[string]interface{}{
					"city": "Austin",
				},
			},
		},
		{
			"trans_num": "t2",
			"amount":    "7.10",
			"is_fraud":  "1",
			"personal": map[string]interface{}{
				"name": "Madonna",
			},
		},
		{
			"trans_num": "t3",
			"amount":    "0.99",
			"is_fraud":  "0",
			"personal": map[string]interface{}{
				"name": "Kelsey, , Richards NOOOO",
			},
		},
	}}
	sink := &sliceSink{}
	collector := quality.NewCollector()

	pipeline, err := NewPipeline().
		From(source).
		Transform(transform.Flatten("_")).
		Transform(transform.ToFloat("amount")).
		Transform(transform.ToBool("is_fraud")).
		Transform(transform.CleanName(names.Default(), "personal_name")).
		Transform(collector.Tap()).
		Filter(filter.IsTrue("parse_successful")).
		To(sink).
		Build()
	require.NoError(t, err)

	require.NoError(t, pipeline.Execute(context.Background()))

	// Madonna has no last name, so only t1 and t3 pass the filter.
	require.Len(t, sink.records, 2)

	first := sink.records[0]
	assert.Equal(t, "t1", first["trans_num"])
	assert.Equal(t, 42.5, first["amount"])
	assert.Equal(t, false, first["is_fraud"])
	assert.Equal(t, "Austin", first["personal_address_city"])
	assert.Equal(t, "Edward", first["first_name"])
	assert.Equal(t, "Sanchez", first["last_name"])
	assert.Equal(t, true, first["had_special_char"])

	third := sink.records[1]
	assert.Equal(t, "Kelsey", third["first_name"])
	assert.Equal(t, "Richards", third["last_name"])
	assert.Equal(t, false, third["had_special_char"])

	// The collector saw all three records, before filtering.
	report := collector.Report()
	assert.Equal(t, int64(3), report.TotalRecords)
	assert.Equal(t, int64(2), report.ParseSuccessCount)
	assert.Equal(t, int64(1), report.ParseFailureCount)
	assert.Equal(t, int64(1), report.SpecialCharCount)

	assert.True(t, source.closed)
	assert.True(t, sink.flushed)
	assert.True(t, sink.closed)
}

// TestPipeline_FiltersRunAfterTransformers: filters see the fully transformed
// record no matter where they appear in the builder chain, so a filtered flag
// must survive any Select projection.
func TestPipeline_FiltersRunAfterTransformers(t *testing.T) {
	source := &sliceSource{records: []core.Record{
		{"trans_num": "t1", "personal_name": "Edward@Sanchez"},
		{"trans_num": "t2", "personal_name": "Madonna"},
	}}
	sink := &sliceSink{}

	// Filter declared first, transformers after: the filter still evaluates
	// the post-Select record.
	pipeline, err := NewPipeline().
		From(source).
		Filter(filter.IsTrue("parse_successful")).
		Transform(transform.CleanName(names.Default(), "personal_name")).
		Transform(transform.Select("trans_num", "first_name", "last_name", "parse_successful")).
		To(sink).
		Build()
	require.NoError(t, err)

	require.NoError(t, pipeline.Execute(context.Background()))
	require.Len(t, sink.records, 1)
	assert.Equal(t, "t1", sink.records[0]["trans_num"])
	assert.Equal(t, "Edward", sink.records[0]["first_name"])

	// Dropping the flag in the projection hides it from every filter, so
	// nothing passes. Writer-side field ordering is the projection to use
	// when the flag should not reach the output.
	source = &sliceSource{records: []core.Record{
		{"trans_num": "t1", "personal_name": "Edward@Sanchez"},
	}}
	sink = &sliceSink{}

	pipeline, err = NewPipeline().
		From(source).
		Filter(filter.IsTrue("parse_successful")).
		Transform(transform.CleanName(names.Default(), "personal_name")).
		Transform(transform.Select("trans_num", "first_name", "last_name")).
		To(sink).
		Build()
	require.NoError(t, err)

	require.NoError(t, pipeline.Execute(context.Background()))
	assert.Empty(t, sink.records)
}

func TestPipeline_BuildValidation(t *testing.T) {
	_, err := NewPipeline().To(&sliceSink{}).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data source")

	_, err = NewPipeline().From(&sliceSource{}).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data sink")
}

func TestPipeline_FailFastStopsOnTransformError(t *testing.T) {
	source := &sliceSource{records: []core.Record{
		{"amount": "not-a-number"},
		{"amount": "2.00"},
	}}
	sink := &sliceSink{}

	pipeline, err := NewPipeline().
		From(source).
		Transform(transform.ToFloat("amount")).
		To(sink).
		Build()
	require.NoError(t, err)

	err = pipeline.Execute(context.Background())
	require.Error(t, err)
	assert.Empty(t, sink.records)
}

func TestPipeline_SkipErrorsContinues(t *testing.T) {
	source := &sliceSource{records: []core.Record{
		{"amount": "not-a-number"},
		{"amount": "2.00"},
	}}
	sink := &sliceSink{}

	var handled []error
	pipeline, err := NewPipeline().
		From(source).
		Transform(transform.ToFloat("amount")).
		To(sink).
		WithErrorStrategy(SkipErrors).
		WithErrorHandler(ErrorHandlerFunc(func(ctx context.Context, record core.Record, err error) error {
			handled = append(handled, err)
			return nil
		})).
		Build()
	require.NoError(t, err)

	require.NoError(t, pipeline.Execute(context.Background()))
	require.Len(t, sink.records, 1)
	assert.Equal(t, 2.0, sink.records[0]["amount"])
	assert.Len(t, handled, 1)
}

func TestPipeline_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &sliceSource{records: []core.Record{{"a": 1}}}
	sink := &sliceSink{}

	pipeline, err := NewPipeline().From(source).To(sink).Build()
	require.NoError(t, err)

	err = pipeline.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, source.closed)
}

func TestPipeline_MapAndWhere(t *testing.T) {
	source := &sliceSource{records: []core.Record{
		{"amount": 5.0},
		{"amount": 50.0},
	}}
	sink := &sliceSink{}

	pipeline, err := NewPipeline().
		From(source).
		Map(func(ctx context.Context, record core.Record) (core.Record, error) {
			out := make(core.Record, len(record)+1)
			for k, v := range record {
				out[k] = v
			}
			out["large"] = record["amount"].(float64) >= 10
			return out, nil
		}).
		Where(func(ctx context.Context, record core.Record) (bool, error) {
			return record["large"].(bool), nil
		}).
		To(sink).
		Build()
	require.NoError(t, err)

	require.NoError(t, pipeline.Execute(context.Background()))
	require.Len(t, sink.records, 1)
	assert.Equal(t, 50.0, sink.records[0]["amount"])
}
