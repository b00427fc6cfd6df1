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

package transform

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/cardprep/core"
	"github.com/aaronlmathis/cardprep/names"
)

// TestFlatten_NestedPersonalDetails flattens the export's nested structure.
func TestFlatten_NestedPersonalDetails(t *testing.T) {
	ctx := context.Background()
	record := core.Record{
		"trans_num": "abc123",
		"amount":    "42.50",
		"personal": map[string]interface{}{
			"name":   "John,Smith",
			"gender": "M",
			"address": map[string]interface{}{
				"city":  "Austin",
				"state": "TX",
			},
		},
	}

	got, err := Flatten("_").Transform(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, "abc123", got["trans_num"])
	assert.Equal(t, "42.50", got["amount"])
	assert.Equal(t, "John,Smith", got["personal_name"])
	assert.Equal(t, "M", got["personal_gender"])
	assert.Equal(t, "Austin", got["personal_address_city"])
	assert.Equal(t, "TX", got["personal_address_state"])
	assert.NotContains(t, got, "personal")
}

// TestFlatten_FlatRecordUnchanged: already-flat records pass through intact.
func TestFlatten_FlatRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	record := core.Record{"a": 1, "b": "x", "c": nil}

	got, err := Flatten(".").Transform(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

// TestFlatten_ArraysPreserved: arrays stay intact under their flattened key.
func TestFlatten_ArraysPreserved(t *testing.T) {
	ctx := context.Background()
	record := core.Record{
		"personal": map[string]interface{}{
			"tags": []interface{}{"vip", "retail"},
		},
	}

	got, err := Flatten("_").Transform(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"vip", "retail"}, got["personal_tags"])
}

// TestConversions covers the cast stage for the converted columns.
func TestConversions(t *testing.T) {
	ctx := context.Background()

	t.Run("amount string to float", func(t *testing.T) {
		got, err := ToFloat("amount").Transform(ctx, core.Record{"amount": "42.50"})
		require.NoError(t, err)
		assert.Equal(t, 42.5, got["amount"])
	})

	t.Run("fraud flag string to bool", func(t *testing.T) {
		got, err := ToBool("is_fraud").Transform(ctx, core.Record{"is_fraud": "1"})
		require.NoError(t, err)
		assert.Equal(t, true, got["is_fraud"])
	})

	t.Run("fraud flag float to bool", func(t *testing.T) {
		// JSON decoding yields float64 for numeric flags.
		got, err := ToBool("is_fraud").Transform(ctx, core.Record{"is_fraud": float64(0)})
		require.NoError(t, err)
		assert.Equal(t, false, got["is_fraud"])
	})

	t.Run("zip string to int", func(t *testing.T) {
		got, err := ToInt("zip").Transform(ctx, core.Record{"zip": " 78701 "})
		require.NoError(t, err)
		assert.Equal(t, 78701, got["zip"])
	})

	t.Run("nil converts to zero value", func(t *testing.T) {
		got, err := ToFloat("amount").Transform(ctx, core.Record{"amount": nil})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got["amount"])
	})

	t.Run("unparseable amount is a record error", func(t *testing.T) {
		_, err := ToFloat("amount").Transform(ctx, core.Record{"amount": "forty-two"})
		assert.Error(t, err)
	})

	t.Run("missing field is untouched", func(t *testing.T) {
		got, err := ToFloat("amount").Transform(ctx, core.Record{"other": 1})
		require.NoError(t, err)
		assert.NotContains(t, got, "amount")
	})
}

// TestParseTime_TimezoneNormalization parses zone-less export timestamps in
// the exporting system's zone and normalizes them to UTC.
func TestParseTime_TimezoneNormalization(t *testing.T) {
	ctx := context.Background()
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	record := core.Record{"trans_time": "2020-06-21 12:14:25"}

	got, err := ParseTimeInLocation("trans_time", "2006-01-02 15:04:05", chicago).Transform(ctx, record)
	require.NoError(t, err)

	got, err = ToUTC("trans_time").Transform(ctx, got)
	require.NoError(t, err)

	ts, ok := got["trans_time"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, 17, ts.Hour()) // CDT is UTC-5 in June
}

// TestCleanName_MergesNameFields checks the bridge from the names core into
// the record pipeline.
func TestCleanName_MergesNameFields(t *testing.T) {
	ctx := context.Background()
	clean := CleanName(names.Default(), "personal_name")

	got, err := clean.Transform(ctx, core.Record{
		"trans_num":     "abc123",
		"personal_name": "Edward@Sanchez",
	})
	require.NoError(t, err)

	assert.Equal(t, "Edward", got[FieldFirstName])
	assert.Equal(t, "Sanchez", got[FieldLastName])
	assert.Equal(t, true, got[FieldHadSpecialChar])
	assert.Equal(t, true, got[FieldParseSuccessful])
	// Raw field retained for auditing, rest of record untouched.
	assert.Equal(t, "Edward@Sanchez", got["personal_name"])
	assert.Equal(t, "abc123", got["trans_num"])
}

// TestCleanName_AbsentValues: missing field, nil value, and blank string all
// produce the all-null outcome.
func TestCleanName_AbsentValues(t *testing.T) {
	ctx := context.Background()
	clean := CleanName(names.Default(), "personal_name")

	for _, record := range []core.Record{
		{"trans_num": "a"},
		{"trans_num": "a", "personal_name": nil},
		{"trans_num": "a", "personal_name": "   "},
	} {
		got, err := clean.Transform(ctx, record)
		require.NoError(t, err)
		assert.Nil(t, got[FieldFirstName])
		assert.Nil(t, got[FieldLastName])
		assert.Equal(t, false, got[FieldHadSpecialChar])
		assert.Equal(t, false, got[FieldParseSuccessful])
	}
}

// TestCleanName_SingleToken: one token parses to first name only and fails
// the completeness check.
func TestCleanName_SingleToken(t *testing.T) {
	ctx := context.Background()
	clean := CleanName(names.Default(), "personal_name")

	got, err := clean.Transform(ctx, core.Record{"personal_name": "Madonna"})
	require.NoError(t, err)

	assert.Equal(t, "Madonna", got[FieldFirstName])
	assert.Nil(t, got[FieldLastName])
	assert.Equal(t, false, got[FieldParseSuccessful])
}

// TestCleanName_NonStringIsError: a non-string name field violates the caller
// contract and surfaces as a record error.
func TestCleanName_NonStringIsError(t *testing.T) {
	ctx := context.Background()
	clean := CleanName(names.Default(), "personal_name")

	_, err := clean.Transform(ctx, core.Record{"personal_name": 12345})
	assert.Error(t, err)
}

// TestProjection covers Select, Rename, RemoveFields, and string hygiene.
func TestProjection(t *testing.T) {
	ctx := context.Background()

	t.Run("select", func(t *testing.T) {
		got, err := Select("a", "b").Transform(ctx, core.Record{"a": 1, "b": 2, "c": 3})
		require.NoError(t, err)
		assert.Equal(t, core.Record{"a": 1, "b": 2}, got)
	})

	t.Run("rename", func(t *testing.T) {
		got, err := Rename(map[string]string{"amt": "amount"}).Transform(ctx, core.Record{"amt": 5, "x": 1})
		require.NoError(t, err)
		assert.Equal(t, core.Record{"amount": 5, "x": 1}, got)
	})

	t.Run("remove fields", func(t *testing.T) {
		got, err := RemoveFields("cc_num", "ssn").Transform(ctx, core.Record{"cc_num": "4111", "ssn": "x", "city": "Austin"})
		require.NoError(t, err)
		assert.Equal(t, core.Record{"city": "Austin"}, got)
	})

	t.Run("trim and lower", func(t *testing.T) {
		got, err := TrimSpace("merchant").Transform(ctx, core.Record{"merchant": "  Fraud_Kirlin "})
		require.NoError(t, err)
		got, err = ToLower("merchant").Transform(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, "fraud_kirlin", got["merchant"])
	})
}
