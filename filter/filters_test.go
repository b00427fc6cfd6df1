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

package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/cardprep/core"
)

func include(t *testing.T, f core.Filter, record core.Record) bool {
	t.Helper()
	ok, err := f.ShouldInclude(context.Background(), record)
	require.NoError(t, err)
	return ok
}

func TestNotNull(t *testing.T) {
	f := NotNull("last_name")

	assert.True(t, include(t, f, core.Record{"last_name": "Sanchez"}))
	assert.False(t, include(t, f, core.Record{"last_name": nil}))
	assert.False(t, include(t, f, core.Record{"last_name": ""}))
	assert.False(t, include(t, f, core.Record{"other": 1}))
}

func TestIsTrue(t *testing.T) {
	f := IsTrue("parse_successful")

	assert.True(t, include(t, f, core.Record{"parse_successful": true}))
	assert.False(t, include(t, f, core.Record{"parse_successful": false}))
	assert.False(t, include(t, f, core.Record{"parse_successful": "true"}))
	assert.False(t, include(t, f, core.Record{}))
}

func TestNumericComparisons(t *testing.T) {
	record := core.Record{"amount": 42.5, "zip": 78701}

	assert.True(t, include(t, GreaterThan("amount", 10), record))
	assert.False(t, include(t, GreaterThan("amount", 100), record))
	assert.True(t, include(t, LessThan("amount", 100), record))
	assert.True(t, include(t, Between("amount", 42.5, 50), record))
	// Int values participate in float comparisons.
	assert.True(t, include(t, GreaterThan("zip", 70000), record))
	// Non-numeric values never match.
	assert.False(t, include(t, GreaterThan("amount", 0), core.Record{"amount": "n/a"}))
}

func TestEqualsAndIn(t *testing.T) {
	record := core.Record{"category": "grocery_pos", "state": "TX"}

	assert.True(t, include(t, Equals("category", "grocery_pos"), record))
	assert.False(t, include(t, Equals("category", "travel"), record))
	assert.True(t, include(t, In("state", "TX", "CA"), record))
	assert.False(t, include(t, In("state", "NY"), record))
}

func TestCombinators(t *testing.T) {
	record := core.Record{"amount": 42.5, "is_fraud": false, "parse_successful": true}

	f := And(IsTrue("parse_successful"), Not(IsTrue("is_fraud")), GreaterThan("amount", 1))
	assert.True(t, include(t, f, record))

	f = And(IsTrue("parse_successful"), IsTrue("is_fraud"))
	assert.False(t, include(t, f, record))

	f = Or(IsTrue("is_fraud"), Contains("category", "grocery"))
	assert.False(t, include(t, f, record))

	f = Or(IsTrue("is_fraud"), IsTrue("parse_successful"))
	assert.True(t, include(t, f, record))
}

func TestCustom(t *testing.T) {
	f := Custom(func(record core.Record) bool {
		amount, ok := record["amount"].(float64)
		return ok && amount > 0
	})

	assert.True(t, include(t, f, core.Record{"amount": 5.0}))
	assert.False(t, include(t, f, core.Record{"amount": -1.0}))
}
