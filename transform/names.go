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
	"fmt"

	"github.com/aaronlmathis/cardprep/core"
	"github.com/aaronlmathis/cardprep/names"
)

// Output fields merged into each record by CleanName.
const (
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldHadSpecialChar  = "had_special_char"
	FieldParseSuccessful = "parse_successful"
)

// CleanName creates a transformer that runs the name normalizer on the given
// raw-name field and merges the outcome into the record: first_name and
// last_name (nil when absent), had_special_char, and parse_successful.
//
// A missing field or nil value behaves like an empty name: both name fields
// nil, both flags false. The raw field itself is left in place so downstream
// auditing can compare input and output. The field must hold a string or nil;
// anything else is a caller contract violation and surfaces as a record error.
func CleanName(n *names.Normalizer, field string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record)+4)
		for k, v := range record {
			result[k] = v
		}

		raw := ""
		if value, exists := record[field]; exists && value != nil {
			str, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("name field %s holds %T, expected string or nil", field, value)
			}
			raw = str
		}

		parsed := n.Normalize(raw)
		result[FieldFirstName] = deref(parsed.FirstName)
		result[FieldLastName] = deref(parsed.LastName)
		result[FieldHadSpecialChar] = parsed.HadSpecialChar
		result[FieldParseSuccessful] = parsed.ParseSuccessful

		return result, nil
	})
}

// deref unwraps a nullable name component into a record value, keeping
// nil (absent) distinct from "" (present but blank).
func deref(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
