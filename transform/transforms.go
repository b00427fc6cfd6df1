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
	"strings"

	"github.com/aaronlmathis/cardprep/core"
)

// Package transform provides reusable, composable record transformations for
// CardPrep pipelines: structure flattening, field projection, type conversion,
// timestamp normalization, and name cleaning.
//
// All functions return core.Transformer implementations for use in pipelines.

// Select creates a transformer that keeps only the specified fields.
// Fields not listed are omitted from the output record.
func Select(fields ...string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record)
		for _, field := range fields {
			if value, exists := record[field]; exists {
				result[field] = value
			}
		}
		return result, nil
	})
}

// Rename creates a transformer that renames fields according to the mapping.
// Keys are original field names, values are new field names.
func Rename(mapping map[string]string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record)
		for key, value := range record {
			if newKey, exists := mapping[key]; exists {
				result[newKey] = value
			} else {
				result[key] = value
			}
		}
		return result, nil
	})
}

// AddField creates a transformer that adds a computed field to each record.
// The value is computed by the provided function, which receives the current record.
func AddField(field string, fn func(core.Record) interface{}) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record)+1)
		for k, v := range record {
			result[k] = v
		}
		result[field] = fn(record)
		return result, nil
	})
}

// RemoveFields creates a transformer that removes the specified fields from
// each record. Fields that don't exist are ignored.
func RemoveFields(fields ...string) core.Transformer {
	fieldsToRemove := make(map[string]bool, len(fields))
	for _, field := range fields {
		fieldsToRemove[field] = true
	}

	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record))
		for k, v := range record {
			if !fieldsToRemove[k] {
				result[k] = v
			}
		}
		return result, nil
	})
}

// TrimSpace creates a transformer that trims whitespace from the specified
// string fields. Non-string values are left unchanged.
func TrimSpace(fields ...string) core.Transformer {
	return stringTransform(fields, strings.TrimSpace)
}

// ToUpper creates a transformer that uppercases the specified string fields.
func ToUpper(fields ...string) core.Transformer {
	return stringTransform(fields, strings.ToUpper)
}

// ToLower creates a transformer that lowercases the specified string fields.
func ToLower(fields ...string) core.Transformer {
	return stringTransform(fields, strings.ToLower)
}

// stringTransform applies fn to each listed field that holds a string.
func stringTransform(fields []string, fn func(string) string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record))
		for k, v := range record {
			result[k] = v
		}

		for _, field := range fields {
			if value, exists := record[field]; exists {
				if str, ok := value.(string); ok {
					result[field] = fn(str)
				}
			}
		}

		return result, nil
	})
}
