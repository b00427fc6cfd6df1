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

	"github.com/aaronlmathis/cardprep/core"
)

// Flatten creates a transformer that lifts nested objects into top-level
// fields, joining path segments with sep. A transaction record shaped like
//
//	{"personal": {"name": "John,Smith", "address": {"city": "Austin"}}}
//
// becomes, with sep "_",
//
//	{"personal_name": "John,Smith", "personal_address_city": "Austin"}
//
// Arrays and scalar values are carried over unchanged under their flattened
// key. Empty nested objects contribute no fields.
func Flatten(sep string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record))
		for key, value := range record {
			flattenInto(result, key, value, sep)
		}
		return result, nil
	})
}

// flattenInto recursively writes value into dst under key, descending into
// nested map values.
func flattenInto(dst core.Record, key string, value interface{}, sep string) {
	switch nested := value.(type) {
	case map[string]interface{}:
		for k, v := range nested {
			flattenInto(dst, key+sep+k, v, sep)
		}
	case core.Record:
		for k, v := range nested {
			flattenInto(dst, key+sep+k, v, sep)
		}
	default:
		dst[key] = value
	}
}
