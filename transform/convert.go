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
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aaronlmathis/cardprep/core"
)

// Type conversion transformers for the cast stage: export feeds carry amounts
// as strings, fraud flags as "0"/"1" or "true"/"false", and timestamps as
// zone-less strings in the exporting system's local time.

// ConvertType creates a transformer that converts the type of a field to the
// specified reflect.Type. A nil field value converts to the type's zero value.
// Conversion failure is a record error routed through the pipeline's
// ErrorStrategy.
func ConvertType(field string, targetType reflect.Type) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record))
		for k, v := range record {
			result[k] = v
		}

		if value, exists := record[field]; exists {
			converted, err := convertValue(value, targetType)
			if err != nil {
				return nil, fmt.Errorf("failed to convert field %s: %w", field, err)
			}
			result[field] = converted
		}

		return result, nil
	})
}

// ToString creates a transformer that converts a field to a string.
func ToString(field string) core.Transformer {
	return ConvertType(field, reflect.TypeOf(""))
}

// ToInt creates a transformer that converts a field to an int.
func ToInt(field string) core.Transformer {
	return ConvertType(field, reflect.TypeOf(0))
}

// ToFloat creates a transformer that converts a field to a float64.
// Used for string-encoded transaction amounts.
func ToFloat(field string) core.Transformer {
	return ConvertType(field, reflect.TypeOf(0.0))
}

// ToBool creates a transformer that converts a field to a bool.
// Used for fraud flags encoded as "0"/"1" or "true"/"false".
func ToBool(field string) core.Transformer {
	return ConvertType(field, reflect.TypeOf(false))
}

// ParseTime creates a transformer that parses a string field into a time.Time
// using the given layout. Values that are already time.Time pass through.
func ParseTime(field, layout string) core.Transformer {
	return ParseTimeInLocation(field, layout, time.UTC)
}

// ParseTimeInLocation creates a transformer that parses a string field into a
// time.Time using the given layout, interpreting zone-less timestamps in loc.
func ParseTimeInLocation(field, layout string, loc *time.Location) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record))
		for k, v := range record {
			result[k] = v
		}

		if value, exists := record[field]; exists {
			if str, ok := value.(string); ok {
				parsed, err := time.ParseInLocation(layout, str, loc)
				if err != nil {
					return nil, fmt.Errorf("failed to parse time field %s: %w", field, err)
				}
				result[field] = parsed
			}
		}

		return result, nil
	})
}

// ToUTC creates a transformer that normalizes a time.Time field to UTC.
// Non-time values are left unchanged; chain after ParseTimeInLocation to get
// timezone-normalized timestamps in the output.
func ToUTC(field string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, record core.Record) (core.Record, error) {
		result := make(core.Record, len(record))
		for k, v := range record {
			result[k] = v
		}

		if value, exists := record[field]; exists {
			if ts, ok := value.(time.Time); ok {
				result[field] = ts.UTC()
			}
		}

		return result, nil
	})
}

// convertValue converts a value to the specified reflect.Type.
func convertValue(value interface{}, targetType reflect.Type) (interface{}, error) {
	if value == nil {
		return reflect.Zero(targetType).Interface(), nil
	}

	sourceValue := reflect.ValueOf(value)
	if sourceValue.Type() == targetType {
		return value, nil
	}

	switch targetType.Kind() {
	case reflect.String:
		return fmt.Sprintf("%v", value), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return convertToInt(value)
	case reflect.Float32, reflect.Float64:
		return convertToFloat(value)
	case reflect.Bool:
		return convertToBool(value)
	default:
		return nil, fmt.Errorf("unsupported target type: %s", targetType)
	}
}

// convertToInt attempts to convert a value to int.
func convertToInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

// convertToFloat attempts to convert a value to float64.
func convertToFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// convertToBool attempts to convert a value to bool.
func convertToBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}
