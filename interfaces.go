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

import "github.com/aaronlmathis/cardprep/core"

// The core vocabulary lives in the core package so subpackages (readers,
// writers, transform, filter, quality) can share it without import cycles.
// These aliases re-export it at the module root for callers.

// Record represents a single transaction row in the pipeline.
type Record = core.Record

// DataSource defines the interface for record extraction.
type DataSource = core.DataSource

// DataSink defines the interface for record loading.
type DataSink = core.DataSink

// Transformer defines the interface for record transformation operations.
type Transformer = core.Transformer

// TransformFunc is a function adapter for the Transformer interface.
type TransformFunc = core.TransformFunc

// Filter defines the interface for record filtering.
type Filter = core.Filter

// FilterFunc is a function adapter for the Filter interface.
type FilterFunc = core.FilterFunc

// ErrorStrategy defines how to handle transformation errors in the pipeline.
type ErrorStrategy = core.ErrorStrategy

// Error strategies, re-exported for callers of the root package.
const (
	FailFast      = core.FailFast
	SkipErrors    = core.SkipErrors
	CollectErrors = core.CollectErrors
)

// ErrorHandler defines how errors are handled during processing.
type ErrorHandler = core.ErrorHandler

// ErrorHandlerFunc is a function adapter for the ErrorHandler interface.
type ErrorHandlerFunc = core.ErrorHandlerFunc
