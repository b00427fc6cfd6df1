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

package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Package names implements deterministic cleaning and parsing of free-text
// customer name fields from transaction exports.
//
// Raw name values arrive corrupted in predictable ways: separator characters
// replaced by stray symbols ("Edward@Sanchez"), and trailing noise tokens
// appended by upstream systems ("Richards NOOOO"). The normalizer repairs the
// separator, strips the noise, and splits the result into first/last name,
// recording whether cleaning was needed and whether the parse produced a
// complete name. A messy name is expected data, not an error: Normalize never
// fails, it reports the outcome in the Result fields.

// Rules is the cleaning configuration: which symbols count as corrupted
// separators and which literal trailing tokens are noise. Both lists are
// plain data so operators can extend them without code changes.
type Rules struct {
	// Symbols are replaced with a comma wherever they occur.
	Symbols []string
	// Suffixes are stripped when they appear as the trailing token,
	// repeatedly, so stacked noise is fully removed. Matching is exact-token
	// and case-sensitive; names merely containing a suffix are untouched.
	Suffixes []string
}

// DefaultRules returns the symbol and suffix sets observed in the production
// export feeds.
func DefaultRules() Rules {
	return Rules{
		Symbols:  []string{"@", "|", "!", "/"},
		Suffixes: []string{"NOOOO", "eeeee"},
	}
}

// Result is the immutable outcome of normalizing one raw name.
// Nil name pointers mean the component is absent; an empty string is a
// distinct state (separator present but nothing followed).
type Result struct {
	Raw             string  // original input, untouched
	Cleaned         string  // after symbol substitution and suffix stripping
	FirstName       *string // token(s) before the first separator
	LastName        *string // remaining tokens, rejoined with single spaces
	HadSpecialChar  bool    // raw contained a configured symbol (checked pre-cleaning)
	ParseSuccessful bool    // both name components present and non-blank
}

// Normalizer applies a fixed Rules set to raw name strings. It holds no
// mutable state; a single Normalizer is safe for concurrent use across
// partitions and two calls with the same input always produce identical
// Results.
type Normalizer struct {
	rules    Rules
	replacer *strings.Replacer
}

// NewNormalizer creates a Normalizer for the given rules. The rule slices are
// copied so later mutation by the caller cannot change behavior.
func NewNormalizer(rules Rules) *Normalizer {
	pairs := make([]string, 0, len(rules.Symbols)*2)
	for _, sym := range rules.Symbols {
		if sym == "" {
			continue
		}
		pairs = append(pairs, sym, ",")
	}
	return &Normalizer{
		rules: Rules{
			Symbols:  append([]string(nil), rules.Symbols...),
			Suffixes: append([]string(nil), rules.Suffixes...),
		},
		replacer: strings.NewReplacer(pairs...),
	}
}

// Default returns a Normalizer configured with DefaultRules.
func Default() *Normalizer {
	return NewNormalizer(DefaultRules())
}

// Rules returns a copy of the normalizer's configuration.
func (n *Normalizer) Rules() Rules {
	return Rules{
		Symbols:  append([]string(nil), n.rules.Symbols...),
		Suffixes: append([]string(nil), n.rules.Suffixes...),
	}
}

// Normalize converts one raw name string into a Result. Stages run in a fixed
// order: empty guard, symbol detection against the original raw, symbol
// substitution, trailing suffix stripping, comma split, then success
// determination. See the package comment for the rationale.
func (n *Normalizer) Normalize(raw string) Result {
	res := Result{Raw: raw}

	if strings.TrimSpace(raw) == "" {
		return res
	}

	// Detection runs against the original input so substitution cannot hide
	// that cleaning was needed.
	res.HadSpecialChar = n.containsSymbol(raw)

	cleaned := n.replacer.Replace(raw)
	cleaned = n.stripTrailingSuffixes(cleaned)
	res.Cleaned = cleaned

	var tokens []string
	for _, tok := range strings.Split(cleaned, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}

	switch {
	case len(tokens) == 0:
		// Nothing survived cleaning; both components stay nil.
	case len(tokens) == 1:
		res.FirstName = &tokens[0]
	default:
		res.FirstName = &tokens[0]
		// Rejoin with spaces to preserve multi-part last names without
		// reintroducing commas.
		last := strings.Join(tokens[1:], " ")
		res.LastName = &last
	}

	res.ParseSuccessful = res.FirstName != nil && strings.TrimSpace(*res.FirstName) != "" &&
		res.LastName != nil && strings.TrimSpace(*res.LastName) != ""

	return res
}

// containsSymbol reports whether s contains any configured symbol.
func (n *Normalizer) containsSymbol(s string) bool {
	for _, sym := range n.rules.Symbols {
		if sym != "" && strings.Contains(s, sym) {
			return true
		}
	}
	return false
}

// stripTrailingSuffixes removes configured noise suffixes while one remains
// the trailing token. Trailing whitespace and commas are discarded before each
// match, and the suffix must be preceded by a separator (or start the string)
// so legitimate names that merely end in a suffix are left alone.
func (n *Normalizer) stripTrailingSuffixes(s string) string {
	for {
		s = strings.TrimRightFunc(s, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})

		stripped := false
		for _, suf := range n.rules.Suffixes {
			if suf == "" || !strings.HasSuffix(s, suf) {
				continue
			}
			rest := s[:len(s)-len(suf)]
			if rest != "" && !endsInSeparator(rest) {
				continue
			}
			s = rest
			stripped = true
			break
		}

		if !stripped {
			return s
		}
	}
}

// endsInSeparator reports whether the string's final rune is a comma or
// whitespace, i.e. whether what follows starts a new token.
func endsInSeparator(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == ',' || unicode.IsSpace(r)
}
