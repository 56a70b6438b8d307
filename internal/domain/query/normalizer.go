// Package query normalizes raw search terms into name tokens.
//
// A term must contain at least two name tokens before any lookup runs;
// single-word input is rejected before the record store is touched.
package query

import "strings"

// minTokens is the smallest number of name tokens a searchable term may have.
const minTokens = 2

// Normalize trims raw, splits it on whitespace and drops empty tokens.
// It fails with ErrTooFewTokens when fewer than two tokens remain.
func Normalize(raw string) ([]string, error) {
	tokens := strings.Fields(raw)
	if len(tokens) < minTokens {
		return nil, ErrTooFewTokens
	}
	return tokens, nil
}

// CleanTerm returns the whitespace-squashed form of raw: tokens joined by a
// single space. An all-whitespace input yields the empty string.
func CleanTerm(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
