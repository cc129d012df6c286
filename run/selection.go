/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package run

import (
	"fmt"
	"strconv"
	"strings"
)

// Predicate reports whether a PR number is selected for processing.
type Predicate func(int) bool

// ParseSelection builds a selection predicate from PR number and range
// tokens such as "5" or "10-12". Tokens combine by union: a number is
// selected if any token accepts it. With no tokens, every number is
// selected.
func ParseSelection(tokens []string) (Predicate, error) {
	if len(tokens) == 0 {
		return func(int) bool { return true }, nil
	}

	preds := make([]Predicate, 0, len(tokens))
	for _, tok := range tokens {
		p, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}

	return func(n int) bool {
		for _, p := range preds {
			if p(n) {
				return true
			}
		}
		return false
	}, nil
}

func parseToken(tok string) (Predicate, error) {
	if lo, hi, ok := strings.Cut(tok, "-"); ok {
		a, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", tok, err)
		}
		b, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", tok, err)
		}
		if a > b {
			return nil, fmt.Errorf("invalid range %q: lower bound exceeds upper bound", tok)
		}
		return func(n int) bool { return n >= a && n <= b }, nil
	}

	v, err := strconv.Atoi(tok)
	if err != nil {
		return nil, fmt.Errorf("invalid PR number %q: %w", tok, err)
	}
	return func(n int) bool { return n == v }, nil
}
