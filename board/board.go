/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package board

import (
	"context"
	"time"

	"github.com/sammyfilly/dt-mergebot/pull"
)

// Card is a single board entry. PRNumber is zero when the card has no
// resolvable pull request content (e.g. a note card).
type Card struct {
	ID        string
	UpdatedAt time.Time
	PRNumber  int
}

// ProjectColumn is a named column and the cards fetched from it. TotalCount
// comes from the API and may exceed len(Cards) when pagination truncated the
// fetch; that mismatch must be surfaced as a warning, never silently trusted.
type ProjectColumn struct {
	ID         string
	Name       string
	TotalCount int
	Cards      []Card
}

// CardPR is the pull request a card resolves to.
type CardPR struct {
	Number int
	State  pull.State
}

// ColumnSource fetches the board's columns and their cards.
type ColumnSource interface {
	FetchProjectColumns(ctx context.Context) ([]ProjectColumn, error)
}

// CardResolver resolves a card ID to its linked pull request. A nil result
// with a nil error means the card has no resolvable PR.
type CardResolver interface {
	ResolvePRForCardID(ctx context.Context, id string) (*CardPR, error)
}
