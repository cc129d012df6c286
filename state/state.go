/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package state

import (
	"fmt"
	"time"

	"github.com/sammyfilly/dt-mergebot/pull"
)

// Kind discriminates the BotResult tagged union. All consumers must switch
// exhaustively over these values.
type Kind int

const (
	// KindError indicates the PR's metadata violated an assumption the
	// triage rules depend on. Message carries the reason.
	KindError Kind = iota
	// KindRemove indicates the PR is closed or merged and should no longer
	// have a card on the board.
	KindRemove
	// KindNoOp indicates there is nothing for the bot to do for this PR.
	KindNoOp
	// KindInfo indicates a fully classified open PR; Info carries the
	// derived flags the planner maps to actions.
	KindInfo
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindRemove:
		return "remove"
	case KindNoOp:
		return "noop"
	case KindInfo:
		return "info"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Classification buckets an open PR by who the ball is with.
type Classification int

const (
	// WaitingForReviewers: nothing blocks the author; reviews are pending.
	WaitingForReviewers Classification = iota
	// NeedsAuthorAction: failing CI, merge conflict, or requested changes.
	NeedsAuthorAction
	// ReadyToMerge: approved with green CI.
	ReadyToMerge
	// Abandoned: needed author action for longer than the stale window.
	Abandoned
)

// String returns the board-facing name of the classification.
func (c Classification) String() string {
	switch c {
	case WaitingForReviewers:
		return "waiting-for-reviewers"
	case NeedsAuthorAction:
		return "needs-author-action"
	case ReadyToMerge:
		return "ready-to-merge"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// Info is the payload of a KindInfo result.
type Info struct {
	PR *pull.PullRequestInfo

	Classification Classification

	CIFailed         bool
	HasMergeConflict bool
	ChangesRequested bool
	Approved         bool

	// SinceUpdate is how long ago the PR was last touched, relative to the
	// deriver's clock at derivation time.
	SinceUpdate time.Duration
}

// BotResult is the outcome of deriving state for one pull request. Exactly
// one variant holds: Info is non-nil if and only if Kind is KindInfo.
type BotResult struct {
	Kind    Kind
	Message string
	Info    *Info
}
