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

// DefaultStaleAfter is how long a PR may sit in a needs-author-action state
// before it is classified as abandoned.
const DefaultStaleAfter = 30 * 24 * time.Hour

// Option configures a Deriver.
type Option func(*Deriver)

// WithStaleAfter overrides the window after which an unattended PR that
// needs author action is classified as abandoned.
func WithStaleAfter(d time.Duration) Option {
	return func(dr *Deriver) {
		dr.staleAfter = d
	}
}

// WithClock overrides the time source. Tests use this to make derivation
// reproducible.
func WithClock(now func() time.Time) Option {
	return func(dr *Deriver) {
		dr.now = now
	}
}

// Deriver classifies raw PR snapshots into BotResults.
type Deriver struct {
	staleAfter time.Duration
	now        func() time.Time
}

// New constructs a Deriver with the default stale window and wall clock.
func New(opts ...Option) *Deriver {
	d := &Deriver{
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive produces exactly one BotResult for the given query result. It never
// performs I/O and never panics on missing data; inconsistent metadata is
// reported as a KindError result instead.
func (d *Deriver) Derive(res *pull.QueryResult) BotResult {
	if res == nil || res.Repository.PullRequest == nil {
		return BotResult{Kind: KindError, Message: "no pull request with this number exists"}
	}
	pr := res.Repository.PullRequest

	switch pr.State {
	case pull.StateClosed, pull.StateMerged:
		return BotResult{
			Kind:    KindRemove,
			Message: fmt.Sprintf("pull request is %s and should leave the board", pr.State),
		}
	case pull.StateOpen:
		// fall through to classification
	default:
		return BotResult{Kind: KindError, Message: fmt.Sprintf("unexpected pull request state %q", pr.State)}
	}

	// The rules below depend on these fields; absence means the snapshot is
	// internally inconsistent and this PR cannot be triaged.
	if pr.ID == nil || pr.ID == "" {
		return BotResult{Kind: KindError, Message: "pull request metadata is missing a node id"}
	}
	if pr.HeadRefOid == "" {
		return BotResult{Kind: KindError, Message: "pull request has no head commit"}
	}
	if pr.CreatedAt.IsZero() || pr.UpdatedAt.IsZero() {
		return BotResult{Kind: KindError, Message: "pull request is missing timestamps"}
	}

	if pr.IsDraft {
		return BotResult{Kind: KindNoOp, Message: "draft pull request; the board tracks review-ready PRs only"}
	}

	info := &Info{
		PR:               pr,
		CIFailed:         pr.CheckState == pull.CheckFailure || pr.CheckState == pull.CheckError,
		HasMergeConflict: pr.Mergeable == pull.MergeableConflicting,
		ChangesRequested: pr.ReviewDecision == pull.ReviewChangesRequested,
		Approved:         pr.ReviewDecision == pull.ReviewApproved,
		SinceUpdate:      d.now().Sub(pr.UpdatedAt),
	}

	needsAuthor := info.CIFailed || info.HasMergeConflict || info.ChangesRequested
	switch {
	case needsAuthor && info.SinceUpdate >= d.staleAfter:
		info.Classification = Abandoned
	case needsAuthor:
		info.Classification = NeedsAuthorAction
	case info.Approved && pr.CheckState == pull.CheckSuccess:
		info.Classification = ReadyToMerge
	default:
		info.Classification = WaitingForReviewers
	}

	return BotResult{
		Kind:    KindInfo,
		Message: fmt.Sprintf("classified as %s", info.Classification),
		Info:    info,
	}
}
