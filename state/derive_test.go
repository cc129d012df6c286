/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package state

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sammyfilly/dt-mergebot/pull"
)

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// openPR returns a consistent open PR snapshot that derives to
// waiting-for-reviewers unless mutated by the caller.
func openPR(number int) *pull.PullRequestInfo {
	return &pull.PullRequestInfo{
		ID:         "PR_node",
		Number:     number,
		Title:      "feat: add thing",
		Author:     "octocat",
		State:      pull.StateOpen,
		CreatedAt:  testNow.Add(-48 * time.Hour),
		UpdatedAt:  testNow.Add(-2 * time.Hour),
		HeadRefOid: "abc123",
		Mergeable:  pull.MergeableClean,
		CheckState: pull.CheckPending,
	}
}

func resultFor(pr *pull.PullRequestInfo) *pull.QueryResult {
	res := &pull.QueryResult{}
	res.Repository.PullRequest = pr
	return res
}

// TestDeriveDeterminism verifies that repeated derivation of the same input
// yields an identical result.
func TestDeriveDeterminism(t *testing.T) {
	d := New(WithClock(fixedClock))
	res := resultFor(openPR(7))

	first := d.Derive(res)
	second := d.Derive(res)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Derive not deterministic (-first +second):\n%s", diff)
	}
}

// TestDeriveMissingPR verifies that an absent pull request is a classified
// error, not a panic.
func TestDeriveMissingPR(t *testing.T) {
	d := New(WithClock(fixedClock))

	for _, res := range []*pull.QueryResult{nil, {}} {
		r := d.Derive(res)
		if got, want := r.Kind, KindError; got != want {
			t.Errorf("Kind: got = %v, wanted = %v", got, want)
		}
		if r.Message == "" {
			t.Error("Message: got = empty, wanted = non-empty")
		}
	}
}

// TestDeriveClosedAndMerged verifies closed and merged PRs derive to the
// remove-from-board variant.
func TestDeriveClosedAndMerged(t *testing.T) {
	d := New(WithClock(fixedClock))

	for _, st := range []pull.State{pull.StateClosed, pull.StateMerged} {
		pr := openPR(11)
		pr.State = st
		r := d.Derive(resultFor(pr))
		if got, want := r.Kind, KindRemove; got != want {
			t.Errorf("Kind for %s: got = %v, wanted = %v", st, got, want)
		}
	}
}

// TestDeriveInconsistentMetadata verifies that missing required fields
// produce classified errors.
func TestDeriveInconsistentMetadata(t *testing.T) {
	d := New(WithClock(fixedClock))

	tests := []struct {
		name   string
		mutate func(*pull.PullRequestInfo)
	}{
		{"missing node id", func(pr *pull.PullRequestInfo) { pr.ID = nil }},
		{"empty node id", func(pr *pull.PullRequestInfo) { pr.ID = "" }},
		{"missing head commit", func(pr *pull.PullRequestInfo) { pr.HeadRefOid = "" }},
		{"missing created timestamp", func(pr *pull.PullRequestInfo) { pr.CreatedAt = time.Time{} }},
		{"missing updated timestamp", func(pr *pull.PullRequestInfo) { pr.UpdatedAt = time.Time{} }},
		{"unexpected state", func(pr *pull.PullRequestInfo) { pr.State = "BOGUS" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pr := openPR(3)
			tc.mutate(pr)
			r := d.Derive(resultFor(pr))
			if got, want := r.Kind, KindError; got != want {
				t.Errorf("Kind: got = %v, wanted = %v", got, want)
			}
			if r.Info != nil {
				t.Error("Info: got = non-nil, wanted = nil")
			}
		})
	}
}

// TestDeriveDraft verifies draft PRs derive to a no-op.
func TestDeriveDraft(t *testing.T) {
	d := New(WithClock(fixedClock))
	pr := openPR(4)
	pr.IsDraft = true

	r := d.Derive(resultFor(pr))
	if got, want := r.Kind, KindNoOp; got != want {
		t.Errorf("Kind: got = %v, wanted = %v", got, want)
	}
}

// TestDeriveClassification exercises the classification rules.
func TestDeriveClassification(t *testing.T) {
	d := New(WithClock(fixedClock))

	tests := []struct {
		name   string
		mutate func(*pull.PullRequestInfo)
		want   Classification
	}{
		{
			name:   "pending checks, no reviews",
			mutate: func(*pull.PullRequestInfo) {},
			want:   WaitingForReviewers,
		},
		{
			name:   "failing CI",
			mutate: func(pr *pull.PullRequestInfo) { pr.CheckState = pull.CheckFailure },
			want:   NeedsAuthorAction,
		},
		{
			name:   "errored CI",
			mutate: func(pr *pull.PullRequestInfo) { pr.CheckState = pull.CheckError },
			want:   NeedsAuthorAction,
		},
		{
			name:   "merge conflict",
			mutate: func(pr *pull.PullRequestInfo) { pr.Mergeable = pull.MergeableConflicting },
			want:   NeedsAuthorAction,
		},
		{
			name:   "changes requested",
			mutate: func(pr *pull.PullRequestInfo) { pr.ReviewDecision = pull.ReviewChangesRequested },
			want:   NeedsAuthorAction,
		},
		{
			name: "approved with green CI",
			mutate: func(pr *pull.PullRequestInfo) {
				pr.ReviewDecision = pull.ReviewApproved
				pr.CheckState = pull.CheckSuccess
			},
			want: ReadyToMerge,
		},
		{
			name: "approved but CI pending",
			mutate: func(pr *pull.PullRequestInfo) {
				pr.ReviewDecision = pull.ReviewApproved
			},
			want: WaitingForReviewers,
		},
		{
			name: "stale needs-author-action",
			mutate: func(pr *pull.PullRequestInfo) {
				pr.CheckState = pull.CheckFailure
				pr.UpdatedAt = testNow.Add(-31 * 24 * time.Hour)
			},
			want: Abandoned,
		},
		{
			name: "stale but nothing blocking the author",
			mutate: func(pr *pull.PullRequestInfo) {
				pr.UpdatedAt = testNow.Add(-90 * 24 * time.Hour)
			},
			want: WaitingForReviewers,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pr := openPR(9)
			tc.mutate(pr)
			r := d.Derive(resultFor(pr))
			if got, want := r.Kind, KindInfo; got != want {
				t.Fatalf("Kind: got = %v, wanted = %v", got, want)
			}
			if got := r.Info.Classification; got != tc.want {
				t.Errorf("Classification: got = %v, wanted = %v", got, tc.want)
			}
		})
	}
}

// TestDeriveStaleWindowOption verifies WithStaleAfter changes the abandoned
// cutoff.
func TestDeriveStaleWindowOption(t *testing.T) {
	d := New(WithClock(fixedClock), WithStaleAfter(time.Hour))
	pr := openPR(12)
	pr.CheckState = pull.CheckFailure
	pr.UpdatedAt = testNow.Add(-2 * time.Hour)

	r := d.Derive(resultFor(pr))
	if got, want := r.Info.Classification, Abandoned; got != want {
		t.Errorf("Classification: got = %v, wanted = %v", got, want)
	}
}
