/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package plan

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sammyfilly/dt-mergebot/pull"
	"github.com/sammyfilly/dt-mergebot/state"
)

func infoResult(info *state.Info) state.BotResult {
	return state.BotResult{Kind: state.KindInfo, Info: info}
}

func basePR() *pull.PullRequestInfo {
	return &pull.PullRequestInfo{
		ID:         "PR_node",
		Number:     42,
		Author:     "octocat",
		State:      pull.StateOpen,
		HeadRefOid: "abc123",
		UpdatedAt:  time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		ProjectCard: &pull.ProjectCardRef{
			ID:         "CARD_node",
			ColumnName: "Waiting for Code Reviews",
		},
	}
}

// TestPlanErrorStateNoActions verifies error states plan nothing: there are
// no remediation rules for PRs the bot could not classify.
func TestPlanErrorStateNoActions(t *testing.T) {
	p := New(DefaultPolicy())

	actions := p.Plan(state.BotResult{Kind: state.KindError, Message: "CI failed"})
	if len(actions) != 0 {
		t.Errorf("actions: got = %v, wanted = none", actions)
	}
}

// TestPlanNoOpStateNoActions verifies no-op states plan nothing.
func TestPlanNoOpStateNoActions(t *testing.T) {
	p := New(DefaultPolicy())

	actions := p.Plan(state.BotResult{Kind: state.KindNoOp, Message: "draft"})
	if len(actions) != 0 {
		t.Errorf("actions: got = %v, wanted = none", actions)
	}
}

// TestPlanRemoveStatePlansCardDeletion verifies closed PRs get their card
// deleted.
func TestPlanRemoveStatePlansCardDeletion(t *testing.T) {
	p := New(DefaultPolicy())

	actions := p.Plan(state.BotResult{Kind: state.KindRemove, Message: "merged"})
	want := []Action{{Kind: DeleteCard}}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
}

// TestPlanDebugSinkIsBehaviorNeutral verifies the diagnostic callback never
// changes the returned action sequence.
func TestPlanDebugSinkIsBehaviorNeutral(t *testing.T) {
	p := New(DefaultPolicy())
	pr := basePR()
	r := infoResult(&state.Info{
		PR:             pr,
		Classification: state.NeedsAuthorAction,
		CIFailed:       true,
	})

	plain := p.Plan(r)

	called := 0
	debugged := p.Plan(r, WithDebug(func(string, ...any) { called++ }))

	if diff := cmp.Diff(plain, debugged); diff != "" {
		t.Errorf("debug sink altered actions (-plain +debugged):\n%s", diff)
	}
	if called == 0 {
		t.Error("debug sink invocations: got = 0, wanted > 0")
	}
}

// TestPlanLabelDiff verifies labels are diffed against the PR's current
// labels: stale managed labels are removed first, missing ones added.
func TestPlanLabelDiff(t *testing.T) {
	policy := DefaultPolicy()
	p := New(policy)

	pr := basePR()
	pr.Labels = []pull.Label{{ID: "L1", Name: policy.Labels.MergeConflict}}
	pr.ProjectCard.ColumnName = policy.Columns.NeedsAuthorAction
	r := infoResult(&state.Info{
		PR:             pr,
		Classification: state.NeedsAuthorAction,
		CIFailed:       true,
	})

	actions := p.Plan(r)
	if len(actions) != 3 {
		t.Fatalf("actions: got = %v, wanted = 3 entries", actions)
	}
	want := []Action{
		{Kind: RemoveLabel, Label: policy.Labels.MergeConflict},
		{Kind: AddLabel, Label: policy.Labels.CIFailed},
		{Kind: PostComment, Body: actions[2].Body},
		// no column move: card already in Needs Author Action
	}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
}

// TestPlanIdempotentAgainstRemediatedPR verifies a PR that already carries
// the desired labels, comment, and column plans zero actions.
func TestPlanIdempotentAgainstRemediatedPR(t *testing.T) {
	policy := DefaultPolicy()
	p := New(policy)

	pr := basePR()
	pr.Labels = []pull.Label{{ID: "L1", Name: policy.Labels.CIFailed}}
	pr.Comments = []pull.Comment{{
		ID:     "C1",
		Author: "dt-mergebot",
		Body:   "please fix\n\n" + Marker("ci-failed", pr.HeadRefOid),
	}}
	pr.ProjectCard.ColumnName = policy.Columns.NeedsAuthorAction
	r := infoResult(&state.Info{
		PR:             pr,
		Classification: state.NeedsAuthorAction,
		CIFailed:       true,
	})

	if actions := p.Plan(r); len(actions) != 0 {
		t.Errorf("actions: got = %v, wanted = none", actions)
	}
}

// TestPlanCommentRearmsOnNewHead verifies a new head commit re-arms the CI
// failure comment.
func TestPlanCommentRearmsOnNewHead(t *testing.T) {
	policy := DefaultPolicy()
	p := New(policy)

	pr := basePR()
	pr.Labels = []pull.Label{{ID: "L1", Name: policy.Labels.CIFailed}}
	pr.Comments = []pull.Comment{{
		ID:   "C1",
		Body: "please fix\n\n" + Marker("ci-failed", "oldhead"),
	}}
	pr.ProjectCard.ColumnName = policy.Columns.NeedsAuthorAction
	r := infoResult(&state.Info{
		PR:             pr,
		Classification: state.NeedsAuthorAction,
		CIFailed:       true,
	})

	actions := p.Plan(r)
	if len(actions) != 1 || actions[0].Kind != PostComment {
		t.Fatalf("actions: got = %v, wanted = a single post-comment", actions)
	}
}

// TestPlanColumnPlacement verifies move actions are only planned when the
// card exists and sits in the wrong column.
func TestPlanColumnPlacement(t *testing.T) {
	policy := DefaultPolicy()
	p := New(policy)

	tests := []struct {
		name     string
		mutate   func(*pull.PullRequestInfo)
		wantMove bool
	}{
		{
			name:     "card in wrong column",
			mutate:   func(*pull.PullRequestInfo) {},
			wantMove: true,
		},
		{
			name: "card already placed",
			mutate: func(pr *pull.PullRequestInfo) {
				pr.ProjectCard.ColumnName = policy.Columns.ReadyToMerge
			},
			wantMove: false,
		},
		{
			name:     "no card",
			mutate:   func(pr *pull.PullRequestInfo) { pr.ProjectCard = nil },
			wantMove: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pr := basePR()
			tc.mutate(pr)
			r := infoResult(&state.Info{
				PR:             pr,
				Classification: state.ReadyToMerge,
				Approved:       true,
			})

			actions := p.Plan(r)
			moved := false
			for _, a := range actions {
				if a.Kind == MoveToColumn {
					moved = true
					if got, want := a.Column, policy.Columns.ReadyToMerge; got != want {
						t.Errorf("Column: got = %q, wanted = %q", got, want)
					}
				}
			}
			if moved != tc.wantMove {
				t.Errorf("move planned: got = %t, wanted = %t", moved, tc.wantMove)
			}
		})
	}
}

// TestPlanAbandoned verifies the abandoned classification adds the label and
// warning comment.
func TestPlanAbandoned(t *testing.T) {
	policy := DefaultPolicy()
	p := New(policy)

	pr := basePR()
	pr.ProjectCard.ColumnName = policy.Columns.Abandoned
	r := infoResult(&state.Info{
		PR:               pr,
		Classification:   state.Abandoned,
		HasMergeConflict: true,
	})

	actions := p.Plan(r)
	var kinds []ActionKind
	for _, a := range actions {
		kinds = append(kinds, a.Kind)
	}
	want := []ActionKind{AddLabel, AddLabel, PostComment}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("action kinds (-want +got):\n%s", diff)
	}
}
