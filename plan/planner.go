/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package plan

import (
	"fmt"
	"strings"

	"github.com/sammyfilly/dt-mergebot/state"
)

// DebugFunc receives side-channel diagnostics during planning. Supplying one
// must never change the returned action sequence.
type DebugFunc func(format string, args ...any)

// PlanOption configures a single Plan invocation.
type PlanOption func(*planConfig)

type planConfig struct {
	debug DebugFunc
}

// WithDebug installs a diagnostic sink for this invocation.
func WithDebug(f DebugFunc) PlanOption {
	return func(c *planConfig) {
		c.debug = f
	}
}

// Planner maps BotResults to action sequences under a fixed Policy.
type Planner struct {
	policy Policy
}

// New constructs a Planner for the given policy.
func New(policy Policy) *Planner {
	return &Planner{policy: policy}
}

// Marker returns the HTML comment marker embedded in bot comments so a
// comment is posted at most once per (tag, key) pair. No mutation history
// persists between runs; idempotency comes from scanning existing comments
// for this marker.
func Marker(tag, key string) string {
	return fmt.Sprintf("<!-- dt-mergebot:%s:%s -->", tag, key)
}

// Plan returns the ordered action sequence for the given result. Label
// removals come first, then additions, then comments, then the column move,
// so the executor can apply them in order without reordering.
func (p *Planner) Plan(r state.BotResult, opts ...PlanOption) []Action {
	var cfg planConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	debug := func(format string, args ...any) {
		if cfg.debug != nil {
			cfg.debug(format, args...)
		}
	}

	switch r.Kind {
	case state.KindError:
		debug("error state (%s): no remediation rules", r.Message)
		return nil
	case state.KindNoOp:
		debug("noop state (%s)", r.Message)
		return nil
	case state.KindRemove:
		debug("remove state (%s): planning card deletion", r.Message)
		// The executor emits zero mutations when the PR has no card.
		return []Action{{Kind: DeleteCard}}
	case state.KindInfo:
		return p.planInfo(r.Info, debug)
	default:
		debug("unhandled result kind %v", r.Kind)
		return nil
	}
}

func (p *Planner) planInfo(info *state.Info, debug DebugFunc) []Action {
	pr := info.PR
	var actions []Action

	// Managed labels are diffed against the PR's current labels so the plan
	// is idempotent: re-running against an already-remediated PR yields no
	// label actions.
	managed := []struct {
		name   string
		wanted bool
	}{
		{p.policy.Labels.CIFailed, info.CIFailed},
		{p.policy.Labels.MergeConflict, info.HasMergeConflict},
		{p.policy.Labels.RevisionNeeded, info.ChangesRequested},
		{p.policy.Labels.Abandoned, info.Classification == state.Abandoned},
	}
	for _, m := range managed {
		if m.name == "" {
			continue
		}
		has := pr.HasLabel(m.name)
		debug("label %q: wanted=%t present=%t", m.name, m.wanted, has)
		if has && !m.wanted {
			actions = append(actions, Action{Kind: RemoveLabel, Label: m.name})
		}
	}
	for _, m := range managed {
		if m.name == "" {
			continue
		}
		if m.wanted && !pr.HasLabel(m.name) {
			actions = append(actions, Action{Kind: AddLabel, Label: m.name})
		}
	}

	// Comments are keyed on the head commit: a new push re-arms them.
	if info.CIFailed {
		actions = p.appendComment(actions, info, "ci-failed", p.policy.Comments.CIFailed, debug)
	}
	if info.Classification == state.Abandoned {
		actions = p.appendComment(actions, info, "abandoned", p.policy.Comments.Abandoned, debug)
	}

	// Column moves only apply to PRs that already have a board card; card
	// creation belongs to the board automation, not this bot.
	target := p.columnFor(info.Classification)
	switch {
	case pr.ProjectCard == nil:
		debug("no project card; skipping column placement")
	case pr.ProjectCard.ColumnName == target:
		debug("card already in column %q", target)
	default:
		debug("moving card from %q to %q", pr.ProjectCard.ColumnName, target)
		actions = append(actions, Action{Kind: MoveToColumn, Column: target})
	}

	return actions
}

func (p *Planner) appendComment(actions []Action, info *state.Info, tag, template string, debug DebugFunc) []Action {
	if template == "" {
		return actions
	}
	marker := Marker(tag, info.PR.HeadRefOid)
	for _, c := range info.PR.Comments {
		if strings.Contains(c.Body, marker) {
			debug("comment %q already posted for head %s", tag, info.PR.HeadRefOid)
			return actions
		}
	}
	body := fmt.Sprintf(template, "@"+info.PR.Author) + "\n\n" + marker
	return append(actions, Action{Kind: PostComment, Body: body})
}

func (p *Planner) columnFor(c state.Classification) string {
	switch c {
	case state.WaitingForReviewers:
		return p.policy.Columns.WaitingForReviewers
	case state.NeedsAuthorAction:
		return p.policy.Columns.NeedsAuthorAction
	case state.ReadyToMerge:
		return p.policy.Columns.ReadyToMerge
	case state.Abandoned:
		return p.policy.Columns.Abandoned
	default:
		return p.policy.Columns.WaitingForReviewers
	}
}
