/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package execute

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/shurcooL/githubv4"

	"github.com/sammyfilly/dt-mergebot/plan"
	"github.com/sammyfilly/dt-mergebot/pull"
)

// Target bundles the originating PR with the lookup tables needed to resolve
// action payloads (label names, column names) into GraphQL node IDs.
type Target struct {
	PR *pull.PullRequestInfo
	// Labels maps repository label names to node IDs.
	Labels map[string]githubv4.ID
	// Columns maps project column names to node IDs.
	Columns map[string]githubv4.ID
}

// Option configures an Executor.
type Option func(*Executor)

// WithDryRun makes Execute construct mutations without submitting them.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// Executor applies planned action sequences.
type Executor struct {
	submitter Submitter
	dryRun    bool
}

// New constructs an Executor that submits through the given Submitter.
func New(submitter Submitter, opts ...Option) *Executor {
	e := &Executor{submitter: submitter}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute translates actions into mutations in order, submitting each one
// unless dry-run is set. It returns the mutations built so far along with the
// first translation or submission error, if any. Actions are never reordered.
func (e *Executor) Execute(ctx context.Context, t Target, actions []plan.Action) ([]Mutation, error) {
	log := clog.FromContext(ctx)

	var mutations []Mutation
	for _, a := range actions {
		ms, err := e.translate(ctx, t, a)
		if err != nil {
			return mutations, err
		}
		for _, m := range ms {
			mutations = append(mutations, m)
			if e.dryRun {
				log.With("mutation", m.Name).Debug("dry-run: skipping submission")
				continue
			}
			if err := e.submitter.SubmitMutation(ctx, m); err != nil {
				return mutations, fmt.Errorf("submitting %s for PR #%d: %w", m.Name, t.PR.Number, err)
			}
		}
	}
	return mutations, nil
}

// translate maps one action to zero or more mutations. An action that cannot
// be resolved against the repository (unknown label or column) is an error;
// an action that has nothing to act on (no project card) translates to zero
// mutations.
func (e *Executor) translate(ctx context.Context, t Target, a plan.Action) ([]Mutation, error) {
	log := clog.FromContext(ctx)

	switch a.Kind {
	case plan.AddLabel:
		id, ok := t.Labels[a.Label]
		if !ok {
			return nil, fmt.Errorf("label %q does not exist in the repository", a.Label)
		}
		return []Mutation{{
			Name: "addLabelsToLabelable",
			Input: githubv4.AddLabelsToLabelableInput{
				LabelableID: t.PR.ID,
				LabelIDs:    []githubv4.ID{id},
			},
		}}, nil

	case plan.RemoveLabel:
		id, ok := t.Labels[a.Label]
		if !ok {
			return nil, fmt.Errorf("label %q does not exist in the repository", a.Label)
		}
		return []Mutation{{
			Name: "removeLabelsFromLabelable",
			Input: githubv4.RemoveLabelsFromLabelableInput{
				LabelableID: t.PR.ID,
				LabelIDs:    []githubv4.ID{id},
			},
		}}, nil

	case plan.PostComment:
		return []Mutation{{
			Name: "addComment",
			Input: githubv4.AddCommentInput{
				SubjectID: t.PR.ID,
				Body:      githubv4.String(a.Body),
			},
		}}, nil

	case plan.MoveToColumn:
		if t.PR.ProjectCard == nil {
			log.With("pr", t.PR.Number).Debug("no project card to move")
			return nil, nil
		}
		id, ok := t.Columns[a.Column]
		if !ok {
			return nil, fmt.Errorf("column %q does not exist on the project board", a.Column)
		}
		return []Mutation{{
			Name: "moveProjectCard",
			Input: githubv4.MoveProjectCardInput{
				CardID:   t.PR.ProjectCard.ID,
				ColumnID: id,
			},
		}}, nil

	case plan.DeleteCard:
		if t.PR.ProjectCard == nil {
			log.With("pr", t.PR.Number).Debug("no project card to delete")
			return nil, nil
		}
		return []Mutation{{
			Name: "deleteProjectCard",
			Input: githubv4.DeleteProjectCardInput{
				CardID: t.PR.ProjectCard.ID,
			},
		}}, nil

	default:
		return nil, fmt.Errorf("unhandled action kind %v", a.Kind)
	}
}
