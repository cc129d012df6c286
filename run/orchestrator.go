/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package run

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/chainguard-dev/clog"
	"github.com/shurcooL/githubv4"

	"github.com/sammyfilly/dt-mergebot/board"
	"github.com/sammyfilly/dt-mergebot/execute"
	"github.com/sammyfilly/dt-mergebot/plan"
	"github.com/sammyfilly/dt-mergebot/pull"
	"github.com/sammyfilly/dt-mergebot/state"
)

// Source is the query layer the orchestrator reads from.
type Source interface {
	// FetchAllOpenPRsAndCardIDs returns the numbers of all open PRs and the
	// card IDs those PRs own on the board.
	FetchAllOpenPRsAndCardIDs(ctx context.Context) (map[int]struct{}, map[string]struct{}, error)
	// FetchPRInfo returns the raw snapshot for one PR. The result's
	// Repository.PullRequest is nil when no such PR exists.
	FetchPRInfo(ctx context.Context, number int) (*pull.QueryResult, error)
}

// DeriveFunc classifies one raw snapshot.
type DeriveFunc func(*pull.QueryResult) state.BotResult

// PlanFunc maps one classified result to an ordered action sequence.
type PlanFunc func(state.BotResult) []plan.Action

// Failure records one per-PR error.
type Failure struct {
	PRNumber int
	Err      error
}

// Hooks are purely observational callbacks, each independently optional.
// Their presence must never alter behavior.
type Hooks struct {
	RawQuery       func(number int, res *pull.QueryResult)
	DerivedState   func(number int, r state.BotResult)
	PlannedActions func(number int, actions []plan.Action)
	Mutations      func(number int, muts []execute.Mutation)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSelection restricts processing to PR numbers the predicate accepts.
func WithSelection(p Predicate) Option {
	return func(o *Orchestrator) {
		o.selection = p
	}
}

// WithDryRun plans and constructs mutations without submitting anything, and
// skips board cleanup.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) {
		o.dryRun = dryRun
	}
}

// WithCleanup toggles the board reconciliation phase.
func WithCleanup(cleanup bool) Option {
	return func(o *Orchestrator) {
		o.cleanup = cleanup
	}
}

// WithReconciler installs the board reconciler used for the cleanup phase.
func WithReconciler(r *board.Reconciler) Option {
	return func(o *Orchestrator) {
		o.reconciler = r
	}
}

// WithColumnSource installs the column fetch used to resolve column names to
// node IDs for card moves.
func WithColumnSource(cs board.ColumnSource) Option {
	return func(o *Orchestrator) {
		o.columnSource = cs
	}
}

// WithHooks installs observability hooks.
func WithHooks(h Hooks) Option {
	return func(o *Orchestrator) {
		o.hooks = h
	}
}

// Orchestrator drives the derive -> plan -> execute pipeline per PR, then
// reconciles the board.
type Orchestrator struct {
	source   Source
	derive   DeriveFunc
	planFn   PlanFunc
	executor *execute.Executor

	reconciler   *board.Reconciler
	columnSource board.ColumnSource

	selection Predicate
	dryRun    bool
	cleanup   bool
	hooks     Hooks
}

// New constructs an Orchestrator. Cleanup is enabled by default and every PR
// number is selected by default.
func New(source Source, derive DeriveFunc, planFn PlanFunc, executor *execute.Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:    source,
		derive:    derive,
		planFn:    planFn,
		executor:  executor,
		selection: func(int) bool { return true },
		cleanup:   true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes every selected open PR and then reconciles the board. All
// per-PR failures are reported; if any were recorded and failure propagation
// is not suppressed by dry-run or disabled cleanup, the returned error
// carries the first one.
func (o *Orchestrator) Run(ctx context.Context) error {
	log := clog.FromContext(ctx)

	prNumbers, cardIDs, err := o.source.FetchAllOpenPRsAndCardIDs(ctx)
	if err != nil {
		return fmt.Errorf("fetching open PRs and card IDs: %w", err)
	}

	columns, err := o.columnIndex(ctx)
	if err != nil {
		return err
	}

	numbers := make([]int, 0, len(prNumbers))
	for n := range prNumbers {
		if o.selection(n) {
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)
	log.With("selected", len(numbers), "open", len(prNumbers)).Info("Processing pull requests")

	var failures []Failure
	for _, n := range numbers {
		if err := o.processPR(ctx, n, columns); err != nil {
			log.With("pr", n).Errorf("Processing failed: %v", err)
			failures = append(failures, Failure{PRNumber: n, Err: err})
		}
	}

	for _, f := range failures {
		log.With("pr", f.PRNumber).Errorf("Recorded failure: %v", f.Err)
	}

	if o.dryRun || !o.cleanup {
		log.With("dry_run", o.dryRun, "cleanup", o.cleanup, "failures", len(failures)).
			Info("Skipping board cleanup")
		return nil
	}

	if o.reconciler != nil {
		// Configuration errors here are deliberately not downgraded to
		// per-PR failures: cleanup against a missing column is unsafe.
		if err := o.reconciler.Reconcile(ctx, cardIDs); err != nil {
			return fmt.Errorf("reconciling board: %w", err)
		}
	}

	if len(failures) > 0 {
		first := failures[0]
		return fmt.Errorf("%d pull request(s) failed, first: PR #%d: %w", len(failures), first.PRNumber, first.Err)
	}
	return nil
}

// processPR runs fetch -> derive -> plan -> execute for one PR. Any error is
// recorded at the per-PR boundary by the caller; it never aborts the batch.
func (o *Orchestrator) processPR(ctx context.Context, number int, columns map[string]githubv4.ID) error {
	res, err := o.source.FetchPRInfo(ctx, number)
	if err != nil {
		return fmt.Errorf("fetching PR info: %w", err)
	}
	if o.hooks.RawQuery != nil {
		o.hooks.RawQuery(number, res)
	}

	r := o.derive(res)
	if o.hooks.DerivedState != nil {
		o.hooks.DerivedState(number, r)
	}
	if r.Kind == state.KindError {
		return errors.New(r.Message)
	}

	actions := o.planFn(r)
	if o.hooks.PlannedActions != nil {
		o.hooks.PlannedActions(number, actions)
	}
	if len(actions) == 0 {
		return nil
	}

	t := execute.Target{
		PR:      res.Repository.PullRequest,
		Labels:  labelIndex(res.Repository.Labels),
		Columns: columns,
	}
	muts, err := o.executor.Execute(ctx, t, actions)
	if o.hooks.Mutations != nil {
		o.hooks.Mutations(number, muts)
	}
	return err
}

// columnIndex resolves column names to node IDs for card moves. Without a
// column source, moves against any column fail per-PR rather than up front.
func (o *Orchestrator) columnIndex(ctx context.Context) (map[string]githubv4.ID, error) {
	if o.columnSource == nil {
		return nil, nil
	}
	cols, err := o.columnSource.FetchProjectColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching project columns: %w", err)
	}
	idx := make(map[string]githubv4.ID, len(cols))
	for _, c := range cols {
		idx[c.Name] = githubv4.ID(c.ID)
	}
	return idx, nil
}

func labelIndex(labels []pull.Label) map[string]githubv4.ID {
	idx := make(map[string]githubv4.ID, len(labels))
	for _, l := range labels {
		idx[l.Name] = l.ID
	}
	return idx
}
