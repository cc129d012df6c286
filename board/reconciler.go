/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package board

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/chainguard-dev/clog"
	"github.com/shurcooL/githubv4"

	"github.com/sammyfilly/dt-mergebot/execute"
	"github.com/sammyfilly/dt-mergebot/pull"
)

// ErrArchiveColumnMissing indicates the configured archive column was not
// found on the board. Cleanup against the wrong or missing column is unsafe,
// so this aborts the whole cleanup phase.
var ErrArchiveColumnMissing = errors.New("archive column not found on project board")

// DefaultArchiveKeep is how many of the most recently updated archive cards
// survive reconciliation.
const DefaultArchiveKeep = 50

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithArchiveColumn overrides the archive column name.
func WithArchiveColumn(name string) Option {
	return func(r *Reconciler) {
		r.archiveColumn = name
	}
}

// WithArchiveKeep overrides the archive retention count.
func WithArchiveKeep(n int) Option {
	return func(r *Reconciler) {
		r.archiveKeep = n
	}
}

// Reconciler removes stale cards from the board.
type Reconciler struct {
	columns   ColumnSource
	resolver  CardResolver
	submitter execute.Submitter

	archiveColumn string
	archiveKeep   int
}

// New constructs a Reconciler.
func New(columns ColumnSource, resolver CardResolver, submitter execute.Submitter, opts ...Option) *Reconciler {
	r := &Reconciler{
		columns:       columns,
		resolver:      resolver,
		submitter:     submitter,
		archiveColumn: "Recently Merged",
		archiveKeep:   DefaultArchiveKeep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Deletion is one card marked for removal.
type Deletion struct {
	CardID string
	Column string
	Reason string
}

// CleanupPlan is the computed reconciliation outcome: what will be deleted,
// what looks deletable but could not be confirmed safe, and any
// data-integrity warnings encountered along the way.
type CleanupPlan struct {
	Deletions []Deletion
	// ShouldDelete lists cards that appear stale but whose linked PR could
	// not be positively confirmed closed. They are logged, never deleted.
	ShouldDelete []Deletion
	Warnings     []string
}

// Plan computes the deletion plan for the board. openCardIDs is the
// ground-truth set of card IDs belonging to still-open pull requests.
func (r *Reconciler) Plan(ctx context.Context, openCardIDs map[string]struct{}) (*CleanupPlan, error) {
	log := clog.FromContext(ctx)

	columns, err := r.columns.FetchProjectColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching project columns: %w", err)
	}

	var archive *ProjectColumn
	for i := range columns {
		if columns[i].Name == r.archiveColumn {
			archive = &columns[i]
			break
		}
	}
	if archive == nil {
		return nil, fmt.Errorf("%w: %q", ErrArchiveColumnMissing, r.archiveColumn)
	}

	p := &CleanupPlan{}
	r.planArchive(ctx, archive, p)

	for i := range columns {
		if columns[i].Name == r.archiveColumn {
			continue
		}
		r.planColumn(ctx, &columns[i], openCardIDs, p)
	}

	log.With("deletions", len(p.Deletions), "should_delete", len(p.ShouldDelete)).
		Info("Computed board cleanup plan")
	return p, nil
}

// planArchive retains the archiveKeep most recently updated cards and marks
// the rest for unconditional deletion.
func (r *Reconciler) planArchive(ctx context.Context, col *ProjectColumn, p *CleanupPlan) {
	log := clog.FromContext(ctx)

	if col.TotalCount > len(col.Cards) {
		w := fmt.Sprintf("column %q reports %d cards but only %d were fetched; pagination may be hiding cards",
			col.Name, col.TotalCount, len(col.Cards))
		log.Warn(w)
		p.Warnings = append(p.Warnings, w)
	}
	if len(col.Cards) <= r.archiveKeep {
		return
	}

	cards := make([]Card, len(col.Cards))
	copy(cards, col.Cards)
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].UpdatedAt.Before(cards[j].UpdatedAt)
	})
	for _, c := range cards[:len(cards)-r.archiveKeep] {
		p.Deletions = append(p.Deletions, Deletion{
			CardID: c.ID,
			Column: col.Name,
			Reason: fmt.Sprintf("outside the %d most recently updated archive cards", r.archiveKeep),
		})
	}
}

// planColumn marks cards in a non-archive column for deletion only when
// their PR is confirmed closed or merged.
func (r *Reconciler) planColumn(ctx context.Context, col *ProjectColumn, openCardIDs map[string]struct{}, p *CleanupPlan) {
	log := clog.FromContext(ctx)

	for _, c := range col.Cards {
		if _, open := openCardIDs[c.ID]; open {
			continue
		}

		prRef, err := r.resolver.ResolvePRForCardID(ctx, c.ID)
		switch {
		case err != nil:
			// A resolution failure is ambiguous, and ambiguity never
			// deletes. Treat it like an unresolvable card.
			log.With("card", c.ID, "column", col.Name).Warnf("Failed to resolve card: %v", err)
			p.ShouldDelete = append(p.ShouldDelete, Deletion{
				CardID: c.ID,
				Column: col.Name,
				Reason: fmt.Sprintf("resolution failed: %v", err),
			})
		case prRef == nil:
			log.With("card", c.ID, "column", col.Name).Info("Should delete: card has no resolvable PR")
			p.ShouldDelete = append(p.ShouldDelete, Deletion{
				CardID: c.ID,
				Column: col.Name,
				Reason: "card has no resolvable pull request",
			})
		case prRef.State == pull.StateClosed || prRef.State == pull.StateMerged:
			p.Deletions = append(p.Deletions, Deletion{
				CardID: c.ID,
				Column: col.Name,
				Reason: fmt.Sprintf("PR #%d is %s", prRef.Number, prRef.State),
			})
		default:
			// Merged-but-open edge cases and re-opened PRs land here.
			log.With("card", c.ID, "column", col.Name, "pr", prRef.Number).
				Info("Should delete: linked PR is not confirmed closed")
			p.ShouldDelete = append(p.ShouldDelete, Deletion{
				CardID: c.ID,
				Column: col.Name,
				Reason: fmt.Sprintf("PR #%d is still %s", prRef.Number, prRef.State),
			})
		}
	}
}

// Apply submits one delete mutation per planned deletion. Deletions are not
// transactional: a failure deleting one card does not prevent attempting the
// rest, and all failures are joined into the returned error.
func (r *Reconciler) Apply(ctx context.Context, p *CleanupPlan) error {
	log := clog.FromContext(ctx)

	var errs []error
	for _, d := range p.Deletions {
		m := execute.Mutation{
			Name: "deleteProjectCard",
			Input: githubv4.DeleteProjectCardInput{
				CardID: githubv4.ID(d.CardID),
			},
		}
		if err := r.submitter.SubmitMutation(ctx, m); err != nil {
			log.With("card", d.CardID, "column", d.Column).Warnf("Failed to delete card: %v", err)
			errs = append(errs, fmt.Errorf("deleting card %s: %w", d.CardID, err))
			continue
		}
		log.With("card", d.CardID, "column", d.Column, "reason", d.Reason).Info("Deleted card")
	}
	return errors.Join(errs...)
}

// Reconcile computes and applies the cleanup plan in one step.
func (r *Reconciler) Reconcile(ctx context.Context, openCardIDs map[string]struct{}) error {
	p, err := r.Plan(ctx, openCardIDs)
	if err != nil {
		return err
	}
	return r.Apply(ctx, p)
}
