/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the rule table mapping derived classifications to concrete board
// column names, labels, and comment templates. It is plain data so the rule
// set can be swapped without touching the planning logic.
type Policy struct {
	Columns struct {
		WaitingForReviewers string `yaml:"waitingForReviewers"`
		NeedsAuthorAction   string `yaml:"needsAuthorAction"`
		ReadyToMerge        string `yaml:"readyToMerge"`
		Abandoned           string `yaml:"abandoned"`
	} `yaml:"columns"`

	Labels struct {
		CIFailed       string `yaml:"ciFailed"`
		MergeConflict  string `yaml:"mergeConflict"`
		RevisionNeeded string `yaml:"revisionNeeded"`
		Abandoned      string `yaml:"abandoned"`
	} `yaml:"labels"`

	// Comment templates are fmt format strings receiving the author's
	// @-mention as their single argument.
	Comments struct {
		CIFailed  string `yaml:"ciFailed"`
		Abandoned string `yaml:"abandoned"`
	} `yaml:"comments"`

	// StaleAfterDays is the needs-author-action window before a PR counts
	// as abandoned. Consumed by the deriver configuration, not the planner.
	StaleAfterDays int `yaml:"staleAfterDays"`

	Archive struct {
		// Column is the board column holding finished PRs. Its absence at
		// cleanup time is a fatal configuration error.
		Column string `yaml:"column"`
		// Keep is how many of the most recently updated archive cards to
		// retain during reconciliation.
		Keep int `yaml:"keep"`
	} `yaml:"archive"`
}

// DefaultPolicy returns the rule table for the DefinitelyTyped review board.
func DefaultPolicy() Policy {
	var p Policy
	p.Columns.WaitingForReviewers = "Waiting for Code Reviews"
	p.Columns.NeedsAuthorAction = "Needs Author Action"
	p.Columns.ReadyToMerge = "Waiting for Author to Merge"
	p.Columns.Abandoned = "Needs Author Action"
	p.Labels.CIFailed = "The CI failed"
	p.Labels.MergeConflict = "Has Merge Conflict"
	p.Labels.RevisionNeeded = "Revision needed"
	p.Labels.Abandoned = "Abandoned"
	p.Comments.CIFailed = "%s the continuous integration run failed for your latest commit. Please take a look and push a fix."
	p.Comments.Abandoned = "%s this pull request has needed your attention for a while without activity. It will be treated as abandoned unless it is updated."
	p.StaleAfterDays = 30
	p.Archive.Column = "Recently Merged"
	p.Archive.Keep = 50
	return p
}

// LoadPolicy reads a YAML policy file layered over the defaults, so a file
// only needs to name the fields it overrides.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Policy{}, fmt.Errorf("parsing policy file: %w", err)
	}
	if p.Archive.Column == "" {
		return Policy{}, fmt.Errorf("policy file %s clears the archive column", path)
	}
	if p.Archive.Keep <= 0 {
		return Policy{}, fmt.Errorf("policy file %s sets a non-positive archive retention", path)
	}
	return p, nil
}
