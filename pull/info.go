/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pull

import (
	"time"

	"github.com/shurcooL/githubv4"
)

// State is the lifecycle state of a pull request.
type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
	StateMerged State = "MERGED"
)

// CheckState is the aggregate status-check rollup for the head commit.
type CheckState string

const (
	CheckSuccess  CheckState = "SUCCESS"
	CheckFailure  CheckState = "FAILURE"
	CheckError    CheckState = "ERROR"
	CheckPending  CheckState = "PENDING"
	CheckExpected CheckState = "EXPECTED"
)

// Mergeable reports whether GitHub considers the PR mergeable into its base.
type Mergeable string

const (
	MergeableClean       Mergeable = "MERGEABLE"
	MergeableConflicting Mergeable = "CONFLICTING"
	MergeableUnknown     Mergeable = "UNKNOWN"
)

// ReviewDecision is the repository-level review decision for the PR.
type ReviewDecision string

const (
	ReviewApproved         ReviewDecision = "APPROVED"
	ReviewChangesRequested ReviewDecision = "CHANGES_REQUESTED"
	ReviewRequired         ReviewDecision = "REVIEW_REQUIRED"
)

// Label is a repository label attached to (or attachable to) a PR.
type Label struct {
	ID   githubv4.ID
	Name string
}

// Comment is an issue comment on the PR.
type Comment struct {
	ID        githubv4.ID
	Author    string
	Body      string
	CreatedAt time.Time
}

// ProjectCardRef links the PR to its card on the project board, if any.
type ProjectCardRef struct {
	ID         githubv4.ID
	ColumnName string
}

// PullRequestInfo is the raw metadata snapshot for a single pull request.
// It is immutable once fetched and scoped to a single run.
type PullRequestInfo struct {
	ID             githubv4.ID
	Number         int
	Title          string
	Author         string
	State          State
	IsDraft        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	HeadRefOid     string
	Mergeable      Mergeable
	ReviewDecision ReviewDecision
	CheckState     CheckState
	Labels         []Label
	Comments       []Comment
	ProjectCard    *ProjectCardRef
}

// HasLabel reports whether the PR currently carries the named label.
func (pr *PullRequestInfo) HasLabel(name string) bool {
	for _, l := range pr.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// QueryResult mirrors the shape of the per-PR GraphQL query. PullRequest is
// nil when no PR with the requested number exists.
type QueryResult struct {
	Repository struct {
		// Labels are the repository's known labels, used to resolve label
		// names to node IDs when building mutations.
		Labels      []Label
		PullRequest *PullRequestInfo
	}
}
