/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package plan

import "fmt"

// ActionKind enumerates the remediation instructions the planner can emit.
type ActionKind int

const (
	// AddLabel attaches Label to the PR.
	AddLabel ActionKind = iota
	// RemoveLabel detaches Label from the PR.
	RemoveLabel
	// PostComment posts Body as an issue comment on the PR.
	PostComment
	// MoveToColumn moves the PR's project card to Column.
	MoveToColumn
	// DeleteCard removes the PR's project card from the board.
	DeleteCard
)

// String returns the wire-ish name of the action kind.
func (k ActionKind) String() string {
	switch k {
	case AddLabel:
		return "add-label"
	case RemoveLabel:
		return "remove-label"
	case PostComment:
		return "post-comment"
	case MoveToColumn:
		return "move-to-column"
	case DeleteCard:
		return "delete-card"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Action is a single planned instruction. Which payload fields are set
// depends on Kind.
type Action struct {
	Kind   ActionKind
	Label  string // AddLabel, RemoveLabel
	Body   string // PostComment
	Column string // MoveToColumn
}

// Detail returns the payload relevant to the action's kind, for display.
func (a Action) Detail() string {
	switch a.Kind {
	case AddLabel, RemoveLabel:
		return a.Label
	case PostComment:
		return a.Body
	case MoveToColumn:
		return a.Column
	default:
		return ""
	}
}
