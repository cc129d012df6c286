/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package execute

import "context"

// Mutation is a single remote write in the wire form the GitHub GraphQL API
// expects: the mutation field name plus its githubv4 input struct. A mutation
// is attempted at most once per action per run.
type Mutation struct {
	// Name is the GraphQL mutation field, e.g. "addComment".
	Name string
	// Input is the corresponding githubv4 input value.
	Input any
}

// Submitter submits a single mutation to the remote API. Implementations own
// transport concerns (auth, retries, rate limits); a returned error is
// treated as terminal for the PR being processed.
type Submitter interface {
	SubmitMutation(ctx context.Context, m Mutation) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, m Mutation) error

// SubmitMutation implements Submitter.
func (f SubmitterFunc) SubmitMutation(ctx context.Context, m Mutation) error {
	return f(ctx, m)
}
