/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gh

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/sammyfilly/dt-mergebot/execute"
)

// SubmitMutation submits a single mutation. The payload selections only
// request clientMutationId; the bot never consumes mutation results.
func (c *Client) SubmitMutation(ctx context.Context, m execute.Mutation) error {
	var err error
	switch input := m.Input.(type) {
	case githubv4.AddLabelsToLabelableInput:
		var mu struct {
			AddLabelsToLabelable struct {
				ClientMutationId githubv4.String
			} `graphql:"addLabelsToLabelable(input: $input)"`
		}
		err = c.gql.Mutate(ctx, &mu, input, nil)

	case githubv4.RemoveLabelsFromLabelableInput:
		var mu struct {
			RemoveLabelsFromLabelable struct {
				ClientMutationId githubv4.String
			} `graphql:"removeLabelsFromLabelable(input: $input)"`
		}
		err = c.gql.Mutate(ctx, &mu, input, nil)

	case githubv4.AddCommentInput:
		var mu struct {
			AddComment struct {
				ClientMutationId githubv4.String
			} `graphql:"addComment(input: $input)"`
		}
		err = c.gql.Mutate(ctx, &mu, input, nil)

	case githubv4.MoveProjectCardInput:
		var mu struct {
			MoveProjectCard struct {
				ClientMutationId githubv4.String
			} `graphql:"moveProjectCard(input: $input)"`
		}
		err = c.gql.Mutate(ctx, &mu, input, nil)

	case githubv4.DeleteProjectCardInput:
		var mu struct {
			DeleteProjectCard struct {
				ClientMutationId githubv4.String
			} `graphql:"deleteProjectCard(input: $input)"`
		}
		err = c.gql.Mutate(ctx, &mu, input, nil)

	default:
		return fmt.Errorf("unhandled mutation input type %T for %s", m.Input, m.Name)
	}

	if err != nil {
		return fmt.Errorf("mutation %s: %w", m.Name, err)
	}
	return nil
}
