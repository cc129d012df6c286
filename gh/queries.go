/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gh

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/sammyfilly/dt-mergebot/board"
	"github.com/sammyfilly/dt-mergebot/pull"
)

type gqlLabel struct {
	Id   githubv4.ID
	Name string
}

// FetchAllOpenPRsAndCardIDs returns the ground truth for a run: the numbers
// of all open PRs in the repository, and the board card IDs those PRs own.
func (c *Client) FetchAllOpenPRsAndCardIDs(ctx context.Context) (map[int]struct{}, map[string]struct{}, error) {
	prNumbers := map[int]struct{}{}
	cardIDs := map[string]struct{}{}

	var cursor *githubv4.String
	for {
		var query struct {
			Repository struct {
				PullRequests struct {
					PageInfo struct {
						HasNextPage bool
						EndCursor   githubv4.String
					}
					Nodes []struct {
						Number       int
						ProjectCards struct {
							Nodes []struct {
								Id githubv4.ID
							}
						} `graphql:"projectCards(first: 10)"`
					}
				} `graphql:"pullRequests(states: [OPEN], first: 100, after: $cursor)"`
			} `graphql:"repository(owner: $owner, name: $repo)"`
		}

		variables := map[string]any{
			"owner":  githubv4.String(c.owner),
			"repo":   githubv4.String(c.repo),
			"cursor": cursor,
		}

		if err := c.gql.Query(ctx, &query, variables); err != nil {
			return nil, nil, fmt.Errorf("querying open pull requests: %w", err)
		}

		for _, pr := range query.Repository.PullRequests.Nodes {
			prNumbers[pr.Number] = struct{}{}
			for _, card := range pr.ProjectCards.Nodes {
				cardIDs[idString(card.Id)] = struct{}{}
			}
		}

		if !query.Repository.PullRequests.PageInfo.HasNextPage {
			break
		}
		cursor = &query.Repository.PullRequests.PageInfo.EndCursor
	}

	return prNumbers, cardIDs, nil
}

// FetchPRInfo fetches the raw snapshot for one PR together with the
// repository's labels (needed to resolve label mutations). The result's
// Repository.PullRequest is nil when no PR with this number exists.
func (c *Client) FetchPRInfo(ctx context.Context, number int) (*pull.QueryResult, error) {
	var query struct {
		Repository struct {
			Labels struct {
				Nodes []gqlLabel
			} `graphql:"labels(first: 100)"`
			PullRequest *struct {
				Id             githubv4.ID
				Number         int
				Title          string
				State          string
				IsDraft        bool
				CreatedAt      githubv4.DateTime
				UpdatedAt      githubv4.DateTime
				HeadRefOid     string
				Mergeable      string
				ReviewDecision string
				Author         *struct {
					Login string
				}
				Commits struct {
					Nodes []struct {
						Commit struct {
							StatusCheckRollup *struct {
								State string
							}
						}
					}
				} `graphql:"commits(last: 1)"`
				Labels struct {
					Nodes []gqlLabel
				} `graphql:"labels(first: 100)"`
				Comments struct {
					Nodes []struct {
						Id     githubv4.ID
						Author *struct {
							Login string
						}
						Body      string
						CreatedAt githubv4.DateTime
					}
				} `graphql:"comments(last: 100)"`
				ProjectCards struct {
					Nodes []struct {
						Id     githubv4.ID
						Column *struct {
							Name string
						}
					}
				} `graphql:"projectCards(first: 10)"`
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":  githubv4.String(c.owner),
		"repo":   githubv4.String(c.repo),
		"number": githubv4.Int(number),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("querying pull request #%d: %w", number, err)
	}

	res := &pull.QueryResult{}
	for _, l := range query.Repository.Labels.Nodes {
		res.Repository.Labels = append(res.Repository.Labels, pull.Label{ID: l.Id, Name: l.Name})
	}

	pr := query.Repository.PullRequest
	if pr == nil {
		return res, nil
	}

	info := &pull.PullRequestInfo{
		ID:             pr.Id,
		Number:         pr.Number,
		Title:          pr.Title,
		State:          pull.State(pr.State),
		IsDraft:        pr.IsDraft,
		CreatedAt:      pr.CreatedAt.Time,
		UpdatedAt:      pr.UpdatedAt.Time,
		HeadRefOid:     pr.HeadRefOid,
		Mergeable:      pull.Mergeable(pr.Mergeable),
		ReviewDecision: pull.ReviewDecision(pr.ReviewDecision),
	}
	if pr.Author != nil {
		info.Author = pr.Author.Login
	}
	if len(pr.Commits.Nodes) > 0 {
		if rollup := pr.Commits.Nodes[0].Commit.StatusCheckRollup; rollup != nil {
			info.CheckState = pull.CheckState(rollup.State)
		}
	}
	for _, l := range pr.Labels.Nodes {
		info.Labels = append(info.Labels, pull.Label{ID: l.Id, Name: l.Name})
	}
	for _, cm := range pr.Comments.Nodes {
		comment := pull.Comment{
			ID:        cm.Id,
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt.Time,
		}
		if cm.Author != nil {
			comment.Author = cm.Author.Login
		}
		info.Comments = append(info.Comments, comment)
	}
	if len(pr.ProjectCards.Nodes) > 0 {
		card := pr.ProjectCards.Nodes[0]
		ref := &pull.ProjectCardRef{ID: card.Id}
		if card.Column != nil {
			ref.ColumnName = card.Column.Name
		}
		info.ProjectCard = ref
	}

	res.Repository.PullRequest = info
	return res, nil
}

// FetchProjectColumns returns the board's columns with up to the first 100
// cards per column. TotalCount is recorded as reported by the API so callers
// can detect pagination truncation.
func (c *Client) FetchProjectColumns(ctx context.Context) ([]board.ProjectColumn, error) {
	var query struct {
		Repository struct {
			Project *struct {
				Columns struct {
					Nodes []struct {
						Id    githubv4.ID
						Name  string
						Cards struct {
							TotalCount int
							Nodes      []struct {
								Id        githubv4.ID
								UpdatedAt githubv4.DateTime
								Content   *struct {
									PullRequest struct {
										Number int
									} `graphql:"... on PullRequest"`
								}
							}
						} `graphql:"cards(first: 100)"`
					}
				} `graphql:"columns(first: 20)"`
			} `graphql:"project(number: $project)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":   githubv4.String(c.owner),
		"repo":    githubv4.String(c.repo),
		"project": githubv4.Int(c.projectNumber),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("querying project columns: %w", err)
	}
	if query.Repository.Project == nil {
		return nil, fmt.Errorf("project %d not found on %s/%s", c.projectNumber, c.owner, c.repo)
	}

	var columns []board.ProjectColumn
	for _, col := range query.Repository.Project.Columns.Nodes {
		pc := board.ProjectColumn{
			ID:         idString(col.Id),
			Name:       col.Name,
			TotalCount: col.Cards.TotalCount,
		}
		for _, card := range col.Cards.Nodes {
			bc := board.Card{
				ID:        idString(card.Id),
				UpdatedAt: card.UpdatedAt.Time,
			}
			if card.Content != nil {
				bc.PRNumber = card.Content.PullRequest.Number
			}
			pc.Cards = append(pc.Cards, bc)
		}
		columns = append(columns, pc)
	}
	return columns, nil
}

// ResolvePRForCardID resolves a card to its linked pull request. A nil
// result means the card has no resolvable PR.
func (c *Client) ResolvePRForCardID(ctx context.Context, id string) (*board.CardPR, error) {
	var query struct {
		Node *struct {
			ProjectCard struct {
				Content *struct {
					PullRequest struct {
						Number int
						State  string
					} `graphql:"... on PullRequest"`
				}
			} `graphql:"... on ProjectCard"`
		} `graphql:"node(id: $id)"`
	}

	variables := map[string]any{
		"id": githubv4.ID(id),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("resolving card %s: %w", id, err)
	}

	if query.Node == nil || query.Node.ProjectCard.Content == nil {
		return nil, nil
	}
	content := query.Node.ProjectCard.Content.PullRequest
	if content.Number == 0 {
		// Content was present but not a pull request (e.g. an issue).
		return nil, nil
	}
	return &board.CardPR{
		Number: content.Number,
		State:  pull.State(content.State),
	}, nil
}

// idString renders a GraphQL node ID as a string key.
func idString(id githubv4.ID) string {
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", id)
}
