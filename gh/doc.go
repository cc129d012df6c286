/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gh implements the query and mutation collaborators over the GitHub
// GraphQL API.
//
// A Client authenticates with either a personal access token or GitHub App
// installation credentials, and satisfies the run.Source, board.ColumnSource,
// board.CardResolver, and execute.Submitter interfaces. Retries, backoff,
// and rate limiting belong to the underlying transport; callers treat any
// error from this package as terminal for the PR being processed.
package gh
