/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pull defines the raw pull request snapshot consumed by the triage
// pipeline.
//
// A QueryResult is fetched fresh from the GitHub GraphQL API once per run per
// pull request and discarded at the end of the run. Nothing in this package
// performs I/O; the gh package is responsible for populating these types.
package pull
