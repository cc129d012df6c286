/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package run sequences the triage pipeline across all selected open pull
// requests.
//
// PRs are processed strictly sequentially: each mutation submission is
// awaited before the next action is considered, so no locking is needed
// around shared board and label state. Per-PR failures are recorded and the
// batch continues; the run only fails at the very end, carrying the first
// recorded failure while reporting all of them.
package run
