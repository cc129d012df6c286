/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package board reconciles the project board against the ground-truth set of
// open pull requests.
//
// The reconciler is deliberately asymmetric about deletion: a card is deleted
// only when it is past the archive column's retention window, or when its
// linked PR is positively confirmed closed or merged. A card whose PR cannot
// be resolved, or resolves to anything still open, is logged as "should
// delete" and left alone. Do not simplify this to auto-delete on ambiguous
// resolution.
package board
