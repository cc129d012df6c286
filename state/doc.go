/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package state derives a classified BotResult from a raw pull request
// snapshot.
//
// Derivation is a pure function: it performs no I/O, and identical input
// always yields an identical result (the clock is injected so tests can pin
// it). Metadata that violates an assumption the rules depend on produces a
// KindError result, which the orchestrator records as a per-PR failure
// without aborting the batch.
package state
