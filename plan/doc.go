/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package plan turns a derived BotResult into an ordered list of actions.
//
// Actions are data, not side effects: the full sequence is inspectable before
// anything is executed, and the executor applies it in exactly the order
// returned. Planning is pure; the optional debug sink only emits side-channel
// diagnostics and never changes the returned sequence.
//
// The mapping from classifications to concrete label, comment, and column
// names is a replaceable Policy value. The default policy mirrors the
// DefinitelyTyped review board; a YAML file can override the names without
// recompiling.
package plan
