/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package execute translates planned actions into GraphQL mutations and
// applies them.
//
// Each action translates into zero or more Mutations. In dry-run mode the
// mutations are constructed and returned but never submitted; in live mode
// each is submitted in sequence and the first submission failure fails the
// whole PR's processing. Either way the final mutation list is returned for
// observability.
package execute
