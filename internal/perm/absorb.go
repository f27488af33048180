// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package perm

import "github.com/lakegate/lakegate/internal/perm/types"

// absorptionOrder fixes the priority of terminal markers, most permissive
// first. When several markers land on the same graph node, the earliest one
// in this table wins and the node collapses to it. The table is the single
// source of truth for absorption; the reducer never computes priorities.
var absorptionOrder = []types.Marker{
	types.MarkerAll,
	types.MarkerBlock,
	types.MarkerWrite,
	types.MarkerRead,
	types.MarkerSegmented,
	types.MarkerFull,
	types.MarkerLimited,
}

// Absorb picks the absorbing marker among the terminal markers found at one
// graph node. It returns false only when no terminal marker is present, in
// which case the node keeps its fan-out.
func Absorb(found []types.Marker) (types.Marker, bool) {
	if len(found) == 0 {
		return "", false
	}
	present := make(map[types.Marker]bool, len(found))
	for _, m := range found {
		present[m] = true
	}
	for _, m := range absorptionOrder {
		if present[m] {
			return m, true
		}
	}
	// Terminal markers come from the extractor, which only ever emits
	// markers listed in the table.
	return "", false
}
