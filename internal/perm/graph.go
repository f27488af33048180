// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package perm

import "github.com/lakegate/lakegate/internal/perm/types"

// Reduce compiles a flat path set into the permission graph. Paths are
// grouped by their first segment and each group reduced recursively; a
// terminal marker among a node's children absorbs its siblings, so the most
// permissive applicable grant wins at every branch point.
//
// Reduce is a closure operation: reducing the path set of an already-reduced
// graph reproduces the graph. It is also order-independent, since grouping
// by segment carries no notion of input order. An empty path set yields an
// empty graph.
func Reduce(paths []types.Path) *types.Node {
	var terminals []types.Marker
	groups := make(map[types.Segment][]types.Path)

	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		head := path[0]
		if head.IsMarker() && len(path) == 1 {
			terminals = append(terminals, head.Marker)
			continue
		}
		groups[head] = append(groups[head], path[1:])
	}

	if marker, ok := Absorb(terminals); ok {
		return types.NewTerminal(marker)
	}

	// Each recursion level owns its grouping map exclusively; finished
	// sub-nodes are handed to the parent and never shared.
	node := types.NewBranch()
	for head, tails := range groups {
		node.Children[head] = Reduce(tails)
	}
	return node
}
