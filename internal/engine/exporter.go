// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "sort"

// Export walks the hoisted working graph and emits an External tree,
// children sorted by id for determinism. Each node is emitted in full at
// the first path on which Export's depth-first walk encounters it;
// HoistedTo is internal bookkeeping and is never emitted.
func Export(root *Node) *External {
	return exportNode(root, make(map[*Node]bool))
}

func exportNode(n *Node, emitted map[*Node]bool) *External {
	ext := &External{ID: string(n.ID)}
	if n.PackageType != "" {
		ext.PackageType = string(n.PackageType)
	}
	if len(n.PeerNames) > 0 {
		peers := make([]string, 0, len(n.PeerNames))
		for p := range n.PeerNames {
			peers = append(peers, string(p))
		}
		sort.Strings(peers)
		ext.PeerNames = peers
	}

	if emitted[n] {
		return ext
	}
	emitted[n] = true

	ext.Dependencies = exportChildren(n.Dependencies, emitted)
	ext.Workspaces = exportChildren(n.Workspaces, emitted)
	return ext
}

func exportChildren(m map[PackageName]*Node, emitted map[*Node]bool) []*External {
	if len(m) == 0 {
		return nil
	}
	children := make([]*Node, 0, len(m))
	for _, v := range m {
		children = append(children, v)
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })

	out := make([]*External, 0, len(children))
	for _, c := range children {
		out = append(out, exportNode(c, emitted))
	}
	return out
}
