// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "sort"

// Priorities maps every PackageName reachable in the graph to an ordered
// list of candidate ids, most-desired first. The index of an id within its
// name's list is that id's priority depth.
type Priorities map[PackageName][]PackageId

// occurrence records one edge parent -> child encountered during the
// analysis traversal.
type occurrence struct {
	parent      *Node
	child       *Node
	isWorkspace bool
}

// Analyze computes Priorities for the whole graph reachable from root:
// placement class, then popularity (distinct direct parent ids, including
// peer-induced usages), then a version-aware tie-break, falling back to
// reverse lexicographic id order.
func Analyze(root *Node) Priorities {
	occs, peerOccs := collectOccurrences(root)

	classByID := make(map[PackageId]PlacementClass)
	parentsByID := make(map[PackageId]map[PackageId]struct{})
	nameByID := make(map[PackageId]PackageName)

	record := func(childID, parentID PackageId) {
		set, ok := parentsByID[childID]
		if !ok {
			set = make(map[PackageId]struct{})
			parentsByID[childID] = set
		}
		set[parentID] = struct{}{}
	}

	for _, o := range occs {
		id := o.child.ID
		nameByID[id] = NameOf(id)
		record(id, o.parent.ID)

		class := ClassOrdinary
		if o.parent.PackageType == PortalType {
			class = ClassPortal
		} else if o.isWorkspace {
			class = ClassWorkspace
		}
		if class > classByID[id] {
			classByID[id] = class
		}
	}

	for _, po := range peerOccs {
		nameByID[po.child.ID] = NameOf(po.child.ID)
		record(po.child.ID, po.parent.ID)
		if _, ok := classByID[po.child.ID]; !ok {
			classByID[po.child.ID] = ClassOrdinary
		}
	}

	byName := make(map[PackageName][]PackageId)
	for id, name := range nameByID {
		byName[name] = append(byName[name], id)
	}

	result := make(Priorities, len(byName))
	for name, ids := range byName {
		ids := ids
		sort.Slice(ids, func(i, j int) bool {
			ci, cj := classByID[ids[i]], classByID[ids[j]]
			if ci != cj {
				return ci > cj
			}
			pi, pj := len(parentsByID[ids[i]]), len(parentsByID[ids[j]])
			if pi != pj {
				return pi > pj
			}
			return lessByVersionOrLex(ids[i], ids[j])
		})
		result[name] = ids
	}
	return result
}

// lessByVersionOrLex orders a before b for priority tie-breaking: if both
// ids carry a parseable semver version component, order by semver
// precedence (descending desirability handled by the caller negating via
// sort.Slice's "less" direction — here we just want a>b meaning a is more
// desired, so this returns whether a should sort before b in a descending
// scan, i.e. whether a > b). Falls back to reverse lexicographic id order
// (the lexicographically greater id sorts first) when either id's version
// component doesn't parse.
func lessByVersionOrLex(a, b PackageId) bool {
	va, oka := versionOf(a)
	vb, okb := versionOf(b)
	if oka && okb {
		return va.Compare(vb) > 0
	}
	return a > b
}

// collectOccurrences walks the whole graph reachable from root (cycle
// guarded by current-path membership, exactly as the hoister driver's own
// traversal is) and returns every direct parent->child edge plus every
// peer-induced occurrence: for node v with peer name q, the nearest
// ancestor A (walking from v's immediate parent toward the root) with
// A.Dependencies[q] set contributes an occurrence (A.Dependencies[q], v).
// Only the nearest ancestor match is counted, not every match along the
// path — mirroring the single resolution the peer actually observes.
func collectOccurrences(root *Node) (edges, peers []occurrence) {
	var walk func(path []*Node, n *Node)
	onPath := func(path []*Node, n *Node) bool {
		for _, p := range path {
			if p == n {
				return true
			}
		}
		return false
	}

	walk = func(path []*Node, n *Node) {
		newPath := append(append([]*Node(nil), path...), n)

		visitChild := func(child *Node, isWorkspace bool) {
			edges = append(edges, occurrence{parent: n, child: child, isWorkspace: isWorkspace})
			if !onPath(newPath, child) {
				walk(newPath, child)
			}
		}
		for _, child := range n.Workspaces {
			visitChild(child, true)
		}
		for _, child := range n.Dependencies {
			visitChild(child, false)
		}

		for q := range n.PeerNames {
			if target, ok := resolveNearest(path, q); ok {
				peers = append(peers, occurrence{parent: n, child: target})
			}
		}
	}

	walk(nil, root)
	return edges, peers
}

// resolveNearest walks path (root-first, nearest-last) from its tail
// toward the root looking for the nearest entry with Dependencies[name]
// set. Workspace edges are never resolution targets.
func resolveNearest(path []*Node, name PackageName) (*Node, bool) {
	for i := len(path) - 1; i >= 0; i-- {
		if v, ok := path[i].Dependencies[name]; ok {
			return v, true
		}
	}
	return nil, false
}
