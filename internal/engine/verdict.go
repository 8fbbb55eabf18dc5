// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "sort"

// VerdictKind is one of the four outcomes the verdict procedure can reach
// for a single candidate edge.
type VerdictKind int

const (
	// VerdictNo means the child will never be hoistable past its current
	// parent; the edge is left in place.
	VerdictNo VerdictKind = iota
	// VerdictYes means the child should be lifted to path[NewParentIndex].
	VerdictYes
	// VerdictLater means try again once the queue reaches LaterDepth.
	VerdictLater
	// VerdictDepends means the outcome is conditional on a set of
	// peer-sibling names that must move together with this one.
	VerdictDepends
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictNo:
		return "NO"
	case VerdictYes:
		return "YES"
	case VerdictLater:
		return "LATER"
	case VerdictDepends:
		return "DEPENDS"
	default:
		return "?"
	}
}

// Verdict is the tagged result of deciding whether, and how far, a single
// child may be hoisted.
type Verdict struct {
	Kind           VerdictKind
	NewParentIndex int                      // valid when Kind == VerdictYes
	LaterDepth     int                      // valid when Kind == VerdictLater
	DependsOn      map[PackageName]struct{} // valid when Kind == VerdictDepends
}

func indexOfID(id PackageId, ranks []PackageId) int {
	for i, r := range ranks {
		if r == id {
			return i
		}
	}
	return -1
}

func indexOfNode(n *Node, path []*Node) int {
	for i, p := range path {
		if p == n {
			return i
		}
	}
	return -1
}

// Decide evaluates whether parent's child under the given name slot can be
// lifted, and how far. path is the current ancestor chain ending at the
// node whose child is under consideration (path[len(path)-1] is the
// parent); k is the priority depth currently being drained (0 on the
// initial pass).
//
// The scan walks ancestors root-outward. An unoccupied slot is claimable
// once the candidate's own priority rank has come up (rank <= k); a slot
// occupied by the same id coalesces; a slot occupied by a different id, or
// by a workspace sibling, blocks that ancestor and the scan moves one
// level in. A claimable slot is still refused when the lift would change
// what anything in the graph resolves a name to: no conflicting binding
// may sit between the target and the parent (chainClearBetween), the new
// binding must not capture resolutions below the target
// (placementShadows), and everything inside the lifted subtree must keep
// seeing the instances it sees today (requirementsPreserved).
func Decide(path []*Node, name PackageName, k int, priorities Priorities) Verdict {
	parent := path[len(path)-1]
	dep := parent.Dependencies[name]
	ranks := priorities[name]
	p := indexOfID(dep.ID, ranks)

	for i := 0; i <= len(path)-2; i++ {
		ancestor := path[i]
		occupant, occupied := ancestor.Dependencies[name]

		if !occupied {
			if _, ws := ancestor.Workspaces[name]; ws {
				continue // the name is a workspace sibling here, not a landing slot
			}
			if p > k {
				return Verdict{Kind: VerdictLater, LaterDepth: p}
			}
			if !chainClearBetween(path, i, name, dep.ID) ||
				placementShadows(path[:i+1], name, dep.ID) {
				continue
			}
		} else if occupant.ID != dep.ID {
			continue
		} else if !chainClearBetween(path, i, name, dep.ID) {
			continue
		}

		if v, terminal := finishYesVerdict(path, parent, dep, name, i, k, priorities); terminal {
			return v
		}
		// This target fails the subtree requirements; a deeper one keeps
		// more of the original context around, so keep scanning.
	}

	return Verdict{Kind: VerdictNo}
}

// chainClearBetween reports whether no ancestor strictly between path[i]
// and the parent binds name to a different id. Such a binding would
// shadow the lifted copy for everything beneath it, so the lift must not
// jump over it.
func chainClearBetween(path []*Node, i int, name PackageName, depID PackageId) bool {
	for j := i + 1; j <= len(path)-2; j++ {
		if occ, ok := path[j].Dependencies[name]; ok && occ.ID != depID {
			return false
		}
	}
	return true
}

// placementShadows reports whether giving path's last element a new
// binding (name -> depID) would change what some node beneath it
// currently resolves name to. The walk descends the target's subtree,
// stopping wherever a closer binding for name exists; within the
// remaining region, a peer usage of name or a record of name having been
// lifted away resolves at or above the target today, and would be
// captured by the new binding instead.
func placementShadows(path []*Node, name PackageName, depID PackageId) bool {
	at := path[len(path)-1]
	current, hasCurrent := resolveNearest(path, name)
	if hasCurrent && current.ID == depID {
		return false
	}

	hit := false
	seen := make(map[*Node]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if hit || seen[n] {
			return
		}
		seen[n] = true
		if n != at {
			// The target's own peers resolve from its parent, above the
			// new binding, so only descendants' peers are at risk. A
			// descendant's peer resolves from its own parent, so it is at
			// risk even when the descendant also binds name itself.
			if _, peers := n.PeerNames[name]; peers && hasCurrent {
				hit = true
				return
			}
			if _, owns := n.Dependencies[name]; owns {
				return // resolves name locally from here down, unaffected
			}
		}
		if _, lifted := n.HoistedTo[name]; lifted {
			hit = true
			return
		}
		for _, c := range n.Workspaces {
			walk(c)
		}
		for _, c := range n.Dependencies {
			walk(c)
		}
	}
	walk(at)
	return hit
}

// requirementsPreserved verifies that lifting dep from parent to path[i]
// keeps every requirement inside dep's subtree resolving to the instance
// it resolves to today. Two kinds of requirement escape the subtree: peer
// names not rebound by a closer dependency inside it, and names whose
// binding was previously lifted to an ancestor (recorded in HoistedTo).
// moving names co-located with dep by the same lift (dep's own name, or
// a whole peer cycle moving together) are exempt from the peer check.
func requirementsPreserved(path []*Node, i int, dep *Node, moving map[PackageName]bool) bool {
	newChain := path[:i+1]

	ok := true
	// A walk-stack guard rather than a visited set: the bound-name context
	// differs per path into a shared node, and every path must hold.
	visiting := make(map[*Node]bool)
	var walk func(n *Node, bound map[PackageName]bool)
	walk = func(n *Node, bound map[PackageName]bool) {
		if !ok || visiting[n] {
			return
		}
		visiting[n] = true
		defer delete(visiting, n)

		for q, owner := range n.HoistedTo {
			if bound[q] {
				continue
			}
			expected, has := owner.Dependencies[q]
			if !has {
				ok = false
				return
			}
			if got, found := resolveNearest(newChain, q); !found || got != expected {
				ok = false
				return
			}
		}
		for q := range n.PeerNames {
			if bound[q] || moving[q] {
				continue
			}
			current, has := resolveNearest(path, q)
			if !has {
				continue
			}
			if got, found := resolveNearest(newChain, q); !found || got != current {
				ok = false
				return
			}
		}

		next := bound
		if len(n.Dependencies) > 0 {
			next = make(map[PackageName]bool, len(bound)+len(n.Dependencies))
			for q := range bound {
				next[q] = true
			}
			for q := range n.Dependencies {
				next[q] = true
			}
		}
		for _, c := range n.Workspaces {
			walk(c, next)
		}
		for _, c := range n.Dependencies {
			walk(c, next)
		}
	}
	walk(dep, make(map[PackageName]bool))
	return ok
}

// targetStillValid re-runs the slot guards against a target index that
// was not the one the ancestor scan validated (the peer cap in
// finishYesVerdict can push the target deeper).
func targetStillValid(path []*Node, i int, name PackageName, dep *Node) bool {
	if occupant, occupied := path[i].Dependencies[name]; occupied {
		return occupant.ID == dep.ID && chainClearBetween(path, i, name, dep.ID)
	}
	if _, ws := path[i].Workspaces[name]; ws {
		return false
	}
	return chainClearBetween(path, i, name, dep.ID) &&
		!placementShadows(path[:i+1], name, dep.ID)
}

// finishYesVerdict applies the peer-co-location constraints to a tentative
// YES at path[newParentIndex]: a peer still sitting at parent whose own
// turn has passed pins dep permanently; one whose turn is still coming
// defers dep to that turn; one already lifted away caps how high dep may
// go (no higher than the peer's new owner). The second return value is
// false when only this target is invalid and the caller should keep
// scanning deeper ancestors.
func finishYesVerdict(path []*Node, parent, dep *Node, name PackageName, newParentIndex, k int, priorities Priorities) (Verdict, bool) {
	peerNames := make([]PackageName, 0, len(dep.PeerNames))
	for q := range dep.PeerNames {
		peerNames = append(peerNames, q)
	}
	sort.Slice(peerNames, func(i, j int) bool { return peerNames[i] < peerNames[j] })

	scanned := newParentIndex
	laterDepth := -1
	for _, q := range peerNames {
		if occupant, ok := parent.Dependencies[q]; ok {
			rank := indexOfID(occupant.ID, priorities[q])
			if rank <= k {
				return Verdict{Kind: VerdictNo}, true
			}
			if rank > laterDepth {
				laterDepth = rank
			}
			continue
		}
		if owner, ok := parent.HoistedTo[q]; ok {
			if oi := indexOfNode(owner, path); oi > newParentIndex {
				newParentIndex = oi
			}
		}
	}

	if laterDepth >= 0 {
		if laterDepth < k {
			laterDepth = k
		}
		return Verdict{Kind: VerdictLater, LaterDepth: laterDepth}, true
	}

	if newParentIndex != scanned && !targetStillValid(path, newParentIndex, name, dep) {
		return Verdict{Kind: VerdictNo}, true
	}

	if !requirementsPreserved(path, newParentIndex, dep, map[PackageName]bool{name: true}) {
		return Verdict{}, false
	}

	return Verdict{Kind: VerdictYes, NewParentIndex: newParentIndex}, true
}
