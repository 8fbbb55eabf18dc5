// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the dependency hoisting transform: given a
// rooted package dependency graph produced by a resolver, it rewrites the
// graph into a semantically equivalent but flatter one, lifting transitive
// dependencies toward the root wherever doing so does not break the
// require promise of any package in the tree.
package engine

import "fmt"

// PackageId is an opaque identifier for a resolved package instance. The
// distinguished root id is ".".
type PackageId string

// RootID is the distinguished identifier of the root package.
const RootID PackageId = "."

// PackageName is the name a PackageId is installed under. Two distinct ids
// (different versions of the same package, say) may share a name; at most
// one may ever occupy a given name slot within a single Node.
type PackageName string

// PackageType tags a Node with special placement semantics. The zero value
// means "ordinary".
type PackageType string

// PortalType is the only currently recognized PackageType value: a portal
// package's children are given top placement priority (see
// PlacementClass).
const PortalType PackageType = "PORTAL"

// PlacementClass ranks how eagerly a package should claim an ancestor slot.
// Higher beats lower.
type PlacementClass int

const (
	// ClassOrdinary is an ordinary transitive dependency.
	ClassOrdinary PlacementClass = iota
	// ClassWorkspace is reached via a workspace edge from some parent.
	ClassWorkspace
	// ClassPortal is reached from a parent tagged PORTAL.
	ClassPortal
)

// Node is a vertex of the working graph. A Node may be referenced from
// multiple parents (shared subtrees, cycles); the hoister decouples
// (copy-on-write clones) a shared Node each time its traversal enters it
// through a parent slot, so hoists along one path never show through
// another.
type Node struct {
	ID PackageId

	// Dependencies holds this node's regular dependency edges, keyed by
	// name. At most one package may occupy a given name.
	Dependencies map[PackageName]*Node

	// Workspaces holds sibling packages reached via workspace edges,
	// distinguished from Dependencies for placement-class purposes only;
	// the two maps still share a single namespace.
	Workspaces map[PackageName]*Node

	// PeerNames is the set of names this node must see resolve, from its
	// parent's vantage point, to the same instance it saw in the original
	// graph.
	PeerNames map[PackageName]struct{}

	// PackageType optionally tags this node with special placement
	// semantics (currently only PortalType is recognized).
	PackageType PackageType

	// HoistedTo records, for every dependency this node used to own
	// directly that has since been lifted away, which ancestor now owns
	// the canonical copy. It lets the queue drainer reconstruct a
	// deferred item's current graph path after other hoists have
	// happened in the meantime.
	HoistedTo map[PackageName]*Node

	// decoupled marks this Node as a copy-on-write clone made by the
	// driver, so visiting it again does not clone it a second time. The
	// original a clone was made from keeps decoupled false.
	decoupled bool
}

// NewNode allocates an empty Node for id.
func NewNode(id PackageId) *Node {
	return &Node{
		ID:           id,
		Dependencies: make(map[PackageName]*Node),
		Workspaces:   make(map[PackageName]*Node),
		PeerNames:    make(map[PackageName]struct{}),
		HoistedTo:    make(map[PackageName]*Node),
	}
}

// clone returns a shallow copy of n suitable for copy-on-write decoupling:
// the edge maps are copied (so mutating the clone's maps never affects n's)
// but the *Node values they point to are shared.
func (n *Node) clone() *Node {
	c := &Node{
		ID:           n.ID,
		Dependencies: make(map[PackageName]*Node, len(n.Dependencies)),
		Workspaces:   make(map[PackageName]*Node, len(n.Workspaces)),
		PeerNames:    make(map[PackageName]struct{}, len(n.PeerNames)),
		HoistedTo:    make(map[PackageName]*Node, len(n.HoistedTo)),
		PackageType:  n.PackageType,
		decoupled:    true,
	}
	for k, v := range n.Dependencies {
		c.Dependencies[k] = v
	}
	for k, v := range n.Workspaces {
		c.Workspaces[k] = v
	}
	for k := range n.PeerNames {
		c.PeerNames[k] = struct{}{}
	}
	for k, v := range n.HoistedTo {
		c.HoistedTo[k] = v
	}
	return c
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%s)", n.ID)
}
