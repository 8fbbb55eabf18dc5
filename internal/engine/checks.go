// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"sort"
)

// Violation describes one instance of an invariant broken in a hoisted
// graph. CheckInvariants is an optional post-hoc audit; a correct hoister
// never produces one of these, so a non-empty result indicates a bug in
// the driver rather than an ordinary semantic refusal.
type Violation struct {
	Kind string
	Node PackageId
	Name PackageName
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: node %s, name %s", v.Kind, v.Node, v.Name)
}

type resolutionKey struct {
	holder PackageId
	name   PackageName
	peer   bool
}

// ResolutionSnapshot is the baseline SnapshotResolutions captures before a
// Hoist run mutates its graph in place. Callers that want CheckInvariants
// must take this snapshot themselves, before calling Hoist — by the time
// Hoist returns, the graph it mutated in place no longer reflects the
// pre-hoist state.
type ResolutionSnapshot map[resolutionKey]PackageId

// ambiguousResolution marks a requirement that already resolved to
// different instances along different paths in the input. Such a
// requirement carries no promise the hoister could keep, so
// CheckInvariants skips it.
const ambiguousResolution PackageId = "\x00ambiguous"

// SnapshotResolutions records, for every node, the id each of its direct
// dependency names is bound to and the id each of its peer names resolves
// to from its parent's vantage point. Call it before Hoist to capture the
// baseline CheckInvariants needs, since Hoist mutates its input graph in
// place.
func SnapshotResolutions(root *Node) ResolutionSnapshot {
	out := make(ResolutionSnapshot)
	record := func(key resolutionKey, id PackageId) {
		if prev, ok := out[key]; ok && prev != id {
			out[key] = ambiguousResolution
			return
		}
		out[key] = id
	}

	seen := make(map[*Node]bool)
	var walk func(path []*Node, n *Node)
	walk = func(path []*Node, n *Node) {
		newPath := append(append([]*Node(nil), path...), n)
		for name, dep := range n.Dependencies {
			record(resolutionKey{holder: n.ID, name: name}, dep.ID)
		}
		for name := range n.PeerNames {
			if target, ok := resolveNearest(path, name); ok {
				record(resolutionKey{holder: n.ID, name: name, peer: true}, target.ID)
			}
		}
		if seen[n] {
			return
		}
		seen[n] = true
		for _, child := range n.Workspaces {
			if !onPath(newPath, child) {
				walk(newPath, child)
			}
		}
		for _, child := range n.Dependencies {
			if !onPath(newPath, child) {
				walk(newPath, child)
			}
		}
	}
	walk(nil, root)
	return out
}

// CheckInvariants walks hoisted and verifies the require promise (every
// name a node depended on or peered on still resolves to the id it did
// before the hoist, even when the owning edge now lives on an ancestor)
// and the single-occupant-per-slot rule.
func CheckInvariants(before ResolutionSnapshot, hoisted *Node) []Violation {
	byHolder := make(map[PackageId][]resolutionKey)
	for key := range before {
		byHolder[key.holder] = append(byHolder[key.holder], key)
	}
	for _, keys := range byHolder {
		keys := keys
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].name != keys[j].name {
				return keys[i].name < keys[j].name
			}
			return !keys[i].peer && keys[j].peer
		})
	}

	var violations []Violation

	seen := make(map[*Node]bool)
	var walk func(path []*Node, n *Node)
	walk = func(path []*Node, n *Node) {
		newPath := append(append([]*Node(nil), path...), n)

		for name := range n.Dependencies {
			if _, dup := n.Workspaces[name]; dup {
				violations = append(violations, Violation{Kind: "slot-collision", Node: n.ID, Name: name})
			}
		}

		for _, key := range byHolder[n.ID] {
			want := before[key]
			if want == ambiguousResolution {
				continue
			}
			var got *Node
			var ok bool
			if key.peer {
				got, ok = resolveNearest(path, key.name)
			} else {
				got, ok = resolveNearest(newPath, key.name)
			}
			if !ok || got.ID != want {
				violations = append(violations, Violation{Kind: "require-promise", Node: n.ID, Name: key.name})
			}
		}

		if seen[n] {
			return
		}
		seen[n] = true
		for _, child := range n.Workspaces {
			if !onPath(newPath, child) {
				walk(newPath, child)
			}
		}
		for _, child := range n.Dependencies {
			if !onPath(newPath, child) {
				walk(newPath, child)
			}
		}
	}
	walk(nil, hoisted)

	return violations
}
