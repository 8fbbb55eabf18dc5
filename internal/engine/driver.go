// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "sort"

// Trace receives one notification per verdict evaluated by the driver. It
// is the hook the dump option is built on; a nil Trace is a valid, silent
// no-op.
type Trace interface {
	Verdict(path []PackageId, name PackageName, k int, v Verdict)
	Hoist(from, to PackageId, name PackageName)
}

// Stats accumulates counters over one Hoist run, returned alongside the
// hoisted graph so callers (and the CLI) can report on how much work the
// transform did.
type Stats struct {
	VerdictCalls int
	Yes          int
	No           int
	Later        int
	Depends      int
	MaxQueueK    int
}

// driver holds the mutable state of a single Hoist invocation: the
// priorities table, the deferred-item queue, and optional trace sink.
type driver struct {
	priorities Priorities
	queue      map[int][]queueEntry
	maxK       int
	trace      Trace
	stats      Stats
	refcounts  map[*Node]int
}

// computeRefCounts walks the graph reachable from root once, before any
// mutation, counting for each Node instance how many times an edge into it
// is met over every path from root: a node beneath a shared node counts
// once per path into it, since each of those paths gets its own clone of
// the shared parent. A count greater than one identifies a shared node the
// driver must copy-on-write before mutating. The walk uses the same
// current-path cycle guard as the rest of the engine's traversals so
// cyclic graphs terminate.
func computeRefCounts(root *Node) map[*Node]int {
	counts := make(map[*Node]int)
	var walk func(path []*Node, n *Node)
	walk = func(path []*Node, n *Node) {
		newPath := append(append([]*Node(nil), path...), n)
		for _, child := range n.Workspaces {
			counts[child]++
			if !onPath(newPath, child) {
				walk(newPath, child)
			}
		}
		for _, child := range n.Dependencies {
			counts[child]++
			if !onPath(newPath, child) {
				walk(newPath, child)
			}
		}
	}
	walk(nil, root)
	return counts
}

type queueEntry struct {
	pathIDs []PackageId
	name    PackageName
}

// Hoist runs the full transform: a pre-order DFS committing or deferring
// hoists, followed by priority-ordered queue drains until no deferred item
// remains.
func Hoist(root *Node, priorities Priorities, trace Trace) (*Node, *Stats, error) {
	d := &driver{
		priorities: priorities,
		queue:      make(map[int][]queueEntry),
		trace:      trace,
		refcounts:  computeRefCounts(root),
	}

	newRoot, err := d.visit(nil, root, 0)
	if err != nil {
		return nil, nil, err
	}

	if err := d.drain(newRoot); err != nil {
		return nil, nil, err
	}

	d.stats.MaxQueueK = d.maxK
	return newRoot, &d.stats, nil
}

// visit implements one step of the pre-order DFS at node cur, reached via
// path (path does not include cur). It returns the (possibly decoupled)
// node that now occupies cur's slot.
func (d *driver) visit(path []*Node, cur *Node, depth int) (*Node, error) {
	if depth > 0 && len(path) > 0 {
		parentOfCur := path[len(path)-1]
		if d.refcounts[cur] > 1 && !cur.decoupled {
			clone := cur.clone()
			rewireSlot(parentOfCur, cur, clone)
			cur = clone
		}
	}

	fullPath := append(append([]*Node(nil), path...), cur)

	if err := d.processSiblings(fullPath, cur); err != nil {
		return nil, err
	}

	// Visiting a subtree can lift new children into cur (a grandchild
	// hoisted here from below), so sweep cur's child slots repeatedly
	// until a full pass finds nothing unvisited.
	visited := make(map[*Node]bool)
	for {
		advanced := false
		for _, name := range sortedWorkspaceNames(cur) {
			child := cur.Workspaces[name]
			if visited[child] || onPath(fullPath, child) {
				continue
			}
			newChild, err := d.visit(fullPath, child, depth+1)
			if err != nil {
				return nil, err
			}
			cur.Workspaces[name] = newChild
			visited[child] = true
			visited[newChild] = true
			advanced = true
		}
		for _, name := range sortedDependencyNames(cur) {
			child, ok := cur.Dependencies[name]
			if !ok {
				continue
			}
			if visited[child] || onPath(fullPath, child) {
				continue
			}
			newChild, err := d.visit(fullPath, child, depth+1)
			if err != nil {
				return nil, err
			}
			cur.Dependencies[name] = newChild
			visited[child] = true
			visited[newChild] = true
			advanced = true
		}
		if !advanced {
			break
		}
	}

	return cur, nil
}

// processSiblings runs the peer-order pre-sort and verdict procedure over
// cur's current dependency names at priority depth 0 (the initial pass).
func (d *driver) processSiblings(path []*Node, cur *Node) error {
	groups := peerOrderGroups(cur)
	for _, group := range groups {
		if err := d.settleGroup(path, cur, group, 0); err != nil {
			return err
		}
	}
	return nil
}

// settleGroup evaluates one peer-order group (a singleton, or a cyclic
// peer set handled jointly) at priority depth k, applying YES verdicts,
// enqueueing LATER verdicts, and leaving NO verdicts in place.
func (d *driver) settleGroup(path []*Node, parent *Node, group []PackageName, k int) error {
	if len(group) == 1 {
		name := group[0]
		if _, ok := parent.Dependencies[name]; !ok {
			return nil // already hoisted away by an earlier group in this pass
		}
		v := Decide(path, name, k, d.priorities)
		d.record(path, name, k, v)
		return d.apply(path, parent, name, v, k)
	}
	return d.settleCyclicGroup(path, parent, group, k)
}

// settleCyclicGroup handles a set of sibling names whose peer requirements
// form a cycle among themselves: they can only be hoisted together, to a
// single common ancestor, since no linear order of processing them one at
// a time would ever find all their peers already co-located.
func (d *driver) settleCyclicGroup(path []*Node, parent *Node, group []PackageName, k int) error {
	names := make([]PackageName, 0, len(group))
	for _, n := range group {
		if _, ok := parent.Dependencies[n]; ok {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	inGroup := make(map[PackageName]bool, len(names))
	for _, n := range names {
		inGroup[n] = true
	}
	for _, n := range names {
		deps := make(map[PackageName]struct{}, len(names)-1)
		for _, m := range names {
			if m != n {
				deps[m] = struct{}{}
			}
		}
		d.record(path, n, k, Verdict{Kind: VerdictDepends, DependsOn: deps})
	}

	maxNeeded := k
	for _, n := range names {
		dep := parent.Dependencies[n]
		p := indexOfID(dep.ID, d.priorities[n])
		if p > maxNeeded {
			maxNeeded = p
		}
	}
	if maxNeeded > k {
		d.enqueue(path, names, maxNeeded)
		return nil
	}

	// Peer requirements pointing outside the group behave as they do for a
	// singleton: an outside peer still pinned at parent holds the whole
	// group in place, and one already lifted away caps how high the group
	// may go.
	minTarget := 0
	for _, n := range names {
		dep := parent.Dependencies[n]
		for q := range dep.PeerNames {
			if inGroup[q] {
				continue
			}
			if _, ok := parent.Dependencies[q]; ok {
				for _, m := range names {
					d.record(path, m, k, Verdict{Kind: VerdictNo})
				}
				return nil
			}
			if owner, ok := parent.HoistedTo[q]; ok {
				if oi := indexOfNode(owner, path); oi > minTarget {
					minTarget = oi
				}
			}
		}
	}

	target := -1
scan:
	for i := minTarget; i <= len(path)-2; i++ {
		ancestor := path[i]
		for _, n := range names {
			dep := parent.Dependencies[n]
			occupant, occupied := ancestor.Dependencies[n]
			if occupied && occupant.ID != dep.ID {
				continue scan
			}
			if !occupied {
				if _, ws := ancestor.Workspaces[n]; ws {
					continue scan
				}
				if placementShadows(path[:i+1], n, dep.ID) {
					continue scan
				}
			}
			if !chainClearBetween(path, i, n, dep.ID) {
				continue scan
			}
		}
		for _, n := range names {
			dep := parent.Dependencies[n]
			if !requirementsPreserved(path, i, dep, inGroup) {
				continue scan
			}
		}
		target = i
		break
	}

	if target < 0 {
		for _, n := range names {
			d.record(path, n, k, Verdict{Kind: VerdictNo})
		}
		return nil
	}

	for _, n := range names {
		v := Verdict{Kind: VerdictYes, NewParentIndex: target}
		d.record(path, n, k, v)
		if err := d.apply(path, parent, n, v, k); err != nil {
			return err
		}
	}
	return nil
}

// apply commits a YES verdict, enqueues a LATER one, or leaves a NO in
// place.
func (d *driver) apply(path []*Node, parent *Node, name PackageName, v Verdict, k int) error {
	switch v.Kind {
	case VerdictYes:
		dep := parent.Dependencies[name]
		ancestor := path[v.NewParentIndex]
		if ancestor != parent {
			if _, occupied := ancestor.Dependencies[name]; !occupied {
				ancestor.Dependencies[name] = dep
			}
			delete(parent.Dependencies, name)
			parent.HoistedTo[name] = ancestor
			if d.trace != nil {
				d.trace.Hoist(parent.ID, ancestor.ID, name)
			}
		}
		return nil
	case VerdictLater:
		d.enqueue(path, []PackageName{name}, v.LaterDepth)
		return nil
	case VerdictNo:
		return nil
	default:
		return nil
	}
}

func (d *driver) enqueue(path []*Node, names []PackageName, k int) {
	if k > d.maxK {
		d.maxK = k
	}
	ids := make([]PackageId, len(path))
	for i, n := range path {
		ids[i] = n.ID
	}
	for _, name := range names {
		d.queue[k] = append(d.queue[k], queueEntry{pathIDs: append([]PackageId(nil), ids...), name: name})
	}
}

func (d *driver) record(path []*Node, name PackageName, k int, v Verdict) {
	d.stats.VerdictCalls++
	switch v.Kind {
	case VerdictYes:
		d.stats.Yes++
	case VerdictNo:
		d.stats.No++
	case VerdictLater:
		d.stats.Later++
	case VerdictDepends:
		d.stats.Depends++
	}
	if d.trace != nil {
		ids := make([]PackageId, len(path))
		for i, n := range path {
			ids[i] = n.ID
		}
		d.trace.Verdict(ids, name, k, v)
	}
}

// drain processes queue[k] for increasing k, reconstructing each deferred
// item's current path and re-invoking the verdict procedure at that depth.
// Every requeue issued here targets a depth strictly greater than k (an
// unoccupied slot is claimable once the candidate's rank is <= k, so only
// a peer whose rank exceeds k can defer again), which bounds the loop.
func (d *driver) drain(root *Node) error {
	for k := 1; k <= d.maxK; k++ {
		items := d.queue[k]
		delete(d.queue, k)
		for _, item := range items {
			path, parent, err := reconstructPath(root, item.pathIDs)
			if err != nil {
				return err
			}
			if _, ok := parent.Dependencies[item.name]; !ok {
				continue // already settled by a prior drain step
			}
			v := Decide(path, item.name, k, d.priorities)
			d.record(path, item.name, k, v)
			if err := d.apply(path, parent, item.name, v, k); err != nil {
				return err
			}
		}
	}
	return nil
}

// reconstructPath walks ids from the root, following HoistedTo
// redirections whenever the expected id is no longer at the expected slot.
// Deferred paths are stored as ids rather than node references because the
// graph mutates between enqueue and drain. A redirection jumps back to the
// ancestor that now owns the slot, so the stale tail of the path is
// dropped before the walk resumes — the result is the expected child's
// true current ancestor chain.
func reconstructPath(root *Node, ids []PackageId) ([]*Node, *Node, error) {
	path := []*Node{root}
	cur := root

	for i := 1; i < len(ids); i++ {
		name := NameOf(ids[i])
		for {
			if next, ok := cur.Dependencies[name]; ok && next.ID == ids[i] {
				cur = next
				break
			}
			if next, ok := cur.Workspaces[name]; ok && next.ID == ids[i] {
				cur = next
				break
			}
			owner, ok := cur.HoistedTo[name]
			if !ok {
				return nil, nil, &UnreachableError{Name: name, At: cur.ID}
			}
			idx := indexOfNode(owner, path)
			if idx < 0 {
				return nil, nil, &UnreachableError{Name: name, At: cur.ID}
			}
			path = path[:idx+1]
			cur = owner
		}
		path = append(path, cur)
	}

	return path, path[len(path)-1], nil
}

func onPath(path []*Node, n *Node) bool {
	for _, p := range path {
		if p == n {
			return true
		}
	}
	return false
}

func rewireSlot(parent, old, replacement *Node) {
	for name, v := range parent.Dependencies {
		if v == old {
			parent.Dependencies[name] = replacement
			return
		}
	}
	for name, v := range parent.Workspaces {
		if v == old {
			parent.Workspaces[name] = replacement
			return
		}
	}
}

func sortedDependencyNames(n *Node) []PackageName {
	names := make([]PackageName, 0, len(n.Dependencies))
	for name := range n.Dependencies {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func sortedWorkspaceNames(n *Node) []PackageName {
	names := make([]PackageName, 0, len(n.Workspaces))
	for name := range n.Workspaces {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
