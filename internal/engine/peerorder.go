// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "sort"

// peerOrderGroups orders cur's current dependency names so that any name
// which is another sibling's peer requirement is considered first, and
// groups names whose
// peer requirements form a cycle so the driver can settle them jointly
// (the DEPENDS pass) rather than individually. The returned groups are in
// an order consistent with the partial order ("q must be settled before s"
// whenever sibling s has peer name q); groups internal to a cycle are
// returned in one slice.
func peerOrderGroups(cur *Node) [][]PackageName {
	names := sortedDependencyNames(cur)
	index := make(map[PackageName]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	// requires[s] = set of sibling indices s depends on (must be settled
	// first), derived from s's peer names that name another sibling.
	requires := make([][]int, len(names))
	for i, name := range names {
		dep := cur.Dependencies[name]
		peers := make([]PackageName, 0, len(dep.PeerNames))
		for q := range dep.PeerNames {
			peers = append(peers, q)
		}
		sort.Slice(peers, func(a, b int) bool { return peers[a] < peers[b] })
		for _, q := range peers {
			if j, ok := index[q]; ok && j != i {
				requires[i] = append(requires[i], j)
			}
		}
	}

	sccOf, sccs := tarjanSCC(requires)
	return orderSCCs(names, requires, sccOf, sccs)
}

// tarjanSCC computes strongly connected components of the graph where
// node i has an edge to every index in requires[i]. It returns, for each
// node, the index of its SCC, and the list of SCCs (each a sorted list of
// node indices) in an arbitrary but deterministic (completion) order.
func tarjanSCC(requires [][]int) ([]int, [][]int) {
	n := len(requires)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	var sccs [][]int
	counter := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		visited[v] = true

		for _, w := range requires[v] {
			if !visited[w] {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sort.Ints(comp)
			sccs = append(sccs, comp)
		}
	}

	for v := 0; v < n; v++ {
		if !visited[v] {
			strongconnect(v)
		}
	}

	sccOf := make([]int, n)
	for si, comp := range sccs {
		for _, v := range comp {
			sccOf[v] = si
		}
	}
	return sccOf, sccs
}

// orderSCCs performs a Kahn topological sort over the SCC condensation
// (always a DAG, even though the underlying node graph may contain
// cycles), then maps each SCC back to its PackageName members.
func orderSCCs(names []PackageName, requires [][]int, sccOf []int, sccs [][]int) [][]PackageName {
	numSCC := len(sccs)
	requiresSCC := make([]map[int]bool, numSCC)
	requiredBySCC := make([][]int, numSCC)
	for i := range requiresSCC {
		requiresSCC[i] = make(map[int]bool)
	}
	for v, deps := range requires {
		sv := sccOf[v]
		for _, w := range deps {
			sw := sccOf[w]
			if sw != sv && !requiresSCC[sv][sw] {
				requiresSCC[sv][sw] = true
				requiredBySCC[sw] = append(requiredBySCC[sw], sv)
			}
		}
	}

	remaining := make([]int, numSCC)
	for i, m := range requiresSCC {
		remaining[i] = len(m)
	}

	var ready []int
	for i := 0; i < numSCC; i++ {
		if remaining[i] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	var order []int
	settled := make([]bool, numSCC)
	for len(order) < numSCC {
		if len(ready) == 0 {
			// Defensive: condensation must be a DAG, so this cannot
			// happen, but fail closed rather than loop forever.
			for i := 0; i < numSCC; i++ {
				if !settled[i] {
					ready = append(ready, i)
				}
			}
			sort.Ints(ready)
		}
		next := ready[0]
		ready = ready[1:]
		if settled[next] {
			continue
		}
		settled[next] = true
		order = append(order, next)
		for _, dependent := range requiredBySCC[next] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
				sort.Ints(ready)
			}
		}
	}

	groups := make([][]PackageName, 0, numSCC)
	for _, si := range order {
		group := make([]PackageName, 0, len(sccs[si]))
		for _, v := range sccs[si] {
			group = append(group, names[v])
		}
		groups = append(groups, group)
	}
	return groups
}
