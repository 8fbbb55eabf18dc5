// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerOrderGroups_LinearOrderRespectsDependency(t *testing.T) {
	// S (sibling "S") peers on "T"; T has no peers. T must be grouped
	// (and ordered) before S.
	cur := NewNode("cur")
	s := NewNode("S")
	s.PeerNames["T"] = struct{}{}
	tNode := NewNode("T")
	cur.Dependencies["S"] = s
	cur.Dependencies["T"] = tNode

	groups := peerOrderGroups(cur)
	require.Len(t, groups, 2)
	assert.Equal(t, []PackageName{"T"}, groups[0])
	assert.Equal(t, []PackageName{"S"}, groups[1])
}

func TestPeerOrderGroups_CycleIsOneGroup(t *testing.T) {
	cur := NewNode("cur")
	a := NewNode("A")
	a.PeerNames["B"] = struct{}{}
	b := NewNode("B")
	b.PeerNames["C"] = struct{}{}
	c := NewNode("C")
	c.PeerNames["A"] = struct{}{}
	cur.Dependencies["A"] = a
	cur.Dependencies["B"] = b
	cur.Dependencies["C"] = c

	groups := peerOrderGroups(cur)
	require.Len(t, groups, 1, "a 3-cycle must settle as a single joint group")
	assert.ElementsMatch(t, []PackageName{"A", "B", "C"}, groups[0])
}

func TestPeerOrderGroups_IndependentNamesAreSingletons(t *testing.T) {
	cur := NewNode("cur")
	cur.Dependencies["A"] = NewNode("A")
	cur.Dependencies["B"] = NewNode("B")

	groups := peerOrderGroups(cur)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Len(t, g, 1)
	}
}

func TestPeerOrderGroups_SelfPeerIgnored(t *testing.T) {
	cur := NewNode("cur")
	a := NewNode("A")
	a.PeerNames["A"] = struct{}{}
	cur.Dependencies["A"] = a

	groups := peerOrderGroups(cur)
	require.Len(t, groups, 1)
	assert.Equal(t, []PackageName{"A"}, groups[0])
}
