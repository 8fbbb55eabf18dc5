// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_SortsChildrenByID(t *testing.T) {
	root := NewNode(RootID)
	root.Dependencies["C"] = NewNode("C")
	root.Dependencies["A"] = NewNode("A")
	root.Dependencies["B"] = NewNode("B")

	out := Export(root)
	require.Len(t, out.Dependencies, 3)
	ids := []string{out.Dependencies[0].ID, out.Dependencies[1].ID, out.Dependencies[2].ID}
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}

func TestExport_SharedNodeEmittedOnceWithChildren(t *testing.T) {
	shared := NewNode("S")
	shared.Dependencies["Leaf"] = NewNode("Leaf")
	root := NewNode(RootID)
	a := NewNode("A")
	a.Dependencies["S"] = shared
	b := NewNode("B")
	b.Dependencies["S"] = shared
	root.Dependencies["A"] = a
	root.Dependencies["B"] = b

	out := Export(root)
	ea := find(out, "A")
	eb := find(out, "B")
	require.NotNil(t, ea)
	require.NotNil(t, eb)

	es1 := find(ea, "S")
	es2 := find(eb, "S")
	require.NotNil(t, es1)
	require.NotNil(t, es2)

	// Exactly one of the two occurrences carries S's own children; the
	// other is a bare reference.
	full := len(es1.Dependencies) > 0 || len(es2.Dependencies) > 0
	assert.True(t, full)
	assert.False(t, len(es1.Dependencies) > 0 && len(es2.Dependencies) > 0, "S's subtree must be emitted exactly once, not duplicated")
}

func TestExport_PeerNamesSortedAndEmitted(t *testing.T) {
	n := NewNode("A")
	n.PeerNames["Z"] = struct{}{}
	n.PeerNames["B"] = struct{}{}
	root := NewNode(RootID)
	root.Dependencies["A"] = n

	out := Export(root)
	a := find(out, "A")
	require.NotNil(t, a)
	assert.Equal(t, []string{"B", "Z"}, a.PeerNames)
}

func TestExport_HoistedToNeverEmitted(t *testing.T) {
	n := NewNode("A")
	n.HoistedTo["X"] = NewNode("X")
	root := NewNode(RootID)
	root.Dependencies["A"] = n

	out := Export(root)
	a := find(out, "A")
	require.NotNil(t, a)
	assert.Nil(t, find(a, "X"), "HoistedTo redirections are internal bookkeeping, never part of the external shape")
}
