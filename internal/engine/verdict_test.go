// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_YesWhenSlotFreeAndTurnArrives(t *testing.T) {
	root := NewNode(RootID)
	mid := NewNode("M")
	dep := NewNode("Z")
	mid.Dependencies["Z"] = dep
	path := []*Node{root, mid}

	priorities := Priorities{"Z": []PackageId{"Z"}}
	v := Decide(path, "Z", 0, priorities)
	require.Equal(t, VerdictYes, v.Kind)
	assert.Equal(t, 0, v.NewParentIndex, "should be hoisted all the way to the root")
}

func TestDecide_NoWhenSlotPermanentlyOccupiedByDifferentID(t *testing.T) {
	root := NewNode(RootID)
	root.Dependencies["Z"] = NewNode("Z@1.0.0")
	mid := NewNode("M")
	dep := NewNode("Z@2.0.0")
	mid.Dependencies["Z"] = dep
	path := []*Node{root, mid}

	priorities := Priorities{"Z": []PackageId{"Z@2.0.0", "Z@1.0.0"}}
	v := Decide(path, "Z", 0, priorities)
	assert.Equal(t, VerdictNo, v.Kind)
}

func TestDecide_CoalescesWithMatchingOccupant(t *testing.T) {
	shared := NewNode("Z")
	root := NewNode(RootID)
	root.Dependencies["Z"] = shared
	mid := NewNode("M")
	mid.Dependencies["Z"] = shared
	path := []*Node{root, mid}

	priorities := Priorities{"Z": []PackageId{"Z"}}
	v := Decide(path, "Z", 0, priorities)
	require.Equal(t, VerdictYes, v.Kind)
	assert.Equal(t, 0, v.NewParentIndex)
}

func TestDecide_LaterWhenNotYetItsTurn(t *testing.T) {
	root := NewNode(RootID)
	mid := NewNode("M")
	dep := NewNode("Z@low")
	mid.Dependencies["Z"] = dep
	path := []*Node{root, mid}

	priorities := Priorities{"Z": []PackageId{"Z@high", "Z@low"}}
	v := Decide(path, "Z", 0, priorities)
	require.Equal(t, VerdictLater, v.Kind)
	assert.Equal(t, 1, v.LaterDepth)
}

func TestDecide_PeerBlocksHoistUntilPeerIsReady(t *testing.T) {
	// parent has two children: dep (being considered) peers on "Q", and Q
	// itself is still sitting at parent with a lower priority rank than
	// dep's target depth — dep must wait for Q.
	root := NewNode(RootID)
	parent := NewNode("P")
	dep := NewNode("B")
	dep.PeerNames["Q"] = struct{}{}
	q := NewNode("Q@low")
	parent.Dependencies["B"] = dep
	parent.Dependencies["Q"] = q
	path := []*Node{root, parent}

	priorities := Priorities{
		"B": {"B"},
		"Q": {"Q@high", "Q@low"},
	}
	v := Decide(path, "B", 0, priorities)
	require.Equal(t, VerdictLater, v.Kind, "B cannot leave without its peer Q, which hasn't reached its own turn yet")
	assert.Equal(t, 1, v.LaterDepth)
}

func TestDecide_PeerAlreadyHoistedIsFollowed(t *testing.T) {
	// Q was already hoisted from parent to root (recorded in
	// parent.HoistedTo); dep's peer check should follow that redirection
	// and still allow the hoist, targeting at least as far as root.
	root := NewNode(RootID)
	parent := NewNode("P")
	dep := NewNode("B")
	dep.PeerNames["Q"] = struct{}{}
	parent.Dependencies["B"] = dep
	parent.HoistedTo["Q"] = root
	path := []*Node{root, parent}

	priorities := Priorities{"B": {"B"}}
	v := Decide(path, "B", 0, priorities)
	require.Equal(t, VerdictYes, v.Kind)
	assert.Equal(t, 0, v.NewParentIndex)
}
