// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInvariants_CleanHoistHasNoViolations(t *testing.T) {
	root := ext(".",
		ext("A", ext("C@X", ext("D@X"), ext("E"))),
		ext("C@Y"),
		ext("D@Y"),
	)

	n, err := Import(root)
	require.NoError(t, err)

	before := SnapshotResolutions(n)
	priorities := Analyze(n)
	hoisted, _, err := Hoist(n, priorities, nil)
	require.NoError(t, err)

	violations := CheckInvariants(before, hoisted)
	assert.Empty(t, violations)
}

func TestCheckInvariants_DetectsBrokenRequirePromise(t *testing.T) {
	// Build a tiny graph, snapshot it, then hand-corrupt the "hoisted"
	// graph by repointing A's own dependency slot to a different instance
	// than what it resolved to originally — CheckInvariants must catch it.
	a := NewNode("A")
	a.Dependencies["Z"] = NewNode("Z@1.0.0")
	root := NewNode(RootID)
	root.Dependencies["A"] = a

	before := SnapshotResolutions(root)

	a.Dependencies["Z"] = NewNode("Z@2.0.0")

	violations := CheckInvariants(before, root)
	require.NotEmpty(t, violations)
	assert.Equal(t, "require-promise", violations[0].Kind)
	assert.Equal(t, PackageName("Z"), violations[0].Name)
}

func TestCheckInvariants_DetectsSlotCollision(t *testing.T) {
	n := NewNode("N")
	shared := NewNode("X")
	n.Dependencies["X"] = shared
	n.Workspaces["X"] = shared // deliberately invalid: same name in both maps
	root := NewNode(RootID)
	root.Dependencies["N"] = n

	before := SnapshotResolutions(root)
	violations := CheckInvariants(before, root)

	var found bool
	for _, v := range violations {
		if v.Kind == "slot-collision" {
			found = true
		}
	}
	assert.True(t, found)
}
