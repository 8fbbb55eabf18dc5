// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_PreservesSharedIdentity(t *testing.T) {
	shared := ext("B")
	root := ext(".", ext("A", shared), ext("C", shared))

	n, err := Import(root)
	require.NoError(t, err)

	a := n.Dependencies["A"]
	c := n.Dependencies["C"]
	require.NotNil(t, a)
	require.NotNil(t, c)
	assert.Same(t, a.Dependencies["B"], c.Dependencies["B"], "two slots pointing at the same *External must import to the same *Node")
}

func TestImport_SelfLoop(t *testing.T) {
	self := &External{ID: "A"}
	self.Dependencies = []*External{self}
	root := &External{ID: ".", Dependencies: []*External{self}}

	n, err := Import(root)
	require.NoError(t, err)

	a := n.Dependencies["A"]
	require.NotNil(t, a)
	assert.Same(t, a, a.Dependencies["A"], "a self-referential External must import to a Node pointing at itself")
}

func TestImport_Cycle(t *testing.T) {
	a := &External{ID: "A"}
	b := &External{ID: "B"}
	a.Dependencies = []*External{b}
	b.Dependencies = []*External{a}
	root := &External{ID: ".", Dependencies: []*External{a}}

	n, err := Import(root)
	require.NoError(t, err)

	an := n.Dependencies["A"]
	bn := an.Dependencies["B"]
	require.NotNil(t, bn)
	assert.Same(t, an, bn.Dependencies["A"])
}

func TestImport_DuplicateName(t *testing.T) {
	root := ext(".", ext("A@1.0.0"), ext("A@2.0.0"))

	_, err := Import(root)
	require.Error(t, err)

	var dupErr *DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, PackageName("A"), dupErr.Name)
	assert.Equal(t, RootID, dupErr.Parent)
}

func TestImport_DuplicateNameAcrossDependenciesAndWorkspaces(t *testing.T) {
	root := extWS(".", []*External{ext("A@2.0.0")}, ext("A@1.0.0"))

	_, err := Import(root)
	require.Error(t, err)

	var dupErr *DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, PackageName("A"), dupErr.Name)
}

func TestImport_PortalTypeAndPeerNames(t *testing.T) {
	root := extPortal(".", extPeer("A", []string{"B"}), ext("B"))

	n, err := Import(root)
	require.NoError(t, err)

	assert.Equal(t, PortalType, n.PackageType)
	a := n.Dependencies["A"]
	require.NotNil(t, a)
	_, ok := a.PeerNames["B"]
	assert.True(t, ok)
}
