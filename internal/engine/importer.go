// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/pkg/errors"

// Import converts an External tree into a working graph, returning the
// root Node. Sharing in the input (two slots pointing at the same
// *External value) is preserved into the output (both slots point at the
// same *Node), via a seen-map keyed by input pointer identity — this also
// makes cyclic input trees safe to import: a node is registered in the
// seen-map before its children are visited, so a cycle back to an
// in-progress ancestor simply reuses the partially built Node rather than
// recursing forever.
//
// Self-loops — a child that is pointer-identical to its own parent — fall
// out of the same mechanism: the parent's Node is already in the seen-map
// by the time its own Dependencies/Workspaces list is walked, so a
// self-reference resolves to the parent's own Node instance.
func Import(root *External) (*Node, error) {
	seen := make(map[*External]*Node)
	return importNode(root, seen)
}

func importNode(ext *External, seen map[*External]*Node) (*Node, error) {
	if n, ok := seen[ext]; ok {
		return n, nil
	}

	n := NewNode(PackageId(ext.ID))
	if ext.PackageType != "" {
		n.PackageType = PackageType(ext.PackageType)
	}
	for _, p := range ext.PeerNames {
		n.PeerNames[PackageName(p)] = struct{}{}
	}
	seen[ext] = n

	claimed := make(map[PackageName]*External, len(ext.Dependencies)+len(ext.Workspaces))

	for _, dep := range ext.Dependencies {
		name := NameOf(PackageId(dep.ID))
		if prior, ok := claimed[name]; ok {
			return nil, errors.WithStack(&DuplicateNameError{
				Parent: n.ID, Name: name, First: PackageId(prior.ID), Second: PackageId(dep.ID),
			})
		}
		claimed[name] = dep

		child, err := importNode(dep, seen)
		if err != nil {
			return nil, err
		}
		n.Dependencies[name] = child
	}

	for _, ws := range ext.Workspaces {
		name := NameOf(PackageId(ws.ID))
		if prior, ok := claimed[name]; ok {
			return nil, errors.WithStack(&DuplicateNameError{
				Parent: n.ID, Name: name, First: PackageId(prior.ID), Second: PackageId(ws.ID),
			})
		}
		claimed[name] = ws

		child, err := importNode(ws, seen)
		if err != nil {
			return nil, err
		}
		n.Workspaces[name] = child
	}

	return n, nil
}
