// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// ext is a small builder used throughout these tests to keep literal trees
// readable; it mirrors External's JSON shape without the json tags.
func ext(id string, deps ...*External) *External {
	return &External{ID: id, Dependencies: deps}
}

func extPeer(id string, peers []string, deps ...*External) *External {
	return &External{ID: id, Dependencies: deps, PeerNames: peers}
}

func extWS(id string, workspaces []*External, deps ...*External) *External {
	return &External{ID: id, Dependencies: deps, Workspaces: workspaces}
}

func extPortal(id string, deps ...*External) *External {
	return &External{ID: id, Dependencies: deps, PackageType: "PORTAL"}
}

// find returns the direct dependency of e with the given id, or nil.
func find(e *External, id string) *External {
	for _, c := range e.Dependencies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// runHoist is the common test entry point: import, analyze, hoist, export.
func runHoist(root *External) (*External, *Stats, error) {
	n, err := Import(root)
	if err != nil {
		return nil, nil, err
	}
	priorities := Analyze(n)
	hoisted, stats, err := Hoist(n, priorities, nil)
	if err != nil {
		return nil, nil, err
	}
	return Export(hoisted), stats, nil
}
