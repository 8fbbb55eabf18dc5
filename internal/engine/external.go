// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// External is the serializable tree shape exchanged with callers: a
// package plus its directly reachable dependencies and workspace siblings.
// The package manager's resolver is responsible for producing one of these
// with nodes shared by identity wherever the resolver deduplicated
// instances; the importer preserves that sharing into the working graph.
type External struct {
	ID           string      `json:"id"`
	Dependencies []*External `json:"dependencies,omitempty"`
	Workspaces   []*External `json:"workspaces,omitempty"`
	PeerNames    []string    `json:"peerNames,omitempty"`
	PackageType  string      `json:"packageType,omitempty"`
}
