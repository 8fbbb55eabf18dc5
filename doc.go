// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hoist is a pure graph transformation: given a rooted package
// dependency graph produced by a resolver, it rewrites the graph into a
// semantically equivalent but flatter one suitable for a nested-directory
// installation layout, lifting transitive dependencies toward the root
// wherever doing so does not break the require promise of any package in
// the tree.
//
// The public surface here is a thin wrapper: Hoist imports an External
// tree, runs the engine in internal/engine, and exports the result back to
// External form. All I/O lives with callers; the transform itself is a
// pure, synchronous function over an in-memory graph.
package hoist
