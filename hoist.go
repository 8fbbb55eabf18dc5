// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hoist

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sdboyer/hoist/internal/engine"
)

// Package, PackageId and PackageName mirror the engine's wire shapes,
// re-exported at the module root so callers never need to import the
// internal engine package directly.
type (
	Package     = engine.External
	PackageId   = engine.PackageId
	PackageName = engine.PackageName
)

// DuplicateNameError and UnreachableError are the only two fatal error
// kinds Hoist surfaces.
type (
	DuplicateNameError = engine.DuplicateNameError
	UnreachableError   = engine.UnreachableError
)

// Stats reports what a Hoist run did: verdict counts and queue depth
// reached, useful for diagnostics and tests alike.
type Stats = engine.Stats

// Options controls one Hoist invocation.
type Options struct {
	// Dump, if set, receives one entry per verdict and committed hoist.
	Dump Sink

	// Check, if set, re-walks the output graph after hoisting and
	// reports any invariant violation found. An optional diagnostic
	// pass, never required for correctness.
	Check bool
}

// Sink receives diagnostic trace entries. See log.JSONLSink for the
// concrete implementation the CLI wires up.
type Sink interface {
	Verdict(path []PackageId, name PackageName, priorityDepth int, kind string, extra map[string]any)
	Hoisted(from, to PackageId, name PackageName)
}

// Result is the full outcome of one Hoist invocation.
type Result struct {
	Tree       *Package
	Stats      Stats
	RunID      uuid.UUID
	Violations []engine.Violation
}

// Hoist imports pkg, runs the hoisting transform, and exports the result.
// It returns a *DuplicateNameError if two children of one input node share
// a name, or a *UnreachableError if the queue drainer's path
// reconstruction ever fails (a bug in the engine, not an ordinary semantic
// refusal). Every other outcome, including a dependency that simply cannot
// be hoisted, is folded into the returned graph, never an error.
func Hoist(pkg *Package, opts Options) (*Result, error) {
	root, err := engine.Import(pkg)
	if err != nil {
		return nil, errors.Wrap(err, "importing package tree")
	}

	priorities := engine.Analyze(root)

	var before engine.ResolutionSnapshot
	if opts.Check {
		// Must be taken before engine.Hoist: it mutates its input graph in
		// place, so root no longer reflects the pre-hoist state once it
		// returns.
		before = engine.SnapshotResolutions(root)
	}

	var tracer engine.Trace
	if opts.Dump != nil {
		tracer = &sinkTracer{sink: opts.Dump}
	}

	hoisted, stats, err := engine.Hoist(root, priorities, tracer)
	if err != nil {
		return nil, errors.Wrap(err, "hoisting")
	}

	res := &Result{
		Tree:  engine.Export(hoisted),
		Stats: *stats,
		RunID: uuid.New(),
	}
	if opts.Check {
		res.Violations = engine.CheckInvariants(before, hoisted)
	}
	return res, nil
}

// sinkTracer adapts the caller-supplied Sink to the engine's internal
// Trace interface.
type sinkTracer struct {
	sink Sink
}

func (t *sinkTracer) Verdict(path []engine.PackageId, name engine.PackageName, k int, v engine.Verdict) {
	extra := map[string]any{}
	switch v.Kind {
	case engine.VerdictYes:
		extra["newParentIndex"] = v.NewParentIndex
	case engine.VerdictLater:
		extra["laterDepth"] = v.LaterDepth
	}
	t.sink.Verdict(path, name, k, v.Kind.String(), extra)
}

func (t *sinkTracer) Hoist(from, to engine.PackageId, name engine.PackageName) {
	t.sink.Hoisted(from, to, name)
}
