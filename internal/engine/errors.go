// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "fmt"

// DuplicateNameError is returned by the importer when two distinct
// children of the same parent share a name in the input tree. It is fatal:
// the transformation has no meaningful output.
type DuplicateNameError struct {
	Parent PackageId
	Name   PackageName
	First  PackageId
	Second PackageId
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name %q under parent %s: both %s and %s claim it", e.Name, e.Parent, e.First, e.Second)
}

// UnreachableError is returned by the queue drainer when a reconstructed
// path cannot locate the expected child. It indicates a bug in the
// hoister's bookkeeping rather than an ordinary semantic refusal, and is
// always fatal.
type UnreachableError struct {
	Name PackageName
	At   PackageId
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("unreachable: could not resolve name %q while reconstructing path at %s", e.Name, e.At)
}
