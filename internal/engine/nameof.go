// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"strings"

	"github.com/Masterminds/semver"
)

// NameOf derives the install name for a package id: a pure, deterministic
// function. An id of the conventional form "name@version" names "name"; an
// id with no "@" names itself. The distinguished RootID never passes
// through this function (the root has no name slot).
func NameOf(id PackageId) PackageName {
	s := string(id)
	if i := strings.LastIndexByte(s, '@'); i > 0 {
		return PackageName(s[:i])
	}
	return PackageName(s)
}

// versionOf extracts the version component of an id of the form
// "name@version", and reports whether one was present and parses as
// semver. Used only by the priority analyzer's tie-break (see priority.go)
// — NameOf itself never needs version information.
func versionOf(id PackageId) (*semver.Version, bool) {
	s := string(id)
	i := strings.LastIndexByte(s, '@')
	if i < 0 || i == len(s)-1 {
		return nil, false
	}
	v, err := semver.NewVersion(s[i+1:])
	if err != nil {
		return nil, false
	}
	return v, true
}
