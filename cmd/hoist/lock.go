// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/theckman/go-flock"
)

// lockOutputPath takes an advisory, exclusive lock on outputPath + ".lock"
// for the duration of a write, so concurrent invocations don't interleave
// on the same output artifact. The engine itself is single-threaded and
// lock-free; this only guards the CLI's own file write.
func lockOutputPath(outputPath string) (unlock func() error, err error) {
	fl := flock.NewFlock(outputPath + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, err
	}
	return fl.Unlock, nil
}
