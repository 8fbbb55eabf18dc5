// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log is a minimal wrapper around an io.Writer, in the manner of
// github.com/golang/dep's log package, plus a structured JSON Lines sink
// for the hoister's diagnostic trace.
package log

import (
	"fmt"
	"io"
)

// Logger is a minimal wrapper around an io.Writer.
type Logger struct {
	io.Writer
}

// New returns a new logger which writes to w.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// LogHoistfln logs a formatted line, prefixed with `hoist: `.
func (l *Logger) LogHoistfln(format string, args ...interface{}) {
	fmt.Fprintf(l, "hoist: "+format+"\n", args...)
}
