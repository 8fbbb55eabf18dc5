// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	goccyjson "github.com/goccy/go-json"

	"github.com/sdboyer/hoist"
	"github.com/sdboyer/hoist/internal/feedback"
)

// JSONLSink implements hoist.Sink, writing one JSON object per line
// through a Logger — the concrete diagnostic sink backing the dump
// option.
type JSONLSink struct {
	logger *Logger
	runID  string
}

// NewJSONLSink returns a sink that tags every entry it writes with runID,
// so interleaved batch runs can be told apart downstream.
func NewJSONLSink(l *Logger, runID string) *JSONLSink {
	return &JSONLSink{logger: l, runID: runID}
}

// Verdict writes one VerdictEntry line.
func (s *JSONLSink) Verdict(path []hoist.PackageId, name hoist.PackageName, priorityDepth int, kind string, extra map[string]any) {
	strPath := make([]string, len(path))
	for i, p := range path {
		strPath[i] = string(p)
	}
	entry := feedback.NewVerdictEntry(s.runID, strPath, string(name), priorityDepth, kind, extra)
	s.writeLine(entry)
}

// Hoisted writes one HoistEntry line.
func (s *JSONLSink) Hoisted(from, to hoist.PackageId, name hoist.PackageName) {
	entry := feedback.NewHoistEntry(s.runID, string(from), string(to), string(name))
	s.writeLine(entry)
}

func (s *JSONLSink) writeLine(v any) {
	b, err := goccyjson.Marshal(v)
	if err != nil {
		s.logger.LogHoistfln("failed to marshal trace entry: %v", err)
		return
	}
	s.logger.Logln(string(b))
}
