// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"strings"
	"testing"

	goccyjson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdboyer/hoist"
	"github.com/sdboyer/hoist/internal/feedback"
)

func TestJSONLSink_WritesOneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONLSink(New(&buf), "run-123")

	sink.Verdict([]hoist.PackageId{".", "A"}, "B", 0, "YES", map[string]any{"newParentIndex": 0})
	sink.Hoisted("A", ".", "B")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var v feedback.VerdictEntry
	require.NoError(t, goccyjson.Unmarshal([]byte(lines[0]), &v))
	assert.Equal(t, "run-123", v.RunID)
	assert.Equal(t, "B", v.Name)
	assert.Equal(t, "YES", v.Kind)

	var h feedback.HoistEntry
	require.NoError(t, goccyjson.Unmarshal([]byte(lines[1]), &h))
	assert.Equal(t, "run-123", h.RunID)
	assert.Equal(t, "A", h.From)
	assert.Equal(t, ".", h.To)
}
