// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// fileConfig is the shape of an optional .hoist.toml sitting beside the
// input file: it supplies CLI defaults so they don't have to be repeated
// on every invocation.
type fileConfig struct {
	Dump      bool   `toml:"dump"`
	TracePath string `toml:"trace_path"`
}

// loadConfig looks for ".hoist.toml" next to inputPath and parses it if
// found. A missing file is not an error; it just means no defaults are
// overridden.
func loadConfig(inputPath string) (*fileConfig, error) {
	dir := filepath.Dir(inputPath)
	path := filepath.Join(dir, ".hoist.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, err
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
