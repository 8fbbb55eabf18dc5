// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newBatchCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Hoist every *.json fixture tree under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], dump)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "emit a JSON-lines verdict trace per file to stderr")
	return cmd
}

// runBatch walks dir, running Hoist over every *.json file found and
// printing each hoisted tree to stdout; a file that fails gets a one-line
// error on stderr, and a final line reports how many files were processed.
func runBatch(cmd *cobra.Command, dir string, dump bool) error {
	var files []string
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if strings.HasSuffix(path, ".json") {
				files = append(files, path)
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return errors.Wrapf(err, "walking %s", dir)
	}

	// Sort for deterministic, reproducible batch output regardless of the
	// filesystem's own directory-entry order.
	sort.Strings(files)

	for _, f := range files {
		if err := runOne(cmd.OutOrStdout(), cmd.ErrOrStderr(), f, "", dump, false); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filepath.Base(f), err)
			continue
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "processed %d file(s) under %s\n", len(files), dir)
	return nil
}
