// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hoist",
		Short:         "Flatten a resolved package dependency graph",
		Long:          "hoist reads a rooted package dependency graph and rewrites it into a flatter, semantically equivalent graph suitable for a nested-directory install layout.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand())
	root.AddCommand(newBatchCommand())
	root.AddCommand(newVersionCommand())

	return root
}
