// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	goccyjson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sdboyer/hoist"
	hoistlog "github.com/sdboyer/hoist/log"
)

func newRunCommand() *cobra.Command {
	var (
		outputPath string
		dump       bool
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "run <input.json>",
		Short: "Hoist a single package tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOne(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], outputPath, dump, check)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the hoisted tree here instead of stdout")
	cmd.Flags().BoolVar(&dump, "dump", false, "emit a JSON-lines verdict trace to stderr")
	cmd.Flags().BoolVar(&check, "check", false, "re-verify invariants on the hoisted graph")

	return cmd
}

func runOne(stdout, stderr io.Writer, inputPath, outputPath string, dump, check bool) error {
	cfg, err := loadConfig(inputPath)
	if err != nil {
		return errors.Wrap(err, "loading .hoist.toml")
	}
	if cfg.Dump {
		dump = true
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", inputPath)
	}

	var pkg hoist.Package
	if err := goccyjson.Unmarshal(data, &pkg); err != nil {
		return errors.Wrapf(err, "parsing %s", inputPath)
	}

	opts := hoist.Options{Check: check}
	runID := uuid.New().String()
	if dump {
		traceWriter := stderr
		if cfg.TracePath != "" {
			f, err := os.OpenFile(cfg.TracePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return errors.Wrapf(err, "opening trace_path %s", cfg.TracePath)
			}
			defer f.Close()
			traceWriter = f
		}
		opts.Dump = hoistlog.NewJSONLSink(hoistlog.New(traceWriter), runID)
	}

	result, err := hoist.Hoist(&pkg, opts)
	if err != nil {
		return errors.Wrap(err, "hoisting")
	}

	out, err := goccyjson.MarshalIndent(result.Tree, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}

	if outputPath == "" {
		if _, err := fmt.Fprintln(stdout, string(out)); err != nil {
			return err
		}
	} else {
		unlock, err := lockOutputPath(outputPath)
		if err != nil {
			return errors.Wrapf(err, "locking %s", outputPath)
		}
		defer unlock()

		if err := os.WriteFile(outputPath, append(out, '\n'), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", outputPath)
		}
	}

	for _, v := range result.Violations {
		fmt.Fprintln(stderr, "invariant violation:", v.String())
	}
	return nil
}
