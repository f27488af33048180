// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lakegate/lakegate/internal/config"
	"github.com/lakegate/lakegate/internal/logging"
	"github.com/lakegate/lakegate/internal/perm"
)

// NewCompileCmd creates the compile subcommand.
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile permission grants into a permission graph",
		Long: `Compile reads permission grants, one per line, from the given file or
from stdin, and writes the compiled permission graph to stdout. Blank lines
and lines starting with '#' are skipped.

Grants that fail to parse are logged and dropped unless --strict is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompile,
	}

	cmd.Flags().String("output", "yaml", "graph output format (yaml or json)")
	cmd.Flags().String("log-format", "text", "log format (json or text)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().Bool("strict", false, "abort on the first malformed grant")
	cmd.Flags().Bool("fail-on-diagnostics", false, "exit nonzero when any grant was dropped")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.Setup("lakegate", cmd.Root().Version, cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())

	grants, err := readGrants(cmd, args)
	if err != nil {
		return err
	}

	opts := []perm.Option{perm.WithLogger(logger)}
	if cfg.Strict {
		opts = append(opts, perm.WithStrict())
	}

	result, err := perm.NewCompiler(opts...).Compile(cmd.Context(), grants)
	if err != nil {
		return err
	}

	if err := writeGraph(cmd.OutOrStdout(), cfg.Output, result); err != nil {
		return err
	}

	failOnDiags, _ := cmd.Flags().GetBool("fail-on-diagnostics")
	if failOnDiags && len(result.Diagnostics) > 0 {
		return oops.
			With("batch_id", result.BatchID.String()).
			Errorf("%d grant(s) dropped during compilation", len(result.Diagnostics))
	}
	return nil
}

// readGrants reads one grant per line from the named file or stdin.
func readGrants(cmd *cobra.Command, args []string) ([]string, error) {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, oops.With("path", args[0]).Wrapf(err, "opening grants file")
		}
		defer f.Close() //nolint:errcheck // read-only file
		in = f
	}

	var grants []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		grants = append(grants, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.Wrapf(err, "reading grants")
	}
	return grants, nil
}

// writeGraph renders the compiled graph to w in the configured format.
func writeGraph(w io.Writer, format string, result *perm.Result) error {
	doc := result.Graph.AsMap()

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return oops.Wrapf(err, "encoding graph as json")
		}
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return oops.Wrapf(err, "encoding graph as yaml")
		}
		if err := enc.Close(); err != nil {
			return oops.Wrapf(err, "flushing yaml encoder")
		}
	}
	return nil
}
