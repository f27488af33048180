// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the lakegate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lakegate",
		Short: "Lakegate - authorization policy compiler",
		Long: `Lakegate compiles textual permission grants over databases, schemas,
tables, collections, and downloads into a single normalized permission graph
representing the most-permissive union of all granted scopes.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewCompileCmd())

	return cmd
}
