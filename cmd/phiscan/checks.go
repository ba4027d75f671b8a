// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phi-scan/internal/core"
	"phi-scan/internal/help"
)

func newChecksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checks [check]",
		Short: "Describe the available checks",
		Long: `Without arguments, list every check in the order they run. With a check
name, describe its patterns, context rules and confidence.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			system := help.NewSystem(color.NoColor)
			system.SetOutput(cmd.OutOrStdout())
			core.RegisterHelp(system)

			if len(args) == 0 {
				system.ShowChecksHelp()
				return nil
			}
			name := strings.ToUpper(args[0])
			if !slices.Contains(core.CheckNames, name) {
				return fmt.Errorf("unknown check %q (available: %s)", args[0], strings.Join(core.CheckNames, ", "))
			}
			system.ShowCheckHelp(name)
			return nil
		},
	}
}

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configuration profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range a.cfg.ListProfiles() {
				p := a.cfg.GetProfile(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, p.Description)
			}
		},
	}
}
