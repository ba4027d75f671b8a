// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os/user"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"phi-scan/internal/detector"
	"phi-scan/internal/formatters"
	"phi-scan/internal/formatters/shared"
	"phi-scan/internal/suppressions"
)

func newSuppressCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "suppress",
		Short: "Manage rules that mark findings as false positives",
		Long: `Suppression rules identify a finding by a hash of its type, its matched
text and the surrounding text, so a rule keeps matching the same occurrence
while the document around it is edited. Matched text itself is never stored.`,
	}
	cmd.PersistentFlags().StringVar(&file, "suppression-file", "", "suppression rule file (default from suppressions.file or the user config dir)")

	manager := func() *suppressions.SuppressionManager {
		path := file
		if path == "" {
			path = a.cfg.Suppressions.File
		}
		return suppressions.NewSuppressionManager(path)
	}

	// findingsOf scans source with every check and no suppressions
	findingsOf := func(cmd *cobra.Command, source string) (document, []detector.Finding, error) {
		docs, err := a.readDocuments(cmd.Context(), cmd, []string{source})
		if err != nil {
			return document{}, nil, err
		}
		s := scanSettings{checks: "all", confidenceLevels: "all"}
		return docs[0], a.engine(s).DetectStripped(docs[0].text).Findings, nil
	}

	var (
		index     int
		reason    string
		expiresIn time.Duration
		showMatch bool
	)
	add := &cobra.Command{
		Use:   "add <file>",
		Short: "Suppress one finding of a file; without --index, list the candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, findings, err := findingsOf(cmd, args[0])
			if err != nil {
				return err
			}

			if index == 0 {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "#\tTYPE\tOFFSET\tMATCH")
				for i, f := range findings {
					fmt.Fprintf(w, "%d\t%s\t%d-%d\t%s\n", i+1, f.Type, f.StartOffset, f.EndOffset,
						shared.DisplayText(f, formatters.FormatterOptions{ShowMatch: showMatch}))
				}
				return w.Flush()
			}
			if index < 1 || index > len(findings) {
				return fmt.Errorf("--index must be between 1 and %d", len(findings))
			}
			if reason == "" {
				return fmt.Errorf("--reason is required")
			}

			var expiresAt *time.Time
			if expiresIn > 0 {
				t := time.Now().Add(expiresIn)
				expiresAt = &t
			}
			rule, err := manager().AddSuppression(doc.text, findings[index-1], reason, currentUser(), expiresAt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added suppression rule %s for %s finding\n", rule.ID, findings[index-1].Type)
			return nil
		},
	}
	add.Flags().IntVar(&index, "index", 0, "1-based number of the finding to suppress")
	add.Flags().StringVar(&reason, "reason", "", "why this finding is not PHI")
	add.Flags().DurationVar(&expiresIn, "expires-in", 0, "rule lifetime (default one week)")
	add.Flags().BoolVar(&showMatch, "show-match", false, "print matched text when listing candidates")

	var enabled bool
	generate := &cobra.Command{
		Use:   "generate <file>",
		Short: "Create rules for every finding of a file",
		Long: `Generate creates a rule for every finding that has none yet. Rules are
created disabled unless --enabled is given, so they can be reviewed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, findings, err := findingsOf(cmd, args[0])
			if err != nil {
				return err
			}
			if reason == "" {
				reason = "generated from " + doc.source
			}
			added, err := manager().GenerateSuppressionRules(doc.text, findings, reason, enabled)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d suppression rules from %d findings\n", added, len(findings))
			return nil
		},
	}
	generate.Flags().BoolVar(&enabled, "enabled", false, "create the rules enabled")
	generate.Flags().StringVar(&reason, "reason", "", "reason recorded on every rule")

	list := &cobra.Command{
		Use:   "list",
		Short: "List suppression rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := manager().ListSuppressions()
			if len(rules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No suppression rules found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tENABLED\tEXPIRES\tREASON")
			for _, rule := range rules {
				expires := "never"
				if rule.ExpiresAt != nil {
					expires = rule.ExpiresAt.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", rule.ID, rule.Metadata["finding_type"], rule.Enabled, expires, rule.Reason)
			}
			return w.Flush()
		},
	}

	remove := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a suppression rule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := manager().RemoveSuppression(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed suppression rule %s\n", args[0])
			return nil
		},
	}

	setEnabled := func(use string, value bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: fmt.Sprintf("%s a suppression rule", map[bool]string{true: "Enable", false: "Disable"}[value]),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := manager().SetRuleEnabled(args[0], value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Suppression rule %s %sd\n", args[0], use)
				return nil
			},
		}
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired suppression rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := manager().CleanupExpired()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleaned up %d expired suppression rules\n", removed)
			return nil
		},
	}

	cmd.AddCommand(add, generate, list, remove, setEnabled("enable", true), setEnabled("disable", false), cleanup)
	return cmd
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
