// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"phi-scan/internal/redactors"
	"phi-scan/internal/redactors/strategies"
	"phi-scan/internal/suggestions"
)

func newRedactCmd(a *app) *cobra.Command {
	var (
		f       scanFlags
		withMap bool
	)

	cmd := &cobra.Command{
		Use:   "redact [file]",
		Short: "Write a redacted copy of a file or stdin",
		Long: `Redact detects PHI and prints the text with every finding replaced.
Markup is removed first: the output is the plain text the findings refer to.

Suppressed findings are left in place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.resolve(cmd, &f)
			strategy, err := strategies.Parse(s.strategy)
			if err != nil {
				return err
			}

			docs, err := a.readDocuments(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			doc := docs[0]

			report := a.engine(s).DetectStripped(doc.text)
			result, err := redactors.NewRedactor(strategy).RedactWithMap(doc.text, report.Findings)
			if err != nil {
				return err
			}
			a.logger.Debug("redacted",
				zap.String("source", doc.source),
				zap.Int("findings", len(report.Findings)),
				zap.Int("spans", len(result.RedactionMap)),
				zap.String("strategy", result.Strategy))

			if withMap {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), result.Text)
			}
			return nil
		},
	}

	strategyFlag(cmd, &f)
	cmd.Flags().BoolVar(&withMap, "map", false, "print JSON with the redacted text and the replaced spans")
	addDetectionFlags(cmd, &f)
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "suggest [file...]",
		Short: "Print remediation suggestions for the PHI found",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.resolve(cmd, &f)
			docs, err := a.readDocuments(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}

			engine := a.engine(s)
			for i, doc := range docs {
				if len(docs) > 1 {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", doc.source)
				}
				for _, line := range suggestions.Suggestions(engine.DetectStripped(doc.text).Findings) {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", line)
				}
			}
			return nil
		},
	}

	addDetectionFlags(cmd, &f)
	return cmd
}
