// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"phi-scan/internal/autosave"
)

func newDraftCmd(a *app) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Save, recover or discard auto-saved editor drafts",
		Long: `Drafts are keyed by publication ID and stay recoverable for the
configured TTL (24 hours by default). The store is selected by
autosave.backend: memory, file, redis or postgres.`,
	}
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "draft store backend, overriding autosave.backend")

	open := func(cmd *cobra.Command) (*autosave.Saver, error) {
		cfg := a.cfg.Autosave
		if backend != "" {
			cfg.Backend = backend
		}
		return autosave.Open(cmd.Context(), cfg, a.logger)
	}

	save := &cobra.Command{
		Use:   "save <publication-id> [file]",
		Short: "Save a draft from a file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				content []byte
				err     error
			)
			if len(args) == 2 && args[1] != stdinName {
				content, err = os.ReadFile(args[1])
			} else {
				content, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading draft content: %w", err)
			}

			saver, err := open(cmd)
			if err != nil {
				return err
			}
			defer saver.Close()

			draft, err := saver.Save(cmd.Context(), autosave.Draft{PublicationID: args[0], Content: string(content)})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved draft %s at %s\n", draft.PublicationID, draft.SavedAt.Format(time.RFC3339))
			return nil
		},
	}

	var asJSON bool
	load := &cobra.Command{
		Use:   "load <publication-id>",
		Short: "Print a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saver, err := open(cmd)
			if err != nil {
				return err
			}
			defer saver.Close()

			draft, err := saver.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(draft)
			}
			fmt.Fprint(cmd.OutOrStdout(), draft.Content)
			return nil
		},
	}
	load.Flags().BoolVar(&asJSON, "json", false, "print the draft with its metadata as JSON")

	remove := &cobra.Command{
		Use:     "delete <publication-id>",
		Aliases: []string{"rm"},
		Short:   "Discard a saved draft",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saver, err := open(cmd)
			if err != nil {
				return err
			}
			defer saver.Close()

			if err := saver.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(save, load, remove)
	return cmd
}
