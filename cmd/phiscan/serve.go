// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"phi-scan/internal/autosave"
	"phi-scan/internal/config"
	"phi-scan/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		address  string
		noDrafts bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API used by the editor",
		Long: `Serve the scanning, redaction, suggestion and draft API, plus live
scanning over WebSocket at /ws/scan.

With --watch, changes to the configuration file are applied without a
restart: checks, confidence levels, redaction strategy and suppressions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cmd.Flags().Changed("address") {
				a.cfg.Server.Address = address
			}
			if a.profile != nil && a.profile.Redaction.Strategy != "" {
				a.cfg.Redaction.Strategy = a.profile.Redaction.Strategy
			}

			var saver *autosave.Saver
			if !noDrafts {
				var err error
				saver, err = autosave.Open(ctx, a.cfg.Autosave, a.logger)
				if err != nil {
					return err
				}
				defer saver.Close()
			}

			server, err := web.New(a.cfg, saver, a.logger)
			if err != nil {
				return err
			}

			if path := a.configPath(); watch && path != "" {
				go func() {
					err := config.Watch(ctx, path, a.logger, func(cfg *config.Config) {
						if err := server.UpdateConfig(cfg); err != nil {
							a.logger.Warn("config reload not applied", zap.Error(err))
						}
					})
					if err != nil {
						a.logger.Error("config watcher stopped", zap.Error(err))
					}
				}()
			}

			errs := make(chan error, 1)
			go func() { errs <- server.Start() }()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := server.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return <-errs
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address (default from server.address, :8080)")
	cmd.Flags().BoolVar(&noDrafts, "no-drafts", false, "disable the draft endpoints")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the configuration file when it changes")
	return cmd
}

// configPath is the file configuration was loaded from, if any
func (a *app) configPath() string {
	if a.flags.configFile != "" {
		return a.flags.configFile
	}
	return config.FindConfigFile()
}
