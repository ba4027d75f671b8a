// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"phi-scan/internal/logger"
)

// reloadDelay collapses the burst of events editors emit for one save
const reloadDelay = 200 * time.Millisecond

// Watch reloads configPath whenever it changes and passes every valid
// result to callback. Invalid files are logged and skipped. Watch blocks
// until ctx is done.
//
// The parent directory is watched rather than the file so that editors
// which replace the file on save keep triggering reloads.
func Watch(ctx context.Context, configPath string, log *logger.Logger, callback func(*Config)) error {
	if log == nil {
		log = logger.Nop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(configPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			cfg, err := LoadConfig(target)
			if err != nil {
				log.Warn("config reload rejected", zap.String("path", target), zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", target))
			callback(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))
		}
	}
}
