// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"context"
	"fmt"

	"phi-scan/internal/config"
	"phi-scan/internal/logger"
	"phi-scan/internal/paths"
)

// OpenStore opens the draft store selected by cfg.Backend
func OpenStore(ctx context.Context, cfg config.AutosaveConfig) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = config.DefaultDraftTTL
	}

	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(ttl), nil
	case "", config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = paths.GetDraftsDir()
		}
		return NewFileStore(dir, ttl)
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN, ttl)
	}
	return nil, fmt.Errorf("unknown autosave backend %q", cfg.Backend)
}

// Open builds a saver from configuration: the local store plus the mirror
// when a mirror URL is set
func Open(ctx context.Context, cfg config.AutosaveConfig, log *logger.Logger) (*Saver, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var mirror *Mirror
	if cfg.MirrorURL != "" {
		mirror, err = NewMirror(cfg.MirrorURL, cfg.MirrorTimeout)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return NewSaver(store, mirror, log), nil
}
