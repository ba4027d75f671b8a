// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phi-scan/internal/config"
	"phi-scan/internal/security"
)

// clockedStore is a store whose freshness clock can be driven by a test
type clockedStore interface {
	Store
	setNow(func() time.Time)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// runStoreSuite checks the behaviour every backend shares
func runStoreSuite(t *testing.T, newStore func(t *testing.T) clockedStore) {
	ctx := context.Background()

	t.Run("save and load", func(t *testing.T) {
		store := newStore(t)
		clock := newFakeClock()
		store.setNow(clock.Now)

		draft := Draft{PublicationID: "pub-1", Content: "<p>Patient notes</p>"}
		require.NoError(t, store.Save(ctx, draft))

		loaded, err := store.Load(ctx, "pub-1")
		require.NoError(t, err)
		assert.Equal(t, "pub-1", loaded.PublicationID)
		assert.Equal(t, draft.Content, loaded.Content)
		assert.True(t, clock.Now().Equal(loaded.SavedAt))
	})

	t.Run("save overwrites", func(t *testing.T) {
		store := newStore(t)
		store.setNow(newFakeClock().Now)

		require.NoError(t, store.Save(ctx, Draft{PublicationID: "pub-2", Content: "first"}))
		require.NoError(t, store.Save(ctx, Draft{PublicationID: "pub-2", Content: "second"}))

		loaded, err := store.Load(ctx, "pub-2")
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Content)
	})

	t.Run("missing draft", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Load(ctx, "never-saved")
		assert.ErrorIs(t, err, ErrDraftNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "never-saved"), ErrDraftNotFound)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		store := newStore(t)
		clock := newFakeClock()
		store.setNow(clock.Now)

		require.NoError(t, store.Save(ctx, Draft{PublicationID: "pub-3", Content: "stale soon"}))

		clock.Advance(config.DefaultDraftTTL)
		_, err := store.Load(ctx, "pub-3")
		require.NoError(t, err, "a draft exactly at the window edge is still fresh")

		clock.Advance(time.Second)
		_, err = store.Load(ctx, "pub-3")
		assert.ErrorIs(t, err, ErrDraftExpired)

		// Expired drafts are removed on first sight
		_, err = store.Load(ctx, "pub-3")
		assert.ErrorIs(t, err, ErrDraftNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		store.setNow(newFakeClock().Now)

		require.NoError(t, store.Save(ctx, Draft{PublicationID: "pub-4", Content: "x"}))
		require.NoError(t, store.Delete(ctx, "pub-4"))
		_, err := store.Load(ctx, "pub-4")
		assert.ErrorIs(t, err, ErrDraftNotFound)
	})

	t.Run("invalid ids", func(t *testing.T) {
		store := newStore(t)
		for _, id := range []string{"", "../etc/passwd", "a/b", ".hidden", "with space"} {
			assert.ErrorIs(t, store.Save(ctx, Draft{PublicationID: id}), ErrInvalidID, "id %q", id)
			_, err := store.Load(ctx, id)
			assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
			assert.ErrorIs(t, store.Delete(ctx, id), ErrInvalidID, "id %q", id)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) clockedStore {
		return NewMemoryStore(config.DefaultDraftTTL)
	})
}

func TestMemoryStore_WipesDroppedContent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(config.DefaultDraftTTL)

	content := func(id string) *security.SecureString {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.drafts[id].content
	}

	require.NoError(t, store.Save(ctx, Draft{PublicationID: "pub-1", Content: "SSN 123-45-6789"}))
	first := content("pub-1")
	require.NoError(t, store.Save(ctx, Draft{PublicationID: "pub-1", Content: "SSN XXX-XX-XXXX"}))
	assert.True(t, first.Wiped(), "overwritten content is wiped")

	second := content("pub-1")
	require.NoError(t, store.Delete(ctx, "pub-1"))
	assert.True(t, second.Wiped(), "deleted content is wiped")

	require.NoError(t, store.Save(ctx, Draft{PublicationID: "pub-2", Content: "MRN: 12345678"}))
	third := content("pub-2")
	require.NoError(t, store.Close())
	assert.True(t, third.Wiped(), "close wipes remaining drafts")
}

func TestFileStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) clockedStore {
		store, err := NewFileStore(filepath.Join(t.TempDir(), "drafts"), config.DefaultDraftTTL)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestFileStore_Permissions(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "drafts"), time.Hour)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), Draft{PublicationID: "pub-perm", Content: "SSN 123-45-6789"}))

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(store.Dir(), "pub-perm.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_SharedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drafts")
	a, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); assert.NoError(t, a.Save(ctx, Draft{PublicationID: "shared", Content: "from a"})) }()
		go func() { defer wg.Done(); assert.NoError(t, b.Save(ctx, Draft{PublicationID: "shared", Content: "from b"})) }()
	}
	wg.Wait()

	loaded, err := a.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Contains(t, []string{"from a", "from b"}, loaded.Content)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("PHI_SCAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PHI_SCAN_TEST_REDIS_ADDR not set")
	}

	runStoreSuite(t, func(t *testing.T) clockedStore {
		store, err := OpenRedis(context.Background(), addr, "", 0, config.DefaultDraftTTL)
		require.NoError(t, err)
		t.Cleanup(func() {
			for _, id := range []string{"pub-1", "pub-2", "pub-3", "pub-4"} {
				_ = store.Delete(context.Background(), id)
			}
			_ = store.Close()
		})
		return store
	})
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PHI_SCAN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PHI_SCAN_TEST_POSTGRES_DSN not set")
	}

	runStoreSuite(t, func(t *testing.T) clockedStore {
		store, err := OpenPostgres(context.Background(), dsn, config.DefaultDraftTTL)
		require.NoError(t, err)
		t.Cleanup(func() {
			for _, id := range []string{"pub-1", "pub-2", "pub-3", "pub-4"} {
				_ = store.Delete(context.Background(), id)
			}
			_ = store.Close()
		})
		return store
	})
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenStore(ctx, config.AutosaveConfig{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	dir := filepath.Join(t.TempDir(), "d")
	store, err = OpenStore(ctx, config.AutosaveConfig{Backend: config.BackendFile, Dir: dir})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, store)
	assert.Equal(t, dir, store.(*FileStore).Dir())
	_ = store.Close()

	_, err = OpenStore(ctx, config.AutosaveConfig{Backend: "s3"})
	assert.Error(t, err)
}

func TestValidatePublicationID(t *testing.T) {
	assert.NoError(t, ValidatePublicationID("post_2026-03.v2"))
	assert.True(t, errors.Is(ValidatePublicationID("a\x00b"), ErrInvalidID))
}
