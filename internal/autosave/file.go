// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 20 * time.Millisecond

// FileStore keeps one JSON file per draft in a directory. A lock file
// serialises access between processes sharing the directory, such as the
// CLI and a running server.
type FileStore struct {
	expiry
	dir  string
	lock *flock.Flock
}

// NewFileStore creates the draft directory if needed. Drafts hold
// unredacted content, so the directory and files are owner-only.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create draft directory: %w", err)
	}

	return &FileStore{
		expiry: newExpiry(ttl),
		dir:    dir,
		lock:   flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Dir returns the directory drafts are stored in
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(publicationID string) string {
	return filepath.Join(s.dir, publicationID+".json")
}

func (s *FileStore) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("acquire draft lock: %w", err)
	}
	if !locked {
		return errors.New("acquire draft lock: not acquired")
	}
	defer func() {
		_ = s.lock.Unlock() // Best effort unlock
	}()

	return fn()
}

func (s *FileStore) Save(ctx context.Context, draft Draft) error {
	if err := ValidatePublicationID(draft.PublicationID); err != nil {
		return err
	}
	s.stamp(&draft)

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	return s.withLock(ctx, true, func() error {
		tmp, err := os.CreateTemp(s.dir, draft.PublicationID+".*.tmp")
		if err != nil {
			return fmt.Errorf("create temp draft: %w", err)
		}
		defer os.Remove(tmp.Name()) // no-op after a successful rename

		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write draft: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close draft: %w", err)
		}
		if err := os.Rename(tmp.Name(), s.path(draft.PublicationID)); err != nil {
			return fmt.Errorf("replace draft: %w", err)
		}
		return nil
	})
}

func (s *FileStore) Load(ctx context.Context, publicationID string) (*Draft, error) {
	if err := ValidatePublicationID(publicationID); err != nil {
		return nil, err
	}

	var draft Draft
	err := s.withLock(ctx, false, func() error {
		data, err := os.ReadFile(s.path(publicationID))
		if errors.Is(err, fs.ErrNotExist) {
			return ErrDraftNotFound
		}
		if err != nil {
			return fmt.Errorf("read draft: %w", err)
		}
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("decode draft %s: %w", publicationID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.expired(&draft) {
		if err := s.Delete(ctx, publicationID); err != nil && !errors.Is(err, ErrDraftNotFound) {
			return nil, err
		}
		return nil, ErrDraftExpired
	}
	return &draft, nil
}

func (s *FileStore) Delete(ctx context.Context, publicationID string) error {
	if err := ValidatePublicationID(publicationID); err != nil {
		return err
	}

	return s.withLock(ctx, true, func() error {
		err := os.Remove(s.path(publicationID))
		if errors.Is(err, fs.ErrNotExist) {
			return ErrDraftNotFound
		}
		if err != nil {
			return fmt.Errorf("delete draft: %w", err)
		}
		return nil
	})
}

// Close releases the lock file handle
func (s *FileStore) Close() error {
	return s.lock.Close()
}
