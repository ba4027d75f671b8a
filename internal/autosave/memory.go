// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"context"
	"sync"
	"time"

	"phi-scan/internal/security"
)

type memoryEntry struct {
	content *security.SecureString
	savedAt time.Time
}

// MemoryStore keeps drafts in process memory. Drafts are lost on exit.
// Content that is replaced, deleted or expired is wiped.
type MemoryStore struct {
	expiry
	mu     sync.Mutex
	drafts map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		expiry: newExpiry(ttl),
		drafts: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Save(_ context.Context, draft Draft) error {
	if err := ValidatePublicationID(draft.PublicationID); err != nil {
		return err
	}
	s.stamp(&draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(draft.PublicationID)
	s.drafts[draft.PublicationID] = memoryEntry{
		content: security.NewSecureString(draft.Content),
		savedAt: draft.SavedAt,
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, publicationID string) (*Draft, error) {
	if err := ValidatePublicationID(publicationID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[publicationID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	draft := &Draft{PublicationID: publicationID, SavedAt: entry.savedAt}
	if s.expired(draft) {
		s.dropLocked(publicationID)
		return nil, ErrDraftExpired
	}
	draft.Content = entry.content.String()
	return draft, nil
}

func (s *MemoryStore) Delete(_ context.Context, publicationID string) error {
	if err := ValidatePublicationID(publicationID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[publicationID]; !ok {
		return ErrDraftNotFound
	}
	s.dropLocked(publicationID)
	return nil
}

// Close wipes every stored draft
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.drafts {
		s.dropLocked(id)
	}
	return nil
}

func (s *MemoryStore) dropLocked(publicationID string) {
	if entry, ok := s.drafts[publicationID]; ok {
		entry.content.Wipe()
		delete(s.drafts, publicationID)
	}
}
