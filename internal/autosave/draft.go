// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package autosave keeps editor drafts recoverable for a limited time.
// It stores content as-is and has no knowledge of PHI detection.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrDraftNotFound is returned when no draft exists for a publication
	ErrDraftNotFound = errors.New("draft not found")

	// ErrDraftExpired is returned when a draft is older than the freshness
	// window. The stale draft is deleted.
	ErrDraftExpired = errors.New("draft expired")

	// ErrInvalidID is returned for publication IDs that cannot be used as keys
	ErrInvalidID = errors.New("invalid publication id")
)

// Draft is the last auto-saved content of one publication
type Draft struct {
	PublicationID string    `json:"publicationId"`
	Content       string    `json:"content"`
	SavedAt       time.Time `json:"savedAt"`
}

// Store persists drafts keyed by publication ID
type Store interface {
	// Save creates or replaces the draft. A zero SavedAt is set to now.
	Save(ctx context.Context, draft Draft) error

	// Load returns the draft, ErrDraftNotFound, or ErrDraftExpired
	Load(ctx context.Context, publicationID string) (*Draft, error)

	// Delete removes the draft or returns ErrDraftNotFound
	Delete(ctx context.Context, publicationID string) error

	Close() error
}

var publicationIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidatePublicationID rejects IDs that are empty, too long, or could
// escape a key namespace or directory
func ValidatePublicationID(id string) error {
	if !publicationIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// expiry is the freshness window shared by every backend
type expiry struct {
	ttl time.Duration
	now func() time.Time
}

func newExpiry(ttl time.Duration) expiry {
	return expiry{ttl: ttl, now: time.Now}
}

// stamp fills in SavedAt for drafts saved without one
func (e *expiry) stamp(d *Draft) {
	if d.SavedAt.IsZero() {
		d.SavedAt = e.now()
	}
	d.SavedAt = d.SavedAt.UTC()
}

func (e *expiry) expired(d *Draft) bool {
	return e.now().Sub(d.SavedAt) > e.ttl
}

// remaining is how long a draft saved at savedAt stays fresh
func (e *expiry) remaining(savedAt time.Time) time.Duration {
	return e.ttl - e.now().Sub(savedAt)
}

func (e *expiry) setNow(now func() time.Time) {
	e.now = now
}
