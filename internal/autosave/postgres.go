// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const draftsSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	publication_id TEXT PRIMARY KEY,
	content        TEXT NOT NULL,
	saved_at       TIMESTAMPTZ NOT NULL,
	expires_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS drafts_expires_at_idx ON drafts (expires_at);`

type draftRow struct {
	PublicationID string    `db:"publication_id"`
	Content       string    `db:"content"`
	SavedAt       time.Time `db:"saved_at"`
	ExpiresAt     time.Time `db:"expires_at"`
}

// PostgresStore keeps drafts in a drafts table. It is the usual target of
// the server-side mirror.
type PostgresStore struct {
	expiry
	db *sqlx.DB
}

// NewPostgresStore wraps an open database. Call Migrate before first use.
func NewPostgresStore(db *sqlx.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{
		expiry: newExpiry(ttl),
		db:     db,
	}
}

// OpenPostgres connects and creates the drafts table if missing
func OpenPostgres(ctx context.Context, dsn string, ttl time.Duration) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	store := NewPostgresStore(db, ttl)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the drafts table
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, draftsSchema); err != nil {
		return fmt.Errorf("create drafts table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, draft Draft) error {
	if err := ValidatePublicationID(draft.PublicationID); err != nil {
		return err
	}
	s.stamp(&draft)

	row := draftRow{
		PublicationID: draft.PublicationID,
		Content:       draft.Content,
		SavedAt:       draft.SavedAt,
		ExpiresAt:     draft.SavedAt.Add(s.ttl),
	}
	query := `
		INSERT INTO drafts (publication_id, content, saved_at, expires_at)
		VALUES (:publication_id, :content, :saved_at, :expires_at)
		ON CONFLICT (publication_id) DO UPDATE
		SET content = EXCLUDED.content, saved_at = EXCLUDED.saved_at, expires_at = EXCLUDED.expires_at`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, publicationID string) (*Draft, error) {
	if err := ValidatePublicationID(publicationID); err != nil {
		return nil, err
	}

	var row draftRow
	err := s.db.GetContext(ctx, &row,
		`SELECT publication_id, content, saved_at, expires_at FROM drafts WHERE publication_id = $1`, publicationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	draft := &Draft{PublicationID: row.PublicationID, Content: row.Content, SavedAt: row.SavedAt.UTC()}
	if s.expired(draft) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE publication_id = $1`, publicationID); err != nil {
			return nil, fmt.Errorf("delete expired draft: %w", err)
		}
		return nil, ErrDraftExpired
	}
	return draft, nil
}

func (s *PostgresStore) Delete(ctx context.Context, publicationID string) error {
	if err := ValidatePublicationID(publicationID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE publication_id = $1`, publicationID)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// DeleteExpired removes every stale draft and reports how many went
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE expires_at < $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired drafts: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
