// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "phiscan:draft:"

// RedisStore keeps drafts in Redis. Keys carry a TTL matching the
// freshness window, so Redis drops stale drafts on its own.
type RedisStore struct {
	expiry
	client *redis.Client
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		expiry: newExpiry(ttl),
		client: client,
	}
}

// OpenRedis connects to Redis and checks the connection
func OpenRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return NewRedisStore(client, ttl), nil
}

func redisKey(publicationID string) string {
	return redisKeyPrefix + publicationID
}

func (s *RedisStore) Save(ctx context.Context, draft Draft) error {
	if err := ValidatePublicationID(draft.PublicationID); err != nil {
		return err
	}
	s.stamp(&draft)

	remaining := s.remaining(draft.SavedAt)
	if remaining <= 0 {
		// Already stale: storing it would only hand back ErrDraftExpired
		return s.client.Del(ctx, redisKey(draft.PublicationID)).Err()
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(draft.PublicationID), data, remaining).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, publicationID string) (*Draft, error) {
	if err := ValidatePublicationID(publicationID); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, redisKey(publicationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// Corrupted entry, drop it
		s.client.Del(ctx, redisKey(publicationID))
		return nil, fmt.Errorf("decode draft %s: %w", publicationID, err)
	}

	// Covers clock skew between this process and the Redis server
	if s.expired(&draft) {
		s.client.Del(ctx, redisKey(publicationID))
		return nil, ErrDraftExpired
	}
	return &draft, nil
}

func (s *RedisStore) Delete(ctx context.Context, publicationID string) error {
	if err := ValidatePublicationID(publicationID); err != nil {
		return err
	}

	n, err := s.client.Del(ctx, redisKey(publicationID)).Result()
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
