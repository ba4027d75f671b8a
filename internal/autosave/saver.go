// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"phi-scan/internal/logger"
	"phi-scan/internal/resilience"
)

// Saver writes drafts to a local store and copies them to an optional
// remote mirror in the background. Mirror failures are logged and never
// reach the caller: the local copy is what recovery relies on.
type Saver struct {
	local  Store
	mirror *Mirror
	logger *logger.Logger
	now    func() time.Time

	wg sync.WaitGroup
}

// NewSaver creates a saver. mirror may be nil.
func NewSaver(local Store, mirror *Mirror, log *logger.Logger) *Saver {
	if log == nil {
		log = logger.Nop()
	}
	s := &Saver{
		local:  local,
		mirror: mirror,
		logger: log.WithComponent("autosave"),
		now:    time.Now,
	}
	if mirror != nil {
		mirror.breaker.OnStateChange(s.logMirrorState)
	}
	return s
}

func (s *Saver) logMirrorState(name string, from, to resilience.CircuitBreakerState) {
	fields := []zap.Field{zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to)}
	switch to {
	case resilience.StateOpen:
		s.logger.Warn("draft mirror unavailable, pausing mirror writes", fields...)
	case resilience.StateClosed:
		s.logger.Info("draft mirror recovered", fields...)
	default:
		s.logger.Debug("draft mirror probe", fields...)
	}
}

// Save stores the draft locally, then mirrors it without waiting
func (s *Saver) Save(ctx context.Context, draft Draft) (*Draft, error) {
	if draft.SavedAt.IsZero() {
		draft.SavedAt = s.now().UTC()
	}
	if err := s.local.Save(ctx, draft); err != nil {
		return nil, err
	}

	s.background(draft.PublicationID, "mirror save", func(ctx context.Context) error {
		return s.mirror.Put(ctx, draft)
	})
	return &draft, nil
}

// Load returns the local draft
func (s *Saver) Load(ctx context.Context, publicationID string) (*Draft, error) {
	return s.local.Load(ctx, publicationID)
}

// Delete removes the local draft and, in the background, the remote copy
func (s *Saver) Delete(ctx context.Context, publicationID string) error {
	if err := s.local.Delete(ctx, publicationID); err != nil {
		return err
	}

	s.background(publicationID, "mirror delete", func(ctx context.Context) error {
		return s.mirror.Delete(ctx, publicationID)
	})
	return nil
}

func (s *Saver) background(publicationID, operation string, fn func(context.Context) error) {
	if s.mirror == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Detached from the request: the editor does not wait for the mirror
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Warn(operation+" failed",
				zap.String("publication_id", publicationID),
				zap.String("error_type", resilience.ClassifyError(err).Type.String()),
				zap.Error(err))
			return
		}
		s.logger.Debug(operation+" done", zap.String("publication_id", publicationID))
	}()
}

// MirrorStats reports the mirror state, or nil without a mirror
func (s *Saver) MirrorStats() *resilience.CircuitBreakerStats {
	if s.mirror == nil {
		return nil
	}
	stats := s.mirror.Stats()
	return &stats
}

// Wait blocks until in-flight mirror writes finish
func (s *Saver) Wait() {
	s.wg.Wait()
}

// Close waits for the mirror and closes the local store
func (s *Saver) Close() error {
	s.Wait()
	return s.local.Close()
}
