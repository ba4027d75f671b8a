// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen matches every error returned while a breaker rejects calls
var ErrCircuitOpen = errors.New("circuit open")

// CircuitBreakerState is the state of a breaker
type CircuitBreakerState int

const (
	StateClosed   CircuitBreakerState = iota // calls pass
	StateOpen                                // calls fail fast until the cooldown ends
	StateHalfOpen                            // one probe call is in flight
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the state name in JSON health output
func (s CircuitBreakerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateChangeFunc observes breaker transitions. It runs with the breaker
// locked and must not call back into it.
type StateChangeFunc func(name string, from, to CircuitBreakerState)

// CircuitBreakerConfig tunes a breaker
type CircuitBreakerConfig struct {
	Name string
	// Consecutive failures that open the circuit
	FailureThreshold int
	// How long the circuit stays open before a single probe is let through
	Cooldown time.Duration
	// Decides which errors count against the remote. Nil counts every error.
	IsFailure func(error) bool
}

// DefaultCircuitBreakerConfig opens after five consecutive retryable
// failures and probes again after 30 seconds. Rejected requests (4xx) say
// nothing about the remote's health and never count.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		IsFailure: func(err error) bool {
			return err != nil && ClassifyError(err).Retryable
		},
	}
}

// CircuitBreaker stops calling a remote that keeps failing. After the
// cooldown one probe call decides whether the circuit closes or reopens.
type CircuitBreaker struct {
	config   CircuitBreakerConfig
	now      func() time.Time
	onChange StateChangeFunc

	mu          sync.Mutex
	state       CircuitBreakerState
	failures    int // consecutive, reset by any success
	totalFails  int
	lastFailure time.Time
	openedAt    time.Time
}

// NewCircuitBreaker creates a closed breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	if config.FailureThreshold < 1 {
		config.FailureThreshold = 1
	}
	return &CircuitBreaker{config: config, now: time.Now}
}

// OnStateChange registers fn to observe transitions, replacing any earlier one
func (cb *CircuitBreaker) OnStateChange(fn StateChangeFunc) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onChange = fn
}

// Execute runs fn unless the circuit is open. A rejected call returns an
// error matching ErrCircuitOpen without running fn.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		wait := cb.openedAt.Add(cb.config.Cooldown).Sub(cb.now())
		if wait > 0 {
			return fmt.Errorf("%s: %w, next attempt in %s", cb.config.Name, ErrCircuitOpen, wait.Round(time.Second))
		}
		cb.transition(StateHalfOpen)
		return nil
	case StateHalfOpen:
		return fmt.Errorf("%s: %w, probe in flight", cb.config.Name, ErrCircuitOpen)
	default:
		return nil
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.config.IsFailure(err) {
		cb.failures = 0
		if cb.state == StateHalfOpen {
			cb.transition(StateClosed)
		}
		return
	}

	cb.failures++
	cb.totalFails++
	cb.lastFailure = cb.now()
	if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
		cb.openedAt = cb.lastFailure
		cb.transition(StateOpen)
	}
}

func (cb *CircuitBreaker) transition(to CircuitBreakerState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.onChange != nil {
		cb.onChange(cb.config.Name, from, to)
	}
}

// CircuitBreakerStats is a snapshot for health reporting
type CircuitBreakerStats struct {
	Name                string              `json:"name"`
	State               CircuitBreakerState `json:"state"`
	ConsecutiveFailures int                 `json:"consecutive_failures"`
	TotalFailures       int                 `json:"total_failures"`
	LastFailure         *time.Time          `json:"last_failure,omitempty"`
	RetryAt             *time.Time          `json:"retry_at,omitempty"` // set while open
}

// Healthy reports whether calls currently pass
func (s CircuitBreakerStats) Healthy() bool {
	return s.State == StateClosed
}

// Stats returns a snapshot of the breaker
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	stats := CircuitBreakerStats{
		Name:                cb.config.Name,
		State:               cb.state,
		ConsecutiveFailures: cb.failures,
		TotalFailures:       cb.totalFails,
	}
	if !cb.lastFailure.IsZero() {
		last := cb.lastFailure.UTC()
		stats.LastFailure = &last
	}
	if cb.state == StateOpen {
		retry := cb.openedAt.Add(cb.config.Cooldown).UTC()
		stats.RetryAt = &retry
	}
	return stats
}
