// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries      int                          // Maximum number of retry attempts
	InitialInterval time.Duration                // Initial retry interval
	MaxInterval     time.Duration                // Maximum retry interval
	Multiplier      float64                      // Exponential backoff multiplier (e.g. 2.0 doubles each attempt)
	MaxElapsedTime  time.Duration                // Maximum total time for all retries, zero for no limit
	Jitter          bool                         // Add up to 25% random jitter to spread retries
	OnRetry         func(attempt int, err error) // Optional callback invoked before each retry
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  2 * time.Minute,
		Jitter:          true,
	}
}

// MirrorRetryConfig is tuned for draft mirroring: drafts are saved often,
// so a slow remote must not pile up long-running retries.
func MirrorRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: 250 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  10 * time.Second,
		Jitter:          true,
	}
}

// RetryableOperation represents an operation that can be retried.
type RetryableOperation func(ctx context.Context) error

// RetryWithBackoff executes an operation with exponential backoff and optional jitter.
// The delay before attempt n is: InitialInterval * Multiplier^(n-1), capped at MaxInterval.
// When Jitter is true, up to 25% random noise is added to spread concurrent retries.
// Only errors classified as retryable are retried.
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation RetryableOperation) error {
	var lastErr error
	start := time.Now()

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := float64(config.InitialInterval)
			for i := 1; i < attempt; i++ {
				delay *= config.Multiplier
			}
			if config.Jitter {
				delay += delay * 0.25 * rand.Float64()
			}
			wait := time.Duration(delay)
			if config.MaxInterval > 0 {
				wait = min(wait, config.MaxInterval)
			}
			if config.MaxElapsedTime > 0 && time.Since(start)+wait > config.MaxElapsedTime {
				return lastErr
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}

			if config.OnRetry != nil {
				config.OnRetry(attempt, lastErr)
			}
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !ClassifyError(err).IsRetryable() {
			return err
		}
	}

	return lastErr
}

// RetryWithCircuitBreaker combines retry logic with circuit breaker protection.
// An open breaker fails fast and is not retried.
func RetryWithCircuitBreaker(ctx context.Context, retryConfig RetryConfig, cb *CircuitBreaker, operation RetryableOperation) error {
	return RetryWithBackoff(ctx, retryConfig, func(ctx context.Context) error {
		err := cb.Execute(ctx, operation)
		if errors.Is(err, ErrCircuitOpen) {
			return NewPermanentError(err.Error(), err)
		}
		return err
	})
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}
