// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown            ErrorType = iota
	ErrorTypeTransient                    // Temporary network issues
	ErrorTypePermanent                    // Invalid credentials, permissions, cancellation
	ErrorTypeTimeout                      // Request timeouts
	ErrorTypeRateLimit                    // Remote rate limiting
	ErrorTypeServiceUnavailable           // Remote downtime or 5xx
	ErrorTypeInvalidInput                 // Rejected request
	ErrorTypeResourceNotFound             // Missing resources
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnknown:
		return "Unknown"
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeRateLimit:
		return "RateLimit"
	case ErrorTypeServiceUnavailable:
		return "ServiceUnavailable"
	case ErrorTypeInvalidInput:
		return "InvalidInput"
	case ErrorTypeResourceNotFound:
		return "ResourceNotFound"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// StatusError is a non-2xx answer from a remote HTTP endpoint
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// ClassifyError categorizes an error for appropriate handling
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	classify := func(t ErrorType, label string, retryable bool) *ClassifiedError {
		return &ClassifiedError{
			Original:  err,
			Type:      t,
			Message:   fmt.Sprintf("%s: %v", label, err),
			Retryable: retryable,
		}
	}

	// The caller gave up; retrying would ignore that
	if errors.Is(err, context.Canceled) {
		return classify(ErrorTypePermanent, "Canceled", false)
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		switch {
		case code == http.StatusTooManyRequests:
			return classify(ErrorTypeRateLimit, "Rate limit exceeded", true)
		case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
			return classify(ErrorTypeTimeout, "Timeout error", true)
		case code == http.StatusNotImplemented:
			return classify(ErrorTypePermanent, "Not implemented", false)
		case code >= 500:
			return classify(ErrorTypeServiceUnavailable, "Service unavailable", true)
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return classify(ErrorTypePermanent, "Authentication/authorization error", false)
		case code == http.StatusNotFound:
			return classify(ErrorTypeResourceNotFound, "Resource not found", false)
		default:
			return classify(ErrorTypeInvalidInput, "Invalid input", false)
		}
	}

	// Timeouts first: a timed-out dial is both a net.Error and a timeout
	if isTimeoutError(err) {
		return classify(ErrorTypeTimeout, "Timeout error", true)
	}
	if isNetworkError(err) {
		return classify(ErrorTypeTransient, "Network error", true)
	}

	return classify(ErrorTypeUnknown, "Unknown error", false)
}

// isNetworkError checks if an error is network-related
func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// isTimeoutError checks if an error is timeout-related
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}
