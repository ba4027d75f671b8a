// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package autosave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"phi-scan/internal/resilience"
	"phi-scan/internal/version"
)

// Mirror copies drafts to a remote draft endpoint that speaks the
// PUT/DELETE {base}/{publicationID} protocol served by `phiscan serve`
type Mirror struct {
	baseURL string
	client  *http.Client
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewMirror creates a mirror to baseURL. Each request is bounded by timeout.
func NewMirror(baseURL string, timeout time.Duration) (*Mirror, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid mirror url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Mirror{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retry:   resilience.MirrorRetryConfig(),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("draft-mirror")),
	}, nil
}

func (m *Mirror) draftURL(publicationID string) string {
	return m.baseURL + "/" + url.PathEscape(publicationID)
}

// Put uploads the draft
func (m *Mirror) Put(ctx context.Context, draft Draft) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return m.do(ctx, http.MethodPut, m.draftURL(draft.PublicationID), body)
}

// Delete removes the remote copy. A missing remote draft is not an error.
func (m *Mirror) Delete(ctx context.Context, publicationID string) error {
	err := m.do(ctx, http.MethodDelete, m.draftURL(publicationID), nil)
	var se *resilience.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

func (m *Mirror) do(ctx context.Context, method, target string, body []byte) error {
	return resilience.RetryWithCircuitBreaker(ctx, m.retry, m.breaker, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
		if err != nil {
			return resilience.NewPermanentError(fmt.Sprintf("build mirror request: %v", err), err)
		}
		req.Header.Set("User-Agent", version.UserAgent())
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := m.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &resilience.StatusError{Method: method, URL: target, StatusCode: resp.StatusCode}
		}
		return nil
	})
}

// Stats reports the mirror circuit breaker state
func (m *Mirror) Stats() resilience.CircuitBreakerStats {
	return m.breaker.Stats()
}
