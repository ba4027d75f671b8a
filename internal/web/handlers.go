// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"phi-scan/internal/autosave"
	"phi-scan/internal/core"
	"phi-scan/internal/detector"
	"phi-scan/internal/logger"
	"phi-scan/internal/redactors"
	"phi-scan/internal/redactors/strategies"
	"phi-scan/internal/resilience"
	"phi-scan/internal/suggestions"
	"phi-scan/internal/version"
)

// ScanRequest is the body of POST /api/v1/scan
type ScanRequest struct {
	Content string `json:"content"`
}

// ScanResponse is a detection report plus the advice derived from it.
// ScanFailed marks an empty report produced after the scan pass failed.
type ScanResponse struct {
	detector.DetectionReport
	Suggestions []string `json:"suggestions"`
	ScanFailed  bool     `json:"scan_failed,omitempty"`
}

// RedactRequest is the body of POST /api/v1/redact. Without findings the
// content is scanned first. Findings must refer to the stripped content.
type RedactRequest struct {
	Content  string              `json:"content"`
	Findings *[]detector.Finding `json:"findings,omitempty"`
	Strategy string              `json:"strategy,omitempty"`
}

// SuggestionsRequest is the body of POST /api/v1/suggestions. Findings
// take precedence over content.
type SuggestionsRequest struct {
	Content  string              `json:"content,omitempty"`
	Findings *[]detector.Finding `json:"findings,omitempty"`
}

// SuggestionsResponse lists remediation sentences
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// DraftRequest is the body of PUT /api/v1/drafts/{publicationID}
type DraftRequest struct {
	PublicationID string    `json:"publicationId,omitempty"`
	Content       string    `json:"content"`
	SavedAt       time.Time `json:"savedAt,omitempty"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, RequestID: w.Header().Get(RequestIDHeader)})
}

// decode reads a JSON body, answering 400 or 413 itself on failure
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// emptyReport is what a failed scan pass reports
func emptyReport() detector.DetectionReport {
	return detector.DetectionReport{
		Findings:   []detector.Finding{},
		Warnings:   []string{},
		Confidence: detector.ConfidenceLow,
	}
}

// scan runs one detection pass. A panic inside the engine is logged and
// yields an empty report with failed set, so the editor keeps working.
func scan(log *logger.Logger, engine *core.Engine, content string) (report detector.DetectionReport, failed bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("scan pass failed", zap.Any("panic", p), zap.Int("content_length", len(content)))
			report, failed = emptyReport(), true
		}
	}()
	return engine.Detect(content), false
}

func scanResponse(report detector.DetectionReport, failed bool) ScanResponse {
	return ScanResponse{
		DetectionReport: report,
		Suggestions:     suggestions.Suggestions(report.Findings),
		ScanFailed:      failed,
	}
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if !decode(w, r, &req) {
		return
	}

	report, failed := scan(s.requestLogger(r), s.active().engine, req.Content)
	writeJSON(w, http.StatusOK, scanResponse(report, failed))
}

func (s *Server) handleRedact(w http.ResponseWriter, r *http.Request) {
	var req RedactRequest
	if !decode(w, r, &req) {
		return
	}

	current := s.active()
	redactor := current.redactor
	if req.Strategy != "" {
		strategy, err := strategies.Parse(req.Strategy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		redactor = redactors.NewRedactor(strategy)
	}

	text := core.StripTags(req.Content)
	var findings []detector.Finding
	if req.Findings != nil {
		findings = *req.Findings
	} else {
		report, failed := scan(s.requestLogger(r), current.engine, req.Content)
		if failed {
			// Never hand back content as "redacted" when detection did not run
			writeError(w, http.StatusInternalServerError, "scan failed, content was not redacted")
			return
		}
		findings = report.Findings
	}

	result, err := redactor.RedactWithMap(text, findings)
	if errors.Is(err, redactors.ErrInvalidOffset) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if !decode(w, r, &req) {
		return
	}

	var findings []detector.Finding
	if req.Findings != nil {
		findings = *req.Findings
	} else {
		report, _ := scan(s.requestLogger(r), s.active().engine, req.Content)
		findings = report.Findings
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions.Suggestions(findings)})
}

// draftStatus maps store errors onto HTTP statuses
func draftStatus(err error) int {
	switch {
	case errors.Is(err, autosave.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, autosave.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, autosave.ErrDraftExpired):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func (s *Server) draftsEnabled(w http.ResponseWriter) bool {
	if s.saver == nil {
		writeError(w, http.StatusServiceUnavailable, "draft storage is not configured")
		return false
	}
	return true
}

func (s *Server) draftError(w http.ResponseWriter, r *http.Request, id string, err error) {
	status := draftStatus(err)
	if status == http.StatusInternalServerError {
		s.requestLogger(r).Error("draft store failed", zap.String("publication_id", id), zap.Error(err))
		writeError(w, status, "draft store failed")
		return
	}
	writeError(w, status, err.Error())
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	if !s.draftsEnabled(w) {
		return
	}
	id := mux.Vars(r)["publicationID"]

	draft, err := s.saver.Load(r.Context(), id)
	if err != nil {
		s.draftError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handlePutDraft(w http.ResponseWriter, r *http.Request) {
	if !s.draftsEnabled(w) {
		return
	}
	id := mux.Vars(r)["publicationID"]

	var req DraftRequest
	if !decode(w, r, &req) {
		return
	}
	if req.PublicationID != "" && req.PublicationID != id {
		writeError(w, http.StatusBadRequest, "publicationId does not match the request path")
		return
	}
	// Mirrored drafts keep the editor's timestamp, but never one from the future
	if now := time.Now().UTC(); req.SavedAt.After(now) {
		req.SavedAt = now
	}

	draft, err := s.saver.Save(r.Context(), autosave.Draft{PublicationID: id, Content: req.Content, SavedAt: req.SavedAt})
	if err != nil {
		s.draftError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if !s.draftsEnabled(w) {
		return
	}
	id := mux.Vars(r)["publicationID"]

	if err := s.saver.Delete(r.Context(), id); err != nil {
		s.draftError(w, r, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string                          `json:"status"`
	Timestamp string                          `json:"timestamp"`
	Service   string                          `json:"service"`
	Uptime    string                          `json:"uptime"`
	BuildInfo map[string]string               `json:"build_info"`
	Redaction string                          `json:"redaction_strategy"`
	Drafts    bool                            `json:"drafts_enabled"`
	Mirror    *resilience.CircuitBreakerStats `json:"mirror,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "phi-scan",
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		BuildInfo: version.Full(),
		Redaction: s.active().strategy,
		Drafts:    s.saver != nil,
	}
	if s.saver != nil {
		health.Mirror = s.saver.MirrorStats()
		// A mirror that is not passing writes degrades the service without failing it
		if health.Mirror != nil && !health.Mirror.Healthy() {
			health.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, health)
}
