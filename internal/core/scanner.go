// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"phi-scan/internal/detector"
	"phi-scan/internal/logger"
	"phi-scan/internal/observability"
	"phi-scan/internal/preprocessors"
	"phi-scan/internal/suppressions"
)

// Engine runs an ordered set of validators over a document and builds the
// report. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	validators       []detector.Validator
	suppressions     *suppressions.SuppressionManager
	confidenceLevels map[string]bool
	observer         *observability.StandardObserver
	logger           *logger.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithSuppressions drops findings matched by enabled, unexpired rules
// before warnings and confidence are derived
func WithSuppressions(sm *suppressions.SuppressionManager) Option {
	return func(e *Engine) { e.suppressions = sm }
}

// WithConfidenceLevels keeps only findings whose confidence level is enabled
func WithConfidenceLevels(levels map[string]bool) Option {
	return func(e *Engine) { e.confidenceLevels = levels }
}

// WithObserver times every detection pass
func WithObserver(o *observability.StandardObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the logger used for per-pass debug output
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine over validators, which run in slice order
func NewEngine(validators []detector.Validator, opts ...Option) *Engine {
	e := &Engine{
		validators: validators,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultEngine creates an engine running every check
func NewDefaultEngine(opts ...Option) *Engine {
	return NewEngine(BuildValidatorSet(ParseChecksToRun(nil)), opts...)
}

// NewEngineFor creates an engine from the comma-separated check and
// confidence lists used by flags and the config file
func NewEngineFor(checks, confidenceLevels string, opts ...Option) *Engine {
	var names []string
	if strings.TrimSpace(checks) != "" {
		names = strings.Split(checks, ",")
	}
	opts = append([]Option{WithConfidenceLevels(ParseConfidenceLevels(confidenceLevels))}, opts...)
	return NewEngine(BuildValidatorSet(ParseChecksToRun(names)), opts...)
}

var defaultEngine = sync.OnceValue(func() *Engine { return NewDefaultEngine() })

// Detect scans content with every check and no suppressions
func Detect(content string) detector.DetectionReport {
	return defaultEngine().Detect(content)
}

// StripTags returns the text that finding offsets refer to
func StripTags(content string) string {
	return preprocessors.StripTags(content)
}

// Detect strips markup from content and scans the result
func (e *Engine) Detect(content string) detector.DetectionReport {
	return e.DetectStripped(StripTags(content))
}

// DetectStripped scans text that has already been through StripTags
func (e *Engine) DetectStripped(text string) detector.DetectionReport {
	var finishTiming func(bool, map[string]interface{})
	if e.observer != nil {
		finishTiming = e.observer.StartTiming("core", "detect", "")
	}

	findings := []detector.Finding{}
	for _, v := range e.validators {
		findings = append(findings, v.Detect(text)...)
	}

	if e.confidenceLevels != nil {
		filtered := findings[:0]
		for _, f := range findings {
			if e.confidenceLevels[ConfidenceLevel(f.Confidence)] {
				filtered = append(filtered, f)
			}
		}
		findings = filtered
	}

	var suppressed []detector.SuppressedFinding
	if e.suppressions != nil {
		findings, suppressed = e.suppressions.Apply(text, findings)
	}

	report := BuildReport(findings)
	report.Suppressed = suppressed

	if ce := e.logger.Check(zap.DebugLevel, "detection pass"); ce != nil {
		counts := make(map[string]int)
		for t, n := range report.CountByType() {
			counts[string(t)] = n
		}
		ce.Write(
			zap.Int("text_length", len(text)),
			zap.Int("findings", len(report.Findings)),
			zap.Int("suppressed", len(suppressed)),
			zap.Any("by_type", counts),
			zap.String("confidence", string(report.Confidence)),
		)
	}
	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"content_length": len(text),
			"findings":       len(report.Findings),
		})
	}

	return report
}

// FileResult is the outcome of scanning one file
type FileResult struct {
	Content *preprocessors.ProcessedContent
	Report  detector.DetectionReport
}

// ScanFile extracts the text of a file and scans it
func (e *Engine) ScanFile(ctx context.Context, pm *preprocessors.PreprocessorManager, filePath string) (*FileResult, error) {
	content, err := pm.ProcessFile(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		Content: content,
		Report:  e.DetectStripped(content.Text),
	}, nil
}

// ParseChecksToRun converts a slice of check names into an enabled-checks map.
// An empty slice or ["all"] enables every check. Names are case-insensitive
// and unknown names are ignored.
func ParseChecksToRun(checks []string) map[string]bool {
	result := make(map[string]bool, len(CheckNames))
	for _, name := range CheckNames {
		result[name] = false
	}

	if len(checks) == 0 || (len(checks) == 1 && strings.EqualFold(strings.TrimSpace(checks[0]), "all")) {
		for key := range result {
			result[key] = true
		}
		return result
	}

	for _, check := range checks {
		checkStr := strings.ToUpper(strings.TrimSpace(check))
		if _, exists := result[checkStr]; exists {
			result[checkStr] = true
		}
	}

	return result
}

// ParseConfidenceLevels converts a comma-separated confidence level string into a map.
// "all" or empty string enables every level.
func ParseConfidenceLevels(levels string) map[string]bool {
	result := map[string]bool{
		"high":   false,
		"medium": false,
		"low":    false,
	}

	if levels == "all" || levels == "" {
		result["high"] = true
		result["medium"] = true
		result["low"] = true
		return result
	}

	for _, level := range strings.Split(levels, ",") {
		switch l := strings.ToLower(strings.TrimSpace(level)); l {
		case "high", "medium", "low":
			result[l] = true
		}
	}

	return result
}

// ConfidenceLevel buckets a finding confidence: high from 0.9, medium from
// 0.6, low below
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "high"
	case confidence >= 0.6:
		return "medium"
	default:
		return "low"
	}
}
