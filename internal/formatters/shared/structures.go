// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"phi-scan/internal/detector"
	"phi-scan/internal/formatters"
)

// MaskedText stands in for matched PHI unless ShowMatch is set
const MaskedText = "[HIDDEN]"

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Results []JSONResult `json:"results" yaml:"results"`
}

// JSONResult is the report of one scanned document
type JSONResult struct {
	Source      string           `json:"source" yaml:"source"`
	HasPHI      bool             `json:"hasPHI" yaml:"has_phi"`
	Confidence  string           `json:"confidence" yaml:"confidence"`
	Warnings    []string         `json:"warnings" yaml:"warnings"`
	Findings    []JSONFinding    `json:"findings" yaml:"findings"`
	Suppressed  []JSONSuppressed `json:"suppressed,omitempty" yaml:"suppressed,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// JSONFinding represents a single finding in JSON/YAML format
type JSONFinding struct {
	Type            string  `json:"type" yaml:"type"`
	Text            string  `json:"text" yaml:"text"`
	StartOffset     int     `json:"startOffset" yaml:"start_offset"`
	EndOffset       int     `json:"endOffset" yaml:"end_offset"`
	Confidence      float64 `json:"confidence" yaml:"confidence"`
	ConfidenceLevel string  `json:"confidenceLevel" yaml:"confidence_level"`
	Suggestion      string  `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// JSONSuppressed is a finding removed by a suppression rule
type JSONSuppressed struct {
	JSONFinding  `yaml:",inline"`
	SuppressedBy string     `json:"suppressedBy" yaml:"suppressed_by"`
	Reason       string     `json:"reason" yaml:"reason"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty" yaml:"expires_at,omitempty"`
}

// GetConfidenceLevel returns the confidence level as a string
func GetConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "HIGH"
	case confidence >= 0.6:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// DisplayText returns the matched text, or a mask when matches are hidden
func DisplayText(f detector.Finding, options formatters.FormatterOptions) string {
	if options.ShowMatch {
		return f.MatchedText
	}
	return MaskedText
}

func convertFinding(f detector.Finding, options formatters.FormatterOptions) JSONFinding {
	return JSONFinding{
		Type:            string(f.Type),
		Text:            DisplayText(f, options),
		StartOffset:     f.StartOffset,
		EndOffset:       f.EndOffset,
		Confidence:      f.Confidence,
		ConfidenceLevel: GetConfidenceLevel(f.Confidence),
		Suggestion:      f.Suggestion,
	}
}

// ConvertResults converts scan results to the JSON/YAML structure
func ConvertResults(results []formatters.Result, options formatters.FormatterOptions) JSONResponse {
	response := JSONResponse{Results: make([]JSONResult, 0, len(results))}
	for _, r := range results {
		jr := JSONResult{
			Source:     r.Source,
			HasPHI:     r.Report.HasPHI,
			Confidence: string(r.Report.Confidence),
			Warnings:   r.Report.Warnings,
			Findings:   make([]JSONFinding, 0, len(r.Report.Findings)),
		}
		if jr.Warnings == nil {
			jr.Warnings = []string{}
		}
		for _, f := range r.Report.Findings {
			jr.Findings = append(jr.Findings, convertFinding(f, options))
		}
		for _, s := range r.Report.Suppressed {
			jr.Suppressed = append(jr.Suppressed, JSONSuppressed{
				JSONFinding:  convertFinding(s.Finding, options),
				SuppressedBy: s.SuppressedBy,
				Reason:       s.RuleReason,
				ExpiresAt:    s.ExpiresAt,
			})
		}
		if !options.Compact {
			jr.Suggestions = r.Suggestions
		}
		response.Results = append(response.Results, jr)
	}
	return response
}
