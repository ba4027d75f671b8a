// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validators

import (
	"regexp"

	"phi-scan/internal/detector"
)

// KeepFunc decides whether the match at text[start:end] becomes a finding
type KeepFunc func(text string, start, end int) bool

// PatternValidator is the common shape of a regex-driven validator: one
// pattern, one PHI type, a fixed confidence and an optional filter.
type PatternValidator struct {
	name       string
	phiType    detector.PHIType
	regex      *regexp.Regexp
	confidence float64
	suggestion string
	keep       KeepFunc
}

// NewPatternValidator creates a pattern validator. keep may be nil.
func NewPatternValidator(name string, phiType detector.PHIType, pattern string, confidence float64, suggestion string, keep KeepFunc) *PatternValidator {
	return &PatternValidator{
		name:       name,
		phiType:    phiType,
		regex:      regexp.MustCompile(pattern),
		confidence: confidence,
		suggestion: suggestion,
		keep:       keep,
	}
}

func (v *PatternValidator) Name() string { return v.name }
func (v *PatternValidator) Type() detector.PHIType { return v.phiType }
func (v *PatternValidator) Confidence() float64 { return v.confidence }
func (v *PatternValidator) Suggestion() string { return v.suggestion }
func (v *PatternValidator) Pattern() *regexp.Regexp { return v.regex }

// Detect implements detector.Validator
func (v *PatternValidator) Detect(text string) []detector.Finding {
	var findings []detector.Finding
	for _, loc := range v.regex.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if v.keep != nil && !v.keep(text, start, end) {
			continue
		}
		findings = append(findings, v.NewFinding(text, start, end))
	}
	return findings
}

// NewFinding builds a finding of this validator's type for text[start:end]
func (v *PatternValidator) NewFinding(text string, start, end int) detector.Finding {
	return detector.Finding{
		Type:        v.phiType,
		MatchedText: text[start:end],
		StartOffset: start,
		EndOffset:   end,
		Confidence:  v.confidence,
		Suggestion:  v.suggestion,
	}
}

// Capture is the optional value of a regex capture group
type Capture struct {
	Value string
	Start int
	End   int
}

// CaptureGroup returns the given group of a FindAllStringSubmatchIndex
// location, or false when the group did not participate or is empty.
func CaptureGroup(text string, loc []int, group int) (Capture, bool) {
	i := group * 2
	if i+1 >= len(loc) || loc[i] < 0 || loc[i+1] <= loc[i] {
		return Capture{}, false
	}
	return Capture{Value: text[loc[i]:loc[i+1]], Start: loc[i], End: loc[i+1]}, true
}
