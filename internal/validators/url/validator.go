// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package url

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	pattern    = `https?://\S+`
	confidence = 0.60
	suggestion = "Review the URL manually; it may point to patient-specific records"
)

// Validator detects web URLs that look like links to patient data.
// Generic links (journals, guidelines) are not reported.
type Validator struct {
	*validators.PatternValidator

	keywords []string
}

// NewValidator creates and returns a new URL validator
func NewValidator() *Validator {
	v := &Validator{
		keywords: []string{"patient", "record", "personal"},
	}
	v.PatternValidator = validators.NewPatternValidator("WEB_URL", detector.TypeWebURL, pattern, confidence, suggestion, v.pointsToPatientData)
	return v
}

func (v *Validator) pointsToPatientData(text string, start, end int) bool {
	return detector.ContainsKeyword(text[start:end], v.keywords)
}
