// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	// Hyphens optional: XXX-XX-XXXX, XXXXXXXXX and mixed forms
	pattern    = `\b\d{3}-?\d{2}-?\d{4}\b`
	confidence = 0.95
	suggestion = "Remove the Social Security Number or mask it with X's (XXX-XX-XXXX)"
)

// Validator detects Social Security Numbers. Every match is reported;
// there is no area-number or context filtering.
type Validator struct {
	*validators.PatternValidator
}

// NewValidator creates and returns a new SSN validator
func NewValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("SSN", detector.TypeSSN, pattern, confidence, suggestion, nil),
	}
}
