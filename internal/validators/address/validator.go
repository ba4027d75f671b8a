// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	// House number, one to four words, then a street suffix
	pattern    = `\b\d+\s+(?:[A-Za-z]+\s+){1,4}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl)\b`
	confidence = 0.70
	suggestion = "Generalize to city and state only"
)

// Validator detects street addresses
type Validator struct {
	*validators.PatternValidator

	// Any of these anywhere in the text means addresses belong to a facility
	facilityKeywords []string
}

// NewValidator creates and returns a new street address validator
func NewValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("ADDRESS", detector.TypeAddress, pattern, confidence, suggestion, nil),
		facilityKeywords: []string{"hospital", "clinic", "medical"},
	}
}

// Detect implements detector.Validator. The facility check looks at the
// whole text, not at a window around the match.
func (v *Validator) Detect(text string) []detector.Finding {
	if detector.ContainsKeyword(text, v.facilityKeywords) {
		return nil
	}
	return v.PatternValidator.Detect(text)
}
