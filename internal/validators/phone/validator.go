// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	// Optional +1 country code, optional parenthesised area code, and
	// dash, dot or whitespace separators
	pattern    = `(?:\+?1[-.\s]?)?(?:\(\d{3}\)|\b\d{3})[-.\s]?\d{3}[-.\s]?\d{4}\b`
	confidence = 0.90
	suggestion = "Remove the phone number or mask it with X's (XXX-XXX-XXXX)"
)

// Validator detects North American phone numbers
type Validator struct {
	*validators.PatternValidator
}

// NewValidator creates and returns a new phone validator
func NewValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("PHONE", detector.TypePhone, pattern, confidence, suggestion, nil),
	}
}
