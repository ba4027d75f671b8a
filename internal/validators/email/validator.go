// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"strings"

	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	pattern    = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`
	confidence = 0.85
	suggestion = "Replace with a generic placeholder such as [EMAIL ADDRESS]"
)

// Institutional mailboxes are not patient identifiers
var institutionalDomains = []string{"@hospital.", "@clinic."}

// Validator detects email addresses, skipping institutional ones
type Validator struct {
	*validators.PatternValidator
}

// NewValidator creates and returns a new email validator
func NewValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("EMAIL", detector.TypeEmail, pattern, confidence, suggestion, keep),
	}
}

func keep(text string, start, end int) bool {
	return !isInstitutional(text[start:end])
}

func isInstitutional(address string) bool {
	lower := strings.ToLower(address)
	for _, domain := range institutionalDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}
