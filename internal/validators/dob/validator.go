// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dob

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	// MM/DD/YYYY with optional leading zeros, years 1900-2099
	pattern    = `\b(0?[1-9]|1[0-2])/(0?[1-9]|[12]\d|3[01])/(19|20)\d{2}\b`
	confidence = 0.85
	suggestion = "Replace with age or age range"

	// Width of the keyword window on each side of the date
	windowChars = 20
)

// Validator detects dates of birth. A date only counts when a birth
// keyword sits close to it; appointment and visit dates are left alone.
type Validator struct {
	*validators.PatternValidator

	keywords []string
	context  *detector.ContextExtractor
}

// NewValidator creates and returns a new date of birth validator
func NewValidator() *Validator {
	v := &Validator{
		keywords: []string{"birth", "dob"},
		context:  detector.NewContextExtractor().WithContextChars(windowChars),
	}
	v.PatternValidator = validators.NewPatternValidator("DATE_OF_BIRTH", detector.TypeDateOfBirth, pattern, confidence, suggestion, v.nearBirthKeyword)
	return v
}

func (v *Validator) nearBirthKeyword(text string, start, end int) bool {
	ctx := v.context.Extract(text, start, end)
	return detector.ContainsKeyword(ctx.BeforeText, v.keywords) ||
		detector.ContainsKeyword(ctx.AfterText, v.keywords)
}
