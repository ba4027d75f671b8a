// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"strings"

	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	// Two or three capitalized words separated by single spaces
	pattern    = `\b[A-Z][a-z]+ [A-Z][a-z]+(?: [A-Z][a-z]+)?\b`
	confidence = 0.60
	suggestion = `Replace with "Patient" or initials`

	windowChars = 30
)

// Validator detects patient names. A capitalized word pair is only reported
// when its first word is a known first name and patient context sits next
// to it, which keeps headings and drug or disease names out.
type Validator struct {
	*validators.PatternValidator

	lexicons       *Lexicons
	beforeKeywords []string
	afterKeywords  []string
	context        *detector.ContextExtractor
}

// NewValidator creates and returns a new person name validator
func NewValidator() *Validator {
	lex, err := LoadLexicons()
	if err != nil {
		// Embedded data is fixed at build time; an empty lexicon disables the check
		lex = &Lexicons{FirstNames: map[string]bool{}, MedicalTerms: map[string]bool{}}
	}

	return &Validator{
		PatternValidator: validators.NewPatternValidator("PERSON_NAME", detector.TypeName, pattern, confidence, suggestion, nil),
		lexicons:         lex,
		beforeKeywords:   []string{"patient", "mr.", "mrs.", "ms."},
		afterKeywords:    []string{"patient", "complained", "presented", "reported"},
		context:          detector.NewContextExtractor().WithContextChars(windowChars),
	}
}

// Detect implements detector.Validator.
//
// Candidates are scanned one at a time. A rejected candidate restarts the
// scan at its second word, so "Patient John Smith" still yields "John Smith".
func (v *Validator) Detect(text string) []detector.Finding {
	var findings []detector.Finding
	pos := 0
	for pos < len(text) {
		loc := v.Pattern().FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		if v.isName(text, start, end) {
			findings = append(findings, v.NewFinding(text, start, end))
			pos = end
			continue
		}

		// The match always contains a space before its second word
		pos = start + strings.IndexByte(text[start:end], ' ') + 1
	}
	return findings
}

func (v *Validator) isName(text string, start, end int) bool {
	candidate := text[start:end]
	if v.lexicons.MedicalTerms[strings.ToLower(candidate)] {
		return false
	}

	first := candidate[:strings.IndexByte(candidate, ' ')]
	if !v.lexicons.FirstNames[strings.ToLower(first)] {
		return false
	}

	ctx := v.context.Extract(text, start, end)
	return detector.ContainsKeyword(ctx.BeforeText, v.beforeKeywords) ||
		detector.ContainsKeyword(ctx.AfterText, v.afterKeywords)
}
