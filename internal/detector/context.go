// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"unicode/utf8"
)

// ContextInfo stores the text surrounding a match in the stripped text
type ContextInfo struct {
	BeforeText string
	AfterText  string
}

// ContextExtractor slices fixed-width windows around a match
type ContextExtractor struct {
	// Number of characters before and after the match to consider
	ContextChars int
}

// NewContextExtractor creates a new context extractor with default settings
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{
		ContextChars: 50,
	}
}

// WithContextChars sets the window width
func (ce *ContextExtractor) WithContextChars(chars int) *ContextExtractor {
	ce.ContextChars = chars
	return ce
}

// Extract returns the windows on both sides of text[start:end]
func (ce *ContextExtractor) Extract(text string, start, end int) ContextInfo {
	return ContextInfo{
		BeforeText: ce.Before(text, start),
		AfterText:  ce.After(text, end),
	}
}

// Before returns up to ContextChars characters preceding start
func (ce *ContextExtractor) Before(text string, start int) string {
	if start <= 0 {
		return ""
	}
	if start > len(text) {
		start = len(text)
	}
	i := start
	for n := 0; n < ce.ContextChars && i > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return text[i:start]
}

// After returns up to ContextChars characters following end
func (ce *ContextExtractor) After(text string, end int) string {
	if end >= len(text) {
		return ""
	}
	if end < 0 {
		end = 0
	}
	i := end
	for n := 0; n < ce.ContextChars && i < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return text[end:i]
}

// ContainsKeyword reports whether window contains any of the keywords,
// ignoring case. Keywords must already be lowercase.
func ContainsKeyword(window string, keywords []string) bool {
	if window == "" {
		return false
	}
	lower := strings.ToLower(window)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
