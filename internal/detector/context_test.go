// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestContextExtractor_Windows(t *testing.T) {
	ce := NewContextExtractor().WithContextChars(5)

	tests := []struct {
		name       string
		text       string
		start, end int
		before     string
		after      string
	}{
		{"ascii", "abcdefXYZghijkl", 6, 9, "bcdef", "ghijk"},
		{"at edges", "XYZ", 0, 3, "", ""},
		{"short sides", "abXYZcd", 2, 5, "ab", "cd"},
		{"multibyte counts characters", "éééééé12é“”ééé", 12, 14, "ééééé", "é“”éé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ce.Extract(tt.text, tt.start, tt.end)
			assert.Equal(t, tt.before, info.BeforeText)
			assert.Equal(t, tt.after, info.AfterText)
			assert.True(t, utf8.ValidString(info.BeforeText))
			assert.True(t, utf8.ValidString(info.AfterText))
		})
	}
}

func TestContextExtractor_OutOfRange(t *testing.T) {
	ce := NewContextExtractor().WithContextChars(3)
	assert.Equal(t, "abc", ce.Before("abc", 10))
	assert.Equal(t, "", ce.Before("abc", -1))
	assert.Equal(t, "abc", ce.After("abc", -2))
	assert.Equal(t, "", ce.After("abc", 3))
}

func TestContainsKeyword(t *testing.T) {
	assert.True(t, ContainsKeyword("Date of BIRTH:", []string{"birth"}))
	assert.False(t, ContainsKeyword("", []string{"birth"}))
	assert.False(t, ContainsKeyword(strings.Repeat("x", 10), []string{"dob"}))
}
