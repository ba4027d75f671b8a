// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Detect(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"patient link", "see https://portal.example.org/patient/42 now", []string{"https://portal.example.org/patient/42"}},
		{"record link", "http://ehr.example.org/records?id=7", []string{"http://ehr.example.org/records?id=7"}},
		{"personal link", "https://example.org/Personal/notes", []string{"https://example.org/Personal/notes"}},
		{"generic link", "https://www.example.org/guidelines", nil},
		{"no scheme", "portal.example.org/patient/42", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range v.Detect(tt.input) {
				got = append(got, f.MatchedText)
				assert.Equal(t, 0.60, f.Confidence)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
