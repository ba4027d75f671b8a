// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phi-scan/internal/detector"
)

func TestValidator_Detect(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"dashes", "call 555-123-4567 today", []string{"555-123-4567"}},
		{"parentheses", "phone (555) 123-4567", []string{"(555) 123-4567"}},
		{"dots", "555.123.4567", []string{"555.123.4567"}},
		{"country code", "+1 555 123 4567", []string{"+1 555 123 4567"}},
		{"bare digits", "5551234567", []string{"5551234567"}},
		{"ssn is not a phone", "123-45-6789", nil},
		{"too short", "555-1234", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range v.Detect(tt.input) {
				got = append(got, f.MatchedText)
				assert.Equal(t, detector.TypePhone, f.Type)
				assert.Equal(t, 0.90, f.Confidence)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
