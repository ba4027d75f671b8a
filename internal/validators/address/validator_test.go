// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

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
		{"street", "Lives at 42 Oak Hill Road with family", []string{"42 Oak Hill Road"}},
		{"abbreviation", "123 Main St", []string{"123 Main St"}},
		{"two addresses", "1 Elm Ave and 9 Pine Ln", []string{"1 Elm Ave", "9 Pine Ln"}},
		{"facility text", "Seen at the clinic, 42 Oak Hill Road", nil},
		{"facility keyword any case", "MEDICAL office at 123 Main St", nil},
		{"no suffix", "42 Oak Hill", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range v.Detect(tt.input) {
				got = append(got, f.MatchedText)
				assert.Equal(t, 0.70, f.Confidence)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
