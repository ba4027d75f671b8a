// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLexicons(t *testing.T) {
	lex, err := LoadLexicons()
	require.NoError(t, err)

	assert.True(t, lex.FirstNames["john"])
	assert.True(t, lex.FirstNames["mary"])
	assert.False(t, lex.FirstNames["patient"])
	assert.True(t, lex.MedicalTerms["john doe"])
	assert.True(t, lex.MedicalTerms["chest pain"])

	again, err := LoadLexicons()
	require.NoError(t, err)
	assert.Same(t, lex, again)
}

func TestValidator_Detect(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"patient prefix inside candidate", "Patient John Smith, DOB 01/15/1980", []string{"John Smith"}},
		{"title before", "Mrs. Mary Jones was admitted", []string{"Mary Jones"}},
		{"keyword after", "David Brown presented with fever", []string{"David Brown"}},
		{"three words", "patient Mary Ann Jones arrived", []string{"Mary Ann Jones"}},
		{"restart keeps a trailing capitalized noun", "Patient Mary Jones Hospital stay", []string{"Mary Jones Hospital"}},
		{"window counts characters", "Patient (Zoë Ångström’s son) Mary Jones", []string{"Mary Jones"}},
		{"allowlisted", "Patient John Doe presented", nil},
		{"unknown first name", "Patient Zorblax Smith", nil},
		{"no context", "John Smith wrote the guideline", nil},
		{"context too far", "patient was seen by the attending team today. John Smith", nil},
		{"lower case", "patient john smith", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range v.Detect(tt.input) {
				got = append(got, f.MatchedText)
				assert.Equal(t, tt.input[f.StartOffset:f.EndOffset], f.MatchedText)
				assert.Equal(t, 0.60, f.Confidence)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidator_DetectOffsets(t *testing.T) {
	findings := NewValidator().Detect("Patient John Smith, reports chest pain.")
	require.Len(t, findings, 1)
	assert.Equal(t, 8, findings[0].StartOffset)
	assert.Equal(t, 18, findings[0].EndOffset)
}
