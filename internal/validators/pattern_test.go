// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phi-scan/internal/detector"
)

func TestPatternValidator_Detect(t *testing.T) {
	v := NewPatternValidator("DIGITS", detector.TypeOtherUniqueIdentifier, `\d+`, 0.5, "remove", nil)

	findings := v.Detect("a 12 b 345")
	require.Len(t, findings, 2)

	assert.Equal(t, detector.Finding{
		Type: detector.TypeOtherUniqueIdentifier, MatchedText: "12",
		StartOffset: 2, EndOffset: 4, Confidence: 0.5, Suggestion: "remove",
	}, findings[0])
	assert.Equal(t, "345", findings[1].MatchedText)
	assert.Equal(t, 7, findings[1].StartOffset)
}

func TestPatternValidator_KeepFunc(t *testing.T) {
	keepEven := func(text string, start, end int) bool {
		return (text[end-1]-'0')%2 == 0
	}
	v := NewPatternValidator("DIGITS", detector.TypeOtherUniqueIdentifier, `\d`, 0.5, "", keepEven)

	var got []string
	for _, f := range v.Detect("1 2 3 4") {
		got = append(got, f.MatchedText)
	}
	assert.Equal(t, []string{"2", "4"}, got)
}

func TestPatternValidator_EmptyInput(t *testing.T) {
	v := NewPatternValidator("DIGITS", detector.TypeOtherUniqueIdentifier, `\d+`, 0.5, "", nil)
	assert.Empty(t, v.Detect(""))
}

func TestCaptureGroup(t *testing.T) {
	text := "id: AB12"
	loc := []int{0, 8, 4, 8, -1, -1}

	c, ok := CaptureGroup(text, loc, 1)
	require.True(t, ok)
	assert.Equal(t, Capture{Value: "AB12", Start: 4, End: 8}, c)

	_, ok = CaptureGroup(text, loc, 2)
	assert.False(t, ok, "non-participating group")

	_, ok = CaptureGroup(text, loc, 5)
	assert.False(t, ok, "group out of range")

	_, ok = CaptureGroup(text, []int{0, 4, 4, 4}, 1)
	assert.False(t, ok, "empty group")
}
