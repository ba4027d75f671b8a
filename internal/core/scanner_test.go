// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phi-scan/internal/detector"
	"phi-scan/internal/redactors"
	"phi-scan/internal/suppressions"
)

const scenario = "Patient John Smith, DOB 01/15/1980, SSN 123-45-6789, reports chest pain."

func TestParseChecksToRun_All(t *testing.T) {
	cases := []struct {
		name  string
		input []string
	}{
		{"nil slice enables all", nil},
		{"empty slice enables all", []string{}},
		{"explicit all enables all", []string{"all"}},
		{"all is case-insensitive", []string{" ALL "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParseChecksToRun(tc.input)
			assert.Len(t, result, len(CheckNames))
			for k, v := range result {
				assert.True(t, v, "expected check %q to be enabled", k)
			}
		})
	}
}

func TestParseChecksToRun_Specific(t *testing.T) {
	result := ParseChecksToRun([]string{" email ", "SSN", "UNKNOWN_CHECK"})
	assert.True(t, result["EMAIL"])
	assert.True(t, result["SSN"])
	assert.False(t, result["PHONE"])
	_, exists := result["UNKNOWN_CHECK"]
	assert.False(t, exists)
}

func TestParseConfidenceLevels(t *testing.T) {
	cases := []struct {
		input string
		want  map[string]bool
	}{
		{"", map[string]bool{"high": true, "medium": true, "low": true}},
		{"all", map[string]bool{"high": true, "medium": true, "low": true}},
		{"high", map[string]bool{"high": true, "medium": false, "low": false}},
		{"HIGH, medium", map[string]bool{"high": true, "medium": true, "low": false}},
		{"bogus", map[string]bool{"high": false, "medium": false, "low": false}},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseConfidenceLevels(tc.input))
		})
	}
}

func TestConfidenceLevel(t *testing.T) {
	assert.Equal(t, "high", ConfidenceLevel(0.95))
	assert.Equal(t, "high", ConfidenceLevel(0.9))
	assert.Equal(t, "medium", ConfidenceLevel(0.85))
	assert.Equal(t, "medium", ConfidenceLevel(0.6))
	assert.Equal(t, "low", ConfidenceLevel(0.59))
}

func TestBuildValidatorSet_Order(t *testing.T) {
	set := BuildValidatorSet(ParseChecksToRun(nil))
	require.Len(t, set, len(CheckNames))
	for i, v := range set {
		assert.Equal(t, CheckNames[i], v.Name())
	}

	only := BuildValidatorSet(ParseChecksToRun([]string{"PERSON_NAME", "SSN"}))
	require.Len(t, only, 2)
	assert.Equal(t, "SSN", only[0].Name())
	assert.Equal(t, "PERSON_NAME", only[1].Name())
}

func TestDetect_EndToEnd(t *testing.T) {
	report := Detect(scenario)

	require.True(t, report.HasPHI)
	require.Len(t, report.Findings, 3)
	assert.Equal(t, detector.TypeSSN, report.Findings[0].Type)
	assert.Equal(t, detector.TypeDateOfBirth, report.Findings[1].Type)
	assert.Equal(t, detector.TypeName, report.Findings[2].Type)
	assert.Equal(t, "John Smith", report.Findings[2].MatchedText)
	assert.Equal(t, detector.ConfidenceHigh, report.Confidence)
	assert.Equal(t, []string{
		"Potential PHI detected: ssn, date_of_birth, name",
		"Social Security Numbers must be removed before publication.",
		"Dates of birth must be de-identified (use age ranges instead).",
	}, report.Warnings)

	redacted, err := redactors.Redact(StripTags(scenario), report.Findings)
	require.NoError(t, err)
	assert.Equal(t, "Patient [PATIENT NAME], DOB [DATE OF BIRTH], SSN XXX-XX-XXXX, reports chest pain.", redacted)
}

func TestDetect_HTMLOffsetsReferToStrippedText(t *testing.T) {
	html := "<p>Patient <b>John Smith</b></p><p>SSN 123-45-6789</p>"
	report := Detect(html)
	stripped := StripTags(html)

	require.NotEmpty(t, report.Findings)
	for _, f := range report.Findings {
		assert.Equal(t, f.MatchedText, stripped[f.StartOffset:f.EndOffset])
	}

	redacted, err := redactors.Redact(stripped, report.Findings)
	require.NoError(t, err)
	assert.NotContains(t, redacted, "123-45-6789")
	assert.NotContains(t, redacted, "John Smith")
}

func TestDetect_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "<p></p>", "<<<>>>"} {
		report := Detect(input)
		assert.False(t, report.HasPHI)
		assert.NotNil(t, report.Findings)
		assert.Empty(t, report.Findings)
		assert.Empty(t, report.Warnings)
		assert.Equal(t, detector.ConfidenceLow, report.Confidence)
	}
}

func TestDetect_RedactedOutputIsClean(t *testing.T) {
	text := "Call 555-123-4567 or mail jane.roe@example.com from 10.0.0.1, SSN 123-45-6789."
	report := Detect(text)
	counts := report.CountByType()
	for _, typ := range []detector.PHIType{detector.TypeSSN, detector.TypePhone, detector.TypeEmail, detector.TypeIPAddress} {
		require.Equal(t, 1, counts[typ], "type %s", typ)
	}

	redacted, err := redactors.Redact(StripTags(text), report.Findings)
	require.NoError(t, err)

	again := Detect(redacted).CountByType()
	for _, typ := range []detector.PHIType{detector.TypeSSN, detector.TypePhone, detector.TypeEmail, detector.TypeIPAddress} {
		assert.Zero(t, again[typ], "type %s survived redaction", typ)
	}
}

func TestDetect_OffsetsMatchText(t *testing.T) {
	text := "Patient Mary Jones presented with MRN: AB123456 and acct 1234567890. " +
		"DOB 02/03/1975, lives at 42 Oak Street. Device ID SN12345678, license D1234567."
	stripped := StripTags(text)
	report := Detect(text)
	require.NotEmpty(t, report.Findings)
	for _, f := range report.Findings {
		assert.Equal(t, f.MatchedText, stripped[f.StartOffset:f.EndOffset], "type %s", f.Type)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	a := Detect(scenario)
	b := Detect(scenario)
	assert.Equal(t, a, b)
}

func TestDetect_AllowlistedName(t *testing.T) {
	report := Detect("Patient John Doe presented today.")
	assert.Zero(t, report.CountByType()[detector.TypeName])
}

func TestDetect_DateOfBirthNeedsContext(t *testing.T) {
	assert.Zero(t, Detect("Visit date 04/12/2020 for checkup").CountByType()[detector.TypeDateOfBirth])
	assert.Equal(t, 1, Detect("DOB: 04/12/2020").CountByType()[detector.TypeDateOfBirth])
}

func TestDetect_SSNUnconditional(t *testing.T) {
	report := Detect("SSN 123-45-6789 on file")
	require.Len(t, report.Findings, 1)
	assert.Equal(t, detector.TypeSSN, report.Findings[0].Type)
	assert.Equal(t, 0.95, report.Findings[0].Confidence)
	assert.Contains(t, report.Warnings, "Social Security Numbers must be removed before publication.")
}

func TestDetect_LabeledValues(t *testing.T) {
	tests := []struct {
		input   string
		phiType detector.PHIType
		matched string
	}{
		{"MRN: abc123456", detector.TypeMedicalRecordNumber, "MRN: abc123456"},
		{"MRN: 1234567890123456", detector.TypeMedicalRecordNumber, "MRN: 123456789012345"},
		{"acct 1234567890123456789012", detector.TypeAccountNumber, "acct 12345678901234567890"},
		{"License: md123456", detector.TypeLicenseNumber, "License: md123456"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got []string
			for _, f := range Detect(tt.input).Findings {
				if f.Type == tt.phiType {
					got = append(got, f.MatchedText)
				}
			}
			assert.Equal(t, []string{tt.matched}, got)
		})
	}
}

func TestDetect_MultipleNamesThreshold(t *testing.T) {
	const warning = "Multiple potential patient names detected."

	two := Detect("Patient John Smith and Patient Mary Jones")
	assert.Equal(t, 2, two.CountByType()[detector.TypeName])
	assert.NotContains(t, two.Warnings, warning)

	three := Detect("Patient John Smith and Patient Mary Jones and Patient David Brown")
	assert.Equal(t, 3, three.CountByType()[detector.TypeName])
	assert.Contains(t, three.Warnings, warning)
}

func TestTier(t *testing.T) {
	f := func(typ detector.PHIType, conf float64) detector.Finding {
		return detector.Finding{Type: typ, Confidence: conf}
	}

	assert.Equal(t, detector.ConfidenceLow, Tier(nil))
	assert.Equal(t, detector.ConfidenceHigh, Tier([]detector.Finding{f(detector.TypeIPAddress, 0.9)}))
	// Only strongly identifying types lift the tier
	assert.Equal(t, detector.ConfidenceLow, Tier([]detector.Finding{f(detector.TypeMedicalRecordNumber, 0.9)}))
	assert.Equal(t, detector.ConfidenceLow, Tier([]detector.Finding{f(detector.TypeEmail, 0.8)}))
	assert.Equal(t, detector.ConfidenceLow, Tier([]detector.Finding{
		f(detector.TypeName, 0.6), f(detector.TypeName, 0.6), f(detector.TypeName, 0.6),
	}))
	assert.Equal(t, detector.ConfidenceMedium, Tier([]detector.Finding{
		f(detector.TypeName, 0.6), f(detector.TypeName, 0.6), f(detector.TypeName, 0.6), f(detector.TypeAddress, 0.7),
	}))
}

func TestWarnings_MedicalRecordNumber(t *testing.T) {
	warnings := Warnings([]detector.Finding{
		{Type: detector.TypeMedicalRecordNumber},
		{Type: detector.TypeMedicalRecordNumber},
	})
	assert.Equal(t, []string{
		"Potential PHI detected: medical_record_number",
		"Medical record numbers must be removed or de-identified.",
	}, warnings)
}

func TestEngine_ConfidenceLevels(t *testing.T) {
	e := NewDefaultEngine(WithConfidenceLevels(ParseConfidenceLevels("high")))
	report := e.Detect(scenario)

	// Only the SSN finding is high confidence
	require.Len(t, report.Findings, 1)
	assert.Equal(t, detector.TypeSSN, report.Findings[0].Type)
	assert.Equal(t, []string{
		"Potential PHI detected: ssn",
		"Social Security Numbers must be removed before publication.",
	}, report.Warnings)
}

func TestEngine_Suppressions(t *testing.T) {
	sm := suppressions.NewSuppressionManager(filepath.Join(t.TempDir(), "suppressions.yaml"))
	text := StripTags(scenario)

	first := Detect(scenario)
	require.Len(t, first.Findings, 3)
	_, err := sm.AddSuppression(text, first.Findings[0], "test fixture", "tester", nil)
	require.NoError(t, err)

	report := NewDefaultEngine(WithSuppressions(sm)).Detect(scenario)
	require.Len(t, report.Findings, 2)
	require.Len(t, report.Suppressed, 1)
	assert.Equal(t, detector.TypeSSN, report.Suppressed[0].Finding.Type)
	assert.Equal(t, "test fixture", report.Suppressed[0].RuleReason)

	// Warnings and tier ignore the suppressed SSN
	assert.NotContains(t, report.Warnings, "Social Security Numbers must be removed before publication.")
	assert.Equal(t, detector.ConfidenceLow, report.Confidence)
}

func TestNewEngineFor(t *testing.T) {
	e := NewEngineFor("SSN, date_of_birth", "all")
	report := e.Detect(scenario)
	require.Len(t, report.Findings, 2)
	assert.Equal(t, detector.TypeSSN, report.Findings[0].Type)
	assert.Equal(t, detector.TypeDateOfBirth, report.Findings[1].Type)

	assert.Len(t, NewEngineFor("", "").Detect(scenario).Findings, 3)
	assert.Empty(t, NewEngineFor("all", "low").Detect(scenario).Findings)
}
