// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package labeled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phi-scan/internal/detector"
)

func TestLabeledValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator *Validator
		input     string
		expected  []string
	}{
		{"mrn colon", NewMRNValidator(), "MRN: 12345678", []string{"MRN: 12345678"}},
		{"mrn hash", NewMRNValidator(), "mrn#AB123456 noted", []string{"mrn#AB123456"}},
		{"mrn long label", NewMRNValidator(), "Medical Record Number 998877", []string{"Medical Record Number 998877"}},
		{"mrn value too short", NewMRNValidator(), "MRN: 12345", nil},
		{"mrn lower case value", NewMRNValidator(), "MRN: abc123456", []string{"MRN: abc123456"}},
		{"mrn over-length value truncated", NewMRNValidator(), "MRN: 1234567890123456", []string{"MRN: 123456789012345"}},
		{"account", NewAccountValidator(), "Acct: 1234567890", []string{"Acct: 1234567890"}},
		{"account number label", NewAccountValidator(), "Account number: 00112233", []string{"Account number: 00112233"}},
		{"account over-length value truncated", NewAccountValidator(), "acct 1234567890123456789012", []string{"acct 12345678901234567890"}},
		{"account as word prefix", NewAccountValidator(), "the accountable party", nil},
		{"license", NewLicenseValidator(), "License: MD123456", []string{"License: MD123456"}},
		{"license lower case value", NewLicenseValidator(), "License: md123456", []string{"License: md123456"}},
		{"license number label", NewLicenseValidator(), "License number ABC123", []string{"License number ABC123"}},
		{"license inside a word", NewLicenseValidator(), "public 123456", nil},
		{"device serial", NewDeviceValidator(), "Serial number: SN12345678", []string{"Serial number: SN12345678"}},
		{"device model", NewDeviceValidator(), "model XR2000ABCD", []string{"model XR2000ABCD"}},
		{"device value too short", NewDeviceValidator(), "Device ID: 1234", nil},
		{"device lower case value", NewDeviceValidator(), "device id sn12345678", []string{"device id sn12345678"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range tt.validator.Detect(tt.input) {
				got = append(got, f.MatchedText)
				assert.Equal(t, tt.input[f.StartOffset:f.EndOffset], f.MatchedText)
				assert.Equal(t, tt.validator.Type(), f.Type)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLabeledConfidence(t *testing.T) {
	assert.Equal(t, 0.90, NewMRNValidator().Confidence())
	assert.Equal(t, 0.80, NewAccountValidator().Confidence())
	assert.Equal(t, 0.80, NewLicenseValidator().Confidence())
	assert.Equal(t, 0.70, NewDeviceValidator().Confidence())
	assert.Equal(t, detector.TypeLicenseNumber, NewLicenseValidator().Type())
}

func TestValidator_Value(t *testing.T) {
	v := NewMRNValidator()
	findings := v.Detect("Chart MRN: 12345678 reviewed")
	require.Len(t, findings, 1)

	value, ok := v.Value(findings[0])
	require.True(t, ok)
	assert.Equal(t, "12345678", value)
}
