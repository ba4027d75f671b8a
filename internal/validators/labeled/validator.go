// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package labeled implements the identifier checks that only fire when a
// label such as "MRN:" or "Serial number" precedes the value.
package labeled

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

// Label and value both match case-insensitively. A value longer than its
// upper bound is still reported, truncated to the bound. Labels must start
// a word, and "number", "no." or "#" may follow the label.
const (
	mrnPattern     = `(?i)\b(?:MRN|medical record number)[:#\s]*([A-Z0-9]{6,15})`
	accountPattern = `(?i)\b(?:account|acct)(?:\s*(?:number|no\.?|#))?[:#\s]*([A-Z0-9]{8,20})`
	licensePattern = `(?i)\b(?:license|lic)(?:\s*(?:number|no\.?|#))?[:#\s]*([A-Z0-9]{6,15})`
	devicePattern  = `(?i)\b(?:device id|serial number|model)[:#\s]*([A-Z0-9]{8,20})`
)

// Validator detects a label followed by an identifier value. The finding
// covers the whole labeled match, label included.
type Validator struct {
	*validators.PatternValidator

	labels      []string
	valueFormat string
	description string
}

// NewMRNValidator detects medical record numbers
func NewMRNValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("MRN", detector.TypeMedicalRecordNumber, mrnPattern, 0.90,
			"Replace with a placeholder such as MRN: XXXXXXX", nil),
		labels:      []string{"MRN", "medical record number"},
		valueFormat: "6-15 letters or digits",
		description: "medical record numbers",
	}
}

// NewAccountValidator detects account numbers
func NewAccountValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("ACCOUNT_NUMBER", detector.TypeAccountNumber, accountPattern, 0.80,
			"Remove the account number or replace it with a de-identified reference", nil),
		labels:      []string{"account", "acct", "account number", "acct #"},
		valueFormat: "8-20 letters or digits",
		description: "account numbers",
	}
}

// NewLicenseValidator detects certificate and license numbers
func NewLicenseValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("LICENSE_NUMBER", detector.TypeLicenseNumber, licensePattern, 0.80,
			"Remove the license number or replace it with a de-identified reference", nil),
		labels:      []string{"license", "lic", "license number", "lic #"},
		valueFormat: "6-15 letters or digits",
		description: "certificate and license numbers",
	}
}

// NewDeviceValidator detects device identifiers and serial numbers
func NewDeviceValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("DEVICE_ID", detector.TypeDeviceIdentifier, devicePattern, 0.70,
			"Remove the device identifier or serial number", nil),
		labels:      []string{"device id", "serial number", "model"},
		valueFormat: "8-20 letters or digits",
		description: "device identifiers and serial numbers",
	}
}

// Detect implements detector.Validator
func (v *Validator) Detect(text string) []detector.Finding {
	var findings []detector.Finding
	for _, loc := range v.Pattern().FindAllStringSubmatchIndex(text, -1) {
		if _, ok := validators.CaptureGroup(text, loc, 1); !ok {
			continue
		}
		findings = append(findings, v.NewFinding(text, loc[0], loc[1]))
	}
	return findings
}

// Value returns the identifier part of a finding produced by this validator
func (v *Validator) Value(f detector.Finding) (string, bool) {
	loc := v.Pattern().FindStringSubmatchIndex(f.MatchedText)
	if loc == nil {
		return "", false
	}
	c, ok := validators.CaptureGroup(f.MatchedText, loc, 1)
	return c.Value, ok
}
