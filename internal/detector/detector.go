// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"time"
)

// PHIType identifies a category of protected health information
type PHIType string

const (
	TypeName                  PHIType = "name"
	TypeSSN                   PHIType = "ssn"
	TypePhone                 PHIType = "phone"
	TypeEmail                 PHIType = "email"
	TypeAddress               PHIType = "address"
	TypeDateOfBirth           PHIType = "date_of_birth"
	TypeMedicalRecordNumber   PHIType = "medical_record_number"
	TypeAccountNumber         PHIType = "account_number"
	TypeLicenseNumber         PHIType = "certificate_license_number"
	TypeDeviceIdentifier      PHIType = "device_identifier"
	TypeWebURL                PHIType = "web_url"
	TypeIPAddress             PHIType = "ip_address"
	TypeBiometricIdentifier   PHIType = "biometric_identifier"
	TypePhotograph            PHIType = "photograph"
	TypeOtherUniqueIdentifier PHIType = "other_unique_identifier"
)

// AllTypes lists every PHI type, including the reserved ones no validator emits yet
var AllTypes = []PHIType{
	TypeName, TypeSSN, TypePhone, TypeEmail, TypeAddress, TypeDateOfBirth,
	TypeMedicalRecordNumber, TypeAccountNumber, TypeLicenseNumber,
	TypeDeviceIdentifier, TypeWebURL, TypeIPAddress,
	TypeBiometricIdentifier, TypePhotograph, TypeOtherUniqueIdentifier,
}

// IsReserved reports whether t is part of the enumeration but has no validator
func (t PHIType) IsReserved() bool {
	switch t {
	case TypeBiometricIdentifier, TypePhotograph, TypeOtherUniqueIdentifier:
		return true
	}
	return false
}

// Finding is one detected PHI occurrence. Offsets are byte offsets into the
// stripped text the validators ran over, never into the original HTML.
type Finding struct {
	Type        PHIType `json:"type" yaml:"type"`
	MatchedText string  `json:"matchedText" yaml:"matched_text"`
	StartOffset int     `json:"startOffset" yaml:"start_offset"`
	EndOffset   int     `json:"endOffset" yaml:"end_offset"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
	Suggestion  string  `json:"suggestion" yaml:"suggestion"`
}

// Len returns the byte length of the finding's span
func (f Finding) Len() int {
	return f.EndOffset - f.StartOffset
}

// Validator is a single PHI detection routine. Implementations are stateless
// after construction and safe for concurrent use.
type Validator interface {
	// Name returns the check name used in configuration (e.g. "SSN")
	Name() string

	// Type returns the PHI type every finding of this validator carries
	Type() PHIType

	// Detect scans stripped text and returns findings in left-to-right order
	Detect(text string) []Finding
}

// SuppressedFinding represents a finding that was suppressed by a rule
type SuppressedFinding struct {
	Finding      Finding    `json:"finding" yaml:"finding"`
	SuppressedBy string     `json:"suppressed_by" yaml:"suppressed_by"`
	RuleReason   string     `json:"rule_reason" yaml:"rule_reason"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}
