// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import "phi-scan/internal/detector"

// DefaultPlaceholder replaces findings of types without their own token
const DefaultPlaceholder = "[REDACTED]"

var placeholders = map[detector.PHIType]string{
	detector.TypeName:                "[PATIENT NAME]",
	detector.TypeSSN:                 "XXX-XX-XXXX",
	detector.TypePhone:               "XXX-XXX-XXXX",
	detector.TypeEmail:               "[EMAIL ADDRESS]",
	detector.TypeAddress:             "[ADDRESS]",
	detector.TypeDateOfBirth:         "[DATE OF BIRTH]",
	detector.TypeMedicalRecordNumber: "[MRN: XXXXXXX]",
	detector.TypeAccountNumber:       "[ACCOUNT NUMBER]",
	detector.TypeIPAddress:           "[IP ADDRESS]",
}

// Placeholder replaces each finding with a fixed token for its type
type Placeholder struct{}

// Name implements Strategy
func (Placeholder) Name() string { return PlaceholderName }

// Replacement implements Strategy
func (Placeholder) Replacement(f detector.Finding) string {
	return PlaceholderFor(f.Type)
}

// PlaceholderFor returns the token used for a PHI type
func PlaceholderFor(t detector.PHIType) string {
	if p, ok := placeholders[t]; ok {
		return p
	}
	return DefaultPlaceholder
}
