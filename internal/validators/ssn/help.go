// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the SSN check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             v.Name(),
		PHIType:          string(v.Type()),
		ShortDescription: "Detects Social Security Numbers",
		DetailedDescription: `The SSN check reports every nine digit group shaped like a Social Security Number.

Hyphens between the area, group and serial parts are optional. The check is unconditional: no context keywords are required, and any SSN finding raises the report confidence to high.`,
		Patterns: []string{
			"XXX-XX-XXXX (hyphenated)",
			"XXXXXXXXX (9 consecutive digits)",
		},
		Confidence: v.Confidence(),
		Suggestion: v.Suggestion(),
		Examples: []string{
			"SSN 123-45-6789",
			"ssn: 123456789",
		},
	}
}
