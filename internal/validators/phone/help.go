// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the phone check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:                v.Name(),
		PHIType:             string(v.Type()),
		ShortDescription:    "Detects US and Canadian phone numbers",
		DetailedDescription: "The PHONE check reports ten digit phone numbers with an optional +1 country code. The area code may be wrapped in parentheses and the groups may be separated by dashes, dots or spaces.",
		Patterns: []string{
			"(555) 123-4567",
			"555-123-4567",
			"555.123.4567",
			"+1 555 123 4567",
		},
		Confidence: v.Confidence(),
		Suggestion: v.Suggestion(),
		Examples: []string{
			"Call the patient at (555) 123-4567",
		},
	}
}
