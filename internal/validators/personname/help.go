// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the person name check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	keywords := append(append([]string{}, v.beforeKeywords...), v.afterKeywords...)

	return help.CheckInfo{
		Name:             v.Name(),
		PHIType:          string(v.Type()),
		ShortDescription: "Detects patient names in clinical narrative",
		DetailedDescription: `The PERSON_NAME check looks at runs of two or three capitalized words.

A run is reported only when all of the following hold:
  - it is not a known medical or place phrase such as "Chest Pain" or "John Doe"
  - its first word is a common first name
  - "patient", "mr.", "mrs." or "ms." appears within 30 characters before it,
    or "patient", "complained", "presented" or "reported" within 30 characters after it

The embedded lexicons are loaded once on first use.`,
		Patterns: []string{
			"First Last",
			"First Middle Last",
		},
		ContextKeywords: keywords,
		Exclusions:      []string{"medical-term allowlist (case-insensitive)"},
		Confidence:      v.Confidence(),
		Suggestion:      v.Suggestion(),
		Examples: []string{
			"Patient John Smith",
			"Mrs. Mary Jones presented with fever",
		},
	}
}
