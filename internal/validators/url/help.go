// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package url

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the URL check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:                v.Name(),
		PHIType:             string(v.Type()),
		ShortDescription:    "Detects links to patient records",
		DetailedDescription: "The WEB_URL check reports http and https URLs whose text contains patient, record or personal. The URL runs to the next whitespace character.",
		Patterns:            []string{"http://...", "https://..."},
		ContextKeywords:     v.keywords,
		Confidence:          v.Confidence(),
		Suggestion:          v.Suggestion(),
		Examples: []string{
			"https://portal.example.org/patient/48213",
		},
	}
}
