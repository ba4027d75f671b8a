// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dob

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the date of birth check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             v.Name(),
		PHIType:          string(v.Type()),
		ShortDescription: "Detects dates of birth near a birth keyword",
		DetailedDescription: `The DATE_OF_BIRTH check reports MM/DD/YYYY dates between 1900 and 2099.

A date is only reported when "birth" or "dob" appears within 20 characters before or after it, ignoring case. Other dates in a note, such as visit or admission dates, are not flagged.`,
		Patterns: []string{
			"MM/DD/YYYY",
			"M/D/YYYY",
		},
		ContextKeywords: v.keywords,
		Confidence:      v.Confidence(),
		Suggestion:      v.Suggestion(),
		Examples: []string{
			"DOB 01/15/1980",
			"Date of birth: 3/7/1955",
		},
	}
}
