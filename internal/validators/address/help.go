// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the address check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             v.Name(),
		PHIType:          string(v.Type()),
		ShortDescription: "Detects street addresses",
		DetailedDescription: `The ADDRESS check reports a house number followed by one to four words and a street suffix.

When the document mentions a hospital, clinic or anything medical, the check reports nothing at all: addresses in such text are assumed to be facility addresses.`,
		Patterns: []string{
			"<number> <words> Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd",
			"<number> <words> Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl",
		},
		Exclusions: []string{
			"text mentions hospital, clinic or medical (anywhere, any case)",
		},
		Confidence: v.Confidence(),
		Suggestion: v.Suggestion(),
		Examples: []string{
			"Lives at 42 Oak Hill Road",
		},
	}
}
