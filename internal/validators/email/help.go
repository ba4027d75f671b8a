// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the email check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             v.Name(),
		PHIType:          string(v.Type()),
		ShortDescription: "Detects personal email addresses",
		DetailedDescription: `The EMAIL check reports addresses of the form local@domain.tld.

Institutional addresses are skipped: anything under a hospital.* or clinic.* domain belongs to the care provider, not the patient.`,
		Patterns:   []string{"local-part@domain.tld"},
		Exclusions: institutionalDomains,
		Confidence: v.Confidence(),
		Suggestion: v.Suggestion(),
		Examples: []string{
			"Contact: jane.roe@example.com",
		},
	}
}
