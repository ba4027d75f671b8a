// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ipaddress

import "phi-scan/internal/help"

// GetCheckInfo returns standardized information about the IP address check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:                v.Name(),
		PHIType:             string(v.Type()),
		ShortDescription:    "Detects IPv4 addresses",
		DetailedDescription: "The IP_ADDRESS check reports four dot-separated groups of one to three digits. Octet values are not range-checked.",
		Patterns:            []string{"N.N.N.N where each N has 1-3 digits"},
		Confidence:          v.Confidence(),
		Suggestion:          v.Suggestion(),
		Examples: []string{
			"Logged in from 192.168.1.20",
		},
	}
}
