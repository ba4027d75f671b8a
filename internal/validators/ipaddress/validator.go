// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ipaddress

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/validators"
)

const (
	// Octets are not range-checked, so 999.999.999.999 matches
	pattern    = `\b(?:\d{1,3}\.){3}\d{1,3}\b`
	confidence = 0.90
	suggestion = "Remove the IP address"
)

// Validator detects dotted-quad IPv4 addresses
type Validator struct {
	*validators.PatternValidator
}

// NewValidator creates and returns a new IP address validator
func NewValidator() *Validator {
	return &Validator{
		PatternValidator: validators.NewPatternValidator("IP_ADDRESS", detector.TypeIPAddress, pattern, confidence, suggestion, nil),
	}
}
