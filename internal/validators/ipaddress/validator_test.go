// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ipaddress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Detect(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"private address", "host 192.168.1.20 connected", []string{"192.168.1.20"}},
		{"two addresses", "10.0.0.1 -> 10.0.0.2", []string{"10.0.0.1", "10.0.0.2"}},
		{"three octets", "version 1.2.3", nil},
		// Octets are not range-checked
		{"out of range octets still match", "999.999.999.999", []string{"999.999.999.999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range v.Detect(tt.input) {
				got = append(got, f.MatchedText)
				assert.Equal(t, 0.90, f.Confidence)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
