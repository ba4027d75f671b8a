// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"fmt"
	"strings"

	"phi-scan/internal/detector"
)

// Strategy decides what replaces a finding's span
type Strategy interface {
	// Name returns the configuration name of the strategy
	Name() string

	// Replacement returns the text that replaces f.MatchedText
	Replacement(f detector.Finding) string
}

const (
	PlaceholderName = "placeholder"
	MaskName        = "mask"
)

// Parse returns the strategy with the given name. An empty name selects
// the placeholder strategy.
func Parse(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PlaceholderName:
		return Placeholder{}, nil
	case MaskName:
		return Mask{}, nil
	}
	return nil, fmt.Errorf("unknown redaction strategy %q (want %s or %s)", name, PlaceholderName, MaskName)
}

// Names lists the available strategies
func Names() []string {
	return []string{PlaceholderName, MaskName}
}
