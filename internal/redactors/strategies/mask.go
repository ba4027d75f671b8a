// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"strings"
	"unicode"

	"phi-scan/internal/detector"
)

// Mask keeps the shape of the original: letters and digits become X,
// everything else (separators, spaces, @, parentheses) is kept. The
// replacement has as many runes as the original.
type Mask struct{}

// Name implements Strategy
func (Mask) Name() string { return MaskName }

// Replacement implements Strategy
func (Mask) Replacement(f detector.Finding) string {
	var b strings.Builder
	b.Grow(len(f.MatchedText))
	for _, r := range f.MatchedText {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteByte('X')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
