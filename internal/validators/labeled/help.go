// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package labeled

import (
	"fmt"

	"phi-scan/internal/help"
)

// GetCheckInfo returns standardized information about the labeled check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	patterns := make([]string, 0, len(v.labels))
	for _, label := range v.labels {
		patterns = append(patterns, fmt.Sprintf("%s: <%s>", label, v.valueFormat))
	}

	return help.CheckInfo{
		Name:             v.Name(),
		PHIType:          string(v.Type()),
		ShortDescription: fmt.Sprintf("Detects labeled %s", v.description),
		DetailedDescription: fmt.Sprintf(`The %s check reports %s that follow an explicit label.

The label is matched without regard to case and may be followed by a colon, a hash sign or whitespace. The reported span covers the label and the value together, so redaction removes both.`, v.Name(), v.description),
		Patterns:        patterns,
		ContextKeywords: v.labels,
		Confidence:      v.Confidence(),
		Suggestion:      v.Suggestion(),
		Examples: []string{
			fmt.Sprintf("%s: A1B2C3D4E5", v.labels[0]),
		},
	}
}
