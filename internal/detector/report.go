// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// ConfidenceTier is the overall certainty of a report
type ConfidenceTier string

const (
	ConfidenceLow    ConfidenceTier = "low"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceHigh   ConfidenceTier = "high"
)

// DetectionReport is the aggregate result of scanning one document.
// Findings keep validator order; they are not sorted by offset.
type DetectionReport struct {
	HasPHI     bool           `json:"hasPHI" yaml:"has_phi"`
	Findings   []Finding      `json:"findings" yaml:"findings"`
	Warnings   []string       `json:"warnings" yaml:"warnings"`
	Confidence ConfidenceTier `json:"confidence" yaml:"confidence"`

	// Suppressed lists findings removed by suppression rules
	Suppressed []SuppressedFinding `json:"suppressed,omitempty" yaml:"suppressed,omitempty"`
}

// CountByType returns how many findings of each type the report holds
func (r DetectionReport) CountByType() map[PHIType]int {
	counts := make(map[PHIType]int)
	for _, f := range r.Findings {
		counts[f.Type]++
	}
	return counts
}

// Types returns the distinct finding types in first-seen order
func (r DetectionReport) Types() []PHIType {
	return DistinctTypes(r.Findings)
}

// DistinctTypes returns the distinct types of findings in first-seen order
func DistinctTypes(findings []Finding) []PHIType {
	seen := make(map[PHIType]bool, len(findings))
	var types []PHIType
	for _, f := range findings {
		if seen[f.Type] {
			continue
		}
		seen[f.Type] = true
		types = append(types, f.Type)
	}
	return types
}
