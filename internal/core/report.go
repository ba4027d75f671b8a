// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"

	"phi-scan/internal/detector"
)

// warningRule emits message when applies holds for the findings
type warningRule struct {
	applies func(findings []detector.Finding, counts map[detector.PHIType]int) bool
	message func(findings []detector.Finding) string
}

func fixed(message string) func([]detector.Finding) string {
	return func([]detector.Finding) string { return message }
}

// warningRules are evaluated independently, in order
var warningRules = []warningRule{
	{
		applies: func(findings []detector.Finding, _ map[detector.PHIType]int) bool { return len(findings) > 0 },
		message: func(findings []detector.Finding) string {
			types := detector.DistinctTypes(findings)
			names := make([]string, len(types))
			for i, t := range types {
				names[i] = string(t)
			}
			return "Potential PHI detected: " + strings.Join(names, ", ")
		},
	},
	{
		applies: func(_ []detector.Finding, counts map[detector.PHIType]int) bool { return counts[detector.TypeSSN] > 0 },
		message: fixed("Social Security Numbers must be removed before publication."),
	},
	{
		applies: func(_ []detector.Finding, counts map[detector.PHIType]int) bool { return counts[detector.TypeName] > 2 },
		message: fixed("Multiple potential patient names detected."),
	},
	{
		applies: func(_ []detector.Finding, counts map[detector.PHIType]int) bool { return counts[detector.TypeDateOfBirth] > 0 },
		message: fixed("Dates of birth must be de-identified (use age ranges instead)."),
	},
	{
		applies: func(_ []detector.Finding, counts map[detector.PHIType]int) bool {
			return counts[detector.TypeMedicalRecordNumber] > 0
		},
		message: fixed("Medical record numbers must be removed or de-identified."),
	},
}

// Types whose findings can lift a report to high confidence
var highConfidenceTypes = map[detector.PHIType]bool{
	detector.TypeSSN:       true,
	detector.TypePhone:     true,
	detector.TypeEmail:     true,
	detector.TypeIPAddress: true,
}

const highConfidenceThreshold = 0.8

// BuildReport derives warnings and the confidence tier from findings.
// Findings are kept in the order given.
func BuildReport(findings []detector.Finding) detector.DetectionReport {
	if findings == nil {
		findings = []detector.Finding{}
	}
	return detector.DetectionReport{
		HasPHI:     len(findings) > 0,
		Findings:   findings,
		Warnings:   Warnings(findings),
		Confidence: Tier(findings),
	}
}

// Warnings returns the warning messages for findings, in rule order
func Warnings(findings []detector.Finding) []string {
	counts := make(map[detector.PHIType]int)
	for _, f := range findings {
		counts[f.Type]++
	}

	warnings := []string{}
	for _, rule := range warningRules {
		if rule.applies(findings, counts) {
			warnings = append(warnings, rule.message(findings))
		}
	}
	return warnings
}

// Tier returns high when a strongly identifying finding is confident
// enough, medium when there are more than three findings, and low otherwise
func Tier(findings []detector.Finding) detector.ConfidenceTier {
	for _, f := range findings {
		if highConfidenceTypes[f.Type] && f.Confidence > highConfidenceThreshold {
			return detector.ConfidenceHigh
		}
	}
	if len(findings) > 3 {
		return detector.ConfidenceMedium
	}
	return detector.ConfidenceLow
}
