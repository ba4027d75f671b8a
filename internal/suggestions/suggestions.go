// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package suggestions turns a set of findings into remediation advice for
// the author. It performs no detection of its own.
package suggestions

import "phi-scan/internal/detector"

type group struct {
	types    []detector.PHIType
	sentence string
}

var groups = []group{
	{
		types:    []detector.PHIType{detector.TypeName},
		sentence: `Replace patient names with "Patient" or initials.`,
	},
	{
		types:    []detector.PHIType{detector.TypeDateOfBirth},
		sentence: "Replace dates of birth with an age or age range.",
	},
	{
		types:    []detector.PHIType{detector.TypeAddress},
		sentence: "Generalize street addresses to city and state.",
	},
	{
		types:    []detector.PHIType{detector.TypeMedicalRecordNumber},
		sentence: "Remove medical record numbers or replace them with a de-identified reference.",
	},
	{
		types:    []detector.PHIType{detector.TypeSSN, detector.TypePhone, detector.TypeEmail},
		sentence: "Remove direct identifiers such as SSNs, phone numbers and email addresses.",
	},
}

// Reminders close every suggestion list
var Reminders = []string{
	"Review the full text for PHI the scanner may have missed.",
	"Have a second reviewer check the content before publication.",
}

// Suggestions returns one sentence per group of finding types present,
// followed by the constant reminders
func Suggestions(findings []detector.Finding) []string {
	present := make(map[detector.PHIType]bool, len(findings))
	for _, f := range findings {
		present[f.Type] = true
	}

	out := make([]string, 0, len(groups)+len(Reminders))
	for _, g := range groups {
		for _, t := range g.types {
			if present[t] {
				out = append(out, g.sentence)
				break
			}
		}
	}
	return append(out, Reminders...)
}
