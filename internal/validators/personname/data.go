// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
)

// Embedded lexicon files
//
//go:embed data/first_names.txt
var firstNamesData []byte

//go:embed data/medical_terms.txt
var medicalTermsData []byte

// Lexicons holds the parsed word lists for O(1) lookups. Both are read-only
// after loading.
type Lexicons struct {
	FirstNames   map[string]bool // Lowercase first name → exists
	MedicalTerms map[string]bool // Lowercase phrase that is never a name
}

var (
	lexicons  *Lexicons
	loadOnce  sync.Once
	loadError error
)

// LoadLexicons parses the embedded lexicons once and returns the shared copy
func LoadLexicons() (*Lexicons, error) {
	loadOnce.Do(func() {
		lexicons, loadError = loadEmbeddedLexicons()
	})
	return lexicons, loadError
}

func loadEmbeddedLexicons() (*Lexicons, error) {
	lex := &Lexicons{
		FirstNames:   make(map[string]bool, 256),
		MedicalTerms: make(map[string]bool, 128),
	}

	if err := loadIntoMap(firstNamesData, lex.FirstNames); err != nil {
		return nil, fmt.Errorf("failed to load first names: %w", err)
	}
	if err := loadIntoMap(medicalTermsData, lex.MedicalTerms); err != nil {
		return nil, fmt.Errorf("failed to load medical terms: %w", err)
	}

	return lex, nil
}

// loadIntoMap reads one entry per line; blank lines and # comments are skipped
func loadIntoMap(data []byte, m map[string]bool) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		if isValidEntry(entry) {
			m[strings.ToLower(entry)] = true
		}
	}
	return scanner.Err()
}

// isValidEntry performs basic validation on lexicon data
func isValidEntry(entry string) bool {
	if len(entry) < 2 || len(entry) > 40 {
		return false
	}
	for _, r := range entry {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			r == '-' || r == '\'' || r == ' ' || r == '.') {
			return false
		}
	}
	return true
}
