// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"phi-scan/internal/formatters"
	"phi-scan/internal/formatters/shared"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(results []formatters.Result, options formatters.FormatterOptions) (string, error) {
	response := shared.ConvertResults(results, options)

	var jsonData []byte
	var err error

	// Compact output keeps CI logs small
	if options.Compact {
		jsonData, err = json.Marshal(response)
	} else {
		jsonData, err = json.MarshalIndent(response, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("formatting JSON: %w", err)
	}

	return string(jsonData), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
