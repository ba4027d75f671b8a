// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"phi-scan/internal/formatters"
	"phi-scan/internal/formatters/shared"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, same structure as JSON"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(results []formatters.Result, options formatters.FormatterOptions) (string, error) {
	// Same conversion as the JSON formatter
	response := shared.ConvertResults(results, options)

	yamlData, err := yaml.Marshal(response)
	if err != nil {
		return "", fmt.Errorf("formatting YAML: %w", err)
	}

	return string(yamlData), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
