// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"phi-scan/internal/observability"
)

// ErrUnsupportedFile is returned when no preprocessor accepts a file
var ErrUnsupportedFile = errors.New("file type not supported")

// Upper bound on any input file read into memory
const maxFileSize = 50 * 1024 * 1024

// ProcessedContent represents content that has been processed by a preprocessor
type ProcessedContent struct {
	// Original file information
	OriginalPath string
	Filename     string

	// Extracted content, ready for detection
	Text string

	// Content metadata
	Format    string
	PageCount int
	WordCount int
	CharCount int
	LineCount int

	ProcessorType string

	// Additional metadata (EXIF tag count, PDF version and similar)
	Metadata map[string]interface{}
}

// Preprocessor interface defines methods for preprocessing files
type Preprocessor interface {
	// CanProcess checks if this preprocessor can handle the given file
	CanProcess(filePath string) bool

	// Process extracts content from the file
	Process(ctx context.Context, filePath string) (*ProcessedContent, error)

	// GetName returns the name of this preprocessor
	GetName() string

	// GetSupportedExtensions returns the file extensions this preprocessor supports
	GetSupportedExtensions() []string

	// SetObserver sets the observability component
	SetObserver(observer *observability.StandardObserver)
}

// PreprocessorManager manages all available preprocessors
type PreprocessorManager struct {
	preprocessors []Preprocessor
}

// NewPreprocessorManager creates a new preprocessor manager
func NewPreprocessorManager() *PreprocessorManager {
	return &PreprocessorManager{
		preprocessors: make([]Preprocessor, 0),
	}
}

// NewDefaultManager registers the PDF, image and text preprocessors, in
// that order, all sharing observer
func NewDefaultManager(observer *observability.StandardObserver) *PreprocessorManager {
	pm := NewPreprocessorManager()
	for _, p := range []Preprocessor{NewPDFPreprocessor(), NewImagePreprocessor(), NewTextPreprocessor()} {
		p.SetObserver(observer)
		pm.RegisterPreprocessor(p)
	}
	return pm
}

// RegisterPreprocessor adds a preprocessor to the manager
func (pm *PreprocessorManager) RegisterPreprocessor(p Preprocessor) {
	pm.preprocessors = append(pm.preprocessors, p)
}

// GetPreprocessor returns the appropriate preprocessor for a file, or nil if none found
func (pm *PreprocessorManager) GetPreprocessor(filePath string) Preprocessor {
	for _, p := range pm.preprocessors {
		if p.CanProcess(filePath) {
			return p
		}
	}
	return nil
}

// ProcessFile runs the first preprocessor that accepts the file
func (pm *PreprocessorManager) ProcessFile(ctx context.Context, filePath string) (*ProcessedContent, error) {
	p := pm.GetPreprocessor(filePath)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(filePath))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.Process(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", p.GetName(), err)
	}
	return result, nil
}

// hasExtension reports whether filePath ends in one of exts, ignoring case
func hasExtension(filePath string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supported := range exts {
		if ext == supported {
			return true
		}
	}
	return false
}

func fillCounts(pc *ProcessedContent) {
	pc.WordCount = len(strings.Fields(pc.Text))
	pc.CharCount = len(pc.Text)
	pc.LineCount = strings.Count(pc.Text, "\n") + 1
}
