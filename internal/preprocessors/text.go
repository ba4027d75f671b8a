// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"phi-scan/internal/observability"
)

// TextPreprocessor handles editor exports: HTML fragments, markdown and
// plain text. Tags are stripped so the output matches what the editor scans.
type TextPreprocessor struct {
	observer *observability.StandardObserver
}

// NewTextPreprocessor creates a new text preprocessor
func NewTextPreprocessor() *TextPreprocessor {
	return &TextPreprocessor{}
}

// SetObserver sets the observability component
func (tp *TextPreprocessor) SetObserver(observer *observability.StandardObserver) {
	tp.observer = observer
}

// GetName returns the name of this preprocessor
func (tp *TextPreprocessor) GetName() string {
	return "Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (tp *TextPreprocessor) GetSupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml", ".txt", ".text", ".md", ".markdown", ".rtf", ".csv", ".json", ".xml"}
}

// CanProcess checks if this preprocessor can handle the given file. Files
// without an extension are sniffed for binary content.
func (tp *TextPreprocessor) CanProcess(filePath string) bool {
	if hasExtension(filePath, tp.GetSupportedExtensions()) {
		return true
	}
	if filepath.Ext(filePath) == "" {
		return isTextFile(filePath)
	}
	return false
}

// Process reads the file and strips markup
func (tp *TextPreprocessor) Process(ctx context.Context, filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if tp.observer != nil {
		finishTiming = tp.observer.StartTiming("text_preprocessor", "process_file", filepath.Base(filePath))
	}

	raw, err := readTextFile(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	format := "Plain Text"
	if hasExtension(filePath, []string{".html", ".htm", ".xhtml"}) || strings.Contains(raw, "</") {
		format = "HTML"
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          StripTags(raw),
		Format:        format,
		ProcessorType: "text",
		Metadata: map[string]interface{}{
			"original_length": len(raw),
		},
	}
	fillCounts(result)

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"word_count": result.WordCount,
			"char_count": result.CharCount,
		})
	}
	return result, nil
}

// ReadText returns the contents of a text file, replacing invalid UTF-8
func ReadText(filePath string) (string, error) {
	return readTextFile(filePath)
}

func readTextFile(filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}
	return content, nil
}

// isTextFile performs a quick check to determine if a file contains text
func isTextFile(filePath string) bool {
	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return false
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		return false
	}
	buffer = buffer[:n]

	printable := 0
	for _, b := range buffer {
		if b == 0 {
			return false
		}
		if (b >= 32 && b <= 126) || b == 9 || b == 10 || b == 13 || b >= 128 {
			printable++
		}
	}

	// Consider it text if more than 95% of bytes are printable
	return float64(printable)/float64(len(buffer)) > 0.95
}
