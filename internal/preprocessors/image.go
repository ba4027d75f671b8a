// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"phi-scan/internal/observability"
)

// ImagePreprocessor turns the EXIF string tags of an image into text.
// Clinical photos often carry the patient name or MRN in ImageDescription,
// Artist or UserComment.
type ImagePreprocessor struct {
	observer *observability.StandardObserver
}

// NewImagePreprocessor creates a new image metadata preprocessor
func NewImagePreprocessor() *ImagePreprocessor {
	return &ImagePreprocessor{}
}

// SetObserver sets the observability component
func (ip *ImagePreprocessor) SetObserver(observer *observability.StandardObserver) {
	ip.observer = observer
}

// GetName returns the name of this preprocessor
func (ip *ImagePreprocessor) GetName() string {
	return "Image Metadata Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (ip *ImagePreprocessor) GetSupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".tif", ".tiff"}
}

// CanProcess checks if this preprocessor can handle the given file
func (ip *ImagePreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, ip.GetSupportedExtensions())
}

// exifWalker collects string-valued tags
type exifWalker struct {
	tags map[string]string
}

// Walk implements exif.Walker
func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil || tag.Format() != tiff.StringVal {
		return nil
	}
	value, err := tag.StringVal()
	if err != nil {
		return nil
	}
	if value = strings.TrimSpace(strings.Trim(value, "\x00")); value != "" {
		w.tags[string(name)] = value
	}
	return nil
}

// Process decodes EXIF data and renders one "Tag: value" line per tag,
// sorted by tag name
func (ip *ImagePreprocessor) Process(ctx context.Context, filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if ip.observer != nil {
		finishTiming = ip.observer.StartTiming("image_preprocessor", "process_file", filepath.Base(filePath))
	}

	tags, err := readExifTags(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s\n", name, tags[name])
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          StripTags(b.String()),
		Format:        "Image Metadata",
		ProcessorType: "image",
		Metadata: map[string]interface{}{
			"tag_count": len(tags),
		},
	}
	fillCounts(result)

	if finishTiming != nil {
		finishTiming(true, result.Metadata)
	}
	return result, nil
}

func readExifTags(filePath string) (map[string]string, error) {
	f, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("no EXIF data found: %w", err)
	}

	walker := &exifWalker{tags: make(map[string]string)}
	if err := x.Walk(walker); err != nil {
		return nil, fmt.Errorf("failed to walk EXIF tags: %w", err)
	}
	return walker.tags, nil
}
