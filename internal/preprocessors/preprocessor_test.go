// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "no markup", "no markup"},
		{"paragraph", "<p>Patient</p>", " Patient "},
		{"attributes", `<a href="x">link</a>`, " link "},
		{"adjacent tags", "<b><i>x</i></b>", "  x  "},
		{"unclosed", "a < b", "a < b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripTags(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, StripTags(got), "stripping is idempotent")
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestTextPreprocessor_Process(t *testing.T) {
	path := writeFile(t, "note.html", "<p>Patient John Smith</p>\n<p>SSN 123-45-6789</p>")

	tp := NewTextPreprocessor()
	require.True(t, tp.CanProcess(path))

	result, err := tp.Process(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, " Patient John Smith \n SSN 123-45-6789 ", result.Text)
	assert.Equal(t, "HTML", result.Format)
	assert.Equal(t, "note.html", result.Filename)
	assert.Equal(t, 5, result.WordCount)
	assert.Equal(t, 2, result.LineCount)
}

func TestTextPreprocessor_NoExtension(t *testing.T) {
	tp := NewTextPreprocessor()
	assert.True(t, tp.CanProcess(writeFile(t, "NOTES", "plain text body")))
	assert.False(t, tp.CanProcess(writeFile(t, "blob", "bin\x00ary")))
}

func TestManager_ProcessFile(t *testing.T) {
	pm := NewDefaultManager(nil)

	t.Run("routes text", func(t *testing.T) {
		result, err := pm.ProcessFile(context.Background(), writeFile(t, "a.txt", "hello"))
		require.NoError(t, err)
		assert.Equal(t, "text", result.ProcessorType)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := pm.ProcessFile(context.Background(), writeFile(t, "a.exe", "MZ"))
		assert.ErrorIs(t, err, ErrUnsupportedFile)
	})

	t.Run("invalid pdf", func(t *testing.T) {
		_, err := pm.ProcessFile(context.Background(), writeFile(t, "a.pdf", "not a pdf"))
		assert.Error(t, err)
	})

	t.Run("image without exif", func(t *testing.T) {
		_, err := pm.ProcessFile(context.Background(), writeFile(t, "a.jpg", "not a jpeg"))
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := pm.ProcessFile(ctx, writeFile(t, "a.txt", "hello"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestManager_GetPreprocessor(t *testing.T) {
	pm := NewDefaultManager(nil)
	assert.Equal(t, "PDF Text Preprocessor", pm.GetPreprocessor("scan.PDF").GetName())
	assert.Equal(t, "Image Metadata Preprocessor", pm.GetPreprocessor("wound.jpeg").GetName())
	assert.Equal(t, "Text Preprocessor", pm.GetPreprocessor("draft.md").GetName())
}
