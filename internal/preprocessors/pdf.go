// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"phi-scan/internal/observability"
)

// Pages beyond this limit are not extracted
const maxPDFPages = 50

// PDFPreprocessor extracts the text of PDF attachments. The file is
// validated with pdfcpu first so that broken uploads fail with a clear
// error instead of partial text.
type PDFPreprocessor struct {
	observer  *observability.StandardObserver
	pdfConfig *model.Configuration
}

// NewPDFPreprocessor creates a new PDF preprocessor
func NewPDFPreprocessor() *PDFPreprocessor {
	return &PDFPreprocessor{
		pdfConfig: model.NewDefaultConfiguration(),
	}
}

// SetObserver sets the observability component
func (pp *PDFPreprocessor) SetObserver(observer *observability.StandardObserver) {
	pp.observer = observer
}

// GetName returns the name of this preprocessor
func (pp *PDFPreprocessor) GetName() string {
	return "PDF Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (pp *PDFPreprocessor) GetSupportedExtensions() []string {
	return []string{".pdf"}
}

// CanProcess checks if this preprocessor can handle the given file
func (pp *PDFPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, pp.GetSupportedExtensions())
}

// Process validates the PDF and extracts its text page by page
func (pp *PDFPreprocessor) Process(ctx context.Context, filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if pp.observer != nil {
		finishTiming = pp.observer.StartTiming("pdf_preprocessor", "process_file", filepath.Base(filePath))
	}
	fail := func(err error) (*ProcessedContent, error) {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	if err := api.ValidateFile(filePath, pp.pdfConfig); err != nil {
		return fail(fmt.Errorf("invalid PDF file: %w", err))
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return fail(fmt.Errorf("error opening PDF: %w", err))
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPDFPages {
		pageCount = maxPDFPages
	}

	var buf bytes.Buffer
	failedPages := 0
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		p := r.Page(i)
		if p.V.IsNull() {
			failedPages++
			continue
		}
		text, err := pageText(p)
		if err != nil {
			failedPages++
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          StripTags(buf.String()),
		Format:        "PDF",
		PageCount:     r.NumPage(),
		ProcessorType: "pdf",
		Metadata: map[string]interface{}{
			"pages_extracted": pageCount - failedPages,
			"pages_failed":    failedPages,
		},
	}
	fillCounts(result)

	if finishTiming != nil {
		finishTiming(true, result.Metadata)
	}
	return result, nil
}

// pageText reads a page row by row, top to bottom, falling back to plain
// text extraction when row grouping fails
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	// PDF y grows upwards
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Content[0].Y > sorted[j].Content[0].Y
	})

	var buf strings.Builder
	for _, row := range sorted {
		line := rowText(row.Content)
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// rowText joins the glyph runs of one row left to right, inserting a space
// where the horizontal gap is wider than a fifth of the font size
func rowText(texts []pdf.Text) string {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	prevEnd := 0.0
	for i, t := range sorted {
		if i > 0 && t.X-prevEnd > t.FontSize*0.2 && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return b.String()
}
