// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"sort"
	"strings"

	"phi-scan/internal/detector"
	"phi-scan/internal/redactors/strategies"
)

// RedactionMapping records one replaced span of the input text
type RedactionMapping struct {
	Type        detector.PHIType `json:"type" yaml:"type"`
	StartOffset int              `json:"startOffset" yaml:"start_offset"`
	EndOffset   int              `json:"endOffset" yaml:"end_offset"`
	Replacement string           `json:"replacement" yaml:"replacement"`

	// Number of findings merged into this span
	Findings int `json:"findings" yaml:"findings"`
}

// RedactionResult contains the results of a redaction operation
type RedactionResult struct {
	Text         string             `json:"text" yaml:"text"`
	Strategy     string             `json:"strategy" yaml:"strategy"`
	RedactionMap []RedactionMapping `json:"redactions" yaml:"redactions"`
}

// Redactor rewrites text by replacing finding spans. It is stateless and
// safe for concurrent use.
type Redactor struct {
	strategy strategies.Strategy
}

// NewRedactor creates a redactor using strategy. A nil strategy means
// placeholder tokens.
func NewRedactor(strategy strategies.Strategy) *Redactor {
	if strategy == nil {
		strategy = strategies.Placeholder{}
	}
	return &Redactor{strategy: strategy}
}

// Redact replaces every finding span in text with its placeholder token
func Redact(text string, findings []detector.Finding) (string, error) {
	return NewRedactor(nil).Redact(text, findings)
}

// Redact replaces every finding span in text. text must be the stripped
// text the findings were computed from.
func (r *Redactor) Redact(text string, findings []detector.Finding) (string, error) {
	result, err := r.RedactWithMap(text, findings)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// span is a merged group of overlapping findings
type span struct {
	start, end int
	widest     int // index into findings
	count      int
}

// RedactWithMap redacts text and reports each replaced span.
//
// All findings are checked before anything is replaced, so a bad offset
// yields an error and no output. Overlapping findings are merged into a
// single span that takes the replacement of its widest finding. Spans are
// replaced from the end of the text towards the start.
func (r *Redactor) RedactWithMap(text string, findings []detector.Finding) (*RedactionResult, error) {
	if err := validate(text, findings); err != nil {
		return nil, err
	}

	order := make([]int, len(findings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa, fb := findings[order[a]], findings[order[b]]
		if fa.StartOffset != fb.StartOffset {
			return fa.StartOffset < fb.StartOffset
		}
		return fa.EndOffset > fb.EndOffset
	})

	var spans []span
	for _, i := range order {
		f := findings[i]
		if n := len(spans); n > 0 && f.StartOffset < spans[n-1].end {
			cur := &spans[n-1]
			cur.end = max(cur.end, f.EndOffset)
			cur.count++
			w := findings[cur.widest]
			if f.Len() > w.Len() || (f.Len() == w.Len() && i < cur.widest) {
				cur.widest = i
			}
			continue
		}
		spans = append(spans, span{start: f.StartOffset, end: f.EndOffset, widest: i, count: 1})
	}

	result := &RedactionResult{
		Strategy:     r.strategy.Name(),
		RedactionMap: make([]RedactionMapping, len(spans)),
	}

	redacted := text
	for k := len(spans) - 1; k >= 0; k-- {
		s := spans[k]
		f := findings[s.widest]
		// A merged span may be wider than its widest finding
		f.MatchedText = text[s.start:s.end]
		replacement := r.strategy.Replacement(f)

		redacted = redacted[:s.start] + replacement + redacted[s.end:]
		result.RedactionMap[k] = RedactionMapping{
			Type:        f.Type,
			StartOffset: s.start,
			EndOffset:   s.end,
			Replacement: replacement,
			Findings:    s.count,
		}
	}
	result.Text = redacted

	return result, nil
}

func validate(text string, findings []detector.Finding) error {
	for i, f := range findings {
		var reason string
		switch {
		case f.StartOffset < 0 || f.EndOffset > len(text):
			reason = "outside text"
		case f.StartOffset >= f.EndOffset:
			reason = "empty or inverted span"
		case f.MatchedText != "" && text[f.StartOffset:f.EndOffset] != f.MatchedText:
			reason = "span does not match finding text"
		}
		if reason != "" {
			return &OffsetError{Index: i, Start: f.StartOffset, End: f.EndOffset, Reason: reason}
		}
	}
	return nil
}

// Contains reports whether any placeholder token of the default strategy
// occurs in text
func Contains(text string) bool {
	for _, t := range detector.AllTypes {
		if strings.Contains(text, strategies.PlaceholderFor(t)) {
			return true
		}
	}
	return false
}
