// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"phi-scan/internal/detector"
	"phi-scan/internal/formatters"
	"phi-scan/internal/formatters/shared"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
	now    func() time.Time
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
		now: time.Now,
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(results []formatters.Result, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder

	for i, r := range results {
		if options.Compact {
			f.appendCompact(&builder, r)
			continue
		}
		if i > 0 {
			builder.WriteString("\n")
		}
		f.appendResult(&builder, r, options)
	}

	if builder.Len() == 0 && !options.Compact {
		return "No PHI found.\n", nil
	}
	return builder.String(), nil
}

// sprint colors s unless colors are disabled
func (f *Formatter) sprint(options formatters.FormatterOptions, colorName, s string) string {
	if options.NoColor {
		return s
	}
	return f.colors[colorName].Sprint(s)
}

func (f *Formatter) appendResult(builder *strings.Builder, r formatters.Result, options formatters.FormatterOptions) {
	report := r.Report
	title := fmt.Sprintf("== %s ==", r.Source)
	builder.WriteString(f.sprint(options, "white", title) + "\n")

	if !report.HasPHI && len(report.Suppressed) == 0 {
		builder.WriteString(f.sprint(options, "green", "No PHI found.") + "\n")
		return
	}

	tier := strings.ToUpper(string(report.Confidence))
	fmt.Fprintf(builder, "Findings: %d  Overall confidence: %s\n",
		len(report.Findings), f.sprint(options, f.tierColor(report.Confidence), tier))

	if len(report.Findings) > 0 || len(report.Suppressed) > 0 {
		f.appendHeaders(builder, report, options)
	}
	for _, finding := range report.Findings {
		f.appendSummaryLine(builder, finding, report, false, options)
	}
	for _, s := range report.Suppressed {
		f.appendSummaryLine(builder, s.Finding, report, true, options)
		if options.Verbose {
			fmt.Fprintf(builder, "         suppressed by %s (%s), %s\n",
				s.SuppressedBy, s.RuleReason, f.formatExpirationStatus(s.ExpiresAt))
		}
	}

	if len(report.Warnings) > 0 {
		builder.WriteString("\n" + f.sprint(options, "white", "Warnings:") + "\n")
		for _, w := range report.Warnings {
			builder.WriteString("  " + f.sprint(options, "yellow", "! "+w) + "\n")
		}
	}

	if options.Verbose && len(r.Suggestions) > 0 {
		builder.WriteString("\n" + f.sprint(options, "white", "Suggestions:") + "\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(builder, "  - %s\n", s)
		}
	}
}

func (f *Formatter) tierColor(tier detector.ConfidenceTier) string {
	switch tier {
	case detector.ConfidenceHigh:
		return "red"
	case detector.ConfidenceMedium:
		return "yellow"
	default:
		return "green"
	}
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, report detector.DetectionReport, options formatters.FormatterOptions) {
	matchWidth := f.calculateMatchColumnWidth(report, options)
	headerStr := fmt.Sprintf("%-8s %-26s %-6s %-13s %-*s %s",
		"LEVEL", "TYPE", "CONF", "OFFSET", matchWidth, "MATCH", "SUGGESTION")
	builder.WriteString(f.sprint(options, "white", headerStr) + "\n")

	totalWidth := 8 + 1 + 26 + 1 + 6 + 1 + 13 + 1 + matchWidth + 1 + 10
	builder.WriteString(f.sprint(options, "white", strings.Repeat("-", totalWidth)) + "\n")
}

// calculateMatchColumnWidth calculates the optimal width for the match column
func (f *Formatter) calculateMatchColumnWidth(report detector.DetectionReport, options formatters.FormatterOptions) int {
	maxWidth := len(shared.MaskedText)
	if !options.ShowMatch {
		return maxWidth
	}
	consider := func(finding detector.Finding) {
		if n := len([]rune(flatten(finding.MatchedText))); n > maxWidth {
			maxWidth = n
		}
	}
	for _, finding := range report.Findings {
		consider(finding)
	}
	for _, s := range report.Suppressed {
		consider(s.Finding)
	}
	// Cap at 30 characters for readability
	return min(maxWidth, 30)
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// appendSummaryLine adds a single line for one finding
func (f *Formatter) appendSummaryLine(builder *strings.Builder, finding detector.Finding, report detector.DetectionReport, suppressed bool, options formatters.FormatterOptions) {
	level := shared.GetConfidenceLevel(finding.Confidence)

	var levelStr string
	if suppressed {
		levelStr = f.sprint(options, "white", fmt.Sprintf("[%-6s]", "SUPP"))
	} else {
		levelColor := map[string]string{"HIGH": "red", "MEDIUM": "yellow", "LOW": "green"}[level]
		levelStr = f.sprint(options, levelColor, fmt.Sprintf("[%-6s]", level))
	}

	typeStr := f.sprint(options, "cyan", fmt.Sprintf("%-26s", finding.Type))
	confidenceStr := f.sprint(options, "blue", fmt.Sprintf("%6.2f", finding.Confidence))
	offsetStr := f.sprint(options, "magenta", fmt.Sprintf("%-13s", fmt.Sprintf("%d-%d", finding.StartOffset, finding.EndOffset)))

	// Pad to a fixed number of visible runes so columns line up
	targetWidth := f.calculateMatchColumnWidth(report, options)
	matchText := flatten(shared.DisplayText(finding, options))
	runes := []rune(matchText)
	if len(runes) > targetWidth {
		matchText = string(runes[:targetWidth-3]) + "..."
	}
	if padding := targetWidth - len([]rune(matchText)); padding > 0 {
		matchText += strings.Repeat(" ", padding)
	}

	fmt.Fprintf(builder, "%s %s %s %s %s %s\n",
		levelStr,
		typeStr,
		confidenceStr,
		offsetStr,
		matchText,
		finding.Suggestion)
}

// appendCompact writes one line per source with PHI, for the publish profile
func (f *Formatter) appendCompact(builder *strings.Builder, r formatters.Result) {
	if !r.Report.HasPHI {
		return
	}
	counts := r.Report.CountByType()
	var parts []string
	for _, t := range r.Report.Types() {
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
	}
	fmt.Fprintf(builder, "%s: %s confidence, %s\n", r.Source, r.Report.Confidence, strings.Join(parts, ", "))
}

// formatExpirationStatus returns a human-readable expiration status
func (f *Formatter) formatExpirationStatus(expiresAt *time.Time) string {
	if expiresAt == nil {
		return "never expires"
	}

	now := f.now()
	if !expiresAt.After(now) {
		daysAgo := int(now.Sub(*expiresAt).Hours() / 24)
		switch daysAgo {
		case 0:
			return "expired today"
		case 1:
			return "expired 1 day ago"
		default:
			return fmt.Sprintf("expired %d days ago", daysAgo)
		}
	}

	daysUntil := int(expiresAt.Sub(now).Hours() / 24)
	switch daysUntil {
	case 0:
		return "expires today"
	case 1:
		return "expires in 1 day"
	default:
		return fmt.Sprintf("expires in %d days", daysUntil)
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
