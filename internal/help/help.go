// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a check
type CheckInfo struct {
	Name                string   // Name of the check (e.g., "SSN")
	PHIType             string   // Wire name of the PHI type the check reports
	ShortDescription    string   // Short description for the checks list
	DetailedDescription string   // Detailed description of what the check does
	Patterns            []string // Patterns the check looks for
	Confidence          float64  // Fixed confidence assigned to every finding
	ContextKeywords     []string // Keywords that gate or support a match
	Exclusions          []string // Conditions under which a match is dropped
	Suggestion          string   // Remediation attached to each finding
	Examples            []string // Sample inputs that produce a finding
}

// Provider defines the interface for help content providers
type Provider interface {
	GetCheckInfo() CheckInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	out       io.Writer
	colors    map[string]*color.Color
}

// NewSystem creates a new help system writing to stdout
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		providers: make(map[string]Provider),
		out:       os.Stdout,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"positive": color.New(color.FgGreen),
			"negative": color.New(color.FgRed),
			"warning":  color.New(color.FgYellow),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// SetOutput redirects help output
func (h *System) SetOutput(w io.Writer) {
	h.out = w
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetCheckInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// CheckNames returns the registered check names sorted alphabetically
func (h *System) CheckNames() []string {
	names := make([]string, 0, len(h.providers))
	for _, provider := range h.providers {
		names = append(names, provider.GetCheckInfo().Name)
	}
	sort.Strings(names)
	return names
}

// ShowChecksHelp displays information about all available checks
func (h *System) ShowChecksHelp() {
	h.colors["title"].Fprintln(h.out, "Available PHI Checks")
	fmt.Fprintln(h.out, "====================")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  CHECK\tTYPE\tCONFIDENCE\tDESCRIPTION")
	h.colors["header"].Fprintln(w, "  -----\t----\t----------\t-----------")

	for _, name := range h.CheckNames() {
		info := h.providers[strings.ToLower(name)].GetCheckInfo()
		fmt.Fprintf(w, "  ")
		h.colors["emphasis"].Fprintf(w, "%s", info.Name)
		fmt.Fprintf(w, "\t%s\t%.2f\t%s\n", info.PHIType, info.Confidence, info.ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For detailed information about a specific check, use:")
	h.colors["example"].Fprintln(h.out, "  phiscan checks <check>")
}

// ShowCheckHelp displays detailed help for a specific check
func (h *System) ShowCheckHelp(checkName string) bool {
	provider, exists := h.providers[strings.ToLower(checkName)]
	if !exists {
		h.colors["negative"].Fprintf(h.out, "Error: Check '%s' not found.\n", checkName)
		fmt.Fprintln(h.out, "Use 'phiscan checks' to see a list of available checks.")
		return false
	}

	info := provider.GetCheckInfo()

	h.colors["title"].Fprintf(h.out, "%s Check\n", info.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Name)+6))
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.DetailedDescription)
	fmt.Fprintln(h.out)

	h.showList("PATTERNS DETECTED:", info.Patterns, "item")
	h.showList("CONTEXT KEYWORDS:", info.ContextKeywords, "positive")
	h.showList("EXCLUSIONS:", info.Exclusions, "negative")

	h.colors["header"].Fprintln(h.out, "CONFIDENCE:")
	fmt.Fprint(h.out, "  ")
	h.confidenceColor(info.Confidence).Fprintf(h.out, "%.0f%%", info.Confidence*100)
	fmt.Fprintf(h.out, " for every %s finding\n\n", info.PHIType)

	if info.Suggestion != "" {
		h.colors["header"].Fprintln(h.out, "SUGGESTION:")
		fmt.Fprintf(h.out, "  %s\n\n", info.Suggestion)
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, example)
		}
	}

	return true
}

func (h *System) showList(title string, items []string, colorName string) {
	if len(items) == 0 {
		return
	}
	h.colors["header"].Fprintln(h.out, title)
	for _, item := range items {
		fmt.Fprint(h.out, "  - ")
		h.colors[colorName].Fprintln(h.out, item)
	}
	fmt.Fprintln(h.out)
}

func (h *System) confidenceColor(confidence float64) *color.Color {
	switch {
	case confidence >= 0.9:
		return h.colors["negative"]
	case confidence >= 0.6:
		return h.colors["warning"]
	default:
		return h.colors["positive"]
	}
}
