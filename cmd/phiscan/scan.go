// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"phi-scan/internal/core"
	"phi-scan/internal/formatters"
	"phi-scan/internal/observability"
	"phi-scan/internal/parallel"
	"phi-scan/internal/preprocessors"
	"phi-scan/internal/redactors/strategies"
	"phi-scan/internal/suggestions"
	"phi-scan/internal/suppressions"
)

// stdinName is the source name used for content read from stdin
const stdinName = "-"

// scanFlags are the flags shared by scan, redact and suggest
type scanFlags struct {
	format           string
	checks           string
	confidenceLevels string
	verbose          bool
	showMatch        bool
	compact          bool
	failOnPHI        bool
	noSuppressions   bool
	suppressionFile  string
	strategy         string
}

// scanSettings is the result of layering defaults, config, profile and flags
type scanSettings struct {
	format           string
	checks           string
	confidenceLevels string
	verbose          bool
	showMatch        bool
	compact          bool
	failOnPHI        bool
	suppressions     bool
	suppressionFile  string
	strategy         string
}

func addDetectionFlags(cmd *cobra.Command, f *scanFlags) {
	cmd.Flags().StringVar(&f.checks, "checks", "", "comma-separated checks to run, or all (see 'phiscan checks')")
	cmd.Flags().StringVar(&f.confidenceLevels, "confidence", "", "comma-separated confidence levels to report: high, medium, low or all")
	cmd.Flags().BoolVar(&f.noSuppressions, "no-suppressions", false, "ignore suppression rules")
	cmd.Flags().StringVar(&f.suppressionFile, "suppression-file", "", "suppression rule file")
}

// resolve applies, in increasing precedence: config defaults, the active
// profile, then flags given on the command line
func (a *app) resolve(cmd *cobra.Command, f *scanFlags) scanSettings {
	cfg := a.cfg
	s := scanSettings{
		format:           cfg.Defaults.Format,
		checks:           cfg.Defaults.Checks,
		confidenceLevels: cfg.Defaults.ConfidenceLevels,
		verbose:          cfg.Defaults.Verbose,
		showMatch:        cfg.Defaults.ShowMatch,
		failOnPHI:        cfg.Defaults.FailOnPHI,
		suppressions:     cfg.Suppressions.Enabled,
		suppressionFile:  cfg.Suppressions.File,
		strategy:         cfg.Redaction.Strategy,
	}

	if p := a.profile; p != nil {
		if p.Format != "" {
			s.format = p.Format
		}
		if p.Checks != "" {
			s.checks = p.Checks
		}
		if p.ConfidenceLevels != "" {
			s.confidenceLevels = p.ConfidenceLevels
		}
		if p.Redaction.Strategy != "" {
			s.strategy = p.Redaction.Strategy
		}
		s.verbose = p.Verbose
		s.showMatch = p.ShowMatch
		s.compact = p.Compact
		s.failOnPHI = p.FailOnPHI
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		s.format = f.format
	}
	if flags.Changed("checks") {
		s.checks = f.checks
	}
	if flags.Changed("confidence") {
		s.confidenceLevels = f.confidenceLevels
	}
	if flags.Changed("verbose") {
		s.verbose = f.verbose
	}
	if flags.Changed("show-match") {
		s.showMatch = f.showMatch
	}
	if flags.Changed("compact") {
		s.compact = f.compact
	}
	if flags.Changed("fail-on-phi") {
		s.failOnPHI = f.failOnPHI
	}
	if flags.Changed("no-suppressions") {
		s.suppressions = !f.noSuppressions
	}
	if flags.Changed("suppression-file") {
		s.suppressionFile = f.suppressionFile
	}
	if flags.Changed("strategy") {
		s.strategy = f.strategy
	}

	if s.format == "" {
		s.format = "text"
	}
	return s
}

// engine builds the detection engine for s
func (a *app) engine(s scanSettings) *core.Engine {
	opts := []core.Option{
		core.WithLogger(a.logger.WithComponent("core")),
		core.WithObserver(a.observer()),
	}
	if s.suppressions {
		opts = append(opts, core.WithSuppressions(suppressions.NewSuppressionManager(s.suppressionFile)))
	}
	return core.NewEngineFor(s.checks, s.confidenceLevels, opts...)
}

func (a *app) observer() *observability.StandardObserver {
	level := observability.ObservabilityMetrics
	if a.logger.Core().Enabled(zap.DebugLevel) {
		level = observability.ObservabilityDebug
	}
	return observability.NewStandardObserver(level, a.logger)
}

func (a *app) preprocessors() *preprocessors.PreprocessorManager {
	return preprocessors.NewDefaultManager(a.observer())
}

// document is one input after text extraction
type document struct {
	source string
	text   string // stripped text, the reference for every offset
}

// readDocuments extracts the text of every source, in order. No sources,
// or "-", means stdin. Files are extracted in parallel.
func (a *app) readDocuments(ctx context.Context, cmd *cobra.Command, sources []string) ([]document, error) {
	if len(sources) == 0 {
		sources = []string{stdinName}
	}

	docs := make([]document, len(sources))
	var files []string
	var fileSlots []int
	for i, source := range sources {
		if source == stdinName {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			docs[i] = document{source: "stdin", text: core.StripTags(string(data))}
			continue
		}
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		files = append(files, source)
		fileSlots = append(fileSlots, i)
	}

	if len(files) > 0 {
		pm := a.preprocessors()
		extract := func(ctx context.Context, path string) (string, error) {
			content, err := pm.ProcessFile(ctx, path)
			if err != nil {
				return "", err
			}
			return content.Text, nil
		}
		pool := parallel.NewWorkerPool(a.flags.workers, extract, a.observer())
		for j, r := range pool.ProcessFiles(ctx, files) {
			if r.Error != nil {
				return nil, fmt.Errorf("%s: %w", r.FilePath, r.Error)
			}
			docs[fileSlots[j]] = document{source: r.FilePath, text: r.Value}
		}
	}
	return docs, nil
}

func newScanCmd(a *app) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan [file...]",
		Short: "Scan files or stdin for PHI",
		Long: `Scan HTML, text, PDF or image files for protected health information.
With no files, or with "-", content is read from stdin.

Exit status is 0 when the scan completes, 1 when --fail-on-phi is set and
PHI was found, and 2 on errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.resolve(cmd, &f)
			if _, ok := formatters.Get(s.format); !ok {
				return fmt.Errorf("unknown format %q (available: %v)", s.format, formatters.List())
			}

			docs, err := a.readDocuments(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}

			engine := a.engine(s)
			results := make([]formatters.Result, 0, len(docs))
			found := false
			for _, doc := range docs {
				report := engine.DetectStripped(doc.text)
				found = found || report.HasPHI
				results = append(results, formatters.Result{
					Source:      doc.source,
					Report:      report,
					Suggestions: suggestions.Suggestions(report.Findings),
				})
			}

			out, err := formatters.Export(s.format, results, formatters.FormatterOptions{
				Verbose:   s.verbose,
				NoColor:   a.flags.noColor,
				ShowMatch: s.showMatch,
				Compact:   s.compact,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if found && s.failOnPHI {
				return errPHIFound
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: json, text, yaml")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "show suppression details and suggestions")
	cmd.Flags().BoolVar(&f.showMatch, "show-match", false, "print matched text (hidden by default)")
	cmd.Flags().BoolVar(&f.compact, "compact", false, "one line per source with PHI")
	cmd.Flags().BoolVar(&f.failOnPHI, "fail-on-phi", false, "exit with status 1 when PHI is found")
	addDetectionFlags(cmd, &f)
	return cmd
}

// strategyFlag registers --strategy with the valid names in its usage
func strategyFlag(cmd *cobra.Command, f *scanFlags) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", fmt.Sprintf("redaction strategy: %v", strategies.Names()))
}
