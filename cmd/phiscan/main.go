// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"phi-scan/internal/config"
	"phi-scan/internal/logger"
	"phi-scan/internal/version"

	_ "phi-scan/internal/formatters/json"
	_ "phi-scan/internal/formatters/text"
	_ "phi-scan/internal/formatters/yaml"
)

// Exit codes
const (
	exitOK       = 0
	exitPHIFound = 1
	exitError    = 2
)

// errPHIFound makes scan exit with exitPHIFound without printing an error
var errPHIFound = errors.New("PHI found")

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	profile    string
	noColor    bool
	debug      bool
	logLevel   string
	workers    int
}

// app carries what every subcommand needs once flags are parsed
type app struct {
	flags   globalFlags
	cfg     *config.Config
	profile *config.Profile
	logger  *logger.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errPHIFound):
		return exitPHIFound
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "phiscan",
		Short: "Detect and redact protected health information in medical content",
		Long: `phiscan finds protected health information (PHI) in HTML or plain text
before it is published: names, SSNs, phone numbers, email addresses, dates of
birth, medical record numbers and more. It can redact what it finds, suggest
remediations, keep auto-saved editor drafts, and serve all of this over HTTP.

Examples:
  phiscan scan article.html                 # Scan a file
  cat draft.txt | phiscan scan              # Scan stdin
  phiscan scan --profile publish *.html     # Gate before publishing
  phiscan redact article.html > clean.txt   # Write a redacted copy
  phiscan serve --address :8080             # Run the editor API`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate(version.Info() + "\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "configuration file (default: phi-scan.yaml or the user config dir)")
	pf.StringVar(&a.flags.profile, "profile", "", "configuration profile to apply")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&a.flags.debug, "debug", false, "debug logging")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.IntVar(&a.flags.workers, "workers", 0, "files processed in parallel (default: CPU count, at most 8)")

	root.AddCommand(
		newScanCmd(a),
		newRedactCmd(a),
		newSuggestCmd(a),
		newServeCmd(a),
		newDraftCmd(a),
		newSuppressCmd(a),
		newChecksCmd(a),
		newProfilesCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads configuration, applies the profile and sets up logging
func (a *app) init(cmd *cobra.Command) error {
	if a.flags.configFile != "" {
		cfg, err := config.LoadConfig(a.flags.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	} else {
		a.cfg = config.LoadConfigOrDefault("")
	}

	if a.flags.profile != "" {
		a.profile = a.cfg.GetProfile(a.flags.profile)
		if a.profile == nil {
			return fmt.Errorf("profile %q not found (available: %v)", a.flags.profile, a.cfg.ListProfiles())
		}
	}

	if a.flags.noColor || a.cfg.Defaults.NoColor || (a.profile != nil && a.profile.NoColor) || !isTerminal(cmd.OutOrStdout()) {
		color.NoColor = true
	}

	level := a.cfg.Logging.Level
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	if a.flags.debug || a.cfg.Defaults.Debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:  level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("logger setup: %w", err)
	}
	a.logger = log
	return nil
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
