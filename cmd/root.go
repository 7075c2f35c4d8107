// Package cmd provides CLI commands for osti-extract.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/osti-extract/extract"
	"github.com/lehigh-university-libraries/osti-extract/profile"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

type rootOptions struct {
	modes       map[extract.Mode]*bool
	profileName string
	profileFile string
	configDir   string
	workers     int
	reportFile  string

	listModes    bool
	listProfiles bool
	showProfile  string
}

// listing returns how many of the listing flags were given.
func (o *rootOptions) listing() int {
	n := 0
	for _, set := range []bool{o.listModes, o.listProfiles, o.showProfile != ""} {
		if set {
			n++
		}
	}
	return n
}

func (o *rootOptions) modeSet() bool {
	for _, set := range o.modes {
		if set != nil && *set {
			return true
		}
	}
	return false
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{modes: make(map[extract.Mode]*bool)}

	cmd := &cobra.Command{
		Use:   "osti-extract {--identifiers|--identifier_links|--links} <folder>",
		Short: "Extract OSTI identifiers and SciTech links from downloaded XML records",
		Long: `osti-extract scans a folder of XML records downloaded from the OSTI service
and writes the identifiers or full-text links it finds.

Exactly one mode is required:
  --identifiers        identifier digits from each <dc:ostiId> element
  --identifier_links   links derived from each identifier (most reliable)
  --links              links found verbatim as element text

Results are appended to <folder>/<mode>/<record>_<mode>.txt and to the
collected file <folder>/<mode>/<mode>_all.txt. Re-running appends again.
The run stops at the first record without a match.

Profiles are read from the embedded defaults and from YAML files in
~/.osti-extract/profiles (or <config-dir>/profiles).

Examples:
  osti-extract --identifier_links batch
  osti-extract --identifiers downloads/2014 --report run.json
  osti-extract --links batch --profile mirror --workers 4
  osti-extract --list-profiles
  osti-extract --show-profile osti`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch n := opts.listing(); {
			case n > 1:
				return &extract.UsageError{Reason: "only one of --list-modes, --list-profiles or --show-profile may be given"}
			case n == 1 && (opts.modeSet() || len(args) != 0):
				return &extract.UsageError{Reason: "listing flags take no mode and no folder"}
			case n == 1:
				return nil
			}
			if len(args) != 1 {
				return &extract.UsageError{Reason: fmt.Sprintf("expected one folder argument, got %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			if opts.configDir != "" {
				profile.SetConfigDir(opts.configDir)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listing() > 0 {
				cmd.SilenceUsage = true
			}

			out := cmd.OutOrStdout()
			switch {
			case opts.listModes:
				return listModes(out)
			case opts.listProfiles:
				return listProfiles(out)
			case opts.showProfile != "":
				return showProfile(out, opts.showProfile)
			}
			return runExtract(cmd, opts, args[0])
		},
	}
	// Folder names such as "completion" must reach the extraction command.
	cmd.CompletionOptions.DisableDefaultCmd = true

	for _, m := range extract.Modes() {
		opts.modes[m] = cmd.Flags().Bool(m.Name(), false, "Extract "+m.Description())
	}
	cmd.Flags().StringVarP(&opts.profileName, "profile", "p", "osti", "Extraction profile name")
	cmd.Flags().StringVar(&opts.profileFile, "profile-file", "", "Custom profile YAML file")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "Documents read and matched concurrently")
	cmd.Flags().StringVar(&opts.reportFile, "report", "", "Write a JSON run summary to this file")
	cmd.Flags().BoolVar(&opts.listModes, "list-modes", false, "List extraction modes and their output files")
	cmd.Flags().BoolVar(&opts.listProfiles, "list-profiles", false, "List available extraction profiles")
	cmd.Flags().StringVar(&opts.showProfile, "show-profile", "", "Show a profile with defaults filled in")
	cmd.Flags().StringVar(&opts.configDir, "config-dir", "", "Configuration directory (default: ~/.osti-extract)")
	cmd.MarkFlagsMutuallyExclusive("profile", "profile-file")

	cmd.SetFlagErrorFunc(flagError)

	return cmd
}

// flagError turns pflag failures into the extraction error kinds.
func flagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown flag: "):
		return &extract.UnknownModeError{Option: strings.TrimPrefix(msg, "unknown flag: ")}
	case strings.HasPrefix(msg, "unknown shorthand flag: "):
		return &extract.UnknownModeError{Option: strings.TrimPrefix(msg, "unknown shorthand flag: ")}
	default:
		return &extract.UsageError{Reason: msg}
	}
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(setupLogger)
}
