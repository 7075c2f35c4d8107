package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/osti-extract/extract"
	"github.com/lehigh-university-libraries/osti-extract/profile"
	"github.com/lehigh-university-libraries/osti-extract/report"
)

func runExtract(cmd *cobra.Command, opts *rootOptions, folder string) error {
	mode, err := selectedMode(opts)
	if err != nil {
		return err
	}

	// Arguments are valid from here on; later failures are not usage problems.
	cmd.SilenceUsage = true

	p, err := loadProfile(opts)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if cmd.Flags().Changed("workers") {
		p.Workers = opts.workers
	}
	if err := p.Validate(); err != nil {
		return err
	}

	runner := extract.NewRunner(p)
	runner.Logger = slog.Default().With("profile", p.Name)
	runner.OnProcessed = func(d extract.DocumentResult) {
		fmt.Fprintf(cmd.OutOrStdout(), "Processed file: %s\n", d.Name)
	}

	res, runErr := runner.Run(cmd.Context(), mode, folder)

	if opts.reportFile != "" {
		if err := report.WriteFile(opts.reportFile, mode, folder, res, runErr); err != nil {
			return errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		return runErr
	}

	slog.Info("extraction complete", "mode", mode.Name(), "documents", len(res.Documents), "values", res.Total())
	return nil
}

// selectedMode returns the single mode chosen on the command line.
func selectedMode(opts *rootOptions) (extract.Mode, error) {
	var chosen []extract.Mode
	for _, m := range extract.Modes() {
		if set := opts.modes[m]; set != nil && *set {
			chosen = append(chosen, m)
		}
	}

	if len(chosen) != 1 {
		return 0, &extract.UsageError{Reason: "exactly one of --identifiers, --identifier_links or --links is required"}
	}
	return chosen[0], nil
}

func loadProfile(opts *rootOptions) (*profile.Profile, error) {
	if opts.profileFile != "" {
		return profile.LoadFile(opts.profileFile)
	}

	registry, err := loadRegistry()
	if err != nil {
		return nil, err
	}

	p, ok := registry.Get(opts.profileName)
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s (not found in user or embedded profiles)", opts.profileName)
	}
	return p, nil
}
