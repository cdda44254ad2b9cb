package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/amonks/remindme/client"
	"github.com/amonks/remindme/internal/markdown"
	"github.com/amonks/remindme/internal/ui"
	"github.com/amonks/remindme/updatecheck"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Check the backend for the current app version",
	Long: `Check the backend for the current app version.

The check looks up the latest version sharing the installed major version and
caches it locally. When the backend has a newer major version and this is not
a production build, a download is offered.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

var versionCached bool

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionCached, "cached", false, "Print the cached version without contacting the backend")
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openKV()
	if err != nil {
		return err
	}

	profile := appProfile
	if cfg.Client.Profile != "" {
		profile = cfg.Client.Profile
	}
	opts := updatecheck.Options{
		Fetcher:      client.New(cfg.Client.ServerURL, client.Options{Token: cfg.Client.Token}),
		Store:        store,
		LocalVersion: appVersion,
		Profile:      profile,
		Logger:       cliLogger,
	}
	if stdinIsTerminal() {
		opts.Prompter = updatecheck.StdioPrompter{In: os.Stdin, Out: cmd.OutOrStdout()}
	}

	if versionCached {
		checker, err := updatecheck.New(opts)
		if err != nil {
			return err
		}
		cached, ok := checker.Cached()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No cached version.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), cached)
		return nil
	}

	_, err = checkVersion(cmd.Context(), cmd.OutOrStdout(), opts)
	return err
}

// checkVersion runs the update check once and prints the outcome.
func checkVersion(ctx context.Context, out io.Writer, opts updatecheck.Options) (updatecheck.Snapshot, error) {
	checker, err := updatecheck.New(opts)
	if err != nil {
		return updatecheck.Snapshot{}, err
	}

	snapshot := checker.Check(ctx)
	fmt.Fprintf(out, "Installed version: %s\n", snapshot.LocalVersion)
	fmt.Fprintf(out, "Current version:   %s\n", snapshot.CurrentVersion)

	if snapshot.Record != nil {
		if notes := markdown.Render(80, 2, snapshot.Record.ReleaseNotes); notes != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Header("Release notes"))
			fmt.Fprintln(out, notes)
		}
	}
	return snapshot, nil
}
