package main

import (
	"context"
	"fmt"
	"io"

	"github.com/amonks/remindme/client"
	"github.com/amonks/remindme/version"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <version>",
	Short: "Publish or update an app version",
	Long: `Publish or update an app version through the API.

Publishing an existing version updates its type and release notes. The
download URL is inherited from the x.0.0 release of the same major version.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

var (
	publishType        string
	publishNotes       string
	publishDownloadURL string
)

var unpublishCmd = &cobra.Command{
	Use:   "unpublish <version>",
	Short: "Delete an app version",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnpublish,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the latest published version",
	Args:  cobra.NoArgs,
	RunE:  runLatest,
}

var latestMajor int

func init() {
	rootCmd.AddCommand(publishCmd, unpublishCmd, latestCmd)

	publishCmd.Flags().StringVar(&publishType, "type", "", "Release type: major, minor, or patch (required)")
	publishCmd.Flags().StringVar(&publishNotes, "notes", "", "Release notes (required)")
	publishCmd.Flags().StringVar(&publishDownloadURL, "download-url", "", "Download URL for the build")

	latestCmd.Flags().IntVar(&latestMajor, "major", -1, "Only consider this major version")
}

func newAPIClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Client.ServerURL, client.Options{Token: cfg.Client.Token}), nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}
	return publish(cmd.Context(), cmd.OutOrStdout(), api, version.PublishRequest{
		Version:      args[0],
		Type:         publishType,
		ReleaseNotes: publishNotes,
		DownloadURL:  publishDownloadURL,
	})
}

func publish(ctx context.Context, out io.Writer, api *client.Client, req version.PublishRequest) error {
	record, created, err := api.PublishVersion(ctx, req)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Published %s (%s)\n", record.Version, record.Type)
	} else {
		fmt.Fprintf(out, "Updated %s (%s)\n", record.Version, record.Type)
	}
	if record.DownloadURL != "" {
		fmt.Fprintf(out, "Download URL: %s\n", record.DownloadURL)
	}
	return nil
}

func runUnpublish(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}
	if err := api.UnpublishVersion(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runLatest(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}
	return printLatest(cmd.Context(), cmd.OutOrStdout(), api, latestMajor)
}

func printLatest(ctx context.Context, out io.Writer, api *client.Client, major int) error {
	record, err := api.LatestVersion(ctx, major)
	if err != nil {
		return err
	}
	if record == nil {
		fmt.Fprintln(out, "No version published.")
		return nil
	}
	fmt.Fprintf(out, "%s (%s)\n", record.Version, record.Type)
	return nil
}
