package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/amonks/remindme/client"
	"github.com/amonks/remindme/feedback"
	"github.com/amonks/remindme/internal/listflags"
	"github.com/amonks/remindme/internal/ui"
	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Send feedback to the remindme team",
}

var feedbackSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a bug report or feedback",
	Args:  cobra.NoArgs,
	RunE:  runFeedbackSend,
}

var (
	feedbackType  string
	feedbackName  string
	feedbackEmail string
	feedbackText  string
)

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted feedback (requires an admin token)",
	Args:  cobra.NoArgs,
	RunE:  runFeedbackList,
}

var feedbackListJSON bool

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackSendCmd, feedbackListCmd)

	feedbackSendCmd.Flags().StringVar(&feedbackType, "type", string(feedback.TypeFeedback), `One of "Bug Report", "Feedback", or "Other"`)
	feedbackSendCmd.Flags().StringVar(&feedbackName, "name", "", "Your name (required)")
	feedbackSendCmd.Flags().StringVar(&feedbackEmail, "email", "", "Your email (required)")
	feedbackSendCmd.Flags().StringVar(&feedbackText, "text", "", "The message (required)")

	listflags.AddJSONFlag(feedbackListCmd, &feedbackListJSON)
}

func newAPIClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Client.ServerURL, client.Options{Token: cfg.Client.Token}), nil
}

func runFeedbackSend(cmd *cobra.Command, args []string) error {
	submission, err := feedback.Submission{
		Type:       feedbackType,
		Name:       feedbackName,
		Email:      feedbackEmail,
		Text:       feedbackText,
		Timestamp:  time.Now().UnixMilli(),
		Platform:   runtime.GOOS,
		Version:    appVersion,
		DeviceInfo: runtime.GOOS + "/" + runtime.GOARCH,
	}.Validate()
	if err != nil {
		return err
	}

	api, err := newAPIClient()
	if err != nil {
		return err
	}
	record, err := api.SubmitFeedback(cmd.Context(), submission)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Feedback submitted successfully (%s)\n", record.ID)
	return nil
}

func runFeedbackList(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}
	records, err := api.ListFeedback(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if feedbackListJSON {
		return writeJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No feedback yet.")
		return nil
	}
	builder := ui.NewTableBuilder([]string{"CREATED", "TYPE", "NAME", "VERSION", "TEXT"}, len(records))
	for _, record := range records {
		builder.AddRow(record.CreatedAt.Local().Format("2006-01-02 15:04"), string(record.Type), record.Name, record.Version, record.Text)
	}
	fmt.Fprint(out, builder.String())
	return nil
}
