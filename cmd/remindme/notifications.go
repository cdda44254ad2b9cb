package main

import (
	"fmt"
	"time"

	"github.com/amonks/remindme/internal/ui"
	"github.com/amonks/remindme/notify"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List scheduled reminders",
	Long: `List scheduled reminders, soonest first.

With --due-since, list the reminders that fired within that window instead.`,
	Args: cobra.NoArgs,
	RunE: runNotifications,
}

var notificationsDueSince time.Duration

var permissionCmd = &cobra.Command{
	Use:       "permission <grant|deny|reset>",
	Short:     "Record or forget the notification permission decision",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"grant", "deny", "reset"},
	RunE:      runPermission,
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(permissionCmd)
	notificationsCmd.Flags().DurationVar(&notificationsDueSince, "due-since", 0, "Show reminders that fired within this duration")
}

func runPermission(cmd *cobra.Command, args []string) error {
	env, err := openLocal()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch args[0] {
	case "grant":
		err = env.scheduler.SetPermission(notify.PermissionGranted)
	case "deny":
		err = env.scheduler.SetPermission(notify.PermissionDenied)
	case "reset":
		err = env.scheduler.ResetPermission()
	default:
		return fmt.Errorf("unknown decision %q: expected grant, deny, or reset", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Notification permission: %s\n", args[0])
	return nil
}

func runNotifications(cmd *cobra.Command, args []string) error {
	env, err := openLocal()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if notificationsDueSince > 0 {
		due, err := env.scheduler.Due(time.Now().Add(-notificationsDueSince))
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Fprintln(out, "No reminders fired.")
			return nil
		}
		fmt.Fprint(out, formatEntryTable(due))
		return nil
	}

	pending, err := env.scheduler.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(out, "No reminders scheduled.")
		return nil
	}
	builder := ui.NewTableBuilder([]string{"HANDLE", "TITLE", "TRIGGER", "NEXT"}, len(pending))
	for _, entry := range pending {
		builder.AddRow(entry.Handle, stickyTitle(entry.Entry), entry.Trigger.String(), entry.NextFire.Format("2006-01-02 15:04"))
	}
	fmt.Fprint(out, builder.String())
	return nil
}

func formatEntryTable(entries []notify.Entry) string {
	builder := ui.NewTableBuilder([]string{"HANDLE", "TITLE", "TRIGGER"}, len(entries))
	for _, entry := range entries {
		builder.AddRow(entry.Handle, stickyTitle(entry), entry.Trigger.String())
	}
	return builder.String()
}

func stickyTitle(entry notify.Entry) string {
	if entry.Content.Sticky {
		return ui.Pinned("*") + " " + entry.Content.Title
	}
	return entry.Content.Title
}
