package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amonks/remindme/internal/listflags"
	"github.com/amonks/remindme/internal/ui"
	"github.com/amonks/remindme/task"
	"github.com/spf13/cobra"
)

// add
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task",
	Long: `Add a task.

Pinned tasks get a sticky one-time reminder at the given date and time.
Repeated tasks get a reminder every day at the given time.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var (
	addTitle       string
	addDescription string
	addDate        string
	addTime        string
	addPin         bool
	addRepeat      bool
)

// list
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List upcoming, pinned, and repeated tasks",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listSearch string
	listAll    bool
	listJSON   bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

// delete
var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Short:   "Delete tasks and cancel their reminders",
	Aliases: []string{"rm"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

// pin
var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Toggle whether a task is pinned",
	Args:  cobra.ExactArgs(1),
	RunE:  runPin,
}

// clear
var clearCmd = &cobra.Command{
	Use:       "clear <all|past|future>",
	Short:     "Remove tasks in bulk",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"all", "past", "future"},
	RunE:      runClear,
}

var clearYes bool

func init() {
	rootCmd.AddCommand(addCmd, listCmd, showCmd, deleteCmd, pinCmd, clearCmd)

	addCmd.Flags().StringVar(&addTitle, "title", "", "Task title (required)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Task description (required)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Date as DD/MM/YYYY (default today)")
	addCmd.Flags().StringVar(&addTime, "time", "", `Time as "hh:mm AM/PM" or HH:MM (default now)`)
	addCmd.Flags().BoolVar(&addPin, "pin", false, "Pin the task and schedule a sticky reminder")
	addCmd.Flags().BoolVar(&addRepeat, "repeat", false, "Repeat the reminder daily")
	addTaskFlagAliases(addCmd)

	listCmd.Flags().StringVar(&listSearch, "search", "", "Only tasks whose title starts with this phrase")
	listflags.AddAllFlag(listCmd, &listAll, "Include tasks whose time has passed")
	listflags.AddJSONFlag(listCmd, &listJSON)

	listflags.AddJSONFlag(showCmd, &showJSON)

	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Skip the confirmation prompt")
}

func runAdd(cmd *cobra.Command, args []string) error {
	env, err := openLocal()
	if err != nil {
		return err
	}

	at, err := parseSchedule(addDate, addTime, time.Now(), time.Local)
	if err != nil {
		return err
	}

	result, err := env.tasks.Create(cmd.Context(), task.Draft{
		Title:       addTitle,
		Description: addDescription,
		At:          at,
		Pin:         addPin,
		Repeat:      addRepeat,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created task %s\n", result.Task.ID)
	switch result.Schedule {
	case task.ScheduleScheduled:
		fmt.Fprintf(out, "Reminder scheduled (%s)\n", describeWhen(result.Task))
	case task.SchedulePermissionDenied:
		fmt.Fprintln(out, "Notifications are not allowed; no reminder was scheduled")
	case task.ScheduleFailed:
		fmt.Fprintf(out, "Could not schedule reminder: %v\n", result.ScheduleErr)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := openLocal()
	if err != nil {
		return err
	}

	tasks := env.tasks.Visible(task.ListOptions{Search: listSearch, IncludePast: listAll})
	out := cmd.OutOrStdout()
	if listJSON {
		return writeJSON(out, tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}
	fmt.Fprint(out, formatTaskTable(tasks))
	return nil
}

func formatTaskTable(tasks []task.Task) string {
	builder := ui.NewTableBuilder([]string{"ID", "PIN", "TITLE", "WHEN", "REMINDER"}, len(tasks))
	for _, t := range tasks {
		pin := ""
		if t.IsPinned {
			pin = ui.Pinned("*")
		}
		reminder := "-"
		if t.HasNotification() {
			reminder = "on"
		}
		builder.AddRow(t.ID, pin, t.Title, describeWhen(t), reminder)
	}
	return builder.String()
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := openLocal()
	if err != nil {
		return err
	}

	t, err := env.tasks.Find(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return writeJSON(out, t)
	}
	printTaskDetail(out, t)
	return nil
}

func printTaskDetail(out io.Writer, t task.Task) {
	title := ui.Header(t.Title)
	if t.IsPinned {
		title = ui.Pinned("*") + " " + title
	}
	fmt.Fprintln(out, title)
	fmt.Fprintf(out, "ID:       %s\n", t.ID)
	fmt.Fprintf(out, "When:     %s\n", describeWhen(t))
	fmt.Fprintf(out, "Pinned:   %s\n", yesNo(t.IsPinned))
	fmt.Fprintf(out, "Repeated: %s\n", yesNo(t.IsRepeated))
	if t.HasNotification() {
		fmt.Fprintf(out, "Reminder: %s\n", *t.NotificationID)
	} else {
		fmt.Fprintf(out, "Reminder: %s\n", ui.Muted("none"))
	}
	if description := ui.Wrap(t.Description, 80, 2); description != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, description)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, err := openLocal()
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range args {
		if _, err := env.tasks.Find(id); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := env.tasks.Delete(cmd.Context(), id); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", id)
	}
	return errors.Join(errs...)
}

func runPin(cmd *cobra.Command, args []string) error {
	env, err := openLocal()
	if err != nil {
		return err
	}

	id := args[0]
	if _, err := env.tasks.Find(id); err != nil {
		return err
	}
	if err := env.tasks.TogglePin(id); err != nil {
		return err
	}
	updated, err := env.tasks.Find(id)
	if err != nil {
		return err
	}
	if updated.IsPinned {
		fmt.Fprintf(cmd.OutOrStdout(), "Pinned task %s\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Unpinned task %s\n", id)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	scope := strings.ToLower(args[0])
	var clearScope func(*task.Store, context.Context) ([]task.Task, error)
	switch scope {
	case "all":
		clearScope = (*task.Store).ClearAll
	case "past":
		clearScope = (*task.Store).ClearPast
	case "future":
		clearScope = (*task.Store).ClearFuture
	default:
		return fmt.Errorf("unknown scope %q: expected all, past, or future", args[0])
	}

	if !clearYes {
		if !stdinIsTerminal() {
			return fmt.Errorf("refusing to clear %s tasks without --yes", scope)
		}
		ok, err := confirm(os.Stdin, cmd.OutOrStdout(), fmt.Sprintf("Clear %s tasks?", scope))
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing cleared.")
			return nil
		}
	}

	env, err := openLocal()
	if err != nil {
		return err
	}
	removed, err := clearScope(env.tasks, cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d %s\n", len(removed), plural(len(removed), "task", "tasks"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
