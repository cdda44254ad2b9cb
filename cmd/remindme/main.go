// Package main implements the remindme CLI tool.
package main

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/amonks/remindme/internal/config"
	"github.com/amonks/remindme/internal/kv"
	"github.com/amonks/remindme/internal/paths"
	"github.com/amonks/remindme/notify"
	"github.com/amonks/remindme/task"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "remindme",
	Short:        "Remindme - tasks with pinned and daily reminders",
	SilenceUsage: true,
}

var dataDirFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding local state (default ~/.local/state/remindme)")
}

// cliLogger reports best-effort failures on stderr.
var cliLogger = log.New(os.Stderr, "remindme: ", 0)

// openKV returns the local key-value store.
func openKV() (*kv.FileStore, error) {
	dir, err := paths.ResolveWithDefault(dataDirFlag, paths.DefaultStateDir)
	if err != nil {
		return nil, err
	}
	return kv.NewFileStore(dir), nil
}

// loadConfig loads configuration for the working directory.
func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}

// localEnv bundles the task store with the scheduler it drives.
type localEnv struct {
	kv        *kv.FileStore
	scheduler *notify.LocalScheduler
	tasks     *task.Store
}

func openLocal() (*localEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openKV()
	if err != nil {
		return nil, err
	}

	var prompter notify.Prompter
	if stdinIsTerminal() {
		prompter = stdioPrompter{}
	}
	scheduler := notify.NewLocalScheduler(store, notify.LocalOptions{
		Prompter:  prompter,
		AutoGrant: cfg.Notifications.AutoGrant,
	})

	tasks, err := task.Open(store, task.OpenOptions{
		Scheduler: scheduler,
		Logger:    cliLogger,
		Location:  time.Local,
	})
	if err != nil {
		return nil, err
	}
	return &localEnv{kv: store, scheduler: scheduler, tasks: tasks}, nil
}
