// Package main implements the remindme-server CLI tool.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/amonks/remindme/internal/config"
	"github.com/amonks/remindme/internal/paths"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "remindme-server",
	Short:             "Version and feedback backend for remindme",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file when it exists")
}

var serverLogger = log.New(os.Stderr, "remindme-server: ", log.LstdFlags)

// loadEnvFile loads envFile without overriding variables already set.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}
