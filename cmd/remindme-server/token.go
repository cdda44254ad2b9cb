package main

import (
	"fmt"
	"time"

	"github.com/amonks/remindme/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an admin bearer token signed with ADMIN_SECRET",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var tokenTTL time.Duration

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", server.DefaultTokenTTL, "How long the token stays valid")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET is required")
	}
	if tokenTTL <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	token, err := server.NewAuthenticator([]byte(cfg.Server.AdminSecret)).GenerateToken(tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
