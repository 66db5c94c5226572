// Package main provides the operator CLI for deployment and operations tasks.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	rootCmd := &cobra.Command{
		Use:   "operator",
		Short: "Deployment and operations CLI for the chatbot",
		Long: `operator runs deployment and maintenance tasks against the chatbot database.

Examples:
  operator migrate                     # Create or update tables (GORM AutoMigrate)
  operator schema                      # Execute all SQL files in migrations/
  operator schema --file 001_init.sql  # Execute a specific migration file
  operator validate                    # Check configuration and database connectivity
  operator promote --dry-run           # List insights that would become knowledge
  operator match "how do i write a love note"
  operator create-platform --key acme --name "Acme Love"`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCmd(),
		newSchemaCmd(),
		newValidateCmd(),
		newPromoteCmd(),
		newMatchCmd(),
		newCreatePlatformCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("chatbot operator v%s\n", version)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
