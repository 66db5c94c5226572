package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the chatbot tables with GORM AutoMigrate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				fmt.Println("Dry run mode - no changes will be made")
				for _, table := range chatbotTables {
					fmt.Printf("  - Would migrate %s\n", table)
				}
				return nil
			}

			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Println("Migrating application tables...")
			if err := store.AutoMigrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("  ✓ Application tables migrated")
			fmt.Println("\nMigration completed successfully!")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be migrated without executing")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	var (
		file          string
		migrationsDir string
		dryRun        bool
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Execute SQL migration files from the migrations directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := findMigrationFiles(migrationsDir, file)
			if err != nil {
				return fmt.Errorf("failed to find migration files: %w", err)
			}
			if len(files) == 0 {
				fmt.Println("No migration files found")
				return nil
			}

			fmt.Printf("Found %d migration file(s):\n", len(files))
			for _, f := range files {
				fmt.Printf("  - %s\n", filepath.Base(f))
			}
			if dryRun {
				fmt.Println("\nDry run mode - no SQL will be executed")
				return nil
			}

			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Println("\nExecuting migrations...")
			for _, f := range files {
				fmt.Printf("  Running %s... ", filepath.Base(f))
				if err := executeSQLFile(store.DB().WithContext(cmd.Context()), f); err != nil {
					fmt.Println("✗")
					return fmt.Errorf("failed to execute %s: %w", f, err)
				}
				fmt.Println("✓")
			}
			fmt.Println("\nSchema migration completed successfully!")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Specific migration file to execute")
	cmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "Directory containing migration files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be executed without running")
	return cmd
}

var chatbotTables = []string{
	"chatbot_platforms",
	"chatbot_conversations",
	"chatbot_messages",
	"chatbot_knowledge",
	"chatbot_knowledge_updates",
	"chatbot_query_patterns",
	"chatbot_learning_insights",
	"chatbot_feedback",
	"profiles",
	"relationship_goals",
	"milestones",
}

// openStore connects with only DATABASE_URL; operator commands do not need the full config.
func openStore(ctx context.Context) (*storage.Store, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	store, err := storage.NewStore(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, nil
}

func findMigrationFiles(dir, specificFile string) ([]string, error) {
	if specificFile != "" {
		fullPath := filepath.Join(dir, specificFile)
		if _, err := os.Stat(fullPath); err != nil {
			return nil, fmt.Errorf("migration file not found: %s", fullPath)
		}
		return []string{fullPath}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	// Sort by filename to ensure consistent ordering
	sort.Strings(files)
	return files, nil
}

func executeSQLFile(db *gorm.DB, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := db.Exec(string(content)).Error; err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}
