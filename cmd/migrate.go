package cmd

import (
	"fmt"

	"github.com/killallgit/podfeed/internal/database"
	"github.com/killallgit/podfeed/pkg/config"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the library database",
	Long: `Manage the podcast library database schema.

Available subcommands:
  up      - Create or update the library tables
  status  - Show which library tables exist`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update the library tables",
	Long: `Create or update the podcast and episode tables.

Running it against an up to date database is a no-op.`,
	RunE: runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  `Display whether each podcast library table exists in the database.`,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().String("database", "", "database path (overrides config)")
}

// openDatabase opens the library database, honoring a --database flag when
// the command has one
func openDatabase(cmd *cobra.Command, cfg *config.Config, migrate bool) (*database.DB, error) {
	path := cfg.Database.Path
	if flag := cmd.Flags().Lookup("database"); flag != nil && flag.Value.String() != "" {
		path = flag.Value.String()
	}
	if path == "" {
		return nil, fmt.Errorf("database path is not configured")
	}

	db, err := database.Initialize(path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if migrate {
		if err := db.AutoMigrate(database.Models()...); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openDatabase(cmd, cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Library tables are up to date")
	return printMigrationStatus(cmd, db)
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openDatabase(cmd, cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	return printMigrationStatus(cmd, db)
}

func printMigrationStatus(cmd *cobra.Command, db *database.DB) error {
	status, err := db.MigrationStatus()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pending := 0
	for _, table := range status {
		state := "present"
		if !table.Exists {
			state = "missing"
			pending++
		}
		fmt.Fprintf(out, "  %-10s %s\n", table.Table, state)
	}

	if pending > 0 {
		fmt.Fprintf(out, "%d table(s) missing, run 'podfeed migrate up'\n", pending)
	}
	return nil
}
