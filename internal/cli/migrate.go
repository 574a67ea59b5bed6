package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/adapters/turso"
	"github.com/emiliopalmerini/despertar/internal/migrate"
	"github.com/emiliopalmerini/despertar/internal/util"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  despertar migrate      # Run all pending migrations
  despertar migrate 1    # Migrate to version 1
  despertar migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

var migrateDB string

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrateDB, "db", "", "Database URL (default: DATABASE_URL or the local data file)")
	migrateCmd.AddCommand(migrateStatusCmd)
}

func openMigrateDB(ctx context.Context) (*turso.DB, error) {
	url := migrateDB
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		var err error
		if url, err = util.DefaultDatabaseURL(); err != nil {
			return nil, err
		}
	}
	db, err := turso.Open(ctx, url, os.Getenv("DATABASE_AUTH_TOKEN"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	db, err := openMigrateDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := migrate.GetStatus(ctx, db.DB)
	if err != nil {
		return err
	}
	if status.Dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", status.Current)
	}

	all, err := migrate.LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	fmt.Fprintf(out, "Current version: %d\n", status.Current)

	target := -1
	if len(args) == 1 {
		if target, err = strconv.Atoi(args[0]); err != nil || target < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
	}

	logger := zap.NewNop()
	var applied int
	switch {
	case target < 0 || target > status.Current:
		applied, err = migrate.MigrateUpTo(ctx, db.DB, all, status.Current, target, logger)
	case target < status.Current:
		applied, err = migrate.MigrateDownTo(ctx, db.DB, all, status.Current, target, logger)
	default:
		fmt.Fprintln(out, "Already at target version")
		return nil
	}
	if err != nil {
		return err
	}

	if applied == 0 {
		fmt.Fprintln(out, "No migrations to run")
		return nil
	}
	current, _, err := migrate.GetCurrentVersion(ctx, db.DB)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Applied %d migration(s), now at version %d\n", applied, current)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	db, err := openMigrateDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := migrate.GetStatus(ctx, db.DB)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Current version: %d\n", status.Current)
	fmt.Fprintf(out, "Latest version:  %d\n", status.Latest)
	if status.Dirty {
		fmt.Fprintln(out, "State:           dirty")
	}
	for _, m := range status.Pending {
		fmt.Fprintf(out, "Pending:         %03d_%s\n", m.Version, m.Name)
	}
	return nil
}

// openMigratedDB opens url and applies pending migrations.
func openMigratedDB(ctx context.Context, url string) (*turso.DB, error) {
	db, err := turso.Open(ctx, url, os.Getenv("DATABASE_AUTH_TOKEN"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate.RunAll(ctx, db.DB, zap.NewNop()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
