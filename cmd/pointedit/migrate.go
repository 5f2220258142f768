// ABOUTME: Migration command for copying points between storage backends
// ABOUTME: Refuses to overwrite a non-empty destination unless asked to

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/pointedit/internal/config"
	"github.com/harper/pointedit/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate points between storage backends",
	Long: `Copy all points from the currently configured backend to a different backend.

Does NOT update the config file; verify the migration was successful then
update config.json manually.

Examples:
  pointedit migrate --to sqlite
  pointedit migrate --to file --data-dir ~/points-json
  pointedit migrate --to postgres --database-url postgres://localhost/points
  pointedit migrate --to redis --overwrite`,
	RunE: runMigrate,
}

var (
	migrateTo          string
	migrateDataDir     string
	migrateDatabaseURL string
	migrateRedisURL    string
	migrateOverwrite   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend ("+strings.Join(storage.Backends, ", ")+")")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "target postgres URL (defaults to current config)")
	migrateCmd.Flags().StringVar(&migrateRedisURL, "redis-url", "", "target redis URL (defaults to current config)")
	migrateCmd.Flags().BoolVar(&migrateOverwrite, "overwrite", false, "replace points already stored in the target")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	if !slices.Contains(storage.Backends, targetBackend) {
		return fmt.Errorf("%w: %q (use one of %s)", storage.ErrUnknownBackend, targetBackend, strings.Join(storage.Backends, ", "))
	}

	target := cfg.WithBackend(targetBackend)
	if migrateDataDir != "" {
		target.DataDir = config.ExpandPath(migrateDataDir)
	}
	if migrateDatabaseURL != "" {
		target.DatabaseURL = migrateDatabaseURL
	}
	if migrateRedisURL != "" {
		target.RedisURL = migrateRedisURL
	}
	if targetBackend == sourceBackend && target.GetDataDir() == cfg.GetDataDir() &&
		target.DatabaseURL == cfg.DatabaseURL && target.RedisURL == cfg.RedisURL {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	dst, err := target.OpenStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	color.Yellow("Migrating points:")
	fmt.Printf("  Source:  %s\n", sourceBackend)
	fmt.Printf("  Target:  %s\n", targetBackend)
	fmt.Println()

	summary, err := storage.MigrateData(cmd.Context(), store, dst, migrateOverwrite)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.Green("Migration complete!")
	fmt.Printf("  Points: %d\n", summary.Points)
	fmt.Println()
	color.Yellow("Note: config.json was NOT updated. To switch to the new backend, edit:")
	fmt.Printf("  %s\n", config.GetConfigPath())
	fmt.Printf("  Set \"backend\": %q", targetBackend)
	if migrateDataDir != "" {
		fmt.Printf(" and \"data_dir\": %q", migrateDataDir)
	}
	fmt.Println()

	return nil
}
