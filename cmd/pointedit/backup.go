// ABOUTME: Backup and restore commands for YAML snapshots
// ABOUTME: Creates portable backup files and restores them over the current list

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/storage"
	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all points",
	Long: `Create a YAML backup file containing all points in order.

The backup file can be used to:
- Move points between machines or backends
- Restore after data loss

Examples:
  pointedit backup --output points.yaml
  pointedit backup -o ~/backups/points-$(date +%Y%m%d).yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		pts := session.Points()

		data, err := storage.ExportBackup(pts)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("points-%s.yaml", time.Now().Format("20060102-150405"))
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		color.Green("Backup created: %s", output)
		fmt.Printf("  %d points\n", len(pts))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all points with a YAML backup",
	Long: `Replace the current points with the contents of a backup created by
'pointedit backup'.

WARNING: This replaces existing points rather than adding to them.

Examples:
  pointedit restore points.yaml
  pointedit restore ~/backups/points-20241214.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		backup, err := storage.ParseBackup(data)
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		restored, err := backup.Collection()
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}

		prompt := fmt.Sprintf("Replace %d points with %d from '%s' (created %s)?",
			len(session.Points()), len(restored), filename, ui.FormatRelativeTime(backup.ExportedAt))
		if !confirmed(cmd, prompt) {
			return nil
		}

		if err := store.Save(cmd.Context(), restored); err != nil {
			return fmt.Errorf("failed to restore: %w", err)
		}

		color.Green("Restore complete")
		fmt.Printf("  %d points\n", len(restored))
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: points-YYYYMMDD-HHMMSS.yaml)")
	restoreCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
