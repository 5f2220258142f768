// ABOUTME: Sync subcommands for the charm backend
// ABOUTME: Shows account status, links devices, and syncs or resets the point collection

package main

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/charm"
	"github.com/harper/pointedit/internal/storage"
	"github.com/spf13/cobra"
)

// errNotSyncable is returned when the configured backend has no remote.
var errNotSyncable = errors.New("the configured backend does not sync; set \"backend\": \"charm\"")

// skipStore marks sync commands that only touch the charm account.
var skipStore = map[string]string{skipStoreAnnotation: "true"}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync points through Charm Cloud",
	Long: `Sync your points between devices with the charm backend.

Every change is pushed as it is saved. Use these commands to check the
account, link a new device, or pull changes made elsewhere.

Examples:
  pointedit sync status
  pointedit sync link
  pointedit sync now
  pointedit sync reset --confirm`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		host := charm.DefaultConfig().CharmHost
		if cfg.CharmHost != "" {
			host = cfg.CharmHost
		}

		fmt.Fprintf(out, "Backend:    %s\n", cfg.GetBackend())
		fmt.Fprintf(out, "Charm host: %s\n", host)
		fmt.Fprintf(out, "Database:   %s\n", charm.DBName)

		id, err := charm.LinkedUserID()
		if err != nil {
			fmt.Fprintln(out, color.YellowString("\nNot linked"))
			fmt.Fprintln(out, "Run 'pointedit sync link' to connect this device.")
			return nil
		}
		fmt.Fprintf(out, "\nUser ID:    %s\n", id)
		if cfg.GetBackend() != storage.BackendCharm {
			fmt.Fprintln(out, color.YellowString("Linked, but points are stored in %s", cfg.GetBackend()))
			return nil
		}
		fmt.Fprintln(out, color.GreenString("Linked and syncing"))
		return nil
	},
	Annotations: skipStore,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to your Charm account",
	Long: `Link this device to your Charm account with the charm CLI.

The charm CLI runs interactively; install it with
  go install github.com/charmbracelet/charm@latest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		link := exec.CommandContext(contextOrBackground(cmd), "charm", "link")
		link.Stdin = cmd.InOrStdin()
		link.Stdout = cmd.OutOrStdout()
		link.Stderr = cmd.ErrOrStderr()
		if err := link.Run(); err != nil {
			return fmt.Errorf("charm link: %w", err)
		}
		color.Green("✓ Device linked")
		return nil
	},
	Annotations: skipStore,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync with the cloud immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer, ok := store.(storage.Syncer)
		if !ok {
			return errNotSyncable
		}
		if err := syncer.Sync(); err != nil {
			return fmt.Errorf("failed to sync: %w", err)
		}
		return reportSynced(cmd, "✓ Synced")
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace local points with the cloud copy",
	Long: `Discard the local copy of your points and pull the collection from Charm Cloud.
Changes that were never synced are lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resetter, ok := store.(storage.Resetter)
		if !ok {
			return errNotSyncable
		}
		if !confirmed(cmd, "Discard local points and pull the cloud copy?") {
			return nil
		}
		if err := resetter.Reset(); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		return reportSynced(cmd, "✓ Reset from cloud")
	},
}

// reportSynced reloads the collection and prints its size under msg.
func reportSynced(cmd *cobra.Command, msg string) error {
	pts, err := store.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to reload points: %w", err)
	}
	color.Green(msg)
	fmt.Fprintf(cmd.OutOrStdout(), "  %d points\n", len(pts))
	return nil
}

func init() {
	syncResetCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncResetCmd)

	rootCmd.AddCommand(syncCmd)
}
