// ABOUTME: Point list command
// ABOUTME: Lists all points in order with 1-based indices

package main

import (
	"encoding/json"
	"fmt"

	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all points",
	RunE: func(cmd *cobra.Command, args []string) error {
		pts := session.Points()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(pts, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode points: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		if len(pts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No points yet. Use 'pointedit add' to add one.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatPoints(pts))
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "print the stored JSON form")

	rootCmd.AddCommand(listCmd)
}
