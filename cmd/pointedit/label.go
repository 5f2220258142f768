// ABOUTME: Point label command
// ABOUTME: Replaces a point's label and keeps its location

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/editor"
	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label <index> <label>",
	Short: "Rename a point",
	Long: `Replace the label of a point. The location is kept.

Examples:
  pointedit label 1 home
  pointedit label 3 "corner cafe"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		label := strings.Join(args[1:], " ")

		if _, err := session.BeginEditLabel(index); err != nil {
			return err
		}
		if err := session.SubmitLabel(cmd.Context(), label); err != nil {
			session.Cancel()
			if errors.Is(err, editor.ErrLabelRequired) {
				return err
			}
			return fmt.Errorf("failed to label point: %w", err)
		}

		color.Green("✓ Labeled point %d", index+1)
		fmt.Println(ui.FormatPoint(index, session.Points()[index]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
}
