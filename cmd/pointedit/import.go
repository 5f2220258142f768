// ABOUTME: Import command for appending points from a GeoJSON file
// ABOUTME: Point features become add and label commands applied as one change

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/geojson"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.geojson>",
	Short: "Append points from a GeoJSON file",
	Long: `Append the Point features of a GeoJSON FeatureCollection to the list.

A string "label" property becomes the point's label. Other geometry types are
skipped. Existing points are kept.

Examples:
  pointedit import points.json
  pointedit import ~/Downloads/places.geojson`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		fc, err := geojson.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse GeoJSON: %w", err)
		}
		result, err := fc.ToCommands(len(session.Points()))
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		if len(result.Commands) > 0 {
			if _, err := session.DispatchAll(cmd.Context(), result.Commands...); err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
		}

		color.Green("Import complete")
		fmt.Printf("  %d points imported, %d features skipped\n", result.Imported, result.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
