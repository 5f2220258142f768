// ABOUTME: Export command for writing points as GeoJSON
// ABOUTME: Writes points.json by default, or stdout with -o -

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/geojson"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export points as GeoJSON",
	Long: `Export all points as a GeoJSON FeatureCollection.

Each point becomes a Point feature with [longitude, latitude] coordinates and
a "label" property.

Examples:
  pointedit export
  pointedit export -o ~/maps/trip.json
  pointedit export -o - | jq .`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pts := session.Points()

		fc, err := geojson.ToFeatureCollection(pts)
		if err != nil {
			return fmt.Errorf("failed to build GeoJSON: %w", err)
		}
		jsonBytes, err := fc.ToJSONIndent()
		if err != nil {
			return fmt.Errorf("failed to generate GeoJSON: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
			return nil
		}

		if err := os.WriteFile(output, jsonBytes, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
			return fmt.Errorf("failed to write file: %w", err)
		}
		color.Green("Exported %d points to %s", len(pts), output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", geojson.DefaultFilename, "output file, or - for stdout")

	rootCmd.AddCommand(exportCmd)
}
