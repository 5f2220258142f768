// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents add, move, label, delete, list, and export points

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/pointedit/internal/geojson"
	"github.com/harper/pointedit/internal/models"
	"github.com/harper/pointedit/internal/points"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerAddPointTool()
	s.registerMovePointTool()
	s.registerLabelPointTool()
	s.registerDeletePointTool()
	s.registerListPointsTool()
	s.registerExportGeoJSONTool()
}

// locationSchema accepts both location shapes.
var locationSchema = map[string]interface{}{
	"description": "Location as [lat, lng] or {\"lat\": .., \"lng\": ..} (\"lon\" is also accepted)",
	"oneOf": []interface{}{
		map[string]interface{}{
			"type":     "array",
			"items":    map[string]interface{}{"type": "number"},
			"minItems": 2,
			"maxItems": 2,
		},
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"lat": map[string]interface{}{"type": "number"},
				"lng": map[string]interface{}{"type": "number"},
				"lon": map[string]interface{}{"type": "number"},
			},
			"required": []string{"lat"},
		},
	},
}

var indexSchema = map[string]interface{}{
	"type":        "integer",
	"description": "1-based position of the point as shown by list_points",
}

// PointOutput is one point as reported to agents.
type PointOutput struct {
	Index int     `json:"index"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// ListPointsOutput defines output for list_points and mutating tools.
type ListPointsOutput struct {
	Points []PointOutput `json:"points"`
	Count  int           `json:"count"`
}

func toPointOutput(index int, p models.Point) PointOutput {
	return PointOutput{Index: index + 1, Lat: p.Location.Lat(), Lng: p.Location.Lng(), Label: p.Label}
}

func toListOutput(c models.Collection) ListPointsOutput {
	out := ListPointsOutput{Points: make([]PointOutput, len(c)), Count: len(c)}
	for i, p := range c {
		out.Points[i] = toPointOutput(i, p)
	}
	return out
}

func textResult(v interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// AddPointInput defines input for add_point tool.
type AddPointInput struct {
	Location models.LocationInput `json:"location"`
	Label    string               `json:"label,omitempty"`
}

func (s *Server) registerAddPointTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_point",
		Description: "Add a point to the end of the collection. Without a label it is named 'Point N'.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": locationSchema,
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Optional label for the new point",
				},
			},
			"required": []string{"location"},
		},
	}, s.handleAddPoint)
}

func (s *Server) handleAddPoint(ctx context.Context, _ *mcp.CallToolRequest, input AddPointInput) (*mcp.CallToolResult, PointOutput, error) {
	index, point, err := s.session.Add(ctx, input.Location, input.Label)
	if err != nil {
		return nil, PointOutput{}, err
	}

	output := toPointOutput(index, point)
	s.logger.Debug("add_point", "index", output.Index)
	return textResult(output), output, nil
}

// MovePointInput defines input for move_point tool.
type MovePointInput struct {
	Index    int                  `json:"index"`
	Location models.LocationInput `json:"location"`
}

func (s *Server) registerMovePointTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "move_point",
		Description: "Move a point to a new location. Its label is kept.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"index":    indexSchema,
				"location": locationSchema,
			},
			"required": []string{"index", "location"},
		},
	}, s.handleMovePoint)
}

func (s *Server) handleMovePoint(ctx context.Context, _ *mcp.CallToolRequest, input MovePointInput) (*mcp.CallToolResult, PointOutput, error) {
	cmd, err := points.NewMovePoint(input.Index-1, input.Location)
	if err != nil {
		return nil, PointOutput{}, err
	}
	return s.dispatchOne(ctx, cmd, input.Index-1)
}

// LabelPointInput defines input for label_point tool.
type LabelPointInput struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

func (s *Server) registerLabelPointTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "label_point",
		Description: "Replace the label of a point. Its location is kept.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"index": indexSchema,
				"label": map[string]interface{}{
					"type":        "string",
					"description": "New label",
				},
			},
			"required": []string{"index", "label"},
		},
	}, s.handleLabelPoint)
}

func (s *Server) handleLabelPoint(ctx context.Context, _ *mcp.CallToolRequest, input LabelPointInput) (*mcp.CallToolResult, PointOutput, error) {
	return s.dispatchOne(ctx, points.NewLabelPoint(input.Index-1, input.Label), input.Index-1)
}

func (s *Server) dispatchOne(ctx context.Context, cmd points.Command, index int) (*mcp.CallToolResult, PointOutput, error) {
	updated, err := s.session.Dispatch(ctx, cmd)
	if err != nil {
		return nil, PointOutput{}, err
	}
	output := toPointOutput(index, updated[index])
	s.logger.Debug("dispatched", "command", cmd.Type(), "index", output.Index)
	return textResult(output), output, nil
}

// DeletePointInput defines input for delete_point tool.
type DeletePointInput struct {
	Index int `json:"index"`
}

func (s *Server) registerDeletePointTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_point",
		Description: "Delete a point. Later points shift down by one index.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"index": indexSchema,
			},
			"required": []string{"index"},
		},
	}, s.handleDeletePoint)
}

func (s *Server) handleDeletePoint(ctx context.Context, _ *mcp.CallToolRequest, input DeletePointInput) (*mcp.CallToolResult, ListPointsOutput, error) {
	updated, err := s.session.Dispatch(ctx, points.NewDeletePoint(input.Index-1))
	if err != nil {
		return nil, ListPointsOutput{}, err
	}
	output := toListOutput(updated)
	return textResult(output), output, nil
}

// ListPointsInput defines input for list_points tool.
type ListPointsInput struct{}

func (s *Server) registerListPointsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_points",
		Description: "List all points in order with their 1-based indices.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}, s.handleListPoints)
}

func (s *Server) handleListPoints(_ context.Context, _ *mcp.CallToolRequest, _ ListPointsInput) (*mcp.CallToolResult, ListPointsOutput, error) {
	output := toListOutput(s.session.Points())
	return textResult(output), output, nil
}

// ExportGeoJSONInput defines input for export_geojson tool.
type ExportGeoJSONInput struct{}

// ExportGeoJSONOutput defines output for export_geojson tool.
type ExportGeoJSONOutput struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
	GeoJSON  string `json:"geojson"`
}

func (s *Server) registerExportGeoJSONTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_geojson",
		Description: "Export all points as a GeoJSON FeatureCollection with [lng, lat] coordinates.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}, s.handleExportGeoJSON)
}

func (s *Server) handleExportGeoJSON(_ context.Context, _ *mcp.CallToolRequest, _ ExportGeoJSONInput) (*mcp.CallToolResult, ExportGeoJSONOutput, error) {
	pts := s.session.Points()
	data, err := exportGeoJSON(pts)
	if err != nil {
		return nil, ExportGeoJSONOutput{}, err
	}

	output := ExportGeoJSONOutput{
		Filename: geojson.DefaultFilename,
		Count:    len(pts),
		GeoJSON:  string(data),
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output.GeoJSON}},
	}, output, nil
}

func exportGeoJSON(pts models.Collection) ([]byte, error) {
	fc, err := geojson.ToFeatureCollection(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature collection: %w", err)
	}
	return fc.ToJSONIndent()
}
