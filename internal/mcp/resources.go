// ABOUTME: MCP resource definitions
// ABOUTME: Provides read-only views of the point collection for AI agents

package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	collectionURI = "points://collection"
	geojsonURI    = "points://geojson"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        collectionURI,
		Description: "All points in order with 1-based indices",
		URI:         collectionURI,
		MIMEType:    "application/json",
	}, s.handleCollectionResource)

	s.mcp.AddResource(&mcp.Resource{
		Name:        geojsonURI,
		Description: "All points as a GeoJSON FeatureCollection",
		URI:         geojsonURI,
		MIMEType:    "application/geo+json",
	}, s.handleGeoJSONResource)
}

func (s *Server) handleCollectionResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	output := toListOutput(s.session.Points())
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      collectionURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}

func (s *Server) handleGeoJSONResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := exportGeoJSON(s.session.Points())
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      geojsonURI,
				MIMEType: "application/geo+json",
				Text:     string(data),
			},
		},
	}, nil
}
