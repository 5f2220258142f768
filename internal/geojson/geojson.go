// ABOUTME: GeoJSON generation and parsing utilities
// ABOUTME: Converts point collections to and from GeoJSON FeatureCollections

package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/harper/pointedit/internal/models"
	"github.com/harper/pointedit/internal/points"
)

// DefaultFilename is the name offered for exported collections.
const DefaultFilename = "points.json"

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
// Coordinates is kept raw so non-point geometries can be skipped on import.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// PointCoordinates represents [longitude, latitude] for a Point.
type PointCoordinates [2]float64

// ToFeatureCollection converts points to a FeatureCollection of Point features.
// Coordinates are written [longitude, latitude], reversed from storage order.
func ToFeatureCollection(pts models.Collection) (*FeatureCollection, error) {
	features := make([]Feature, 0, len(pts))

	for _, p := range pts {
		coords, err := json.Marshal(PointCoordinates{p.Location.Lng(), p.Location.Lat()})
		if err != nil {
			return nil, fmt.Errorf("marshal coordinates: %w", err)
		}

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: coords,
			},
			Properties: map[string]interface{}{
				"label": p.Label,
			},
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}, nil
}

// ImportResult holds the commands built from a FeatureCollection.
type ImportResult struct {
	Commands []points.Command
	Imported int
	Skipped  int
}

// Parse decodes a GeoJSON document that must be a FeatureCollection.
func Parse(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unsupported geojson type: %q (expected FeatureCollection)", fc.Type)
	}
	return &fc, nil
}

// ToCommands turns each Point feature into an AddPoint, followed by a
// LabelPoint when the feature carries a string label. existing is the length
// of the collection the commands will be applied to. Non-point features are
// skipped.
func (fc *FeatureCollection) ToCommands(existing int) (*ImportResult, error) {
	result := &ImportResult{}
	next := existing

	for i, f := range fc.Features {
		if f.Geometry.Type != "Point" {
			result.Skipped++
			continue
		}

		var coords []float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("feature %d: %w: %v", i, models.ErrInvalidLocation, err)
		}
		if len(coords) < 2 {
			return nil, fmt.Errorf("feature %d: %w: need [longitude, latitude]", i, models.ErrInvalidLocation)
		}

		add, err := points.NewAddPoint(models.PairInput(coords[1], coords[0]))
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		result.Commands = append(result.Commands, add)

		if label, ok := f.Properties["label"].(string); ok {
			result.Commands = append(result.Commands, points.NewLabelPoint(next, label))
		}
		next++
		result.Imported++
	}

	return result, nil
}

// ToJSON serializes a FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
