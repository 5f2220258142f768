// ABOUTME: Core data models for points and point collections
// ABOUTME: Provides canonical locations, location input normalization, and validation

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidLocation is returned when a location cannot be normalized
// into a [latitude, longitude] pair.
var ErrInvalidLocation = errors.New("invalid location")

// Label validation errors.
var (
	ErrLabelEmpty   = errors.New("label cannot be empty or whitespace")
	ErrLabelTooLong = errors.New("label too long")
)

// MaxLabelLength is the longest label accepted from interactive entry, in bytes.
const MaxLabelLength = 255

// ValidateCoordinates checks if latitude and longitude are within valid ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateLabel checks if a label is usable as a user-entered point label.
// The point store itself accepts any string; this is for interactive entry.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return ErrLabelEmpty
	}
	if len(label) > MaxLabelLength {
		return fmt.Errorf("%w (max %d characters)", ErrLabelTooLong, MaxLabelLength)
	}
	return nil
}

// Location is the canonical [latitude, longitude] pair.
type Location [2]float64

// NewLocation builds a canonical location.
func NewLocation(lat, lng float64) Location {
	return Location{lat, lng}
}

// Lat returns the latitude.
func (l Location) Lat() float64 { return l[0] }

// Lng returns the longitude.
func (l Location) Lng() float64 { return l[1] }

// Finite reports whether both components are real numbers.
func (l Location) Finite() bool {
	for _, v := range l {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// UnmarshalJSON requires exactly two numbers.
func (l *Location) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: pair must have 2 elements, got %d", ErrInvalidLocation, len(pair))
	}
	*l = Location{pair[0], pair[1]}
	return nil
}

// String formats the location the way the point list shows it.
func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f", l[0], l[1])
}

// LocationInput is a location as supplied by a caller: either a
// two-element [lat, lng] pair or an object with lat and lng (or lon).
type LocationInput struct {
	Pair []float64
	Lat  *float64
	Lng  *float64
	Lon  *float64
}

// PairInput wraps a [lat, lng] pair.
func PairInput(lat, lng float64) LocationInput {
	return LocationInput{Pair: []float64{lat, lng}}
}

// LatLngInput wraps a {lat, lng} object.
func LatLngInput(lat, lng float64) LocationInput {
	return LocationInput{Lat: &lat, Lng: &lng}
}

// LatLonInput wraps a {lat, lon} object.
func LatLonInput(lat, lon float64) LocationInput {
	return LocationInput{Lat: &lat, Lon: &lon}
}

// Normalize converts the input into the canonical pair.
// lng takes precedence over lon when both are present.
func (in LocationInput) Normalize() (Location, error) {
	var loc Location
	switch {
	case in.Pair != nil:
		if len(in.Pair) != 2 {
			return Location{}, fmt.Errorf("%w: pair must have 2 elements, got %d", ErrInvalidLocation, len(in.Pair))
		}
		loc = Location{in.Pair[0], in.Pair[1]}
	case in.Lat == nil:
		return Location{}, fmt.Errorf("%w: missing lat", ErrInvalidLocation)
	case in.Lng != nil:
		loc = Location{*in.Lat, *in.Lng}
	case in.Lon != nil:
		loc = Location{*in.Lat, *in.Lon}
	default:
		return Location{}, fmt.Errorf("%w: missing lng or lon", ErrInvalidLocation)
	}

	if !loc.Finite() {
		return Location{}, fmt.Errorf("%w: coordinates must be finite", ErrInvalidLocation)
	}
	return loc, nil
}

type latLngObject struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
	Lon *float64 `json:"lon"`
}

// UnmarshalJSON accepts either [lat, lng] or {"lat":..,"lng"|"lon":..}.
func (in *LocationInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidLocation, err)
		}
		*in = LocationInput{Pair: pair}
		return nil
	}

	var obj latLngObject
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	*in = LocationInput{Lat: obj.Lat, Lng: obj.Lng, Lon: obj.Lon}
	return nil
}

// MarshalJSON writes the input back in the shape it arrived in.
func (in LocationInput) MarshalJSON() ([]byte, error) {
	if in.Pair != nil {
		return json.Marshal(in.Pair)
	}
	return json.Marshal(latLngObject{Lat: in.Lat, Lng: in.Lng, Lon: in.Lon})
}

// Point is a labeled location.
type Point struct {
	Location Location `json:"location" yaml:"location"`
	Label    string   `json:"label" yaml:"label"`
}

// Collection is the ordered list of points. Positions are the only identity.
type Collection []Point

// Clone returns a copy that shares no backing array with c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// InRange reports whether index addresses an element of c.
func (c Collection) InRange(index int) bool {
	return index >= 0 && index < len(c)
}

// DefaultLabel returns the label given to a point added to a collection of length n.
func DefaultLabel(n int) string {
	return fmt.Sprintf("Point %d", n+1)
}
