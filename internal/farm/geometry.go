package farm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// GeoJSON is a parsed geometry payload after wrapper unwrapping. Coordinates
// are kept raw; per-type decoding happens where it's needed.
type GeoJSON struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type geoEnvelope struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometry    *geoEnvelope    `json:"geometry"`
	Features    []geoEnvelope   `json:"features"`
}

var errEmptyGeometry = errors.New("geometry payload is empty")

// NormalizeGeoJSON parses raw GeoJSON text and unwraps Feature and
// FeatureCollection wrappers: a Feature yields its geometry, a
// FeatureCollection yields its first feature's geometry, raw
// Point/Polygon/MultiPolygon pass through. The result must carry both a type
// and coordinates.
func NormalizeGeoJSON(raw string) (*GeoJSON, error) {
	if raw == "" {
		return nil, errEmptyGeometry
	}

	var env geoEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("malformed GeoJSON: %w", err)
	}

	switch env.Type {
	case "Feature":
		if env.Geometry == nil {
			return nil, errors.New("Feature has no geometry")
		}
		env = *env.Geometry
	case "FeatureCollection":
		if len(env.Features) == 0 {
			return nil, errors.New("FeatureCollection has no features")
		}
		if env.Features[0].Geometry == nil {
			return nil, errors.New("FeatureCollection feature has no geometry")
		}
		env = *env.Features[0].Geometry
	}

	if env.Type == "" || len(env.Coordinates) == 0 {
		return nil, errors.New("GeoJSON must have type and coordinates")
	}

	return &GeoJSON{Type: env.Type, Coordinates: env.Coordinates}, nil
}

// ValidatePoint checks that raw is a GeoJSON Point with a [lng, lat] pair.
func ValidatePoint(raw string) error {
	g, err := NormalizeGeoJSON(raw)
	if err != nil {
		return err
	}
	if g.Type != "Point" {
		return fmt.Errorf("expected a GeoJSON Point, got %q", g.Type)
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil || len(coords) < 2 {
		return errors.New("Point coordinates must be a [lng, lat] pair")
	}
	return nil
}

// Centroid computes the bounding-box midpoint of a geometry's outer ring.
// For a MultiPolygon only the first polygon is considered. This is a map
// re-centering aid, not an area centroid.
func Centroid(g *GeoJSON) (lat, lng float64, err error) {
	var ring [][]float64

	switch g.Type {
	case "Point":
		var coords []float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil || len(coords) < 2 {
			return 0, 0, errors.New("Point coordinates must be a [lng, lat] pair")
		}
		return coords[1], coords[0], nil
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil || len(rings) == 0 {
			return 0, 0, errors.New("Polygon must have at least one ring")
		}
		ring = rings[0]
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil || len(polys) == 0 || len(polys[0]) == 0 {
			return 0, 0, errors.New("MultiPolygon must have at least one polygon")
		}
		ring = polys[0][0]
	default:
		return 0, 0, fmt.Errorf("unsupported geometry type %q", g.Type)
	}

	if len(ring) == 0 {
		return 0, 0, errors.New("ring has no coordinates")
	}
	for _, pt := range ring {
		if len(pt) < 2 {
			return 0, 0, errors.New("ring coordinate must be a [lng, lat] pair")
		}
	}

	minLat, maxLat := ring[0][1], ring[0][1]
	minLng, maxLng := ring[0][0], ring[0][0]
	for _, pt := range ring {
		if pt[1] < minLat {
			minLat = pt[1]
		}
		if pt[1] > maxLat {
			maxLat = pt[1]
		}
		if pt[0] < minLng {
			minLng = pt[0]
		}
		if pt[0] > maxLng {
			maxLng = pt[0]
		}
	}

	return (minLat + maxLat) / 2, (minLng + maxLng) / 2, nil
}

// geometryText accepts a geometry field that may arrive either as a JSON
// object or as a JSON-encoded string (the wire format stores GeoJSON as text)
// and returns the GeoJSON text.
func geometryText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errEmptyGeometry
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("malformed geometry string: %w", err)
		}
		return s, nil
	}
	return string(raw), nil
}
