package farm

import (
	"encoding/json"
	"math"
	"testing"
)

const scenarioPolygon = `{"type":"Polygon","coordinates":[[[106.8,-6.2],[106.81,-6.2],[106.81,-6.21],[106.8,-6.21],[106.8,-6.2]]]}`

// TestNormalizeBarePolygon verifies a raw Polygon passes through untouched.
func TestNormalizeBarePolygon(t *testing.T) {
	g, err := NormalizeGeoJSON(scenarioPolygon)
	if err != nil {
		t.Fatalf("NormalizeGeoJSON: %v", err)
	}
	if g.Type != "Polygon" {
		t.Errorf("expected Polygon, got %q", g.Type)
	}
}

// TestNormalizeFeatureCollectionRoundTrip verifies that normalizing a
// FeatureCollection wrapping one Polygon feature yields the same ring
// coordinates as normalizing the bare Polygon directly.
func TestNormalizeFeatureCollectionRoundTrip(t *testing.T) {
	wrapped := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":` + scenarioPolygon + `}]}`

	bare, err := NormalizeGeoJSON(scenarioPolygon)
	if err != nil {
		t.Fatalf("normalize bare polygon: %v", err)
	}
	fromCollection, err := NormalizeGeoJSON(wrapped)
	if err != nil {
		t.Fatalf("normalize feature collection: %v", err)
	}

	if fromCollection.Type != bare.Type {
		t.Errorf("type mismatch: %q vs %q", fromCollection.Type, bare.Type)
	}

	var a, b [][][]float64
	if err := json.Unmarshal(bare.Coordinates, &a); err != nil {
		t.Fatalf("decode bare coordinates: %v", err)
	}
	if err := json.Unmarshal(fromCollection.Coordinates, &b); err != nil {
		t.Fatalf("decode unwrapped coordinates: %v", err)
	}
	if len(a[0]) != len(b[0]) {
		t.Fatalf("ring length mismatch: %d vs %d", len(a[0]), len(b[0]))
	}
	for i := range a[0] {
		if a[0][i][0] != b[0][i][0] || a[0][i][1] != b[0][i][1] {
			t.Errorf("ring coordinate %d differs: %v vs %v", i, a[0][i], b[0][i])
		}
	}
}

// TestNormalizeFeature verifies a single Feature is unwrapped to its geometry.
func TestNormalizeFeature(t *testing.T) {
	wrapped := `{"type":"Feature","properties":{"name":"plot"},"geometry":` + scenarioPolygon + `}`

	g, err := NormalizeGeoJSON(wrapped)
	if err != nil {
		t.Fatalf("NormalizeGeoJSON: %v", err)
	}
	if g.Type != "Polygon" {
		t.Errorf("expected Polygon after unwrap, got %q", g.Type)
	}
}

// TestNormalizeRejectsMalformed covers malformed JSON and structurally
// invalid GeoJSON payloads.
func TestNormalizeRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not json", "not-geojson{"},
		{"missing type", `{"coordinates":[1,2]}`},
		{"missing coordinates", `{"type":"Polygon"}`},
		{"empty feature collection", `{"type":"FeatureCollection","features":[]}`},
		{"feature without geometry", `{"type":"Feature","properties":{}}`},
	}

	for _, tc := range cases {
		if _, err := NormalizeGeoJSON(tc.raw); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}

// TestValidatePoint accepts a Point and rejects other types.
func TestValidatePoint(t *testing.T) {
	if err := ValidatePoint(`{"type":"Point","coordinates":[106.8,-6.2]}`); err != nil {
		t.Errorf("valid point rejected: %v", err)
	}
	if err := ValidatePoint(scenarioPolygon); err == nil {
		t.Error("polygon accepted as point")
	}
	if err := ValidatePoint(`{"type":"Point","coordinates":[106.8]}`); err == nil {
		t.Error("single-coordinate point accepted")
	}
}

// TestCentroidPolygon verifies the bbox-midpoint rule on the scenario
// polygon: ((min+max)/2 for both axes).
func TestCentroidPolygon(t *testing.T) {
	g, err := NormalizeGeoJSON(scenarioPolygon)
	if err != nil {
		t.Fatalf("NormalizeGeoJSON: %v", err)
	}
	lat, lng, err := Centroid(g)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	if math.Abs(lat-(-6.205)) > 1e-9 {
		t.Errorf("expected lat -6.205, got %v", lat)
	}
	if math.Abs(lng-106.805) > 1e-9 {
		t.Errorf("expected lng 106.805, got %v", lng)
	}
}

// TestCentroidMultiPolygonUsesFirstPolygon verifies only the first polygon
// contributes to the centroid.
func TestCentroidMultiPolygonUsesFirstPolygon(t *testing.T) {
	multi := `{"type":"MultiPolygon","coordinates":[` +
		`[[[106.8,-6.2],[106.81,-6.2],[106.81,-6.21],[106.8,-6.21],[106.8,-6.2]]],` +
		`[[[0,0],[1,0],[1,1],[0,1],[0,0]]]]}`

	g, err := NormalizeGeoJSON(multi)
	if err != nil {
		t.Fatalf("NormalizeGeoJSON: %v", err)
	}
	lat, lng, err := Centroid(g)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	if math.Abs(lat-(-6.205)) > 1e-9 || math.Abs(lng-106.805) > 1e-9 {
		t.Errorf("second polygon leaked into centroid: lat=%v lng=%v", lat, lng)
	}
}

// TestCentroidRejectsShortCoordinates verifies rings with truncated
// coordinate pairs return an error instead of panicking. Such payloads pass
// normalization (type and coordinates are present), so Centroid must reject
// them itself.
func TestCentroidRejectsShortCoordinates(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"short first coordinate", `{"type":"Polygon","coordinates":[[[106.8]]]}`},
		{"short later coordinate", `{"type":"Polygon","coordinates":[[[106.8,-6.2],[106.81]]]}`},
		{"short multipolygon coordinate", `{"type":"MultiPolygon","coordinates":[[[[106.8]]]]}`},
	}

	for _, tc := range cases {
		g, err := NormalizeGeoJSON(tc.raw)
		if err != nil {
			t.Fatalf("%s: NormalizeGeoJSON: %v", tc.name, err)
		}
		if _, _, err := Centroid(g); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}

// TestCentroidPoint verifies a Point is its own centroid.
func TestCentroidPoint(t *testing.T) {
	g, err := NormalizeGeoJSON(`{"type":"Point","coordinates":[106.8,-6.2]}`)
	if err != nil {
		t.Fatalf("NormalizeGeoJSON: %v", err)
	}
	lat, lng, err := Centroid(g)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	if lat != -6.2 || lng != 106.8 {
		t.Errorf("expected (-6.2, 106.8), got (%v, %v)", lat, lng)
	}
}

// TestDisplayGeometryPrecedence verifies the single-accessor precedence rule:
// verified geometry only counts while the farm is VERIFIED.
func TestDisplayGeometryPrecedence(t *testing.T) {
	point := `{"type":"Point","coordinates":[106.8,-6.2]}`
	poly := scenarioPolygon

	f := Farm{InputCoordinates: point, Status: StatusPendingVerification}
	if got := f.DisplayGeometry(); got != point {
		t.Errorf("pending farm should display input coordinates, got %s", got)
	}

	f.VerifiedGeometry = &poly
	if got := f.DisplayGeometry(); got != point {
		t.Errorf("non-verified farm must not display verified geometry, got %s", got)
	}

	f.Status = StatusVerified
	if got := f.DisplayGeometry(); got != poly {
		t.Errorf("verified farm should display verified geometry, got %s", got)
	}
}
