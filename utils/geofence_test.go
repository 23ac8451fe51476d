package utils

import "testing"

var squareBoundary = []byte(`{
	"type": "Polygon",
	"coordinates": [[
		[121.0, 14.0], [121.1, 14.0], [121.1, 14.1], [121.0, 14.1], [121.0, 14.0]
	]]
}`)

func TestParseBoundary(t *testing.T) {
	poly, err := ParseBoundary(squareBoundary)
	if err != nil {
		t.Fatalf("valid boundary rejected: %v", err)
	}
	if len(poly) != 1 {
		t.Fatalf("expected single-ring polygon, got %d rings", len(poly))
	}

	if _, err := ParseBoundary([]byte(`{"type":"Point","coordinates":[1,2]}`)); err == nil {
		t.Error("non-polygon geometry should be rejected")
	}
	if _, err := ParseBoundary([]byte(`not json`)); err == nil {
		t.Error("garbage input should be rejected")
	}
	if poly, err := ParseBoundary(nil); err != nil || poly != nil {
		t.Error("empty boundary should parse to nil without error")
	}
}

func TestParseBoundaryRange(t *testing.T) {
	bad := []byte(`{"type":"Polygon","coordinates":[[[200,14],[121.1,14],[121.1,14.1],[200,14]]]}`)
	if _, err := ParseBoundary(bad); err == nil {
		t.Error("out-of-range longitude should be rejected")
	}
}

func TestPointInBoundary(t *testing.T) {
	poly, err := ParseBoundary(squareBoundary)
	if err != nil {
		t.Fatal(err)
	}

	if !PointInBoundary(121.05, 14.05, poly) {
		t.Error("center point should be inside")
	}
	if PointInBoundary(120.5, 14.05, poly) {
		t.Error("point west of boundary should be outside")
	}
	if PointInBoundary(121.05, 14.05, nil) {
		t.Error("nil polygon contains nothing")
	}
}
