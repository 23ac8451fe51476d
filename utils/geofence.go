package utils

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ParseBoundary decodes a field boundary stored as GeoJSON and checks
// it is a usable polygon. An empty boundary is fine, boundaries are
// optional.
func ParseBoundary(raw []byte) (orb.Polygon, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid boundary GeoJSON: %w", err)
	}
	poly, ok := geom.Geometry().(orb.Polygon)
	if !ok {
		return nil, errors.New("field boundary must be a GeoJSON Polygon")
	}
	if len(poly) == 0 || len(poly[0]) < 4 {
		return nil, errors.New("boundary polygon needs at least 3 distinct points")
	}
	for _, ring := range poly {
		for _, pt := range ring {
			if pt.Lat() < -90 || pt.Lat() > 90 || pt.Lon() < -180 || pt.Lon() > 180 {
				return nil, fmt.Errorf("coordinate (%.6f, %.6f) out of range", pt.Lon(), pt.Lat())
			}
		}
	}
	return poly, nil
}

// PointInBoundary reports whether a device's GPS position falls inside
// the field boundary.
func PointInBoundary(lon, lat float64, poly orb.Polygon) bool {
	if len(poly) == 0 {
		return false
	}
	return planar.PolygonContains(poly, orb.Point{lon, lat})
}
