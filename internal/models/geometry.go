package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Supported GeoJSON geometry types.
const (
	GeometryPoint        = "Point"
	GeometryPolygon      = "Polygon"
	GeometryMultiPolygon = "MultiPolygon"
)

// Geometry represents a GeoJSON geometry object.
// Coordinates follow GeoJSON order: [lon,lat]. Point, Polygon and MultiPolygon
// are decoded; any other type is carried through untouched as raw JSON and
// contributes no bounds.
type Geometry struct {
	Type         string
	Point        [2]float64
	Polygon      [][][2]float64
	MultiPolygon [][][][2]float64
	raw          json.RawMessage
}

// LatLng is a WGS84 coordinate in map (lat, lng) order.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal geometry: %w", err)
	}

	g.Type = geom.Type
	switch geom.Type {
	case GeometryPoint:
		if err := json.Unmarshal(geom.Coordinates, &g.Point); err != nil {
			return fmt.Errorf("failed to unmarshal point coordinates: %w", err)
		}
	case GeometryPolygon:
		if err := json.Unmarshal(geom.Coordinates, &g.Polygon); err != nil {
			return fmt.Errorf("failed to unmarshal polygon coordinates: %w", err)
		}
	case GeometryMultiPolygon:
		if err := json.Unmarshal(geom.Coordinates, &g.MultiPolygon); err != nil {
			return fmt.Errorf("failed to unmarshal multipolygon coordinates: %w", err)
		}
	default:
		g.raw = append(json.RawMessage(nil), data...)
	}

	return nil
}

// MarshalJSON implements json.Marshaler for API responses.
// Returns GeoJSON-compliant format for frontend consumption.
func (g Geometry) MarshalJSON() ([]byte, error) {
	var coords interface{}
	switch g.Type {
	case GeometryPoint:
		coords = g.Point
	case GeometryPolygon:
		coords = g.Polygon
	case GeometryMultiPolygon:
		coords = g.MultiPolygon
	default:
		if len(g.raw) > 0 {
			return g.raw, nil
		}
		return []byte("null"), nil
	}

	return json.Marshal(struct {
		Type        string      `json:"type"`
		Coordinates interface{} `json:"coordinates"`
	}{
		Type:        g.Type,
		Coordinates: coords,
	})
}

// IsPoint reports whether the geometry renders as a point marker.
func (g *Geometry) IsPoint() bool {
	return g != nil && g.Type == GeometryPoint
}

// Bounds returns the bounding box of the geometry.
func (g *Geometry) Bounds() BBox {
	box := EmptyBBox()
	if g == nil {
		return box
	}

	switch g.Type {
	case GeometryPoint:
		box.Extend(g.Point)
	case GeometryPolygon:
		for _, ring := range g.Polygon {
			for _, pt := range ring {
				box.Extend(pt)
			}
		}
	case GeometryMultiPolygon:
		for _, poly := range g.MultiPolygon {
			for _, ring := range poly {
				for _, pt := range ring {
					box.Extend(pt)
				}
			}
		}
	}
	return box
}

// Center returns the centre of the geometry's bounding box, used to fly the
// camera to a selected plot. ok is false for empty or unsupported geometry.
func (g *Geometry) Center() (LatLng, bool) {
	return g.Bounds().Center()
}

// BBox is an axis-aligned bounding box in lon/lat degrees.
type BBox struct {
	MinLng float64 `json:"minLng"`
	MinLat float64 `json:"minLat"`
	MaxLng float64 `json:"maxLng"`
	MaxLat float64 `json:"maxLat"`
}

// EmptyBBox returns a box that contains nothing; extending it with any point
// makes it valid.
func EmptyBBox() BBox {
	return BBox{
		MinLng: math.Inf(1),
		MinLat: math.Inf(1),
		MaxLng: math.Inf(-1),
		MaxLat: math.Inf(-1),
	}
}

// Extend grows the box to include a [lon,lat] position.
func (b *BBox) Extend(pt [2]float64) {
	b.MinLng = math.Min(b.MinLng, pt[0])
	b.MinLat = math.Min(b.MinLat, pt[1])
	b.MaxLng = math.Max(b.MaxLng, pt[0])
	b.MaxLat = math.Max(b.MaxLat, pt[1])
}

// Union grows the box to include another box.
func (b *BBox) Union(other BBox) {
	if !other.Valid() {
		return
	}
	b.Extend([2]float64{other.MinLng, other.MinLat})
	b.Extend([2]float64{other.MaxLng, other.MaxLat})
}

// Valid reports whether the box contains at least one position.
func (b BBox) Valid() bool {
	return b.MinLng <= b.MaxLng && b.MinLat <= b.MaxLat
}

// Center returns the midpoint of the box.
func (b BBox) Center() (LatLng, bool) {
	if !b.Valid() {
		return LatLng{}, false
	}
	return LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}, true
}
