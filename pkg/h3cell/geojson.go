package h3cell

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CellFeature renders a single cell's boundary as a GeoJSON polygon
// feature, with its resolution and axial coordinates as properties. Used
// by cmd/preprocess's sample dumps.
func CellFeature(c Cell) *geojson.Feature {
	ring := Boundary(c)
	f := geojson.NewFeature(orb.Polygon{ring})
	q, r := c.Coords()
	f.Properties["resolution"] = int(c.Resolution())
	f.Properties["q"] = int(q)
	f.Properties["r"] = int(r)
	return f
}

// CellsFeatureCollection renders a set of cells as a GeoJSON feature
// collection of their boundaries.
func CellsFeatureCollection(cells []Cell) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range cells {
		fc.Append(CellFeature(c))
	}
	return fc
}

// PathFeature renders a path (an origin cell plus the unit edges leaving
// it in sequence) as a GeoJSON line-string feature through each cell's
// centroid, suitable for quick visual inspection of a routing result.
func PathFeature(origin Cell, edges []Edge) *geojson.Feature {
	line := make(orb.LineString, 0, len(edges)+1)
	lat, lng := Centroid(origin)
	line = append(line, orb.Point{lng, lat})
	for _, e := range edges {
		lat, lng := Centroid(e.DestinationCell())
		line = append(line, orb.Point{lng, lat})
	}
	return geojson.NewFeature(line)
}
