package ingest

import (
	"testing"

	"github.com/paulmach/osm"

	"h3route/pkg/h3cell"
	osmparser "h3route/pkg/osm"
)

func TestBuildFromParsedSnapsAdjacentNodesToOneEdge(t *testing.T) {
	res := h3cell.Resolution(6)
	a := h3cell.NewCell(res, 0, 0)
	b := a.Neighbor(2)
	aLat, aLng := h3cell.Centroid(a)
	bLat, bLng := h3cell.Centroid(b)

	parsed := &osmparser.ParseResult{
		Edges: []osmparser.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, Weight: 500},
		},
		NodeLat: map[osm.NodeID]float64{1: aLat, 2: bLat},
		NodeLon: map[osm.NodeID]float64{1: aLng, 2: bLng},
	}

	s := buildFromParsed(parsed, Options{Resolution: res})

	edge, ok := h3cell.EdgeBetween(a, b)
	if !ok {
		t.Fatalf("test setup error: a and b are not neighbors")
	}
	rec, ok := s.GetEdge(edge)
	if !ok {
		t.Fatalf("GetEdge(%s) not found", edge)
	}
	if rec.Weight != 500 {
		t.Errorf("Weight = %d, want 500", rec.Weight)
	}
}

func TestBuildFromParsedCollapsesSameCellEdge(t *testing.T) {
	res := h3cell.Resolution(6)
	c := h3cell.NewCell(res, 3, 3)
	lat, lng := h3cell.Centroid(c)

	// Two OSM nodes close enough to snap onto the same cell.
	parsed := &osmparser.ParseResult{
		Edges: []osmparser.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, Weight: 10},
		},
		NodeLat: map[osm.NodeID]float64{1: lat, 2: lat},
		NodeLon: map[osm.NodeID]float64{1: lng, 2: lng},
	}

	s := buildFromParsed(parsed, Options{Resolution: res})
	if s.NumEdges() != 0 {
		t.Errorf("NumEdges() = %d, want 0 (same-cell edge should collapse)", s.NumEdges())
	}
}

func TestBuildFromParsedBridgesDistantNodes(t *testing.T) {
	res := h3cell.Resolution(6)
	a := h3cell.NewCell(res, 0, 0)
	b := h3cell.NewCell(res, 6, -3)
	aLat, aLng := h3cell.Centroid(a)
	bLat, bLng := h3cell.Centroid(b)

	parsed := &osmparser.ParseResult{
		Edges: []osmparser.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, Weight: 6000},
		},
		NodeLat: map[osm.NodeID]float64{1: aLat, 2: bLat},
		NodeLon: map[osm.NodeID]float64{1: aLng, 2: bLng},
	}

	s := buildFromParsed(parsed, Options{Resolution: res})

	chain := h3cell.LineCells(a, b)
	if s.NumEdges() != len(chain)-1 {
		t.Errorf("NumEdges() = %d, want %d (one per hop along the bridged chain)", s.NumEdges(), len(chain)-1)
	}
	for i := 0; i < len(chain)-1; i++ {
		edge, _ := h3cell.EdgeBetween(chain[i], chain[i+1])
		if _, ok := s.GetEdge(edge); !ok {
			t.Errorf("missing edge for hop %d: %s", i, edge)
		}
	}
}

func TestBuildFromParsedSkipsEdgeWithMissingCoordinates(t *testing.T) {
	res := h3cell.Resolution(6)
	parsed := &osmparser.ParseResult{
		Edges: []osmparser.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, Weight: 100},
		},
		NodeLat: map[osm.NodeID]float64{1: 10},
		NodeLon: map[osm.NodeID]float64{1: 10},
	}

	s := buildFromParsed(parsed, Options{Resolution: res})
	if s.NumEdges() != 0 {
		t.Errorf("NumEdges() = %d, want 0 (destination node has no coordinates)", s.NumEdges())
	}
}
