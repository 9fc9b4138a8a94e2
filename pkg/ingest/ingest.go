// Package ingest builds an H3-resolution routing graph from an OSM PBF road
// network extract. It sits on top of pkg/osm's raw edge parsing: pkg/osm
// knows about ways, tags and node coordinates; ingest knows how to place
// those coordinates onto the H3 grid and fold them into unit edges.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/paulmach/osm"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
	osmparser "h3route/pkg/osm"
)

// Options configures graph construction.
type Options struct {
	// Resolution is the H3 resolution the graph is built at. OSM way nodes
	// are snapped onto cells at this resolution; consecutive way nodes
	// that snap to the same cell collapse to nothing (a self-edge would
	// add no information), and nodes that snap to non-adjacent cells are
	// bridged through h3cell.LineCells so no unit-edge hop is skipped.
	Resolution h3cell.Resolution
	// BBox, if non-zero, restricts parsing to edges with both endpoints
	// inside the box. Forwarded to osm.ParseOptions.
	BBox osmparser.BBox
}

// Build parses an OSM PBF extract and returns a graph.Store whose nodes and
// edges live on the H3 grid at opts.Resolution. Every OSM way node is
// resolved to a cell via h3cell.CellFromLatLng; the way's original
// direction and per-segment distance (pkg/geo.Haversine, in the same
// millimeter units pkg/osm already computes) carry over, since snapping
// coordinates onto cells does not change how far apart two OSM nodes
// actually are. A segment bridged across several cells has its distance
// divided evenly among the unit edges of the bridge (at least 1 each).
func Build(ctx context.Context, rs io.ReadSeeker, opts Options) (*graph.Store, error) {
	parsed, err := osmparser.Parse(ctx, rs, osmparser.ParseOptions{BBox: opts.BBox})
	if err != nil {
		return nil, fmt.Errorf("parsing osm data: %w", err)
	}
	return buildFromParsed(parsed, opts), nil
}

// buildFromParsed does the H3-snapping work on an already-parsed OSM
// result. Split out from Build so it can be exercised directly in tests
// with hand-built ParseResult fixtures instead of real PBF bytes.
func buildFromParsed(parsed *osmparser.ParseResult, opts Options) *graph.Store {
	s := graph.NewStore(opts.Resolution)
	cellOf := make(map[osm.NodeID]h3cell.Cell, len(parsed.NodeLat))

	var collapsed, bridged int
	for _, e := range parsed.Edges {
		fromCell, ok := resolveCell(cellOf, parsed, e.FromNodeID, opts.Resolution)
		if !ok {
			continue
		}
		toCell, ok := resolveCell(cellOf, parsed, e.ToNodeID, opts.Resolution)
		if !ok {
			continue
		}

		if fromCell == toCell {
			collapsed++
			continue
		}

		chain := h3cell.LineCells(fromCell, toCell)
		if len(chain) < 2 {
			collapsed++
			continue
		}
		if len(chain) > 2 {
			bridged++
		}

		perHopWeight := e.Weight / uint32(len(chain)-1)
		if perHopWeight == 0 {
			perHopWeight = 1
		}
		for i := 0; i < len(chain)-1; i++ {
			edge, ok := h3cell.EdgeBetween(chain[i], chain[i+1])
			if !ok {
				// LineCells yields adjacent consecutive cells; a hop
				// between non-adjacent cells gets no edge and is skipped.
				continue
			}
			s.SetEdge(edge, perHopWeight)
		}
	}

	log.Printf("ingest: built graph with %d nodes, %d edges (%d osm edges collapsed to a single cell, %d bridged across multiple cells)",
		s.NumNodes(), s.NumEdges(), collapsed, bridged)

	return s
}

func resolveCell(cache map[osm.NodeID]h3cell.Cell, parsed *osmparser.ParseResult, id osm.NodeID, res h3cell.Resolution) (h3cell.Cell, bool) {
	if c, ok := cache[id]; ok {
		return c, true
	}
	lat, latOK := parsed.NodeLat[id]
	lng, lngOK := parsed.NodeLon[id]
	if !latOK || !lngOK {
		return h3cell.Cell(0), false
	}
	c := h3cell.CellFromLatLng(lat, lng, res)
	cache[id] = c
	return c, true
}
