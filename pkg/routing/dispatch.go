package routing

import (
	"sync"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
)

// ShortestPath runs a single-origin search: gap-bridge originCell and
// destinationCells onto the graph, then run EdgeDijkstra once.
func ShortestPath(g graph.Graph, originCell h3cell.Cell, destinationCells []h3cell.Cell, opts Options) ([]Path, error) {
	anchors := FilteredOriginCells(g, opts.GapCellsToGraph, []h3cell.Cell{originCell})
	if len(anchors) == 0 {
		return nil, nil
	}

	destAnchors, err := FilteredDestinationCells(g, opts.GapCellsToGraph, destinationCells)
	if err != nil {
		return nil, err
	}
	destinations := NewDestinationSet(anchorKeys(destAnchors))

	return EdgeDijkstra(g, anchors[0].GraphCell, destinations, opts, identity), nil
}

// identity is the no-op path_transform ShortestPath and ShortestPathManyToMany
// pass to the generic engine, mirroring the original source building
// shortest_path_many_to_many as shortest_path_many_to_many_map(..., |path| path).
func identity(p Path) Path { return p }

// ShortestPathManyToMany runs a search from every origin cell to every
// destination cell, in parallel across origins, and returns the found
// paths keyed by the user's original origin cell (not the graph anchor it
// bridged to). Every user cell sharing an anchor is mapped to that
// anchor's result slice; the slice is shared between those keys, not copied.
func ShortestPathManyToMany(g graph.Graph, originCells, destinationCells []h3cell.Cell, opts Options) (map[h3cell.Cell][]Path, error) {
	return ShortestPathManyToManyMap(g, originCells, destinationCells, opts, identity)
}

// ShortestPathManyToManyMap is ShortestPathManyToMany generalized over the
// per-path transform applied inside the engine (spec §6's
// shortest_path_many_to_many_map), letting a caller fold each Path into
// whatever shape it needs (a cost, a GeoJSON feature) without making a
// second pass over the results.
func ShortestPathManyToManyMap[O any](g graph.Graph, originCells, destinationCells []h3cell.Cell, opts Options, transform func(Path) O) (map[h3cell.Cell][]O, error) {
	anchors := FilteredOriginCells(g, opts.GapCellsToGraph, originCells)
	if len(anchors) == 0 {
		return map[h3cell.Cell][]O{}, nil
	}

	destAnchors, err := FilteredDestinationCells(g, opts.GapCellsToGraph, destinationCells)
	if err != nil {
		return nil, err
	}
	destinations := NewDestinationSet(anchorKeys(destAnchors))

	// Fan out one goroutine per distinct graph-connected origin anchor.
	// Each slot in results is written by exactly one goroutine, so no
	// locking is needed around the slice itself — mirrors the teacher's
	// cmd/visualize goroutine-per-upstream-call + sync.WaitGroup fan-out.
	results := make([][]O, len(anchors))
	var wg sync.WaitGroup
	wg.Add(len(anchors))
	for i, anchor := range anchors {
		go func(i int, anchor OriginAnchor) {
			defer wg.Done()
			results[i] = EdgeDijkstra(g, anchor.GraphCell, destinations, opts, transform)
		}(i, anchor)
	}
	wg.Wait()

	out := make(map[h3cell.Cell][]O, len(originCells))
	for i, anchor := range anchors {
		for _, userCell := range anchor.UserCells {
			out[userCell] = results[i]
		}
	}
	return out, nil
}

func anchorKeys(m map[h3cell.Cell]h3cell.Cell) []h3cell.Cell {
	out := make([]h3cell.Cell, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
