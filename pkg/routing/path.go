package routing

import "h3route/pkg/h3cell"

// Path is a found route: an ordered sequence of unit edges from Origin to
// Destination and its total Cost. Edges is always fully expanded — any
// long edge traversed along the way has already been unpacked back into
// its constituent unit edges.
type Path struct {
	Origin      h3cell.Cell
	Destination h3cell.Cell
	Cost        uint32
	Edges       []h3cell.Edge
}

// less orders paths by cost, then destination cell, then edge sequence —
// a total order so equal-cost paths still compare deterministically.
func less(a, b Path) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.Destination != b.Destination {
		return a.Destination < b.Destination
	}
	for i := 0; i < len(a.Edges) && i < len(b.Edges); i++ {
		if a.Edges[i] != b.Edges[i] {
			return a.Edges[i] < b.Edges[i]
		}
	}
	return len(a.Edges) < len(b.Edges)
}
