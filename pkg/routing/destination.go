package routing

import (
	"sort"

	"h3route/pkg/h3cell"
)

// DestinationSet is a sorted, deduplicated set of cells, used both as the
// Dijkstra engine's membership test and as the graph.CellSet a LongEdge
// checks itself against before being taken as a shortcut. Grounded on the
// teacher's pkg/routing/snap.go flat sorted-slice + sort.Search index.
type DestinationSet struct {
	cells []h3cell.Cell
}

// NewDestinationSet builds a DestinationSet from (possibly unsorted,
// possibly duplicated) cells.
func NewDestinationSet(cells []h3cell.Cell) *DestinationSet {
	cp := make([]h3cell.Cell, len(cells))
	copy(cp, cells)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })

	out := cp[:0]
	for i, c := range cp {
		if i == 0 || c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return &DestinationSet{cells: out}
}

// Contains implements graph.CellSet.
func (ds *DestinationSet) Contains(c h3cell.Cell) bool {
	i := sort.Search(len(ds.cells), func(i int) bool { return ds.cells[i] >= c })
	return i < len(ds.cells) && ds.cells[i] == c
}

// Len returns the number of distinct destination cells.
func (ds *DestinationSet) Len() int { return len(ds.cells) }

// Cells returns the sorted, deduplicated destination cells.
func (ds *DestinationSet) Cells() []h3cell.Cell {
	cp := make([]h3cell.Cell, len(ds.cells))
	copy(cp, ds.cells)
	return cp
}
