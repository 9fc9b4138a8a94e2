// Package snap resolves a raw lat/lng query point to the nearest on-graph
// H3 cell, using an R-tree over cell centroids. It is a convenience layer
// in front of the routing core's anchoring step (pkg/routing), not a
// replacement for it: snap answers "which cell is this point near", while
// the routing core's gap-bridging answers "is this cell within N hops of
// the graph" over H3 adjacency, not geographic distance.
package snap

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"h3route/pkg/geo"
	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
)

// ErrNoCellsIndexed is returned by Nearest when the index holds no cells.
var ErrNoCellsIndexed = errors.New("snap: no cells indexed")

// searchStepDeg is the initial half-width, in degrees, of the bounding box
// used to look for candidates around a query point; it doubles on every
// empty search until a candidate is found.
const searchStepDeg = 0.01

// Index answers nearest-cell queries over a fixed set of graph cells via an
// R-tree keyed on each cell's synthetic lat/lng centroid (pkg/h3cell's flat
// projection, not a geodesic one — adequate here since the index only ever
// compares candidates against each other, via the same projection, for the
// same query point).
type Index struct {
	tree rtree.RTreeG[h3cell.Cell]
	n    int
}

// NewIndex builds an Index over every cell the graph knows about when g is
// a *graph.Store; for any other Graph implementation the index is empty.
func NewIndex(g graph.Graph) *Index {
	idx := &Index{}
	store, ok := g.(*graph.Store)
	if !ok {
		return idx
	}
	for _, c := range store.Cells() {
		idx.Insert(c)
	}
	return idx
}

// Insert adds a single cell to the index, keyed by its centroid.
func (idx *Index) Insert(c h3cell.Cell) {
	lat, lng := h3cell.Centroid(c)
	point := [2]float64{lng, lat}
	idx.tree.Insert(point, point, c)
	idx.n++
}

// Len reports how many cells the index holds.
func (idx *Index) Len() int { return idx.n }

// Nearest returns the indexed cell whose centroid is closest, by Haversine
// distance, to (lat, lng). The search box starts tight around the query
// point and doubles until it contains at least one candidate, so the cost
// of a query scales with local cell density rather than the index's total
// size.
func (idx *Index) Nearest(lat, lng float64) (h3cell.Cell, error) {
	if idx.n == 0 {
		return h3cell.Cell(0), ErrNoCellsIndexed
	}

	for half := searchStepDeg; ; half *= 2 {
		min := [2]float64{lng - half, lat - half}
		max := [2]float64{lng + half, lat + half}

		var best h3cell.Cell
		bestDist := math.Inf(1)
		found := false

		idx.tree.Search(min, max, func(_, _ [2]float64, c h3cell.Cell) bool {
			cLat, cLng := h3cell.Centroid(c)
			d := geo.Haversine(lat, lng, cLat, cLng)
			if d < bestDist {
				bestDist = d
				best = c
				found = true
			}
			return true
		})

		if found || half > 180 {
			if !found {
				return h3cell.Cell(0), ErrNoCellsIndexed
			}
			return best, nil
		}
	}
}
