package graph

import "h3route/pkg/h3cell"

// LongEdge is a precomputed chain of unit edges along a strictly linear
// (non-branching) run of the graph: origin -> ... -> destination, collapsed
// into one weighted jump so Dijkstra can skip the interior cells in a
// single relaxation. Built by pkg/longedge from a Store.
type LongEdge struct {
	edges  []h3cell.Edge
	weight uint32
}

// NewLongEdge builds a long edge from an ordered chain of unit edges, each
// edge's destination equal to the next edge's origin. Panics if edges has
// fewer than two elements or the chain is not contiguous, since pkg/longedge
// is the only caller and is responsible for only ever building valid chains.
func NewLongEdge(edges []h3cell.Edge, weight uint32) *LongEdge {
	if len(edges) < 2 {
		panic("graph: long edge needs at least two unit edges")
	}
	for i := 1; i < len(edges); i++ {
		if edges[i-1].DestinationCell() != edges[i].OriginCell() {
			panic("graph: long edge chain is not contiguous")
		}
	}
	cp := make([]h3cell.Edge, len(edges))
	copy(cp, edges)
	return &LongEdge{edges: cp, weight: weight}
}

// Weight is the sum weight of the collapsed chain.
func (le *LongEdge) Weight() uint32 { return le.weight }

// InEdge is the first unit edge of the chain, the one a caller already
// holds when deciding whether to take the long edge instead.
func (le *LongEdge) InEdge() h3cell.Edge { return le.edges[0] }

// OutEdge is the last unit edge of the chain.
func (le *LongEdge) OutEdge() h3cell.Edge { return le.edges[len(le.edges)-1] }

// OriginCell is the chain's starting cell.
func (le *LongEdge) OriginCell() h3cell.Cell { return le.edges[0].OriginCell() }

// DestinationCell is the chain's ending cell.
func (le *LongEdge) DestinationCell() h3cell.Cell { return le.edges[len(le.edges)-1].DestinationCell() }

// UnitEdges returns the full ordered chain of unit edges the long edge
// collapses, used by path reconstruction to expand a long-edge hop back
// into its constituent edges.
func (le *LongEdge) UnitEdges() []h3cell.Edge {
	out := make([]h3cell.Edge, len(le.edges))
	copy(out, le.edges)
	return out
}

// IsDisjoint reports whether none of the chain's interior cells — every
// destination cell except the last — belong to cs. The Dijkstra engine
// (§4.3, I4) only takes a long edge when this holds, so a destination that
// lies in the middle of the chain is never silently skipped over.
func (le *LongEdge) IsDisjoint(cs CellSet) bool {
	for i := 0; i < len(le.edges)-1; i++ {
		if cs.Contains(le.edges[i].DestinationCell()) {
			return false
		}
	}
	return true
}
