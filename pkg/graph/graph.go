// Package graph defines the Graph interface the routing core depends on
// (spec §6) and a concrete in-memory/serializable implementation, Store.
package graph

import "h3route/pkg/h3cell"

// NodeType tags a cell's role in the graph. Both capabilities may be true.
type NodeType struct {
	Origin      bool
	Destination bool
}

// IsOrigin reports whether the cell may be used as a search origin.
func (nt NodeType) IsOrigin() bool { return nt.Origin }

// IsDestination reports whether the cell may be used as a search destination.
func (nt NodeType) IsDestination() bool { return nt.Destination }

// CellSet is the narrow membership-test interface LongEdge.IsDisjoint
// accepts and the Dijkstra engine's destination set satisfies. Kept here (rather
// than importing pkg/routing, which imports pkg/graph) to avoid a cycle.
type CellSet interface {
	Contains(c h3cell.Cell) bool
}

// EdgeRecord is what the graph returns for a unit edge (spec §3): the unit
// edge's own weight, and optionally a long edge that starts with that same
// unit edge.
type EdgeRecord struct {
	Weight         uint32
	LongEdge       *LongEdge
	LongEdgeWeight uint32
}

// HasLongEdge reports whether this edge's record carries a long-edge
// alternative.
func (r EdgeRecord) HasLongEdge() bool { return r.LongEdge != nil }

// GapBridgedCellNode is produced by a graph for a user-supplied cell: the
// cell itself if it was on-graph, the nearest on-graph cell within the
// caller's gap budget, or no corresponding cell at all.
type GapBridgedCellNode struct {
	cell                 h3cell.Cell
	correspondingInGraph h3cell.Cell
	hasCorrespondingCell bool
}

// NewGapBridgedCellNode constructs a node mapping cell to its graph anchor.
func NewGapBridgedCellNode(cell h3cell.Cell, anchor h3cell.Cell, found bool) GapBridgedCellNode {
	return GapBridgedCellNode{cell: cell, correspondingInGraph: anchor, hasCorrespondingCell: found}
}

// Cell returns the original, user-supplied cell.
func (g GapBridgedCellNode) Cell() h3cell.Cell { return g.cell }

// CorrespondingCellInGraph returns the on-graph anchor cell, if one was
// found within the gap budget.
func (g GapBridgedCellNode) CorrespondingCellInGraph() (h3cell.Cell, bool) {
	return g.correspondingInGraph, g.hasCorrespondingCell
}

// Graph is the small interface the routing core depends on (spec §6). It
// never sees H3 internals directly beyond cell/edge identity.
type Graph interface {
	// H3Resolution returns the resolution all graph cells are indexed at.
	H3Resolution() h3cell.Resolution

	// NodeType returns the node-type capabilities of cell, or false if the
	// cell is not a member of the graph.
	NodeType(cell h3cell.Cell) (NodeType, bool)

	// GetEdge returns the edge record for a unit edge, or false if the
	// graph has no data for it.
	GetEdge(edge h3cell.Edge) (EdgeRecord, bool)

	// GapBridgedCellNodes resolves each of cells (already normalized to
	// H3Resolution()) to a GapBridgedCellNode, using predicate to decide
	// which node-type capability qualifies as "on-graph" and gap as the
	// maximum number of hops tolerated between a cell and the nearest
	// qualifying cell.
	GapBridgedCellNodes(cells []h3cell.Cell, predicate func(NodeType) bool, gap uint32) []GapBridgedCellNode
}
