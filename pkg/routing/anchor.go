package routing

import (
	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
)

// OriginAnchor groups user-supplied origin cells that all resolved, via
// gap-bridging, to the same graph-connected cell — the cell a search
// actually needs to start from.
type OriginAnchor struct {
	GraphCell h3cell.Cell
	UserCells []h3cell.Cell
}

// FilteredOriginCells normalizes originCells to g's resolution, resolves
// each to its nearest graph-connected origin within gap hops, and groups
// them by that anchor — so a single Dijkstra run from the anchor can
// answer for every user cell that shares it. Cells with no graph
// connection within gap are silently dropped, matching the original
// source's filtered_origin_cells.
func FilteredOriginCells(g graph.Graph, gap uint32, originCells []h3cell.Cell) []OriginAnchor {
	normalized := h3cell.ChangeResolutionAll(originCells, g.H3Resolution())
	nodes := g.GapBridgedCellNodes(normalized, graph.NodeType.IsOrigin, gap)

	var order []h3cell.Cell
	byAnchor := make(map[h3cell.Cell][]h3cell.Cell)
	for _, n := range nodes {
		anchor, found := n.CorrespondingCellInGraph()
		if !found {
			continue
		}
		if _, seen := byAnchor[anchor]; !seen {
			order = append(order, anchor)
		}
		byAnchor[anchor] = append(byAnchor[anchor], n.Cell())
	}

	out := make([]OriginAnchor, len(order))
	for i, anchor := range order {
		out[i] = OriginAnchor{GraphCell: anchor, UserCells: byAnchor[anchor]}
	}
	return out
}

// FilteredDestinationCells normalizes destinationCells to g's resolution
// and resolves each to its nearest graph-connected destination within gap
// hops, returning a map from graph anchor cell to the (single) user cell
// it represents.
//
// Kept one-to-one rather than one-to-many: if two user cells bridge to
// the same anchor, the later one in destinationCells wins. The spec
// accepts this as a known limitation (see DESIGN.md, "Destination anchor
// reverse-mapping") since the dispatcher never needs the reverse mapping
// for destinations, only for origins.
//
// Returns ErrDestinationsNotInGraph if not a single destination cell is
// graph-connected — without this, a search would traverse the entire
// graph looking for destinations that can never be reached.
func FilteredDestinationCells(g graph.Graph, gap uint32, destinationCells []h3cell.Cell) (map[h3cell.Cell]h3cell.Cell, error) {
	normalized := h3cell.ChangeResolutionAll(destinationCells, g.H3Resolution())
	nodes := g.GapBridgedCellNodes(normalized, graph.NodeType.IsDestination, gap)

	out := make(map[h3cell.Cell]h3cell.Cell)
	for _, n := range nodes {
		anchor, found := n.CorrespondingCellInGraph()
		if !found {
			continue
		}
		out[anchor] = n.Cell()
	}
	if len(out) == 0 {
		return nil, ErrDestinationsNotInGraph
	}
	return out, nil
}
