package graph

import (
	"sort"

	"h3route/pkg/h3cell"
)

// Store is the concrete, map-based Graph implementation. Unlike the
// teacher's road network (a dense, small set of contiguous integer node
// IDs suited to CSR arrays), H3 cells are sparse 64-bit identifiers spread
// across a practically unbounded keyspace, so Store indexes them with maps
// instead of offset arrays. binary.go's file format still borrows the
// teacher's header+CRC32 layout, sorting the map keys into arrays on write.
type Store struct {
	resolution h3cell.Resolution
	nodes      map[h3cell.Cell]NodeType
	edges      map[h3cell.Edge]EdgeRecord
	longEdges  []*LongEdge
}

// NewStore creates an empty store at the given resolution.
func NewStore(resolution h3cell.Resolution) *Store {
	return &Store{
		resolution: resolution,
		nodes:      make(map[h3cell.Cell]NodeType),
		edges:      make(map[h3cell.Edge]EdgeRecord),
	}
}

// H3Resolution implements Graph.
func (s *Store) H3Resolution() h3cell.Resolution { return s.resolution }

// NodeType implements Graph.
func (s *Store) NodeType(cell h3cell.Cell) (NodeType, bool) {
	nt, ok := s.nodes[cell]
	return nt, ok
}

// GetEdge implements Graph.
func (s *Store) GetEdge(edge h3cell.Edge) (EdgeRecord, bool) {
	rec, ok := s.edges[edge]
	return rec, ok
}

// SetNodeType marks cell with the given node-type capabilities, merging
// with whatever was already recorded for it.
func (s *Store) SetNodeType(cell h3cell.Cell, nt NodeType) {
	existing := s.nodes[cell]
	existing.Origin = existing.Origin || nt.Origin
	existing.Destination = existing.Destination || nt.Destination
	s.nodes[cell] = existing
}

// SetEdge records (or overwrites) a unit edge's weight. Building a long
// edge chain on top of it happens separately via AttachLongEdge, since a
// unit edge is always present in its own right — a long edge is only ever
// an alternative, never a replacement.
func (s *Store) SetEdge(edge h3cell.Edge, weight uint32) {
	rec := s.edges[edge]
	rec.Weight = weight
	s.edges[edge] = rec
	s.touchEndpoints(edge)
}

func (s *Store) touchEndpoints(edge h3cell.Edge) {
	if _, ok := s.nodes[edge.OriginCell()]; !ok {
		s.nodes[edge.OriginCell()] = NodeType{}
	}
	if _, ok := s.nodes[edge.DestinationCell()]; !ok {
		s.nodes[edge.DestinationCell()] = NodeType{}
	}
}

// AttachLongEdge registers a long edge whose first unit edge is in. The
// long edge is owned by the store from this point on; callers must not
// mutate it afterward.
func (s *Store) AttachLongEdge(le *LongEdge) {
	in := le.InEdge()
	rec := s.edges[in]
	rec.LongEdge = le
	rec.LongEdgeWeight = le.Weight()
	s.edges[in] = rec
	s.longEdges = append(s.longEdges, le)
}

// LongEdges returns every long edge attached to the store, in attachment
// order. Used by serialization and by the server's long-edge counts.
func (s *Store) LongEdges() []*LongEdge {
	out := make([]*LongEdge, len(s.longEdges))
	copy(out, s.longEdges)
	return out
}

// Cells returns every cell with graph data, in no particular order. Used
// by builders and by serialization.
func (s *Store) Cells() []h3cell.Cell {
	out := make([]h3cell.Cell, 0, len(s.nodes))
	for c := range s.nodes {
		out = append(out, c)
	}
	return out
}

// NumNodes and NumEdges report the store's size, mirroring the teacher's
// CSR Graph.NumNodes/NumEdges fields.
func (s *Store) NumNodes() int { return len(s.nodes) }
func (s *Store) NumEdges() int { return len(s.edges) }

// AllEdges returns every unit edge held by the store, in no particular
// order. Used by pkg/longedge to walk the full edge set while building
// chains.
func (s *Store) AllEdges() []h3cell.Edge {
	out := make([]h3cell.Edge, 0, len(s.edges))
	for e := range s.edges {
		out = append(out, e)
	}
	return out
}

// GapBridgedCellNodes implements Graph. For each input cell already
// normalized to s.resolution, it first checks the cell itself against
// predicate, then expands outward ring by ring (via Cell.Neighbors, spec
// §3) up to gap hops, stopping at the first ring that contains a
// qualifying cell. Ties within a ring are broken deterministically by
// Cell value, matching the original source's preference for a stable,
// reproducible anchor regardless of map iteration order.
func (s *Store) GapBridgedCellNodes(cells []h3cell.Cell, predicate func(NodeType) bool, gap uint32) []GapBridgedCellNode {
	out := make([]GapBridgedCellNode, len(cells))
	for i, cell := range cells {
		anchor, found := s.nearestQualifying(cell, predicate, gap)
		out[i] = NewGapBridgedCellNode(cell, anchor, found)
	}
	return out
}

func (s *Store) qualifies(cell h3cell.Cell, predicate func(NodeType) bool) bool {
	nt, ok := s.nodes[cell]
	return ok && predicate(nt)
}

func (s *Store) nearestQualifying(cell h3cell.Cell, predicate func(NodeType) bool, gap uint32) (h3cell.Cell, bool) {
	if s.qualifies(cell, predicate) {
		return cell, true
	}
	if gap == 0 {
		return h3cell.Cell(0), false
	}

	visited := map[h3cell.Cell]bool{cell: true}
	frontier := []h3cell.Cell{cell}
	for hop := uint32(0); hop < gap; hop++ {
		var next []h3cell.Cell
		for _, c := range frontier {
			for _, n := range c.Neighbors() {
				if visited[n] {
					continue
				}
				visited[n] = true
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			break
		}
		sortCells(next)

		var best h3cell.Cell
		found := false
		for _, c := range next {
			if s.qualifies(c, predicate) {
				best = c
				found = true
				break
			}
		}
		if found {
			return best, true
		}
		frontier = next
	}
	return h3cell.Cell(0), false
}

// sortCells sorts cells by their raw value, giving ring expansion a
// deterministic candidate order independent of map iteration.
func sortCells(cells []h3cell.Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
}
