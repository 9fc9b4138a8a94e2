package graph

import (
	"testing"

	"h3route/pkg/h3cell"
)

func TestStoreSetEdgeTouchesEndpoints(t *testing.T) {
	s := NewStore(5)
	origin := h3cell.NewCell(5, 0, 0)
	edge := h3cell.NewEdge(origin, 0)
	s.SetEdge(edge, 10)

	if _, ok := s.NodeType(origin); !ok {
		t.Errorf("origin cell not registered after SetEdge")
	}
	if _, ok := s.NodeType(edge.DestinationCell()); !ok {
		t.Errorf("destination cell not registered after SetEdge")
	}
	rec, ok := s.GetEdge(edge)
	if !ok || rec.Weight != 10 {
		t.Fatalf("GetEdge = %+v, %v; want weight 10, true", rec, ok)
	}
	if rec.HasLongEdge() {
		t.Errorf("fresh edge should not have a long edge")
	}
}

func TestStoreSetNodeTypeMerges(t *testing.T) {
	s := NewStore(5)
	c := h3cell.NewCell(5, 1, 1)
	s.SetNodeType(c, NodeType{Origin: true})
	s.SetNodeType(c, NodeType{Destination: true})

	nt, ok := s.NodeType(c)
	if !ok {
		t.Fatalf("cell not found")
	}
	if !nt.IsOrigin() || !nt.IsDestination() {
		t.Errorf("NodeType = %+v, want both Origin and Destination set", nt)
	}
}

func TestStoreAttachLongEdge(t *testing.T) {
	s := NewStore(5)
	a := h3cell.NewCell(5, 0, 0)
	eAB := h3cell.NewEdge(a, 0)
	b := eAB.DestinationCell()
	eBC := h3cell.NewEdge(b, 0)
	c := eBC.DestinationCell()

	s.SetEdge(eAB, 1)
	s.SetEdge(eBC, 1)

	le := NewLongEdge([]h3cell.Edge{eAB, eBC}, 2)
	s.AttachLongEdge(le)

	rec, ok := s.GetEdge(eAB)
	if !ok || !rec.HasLongEdge() {
		t.Fatalf("GetEdge(eAB) = %+v, %v; want a long edge attached", rec, ok)
	}
	if rec.LongEdge.DestinationCell() != c {
		t.Errorf("long edge destination = %s, want %s", rec.LongEdge.DestinationCell(), c)
	}
	if got := s.LongEdges(); len(got) != 1 {
		t.Fatalf("LongEdges() len = %d, want 1", len(got))
	}
}

func TestGapBridgedCellNodesDirectHit(t *testing.T) {
	s := NewStore(5)
	c := h3cell.NewCell(5, 2, 2)
	s.SetNodeType(c, NodeType{Origin: true})

	nodes := s.GapBridgedCellNodes([]h3cell.Cell{c}, NodeType.IsOrigin, 0)
	if len(nodes) != 1 {
		t.Fatalf("len = %d, want 1", len(nodes))
	}
	anchor, found := nodes[0].CorrespondingCellInGraph()
	if !found || anchor != c {
		t.Errorf("anchor = %s, found = %v; want %s, true", anchor, found, c)
	}
}

func TestGapBridgedCellNodesZeroGapMisses(t *testing.T) {
	s := NewStore(5)
	origin := h3cell.NewCell(5, 0, 0)
	neighbor := origin.Neighbor(0)
	s.SetNodeType(neighbor, NodeType{Origin: true})

	nodes := s.GapBridgedCellNodes([]h3cell.Cell{origin}, NodeType.IsOrigin, 0)
	if _, found := nodes[0].CorrespondingCellInGraph(); found {
		t.Errorf("expected no anchor with gap=0, found one")
	}
}

func TestGapBridgedCellNodesBridgesWithinGap(t *testing.T) {
	s := NewStore(5)
	origin := h3cell.NewCell(5, 0, 0)
	neighbor := origin.Neighbor(2)
	s.SetNodeType(neighbor, NodeType{Destination: true})

	nodes := s.GapBridgedCellNodes([]h3cell.Cell{origin}, NodeType.IsDestination, 1)
	anchor, found := nodes[0].CorrespondingCellInGraph()
	if !found || anchor != neighbor {
		t.Errorf("anchor = %s, found = %v; want %s, true", anchor, found, neighbor)
	}
}

func TestGapBridgedCellNodesBeyondGapMisses(t *testing.T) {
	s := NewStore(5)
	origin := h3cell.NewCell(5, 0, 0)
	far := h3cell.NewCell(5, 10, 10)
	s.SetNodeType(far, NodeType{Destination: true})

	nodes := s.GapBridgedCellNodes([]h3cell.Cell{origin}, NodeType.IsDestination, 2)
	if _, found := nodes[0].CorrespondingCellInGraph(); found {
		t.Errorf("expected no anchor within gap=2, found one")
	}
}

func TestGapBridgedCellNodesDeterministicTieBreak(t *testing.T) {
	s := NewStore(5)
	origin := h3cell.NewCell(5, 0, 0)
	for _, n := range origin.Neighbors() {
		s.SetNodeType(n, NodeType{Origin: true})
	}

	var want h3cell.Cell
	for i, n := range origin.Neighbors() {
		if i == 0 || n < want {
			want = n
		}
	}

	for i := 0; i < 5; i++ {
		nodes := s.GapBridgedCellNodes([]h3cell.Cell{origin}, NodeType.IsOrigin, 1)
		anchor, found := nodes[0].CorrespondingCellInGraph()
		if !found || anchor != want {
			t.Fatalf("run %d: anchor = %s, want %s (deterministic smallest)", i, anchor, want)
		}
	}
}
