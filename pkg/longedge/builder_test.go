package longedge

import (
	"testing"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
)

// linearChain builds a store with a single straight run of cells,
// start -(w)-> c1 -(w)-> c2 -(w)-> ... -(w)-> end, each interior cell
// having exactly one in-edge and one out-edge.
func linearChain(n int, w uint32) (*graph.Store, []h3cell.Edge) {
	s := graph.NewStore(5)
	cur := h3cell.NewCell(5, 0, 0)
	var edges []h3cell.Edge
	for i := 0; i < n; i++ {
		e := h3cell.NewEdge(cur, 0)
		s.SetEdge(e, w)
		edges = append(edges, e)
		cur = e.DestinationCell()
	}
	return s, edges
}

func TestBuildCollapsesLinearChain(t *testing.T) {
	s, edges := linearChain(4, 10)
	n := Build(s)
	if n != 1 {
		t.Fatalf("Build() attached %d long edges, want 1", n)
	}

	rec, ok := s.GetEdge(edges[0])
	if !ok || !rec.HasLongEdge() {
		t.Fatalf("first edge has no long edge attached: %+v, %v", rec, ok)
	}
	if rec.LongEdge.OriginCell() != edges[0].OriginCell() {
		t.Errorf("long edge origin = %s, want %s", rec.LongEdge.OriginCell(), edges[0].OriginCell())
	}
	want := edges[len(edges)-1].DestinationCell()
	if rec.LongEdge.DestinationCell() != want {
		t.Errorf("long edge destination = %s, want %s", rec.LongEdge.DestinationCell(), want)
	}
	if rec.LongEdgeWeight != 40 {
		t.Errorf("long edge weight = %d, want 40", rec.LongEdgeWeight)
	}
}

func TestBuildSkipsBranchingNode(t *testing.T) {
	s := graph.NewStore(5)
	origin := h3cell.NewCell(5, 0, 0)
	e1 := h3cell.NewEdge(origin, 0)
	branch := e1.DestinationCell()
	e2 := h3cell.NewEdge(branch, 0)
	e3 := h3cell.NewEdge(branch, 1) // second outgoing edge makes branch a fork

	s.SetEdge(e1, 1)
	s.SetEdge(e2, 1)
	s.SetEdge(e3, 1)

	n := Build(s)
	if n != 0 {
		t.Fatalf("Build() attached %d long edges, want 0 (branch node must not collapse)", n)
	}
	for _, e := range []h3cell.Edge{e1, e2, e3} {
		rec, ok := s.GetEdge(e)
		if !ok {
			t.Fatalf("edge %s missing", e)
		}
		if rec.HasLongEdge() {
			t.Errorf("edge %s unexpectedly has a long edge", e)
		}
	}
}

func TestBuildSkipsShortChain(t *testing.T) {
	s, _ := linearChain(1, 5)
	if n := Build(s); n != 0 {
		t.Errorf("Build() on a single edge attached %d long edges, want 0", n)
	}
}

func TestBuildHandlesCycle(t *testing.T) {
	// A cell ring where every node has in-degree 1 and out-degree 1 forms
	// a pure cycle with no branch point to anchor a chain on; Build must
	// not hang or attach a long edge that aliases the cycle's own start.
	s := graph.NewStore(5)
	a := h3cell.NewCell(5, 0, 0)
	eAB := h3cell.NewEdge(a, 0)
	b := eAB.DestinationCell()
	eBC := h3cell.NewEdge(b, 2)
	c := eBC.DestinationCell()
	eCA := h3cell.NewEdge(c, 4)

	s.SetEdge(eAB, 1)
	s.SetEdge(eBC, 1)
	s.SetEdge(eCA, 1)

	// Every cell here has in-degree 1 and out-degree 1 with no branch
	// point to anchor a chain on, so Build should find nothing to attach
	// rather than looping forever walking the cycle.
	if n := Build(s); n != 0 {
		t.Errorf("Build() on a pure cycle attached %d long edges, want 0", n)
	}
}
