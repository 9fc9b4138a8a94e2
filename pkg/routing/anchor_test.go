package routing

import (
	"testing"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
)

func TestFilteredOriginCellsGroupsSharedAnchor(t *testing.T) {
	s := graph.NewStore(5)
	anchor := h3cell.NewCell(5, 0, 0)
	s.SetNodeType(anchor, graph.NodeType{Origin: true})

	offGraph := anchor.Neighbor(0)
	anchors := FilteredOriginCells(s, 1, []h3cell.Cell{anchor, offGraph})

	if len(anchors) != 1 {
		t.Fatalf("len(anchors) = %d, want 1", len(anchors))
	}
	if anchors[0].GraphCell != anchor {
		t.Errorf("GraphCell = %s, want %s", anchors[0].GraphCell, anchor)
	}
	if len(anchors[0].UserCells) != 2 {
		t.Errorf("len(UserCells) = %d, want 2", len(anchors[0].UserCells))
	}
}

func TestFilteredOriginCellsDropsUnconnected(t *testing.T) {
	s := graph.NewStore(5)
	unconnected := h3cell.NewCell(5, 50, 50)

	anchors := FilteredOriginCells(s, 0, []h3cell.Cell{unconnected})
	if len(anchors) != 0 {
		t.Errorf("len(anchors) = %d, want 0", len(anchors))
	}
}

func TestFilteredDestinationCellsErrorsWhenNoneConnected(t *testing.T) {
	s := graph.NewStore(5)
	unconnected := h3cell.NewCell(5, 50, 50)

	_, err := FilteredDestinationCells(s, 0, []h3cell.Cell{unconnected})
	if err != ErrDestinationsNotInGraph {
		t.Errorf("err = %v, want ErrDestinationsNotInGraph", err)
	}
}

func TestFilteredDestinationCellsMapsToAnchor(t *testing.T) {
	s := graph.NewStore(5)
	dest := h3cell.NewCell(5, 7, 7)
	s.SetNodeType(dest, graph.NodeType{Destination: true})

	out, err := FilteredDestinationCells(s, 0, []h3cell.Cell{dest})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := out[dest]; !ok || got != dest {
		t.Errorf("out[%s] = %s, %v; want %s, true", dest, got, ok, dest)
	}
}
