package graph

import (
	"os"
	"path/filepath"
	"testing"

	"h3route/pkg/h3cell"
)

func buildTestStore() *Store {
	s := NewStore(5)
	a := h3cell.NewCell(5, 0, 0)
	eAB := h3cell.NewEdge(a, 0)
	b := eAB.DestinationCell()
	eBC := h3cell.NewEdge(b, 0)
	c := eBC.DestinationCell()

	s.SetEdge(eAB, 5)
	s.SetEdge(eBC, 7)
	s.SetNodeType(a, NodeType{Origin: true})
	s.SetNodeType(c, NodeType{Destination: true})
	s.AttachLongEdge(NewLongEdge([]h3cell.Edge{eAB, eBC}, 12))
	return s
}

func TestWriteReadBinaryRoundTrip(t *testing.T) {
	s := buildTestStore()
	path := filepath.Join(t.TempDir(), "graph.bin")

	if err := WriteBinary(path, s); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	got, err := ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if got.H3Resolution() != s.H3Resolution() {
		t.Errorf("resolution = %d, want %d", got.H3Resolution(), s.H3Resolution())
	}
	if got.NumNodes() != s.NumNodes() || got.NumEdges() != s.NumEdges() {
		t.Errorf("sizes = (%d,%d), want (%d,%d)", got.NumNodes(), got.NumEdges(), s.NumNodes(), s.NumEdges())
	}

	for e, wantRec := range s.edges {
		gotRec, ok := got.GetEdge(e)
		if !ok {
			t.Fatalf("edge %s missing after round trip", e)
		}
		if gotRec.Weight != wantRec.Weight {
			t.Errorf("edge %s weight = %d, want %d", e, gotRec.Weight, wantRec.Weight)
		}
		if wantRec.HasLongEdge() != gotRec.HasLongEdge() {
			t.Errorf("edge %s HasLongEdge = %v, want %v", e, gotRec.HasLongEdge(), wantRec.HasLongEdge())
		}
		if wantRec.HasLongEdge() {
			if gotRec.LongEdge.DestinationCell() != wantRec.LongEdge.DestinationCell() {
				t.Errorf("edge %s long edge destination mismatch", e)
			}
		}
	}
	for c, wantNT := range s.nodes {
		gotNT, ok := got.NodeType(c)
		if !ok || gotNT != wantNT {
			t.Errorf("node %s type = %+v, %v; want %+v, true", c, gotNT, ok, wantNT)
		}
	}
}

func TestReadBinaryRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := os.WriteFile(path, []byte("not a real graph file at all, just junk bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadBinary(path); err == nil {
		t.Errorf("expected error reading a file with bad magic bytes")
	}
}

func TestReadBinaryRejectsCorruptedChecksum(t *testing.T) {
	s := buildTestStore()
	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := WriteBinary(path, s); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data[len(data)-1] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := ReadBinary(path); err == nil {
		t.Errorf("expected CRC32 mismatch error after corrupting trailer byte")
	}
}
