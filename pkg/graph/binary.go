package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sort"
	"unsafe"

	"h3route/pkg/h3cell"
)

const (
	magicBytes = "H3ROUTER"
	version    = uint32(1)
	maxNodes   = 50_000_000
	maxEdges   = 200_000_000
)

// fileHeader is the binary header. Unlike the teacher's CSR layout, there
// are no FirstOut offset arrays: nodes and edges are stored as parallel,
// key-sorted arrays, since H3 cell/edge identifiers are sparse 64-bit
// values rather than a dense, contiguous 0..NumNodes range.
type fileHeader struct {
	Magic        [8]byte
	Version      uint32
	Resolution   uint32
	NumNodes     uint32
	NumEdges     uint32
	NumLongEdges uint32
}

// WriteBinary serializes a Store to a binary file using an atomic rename,
// mirroring the teacher's WriteBinary.
func WriteBinary(path string, s *Store) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	nodeCells := s.Cells()
	sort.Slice(nodeCells, func(i, j int) bool { return nodeCells[i] < nodeCells[j] })

	edgeKeys := make([]h3cell.Edge, 0, len(s.edges))
	for e := range s.edges {
		edgeKeys = append(edgeKeys, e)
	}
	sort.Slice(edgeKeys, func(i, j int) bool { return edgeKeys[i] < edgeKeys[j] })

	hdr := fileHeader{
		Version:      version,
		Resolution:   uint32(s.resolution),
		NumNodes:     uint32(len(nodeCells)),
		NumEdges:     uint32(len(edgeKeys)),
		NumLongEdges: uint32(len(s.longEdges)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	nodeVals := make([]uint64, len(nodeCells))
	nodeFlags := make([]uint32, len(nodeCells))
	for i, c := range nodeCells {
		nodeVals[i] = uint64(c)
		nt := s.nodes[c]
		nodeFlags[i] = packNodeType(nt)
	}
	if err := writeUint64Slice(w, nodeVals); err != nil {
		return fmt.Errorf("write node cells: %w", err)
	}
	if err := writeUint32Slice(w, nodeFlags); err != nil {
		return fmt.Errorf("write node flags: %w", err)
	}

	edgeVals := make([]uint64, len(edgeKeys))
	edgeWeights := make([]uint32, len(edgeKeys))
	longEdgeIdx := make([]int32, len(edgeKeys))
	longEdgeIndex := make(map[*LongEdge]int32, len(s.longEdges))
	for i, le := range s.longEdges {
		longEdgeIndex[le] = int32(i)
	}
	for i, e := range edgeKeys {
		edgeVals[i] = uint64(e)
		rec := s.edges[e]
		edgeWeights[i] = rec.Weight
		if rec.LongEdge != nil {
			longEdgeIdx[i] = longEdgeIndex[rec.LongEdge]
		} else {
			longEdgeIdx[i] = -1
		}
	}
	if err := writeUint64Slice(w, edgeVals); err != nil {
		return fmt.Errorf("write edge keys: %w", err)
	}
	if err := writeUint32Slice(w, edgeWeights); err != nil {
		return fmt.Errorf("write edge weights: %w", err)
	}
	if err := writeInt32Slice(w, longEdgeIdx); err != nil {
		return fmt.Errorf("write long edge indices: %w", err)
	}

	for i, le := range s.longEdges {
		unit := le.UnitEdges()
		lenPrefixed := make([]uint64, len(unit))
		for j, e := range unit {
			lenPrefixed[j] = uint64(e)
		}
		if err := writeLenPrefixedUint64(w, lenPrefixed); err != nil {
			return fmt.Errorf("write long edge %d: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, le.Weight()); err != nil {
			return fmt.Errorf("write long edge %d weight: %w", i, err)
		}
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadBinary deserializes a Store from a binary file.
func ReadBinary(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}

	s := NewStore(h3cell.Resolution(hdr.Resolution))

	nodeVals, err := readUint64Slice(r, int(hdr.NumNodes))
	if err != nil {
		return nil, fmt.Errorf("read node cells: %w", err)
	}
	nodeFlags, err := readUint32Slice(r, int(hdr.NumNodes))
	if err != nil {
		return nil, fmt.Errorf("read node flags: %w", err)
	}
	for i, v := range nodeVals {
		s.nodes[h3cell.Cell(v)] = unpackNodeType(nodeFlags[i])
	}

	edgeVals, err := readUint64Slice(r, int(hdr.NumEdges))
	if err != nil {
		return nil, fmt.Errorf("read edge keys: %w", err)
	}
	edgeWeights, err := readUint32Slice(r, int(hdr.NumEdges))
	if err != nil {
		return nil, fmt.Errorf("read edge weights: %w", err)
	}
	longEdgeIdx, err := readInt32Slice(r, int(hdr.NumEdges))
	if err != nil {
		return nil, fmt.Errorf("read long edge indices: %w", err)
	}

	longEdges := make([]*LongEdge, hdr.NumLongEdges)
	for i := range longEdges {
		unit, err := readLenPrefixedUint64(r)
		if err != nil {
			return nil, fmt.Errorf("read long edge %d: %w", i, err)
		}
		var weight uint32
		if err := binary.Read(r, binary.LittleEndian, &weight); err != nil {
			return nil, fmt.Errorf("read long edge %d weight: %w", i, err)
		}
		edges := make([]h3cell.Edge, len(unit))
		for j, v := range unit {
			edges[j] = h3cell.Edge(v)
		}
		longEdges[i] = NewLongEdge(edges, weight)
	}
	s.longEdges = longEdges

	for i, v := range edgeVals {
		edge := h3cell.Edge(v)
		rec := EdgeRecord{Weight: edgeWeights[i]}
		if idx := longEdgeIdx[i]; idx >= 0 {
			rec.LongEdge = longEdges[idx]
			rec.LongEdgeWeight = longEdges[idx].Weight()
		}
		s.edges[edge] = rec
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	return s, nil
}

func packNodeType(nt NodeType) uint32 {
	var flags uint32
	if nt.Origin {
		flags |= 1
	}
	if nt.Destination {
		flags |= 2
	}
	return flags
}

func unpackNodeType(flags uint32) NodeType {
	return NodeType{Origin: flags&1 != 0, Destination: flags&2 != 0}
}

// Zero-copy I/O helpers, ported from the teacher's binary.go.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeInt32Slice(w io.Writer, s []int32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeUint64Slice(w io.Writer, s []uint64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readInt32Slice(r io.Reader, n int) ([]int32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readUint64Slice(r io.Reader, n int) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func writeLenPrefixedUint64(w io.Writer, s []uint64) error {
	n := uint32(len(s))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return err
	}
	return writeUint64Slice(w, s)
}

func readLenPrefixedUint64(r io.Reader) ([]uint64, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	return readUint64Slice(r, int(n))
}

// CRC32-tracking reader/writer wrappers, ported from the teacher's binary.go.

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
