package routing

import (
	"sort"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
)

// minHeap is a concrete-typed min-heap over (weight, parent-table index)
// pairs. Avoids the interface boxing of container/heap, following the
// teacher's pkg/routing/dijkstra.go MinHeap.
type minHeap struct {
	items []pqEntry
}

type pqEntry struct {
	weight uint32
	index  int
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) push(weight uint32, index int) {
	h.items = append(h.items, pqEntry{weight, index})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) pop() pqEntry {
	n := len(h.items)
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].weight >= h.items[parent].weight {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].weight < h.items[smallest].weight {
			smallest = left
		}
		if right < n && h.items[right].weight < h.items[smallest].weight {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// dijkstraEdge is either a single unit edge or a long edge taken as a
// shortcut, mirroring the original source's DijkstraEdge enum.
type dijkstraEdge struct {
	single h3cell.Edge
	long   *graph.LongEdge
}

func (de dijkstraEdge) destinationCell() h3cell.Cell {
	if de.long != nil {
		return de.long.DestinationCell()
	}
	return de.single.DestinationCell()
}

// unitEdges expands the edge back into its constituent unit edges for
// path reconstruction.
func (de dijkstraEdge) unitEdges() []h3cell.Edge {
	if de.long != nil {
		return de.long.UnitEdges()
	}
	return []h3cell.Edge{de.single}
}

// parentEntry is one row of the positional parent table: the cell it was
// reached at, the best known weight to it, the table index of the
// predecessor that reached it, and the edge used to get there (absent for
// the origin, at index 0).
type parentEntry struct {
	cell        h3cell.Cell
	weight      uint32
	parentIndex int
	edge        dijkstraEdge
	hasEdge     bool
}

// parentTable is a slice + map index standing in for the original
// source's IndexMap: entries keep insertion order so a table index can
// double as a stable heap payload, while the map gives O(1) lookup by
// cell. No ordered-map library appears anywhere in the retrieval pack, so
// this substitutes for one with the two structures every example repo
// already reaches for.
type parentTable struct {
	entries []parentEntry
	index   map[h3cell.Cell]int
}

func newParentTable() *parentTable {
	return &parentTable{index: make(map[h3cell.Cell]int)}
}

func (pt *parentTable) indexOf(c h3cell.Cell) (int, bool) {
	i, ok := pt.index[c]
	return i, ok
}

func (pt *parentTable) insert(c h3cell.Cell, weight uint32, parentIndex int, edge dijkstraEdge, hasEdge bool) int {
	idx := len(pt.entries)
	pt.entries = append(pt.entries, parentEntry{
		cell:        c,
		weight:      weight,
		parentIndex: parentIndex,
		edge:        edge,
		hasEdge:     hasEdge,
	})
	pt.index[c] = idx
	return idx
}

func (pt *parentTable) update(idx int, weight uint32, parentIndex int, edge dijkstraEdge) {
	e := &pt.entries[idx]
	e.weight = weight
	e.parentIndex = parentIndex
	e.edge = edge
	e.hasEdge = true
}

// EdgeDijkstra runs a single-origin Dijkstra search over g, stopping once
// every cell in destinations has been reached or, if opts.
// NumDestinationsToReach is set, once that many distinct destinations
// have been reached — whichever comes first. Paths are sorted by (cost,
// destination, edges) for a deterministic result regardless of queue
// tie-breaking, then each is passed through transform before being
// returned; transform must be safe to call concurrently, since dispatch.go
// runs one EdgeDijkstra call per goroutine and each calls transform on its
// own result slice.
//
// Ported from the original source's edge_dijkstra, itself adapted from the
// `pathfinding` crate's run_dijkstra. The long-edge disjointness guard
// (I4: a long edge is only taken when none of its interior cells are a
// requested destination) is what lets the search skip whole chains of
// cells without ever silently jumping over a cell the caller asked about.
func EdgeDijkstra[O any](g graph.Graph, origin h3cell.Cell, destinations *DestinationSet, opts Options, transform func(Path) O) []O {
	numToReach := opts.NumDestinationsToReach
	if numToReach <= 0 || numToReach > destinations.Len() {
		numToReach = destinations.Len()
	}

	pt := newParentTable()
	originIdx := pt.insert(origin, 0, -1, dijkstraEdge{}, false)

	var heap minHeap
	heap.push(0, originIdx)

	reached := make(map[h3cell.Cell]bool)

	for heap.Len() > 0 {
		top := heap.pop()
		weight, idx := top.weight, top.index
		entry := pt.entries[idx]
		cell := entry.cell

		if destinations.Contains(cell) {
			reached[cell] = true
			if len(reached) >= numToReach {
				break
			}
		}

		if weight > entry.weight {
			continue // stale heap entry superseded by a better relaxation
		}

		for _, edge := range h3cell.EdgesFrom(cell) {
			rec, ok := g.GetEdge(edge)
			if !ok {
				continue
			}

			var de dijkstraEdge
			var newWeight uint32
			if rec.HasLongEdge() && rec.LongEdge.IsDisjoint(destinations) {
				de = dijkstraEdge{long: rec.LongEdge}
				newWeight = weight + rec.LongEdgeWeight
			} else {
				de = dijkstraEdge{single: edge}
				newWeight = weight + rec.Weight
			}
			destCell := de.destinationCell()

			if existingIdx, found := pt.indexOf(destCell); found {
				if pt.entries[existingIdx].weight > newWeight {
					pt.update(existingIdx, newWeight, idx, de)
					heap.push(newWeight, existingIdx)
				}
				continue
			}
			n := pt.insert(destCell, newWeight, idx, de, true)
			heap.push(newWeight, n)
		}
	}

	paths := make([]Path, 0, len(reached))
	for cell := range reached {
		edges, cost := reconstructPath(pt, cell)
		paths = append(paths, Path{Origin: origin, Destination: cell, Cost: cost, Edges: edges})
	}
	sort.Slice(paths, func(i, j int) bool { return less(paths[i], paths[j]) })

	out := make([]O, len(paths))
	for i, p := range paths {
		out[i] = transform(p)
	}
	return out
}

// reconstructPath walks the parent table backward from destCell to the
// origin (always table index 0), collecting edges as it goes, then
// reverses and expands them into unit edges.
func reconstructPath(pt *parentTable, destCell h3cell.Cell) ([]h3cell.Edge, uint32) {
	idx, ok := pt.indexOf(destCell)
	if !ok {
		return nil, 0
	}
	cost := pt.entries[idx].weight

	var revEdges []dijkstraEdge
	for cur := idx; cur != 0; {
		e := pt.entries[cur]
		if e.hasEdge {
			revEdges = append(revEdges, e.edge)
		}
		cur = e.parentIndex
	}

	edges := make([]h3cell.Edge, 0, len(revEdges))
	for i := len(revEdges) - 1; i >= 0; i-- {
		edges = append(edges, revEdges[i].unitEdges()...)
	}
	return edges, cost
}
