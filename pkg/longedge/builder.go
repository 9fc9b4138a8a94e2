// Package longedge collapses strictly linear runs of a graph.Store's unit
// edges into graph.LongEdge chains, so the routing core can cross a run of
// pass-through cells in a single relaxation instead of one hop per cell.
//
// This is the non-branching special case of the teacher's Contraction
// Hierarchies preprocessing (pkg/ch/contractor.go): CH contracts nodes in a
// priority order and may introduce a shortcut for any contracted node,
// including ones with several neighbors, which requires the witness search
// in pkg/ch/witness.go to prove no better path exists. A cell with exactly
// one predecessor and one successor has only one possible "shortcut" — the
// edge through it — so no witness search is needed: the chain is collapsed
// unconditionally and the correctness check is deferred to query time via
// LongEdge.IsDisjoint.
package longedge

import (
	"sort"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
)

// Build walks every unit edge in s and attaches a LongEdge to the first
// edge of every maximal chain of pass-through cells it finds, returning
// the number of long edges attached. A cell is pass-through when it has
// exactly one recorded incoming and one recorded outgoing unit edge;
// whether it is also an origin or destination node does not disqualify
// it, since the Dijkstra engine's disjointness guard (graph.LongEdge.
// IsDisjoint) protects any query whose destination happens to fall inside
// a collapsed chain.
func Build(s *graph.Store) int {
	edges := s.AllEdges()
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })

	outEdges := make(map[h3cell.Cell]h3cell.Edge)
	outCount := make(map[h3cell.Cell]int)
	inCount := make(map[h3cell.Cell]int)
	for _, e := range edges {
		outEdges[e.OriginCell()] = e
		outCount[e.OriginCell()]++
		inCount[e.DestinationCell()]++
	}

	passThrough := func(c h3cell.Cell) bool {
		return outCount[c] == 1 && inCount[c] == 1
	}

	attached := 0
	for _, e := range edges {
		origin := e.OriginCell()
		if passThrough(origin) {
			// Mid-chain edge; it will be reached by walking forward from
			// whichever edge starts the chain it belongs to.
			continue
		}

		chain := []h3cell.Edge{e}
		visited := map[h3cell.Cell]bool{origin: true}
		cur := e.DestinationCell()
		for passThrough(cur) && !visited[cur] {
			visited[cur] = true
			next, ok := outEdges[cur]
			if !ok {
				break
			}
			chain = append(chain, next)
			cur = next.DestinationCell()
		}

		if len(chain) < 2 {
			continue
		}

		var weight uint32
		for _, ce := range chain {
			cr, ok := s.GetEdge(ce)
			if !ok {
				continue
			}
			weight += cr.Weight
		}

		s.AttachLongEdge(graph.NewLongEdge(chain, weight))
		attached++
	}
	return attached
}
