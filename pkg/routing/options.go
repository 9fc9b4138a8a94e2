package routing

// Options carries the per-query routing knobs the original source exposed
// through its ShortestPathOptions trait.
type Options struct {
	// GapCellsToGraph is the number of hops a user-supplied cell is
	// allowed to be from the graph while still being treated as
	// connected to it (spec §3's gap-bridging).
	GapCellsToGraph uint32

	// NumDestinationsToReach stops the search once this many distinct
	// destinations have been reached. Zero means "keep going until every
	// reachable destination has been found".
	NumDestinationsToReach int
}

// DefaultOptions returns the zero-value Options: no gap-bridging, search
// until every destination is reached.
func DefaultOptions() Options {
	return Options{}
}
