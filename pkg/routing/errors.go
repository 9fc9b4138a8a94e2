package routing

import "errors"

// ErrDestinationsNotInGraph is returned when none of the requested
// destination cells (even after gap-bridging) are connected to the graph.
var ErrDestinationsNotInGraph = errors.New("routing: no destination cell is connected to the graph")

// ErrNoRoute reports that a destination is graph-connected but unreachable
// from the origin. No function in this package returns it: ShortestPath
// and the many-to-many functions leave unreachable destinations out of
// their results instead.
var ErrNoRoute = errors.New("routing: no route to destination")
