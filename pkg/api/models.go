package api

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ShortestPathRequest is the JSON body for POST /api/v1/shortest_path.
type ShortestPathRequest struct {
	Origin       LatLngJSON   `json:"origin"`
	Destinations []LatLngJSON `json:"destinations"`
}

// ManyToManyRequest is the JSON body for POST /api/v1/shortest_path_many_to_many.
type ManyToManyRequest struct {
	Origins      []LatLngJSON `json:"origins"`
	Destinations []LatLngJSON `json:"destinations"`
}

// PathJSON is one returned path: its endpoints, cost, and the cell-by-cell
// route rendered as lat/lng centroids so a caller never needs to know how
// a Cell is encoded.
type PathJSON struct {
	Origin      LatLngJSON   `json:"origin"`
	Destination LatLngJSON   `json:"destination"`
	CostMeters  float64      `json:"cost_meters"`
	Cells       []LatLngJSON `json:"cells"`
}

// ShortestPathResponse is the JSON response for a successful single-origin
// query: one path per reachable destination.
type ShortestPathResponse struct {
	Paths []PathJSON `json:"paths"`
}

// ManyToManyResponse keys results by the requesting origin coordinate, in
// request order.
type ManyToManyResponse struct {
	Results []OriginPaths `json:"results"`
}

// OriginPaths is one origin's worth of many-to-many results.
type OriginPaths struct {
	Origin LatLngJSON `json:"origin"`
	Paths  []PathJSON `json:"paths"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Resolution   uint8  `json:"resolution"`
	NumNodes     int    `json:"num_nodes"`
	NumEdges     int    `json:"num_edges"`
	NumLongEdges int    `json:"num_long_edges"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
