package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"github.com/paulmach/orb/geojson"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
	"h3route/pkg/routing"
	"h3route/pkg/snap"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store *graph.Store
	index *snap.Index
	opts  routing.Options
}

// NewHandlers creates handlers serving queries against the given graph and
// its point-to-cell spatial index.
func NewHandlers(store *graph.Store, index *snap.Index, opts routing.Options) *Handlers {
	return &Handlers{store: store, index: index, opts: opts}
}

// HandleShortestPath handles POST /api/v1/shortest_path.
func (h *Handlers) HandleShortestPath(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req ShortestPathRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if err := validateCoord(req.Origin); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "origin")
		return
	}
	for _, d := range req.Destinations {
		if err := validateCoord(d); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "destinations")
			return
		}
	}

	originCell, err := h.resolveCell(req.Origin)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_graph", "origin")
		return
	}
	destCells, err := h.resolveCells(req.Destinations)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_graph", "destinations")
		return
	}

	paths, err := routing.ShortestPath(h.store, originCell, destCells, h.opts)
	if err != nil {
		if errors.Is(err, routing.ErrDestinationsNotInGraph) {
			writeError(w, http.StatusUnprocessableEntity, "destinations_not_in_graph", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	if len(paths) == 0 {
		writeError(w, http.StatusNotFound, "no_route_found", "")
		return
	}

	resp := ShortestPathResponse{Paths: make([]PathJSON, len(paths))}
	for i, p := range paths {
		resp.Paths[i] = pathToJSON(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleShortestPathGeoJSON handles POST /api/v1/shortest_path.geojson: same
// request as HandleShortestPath, but renders every found path as a GeoJSON
// FeatureCollection of line strings for direct use in a map viewer.
func (h *Handlers) HandleShortestPathGeoJSON(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req ShortestPathRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if err := validateCoord(req.Origin); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "origin")
		return
	}

	originCell, err := h.resolveCell(req.Origin)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_graph", "origin")
		return
	}
	destCells, err := h.resolveCells(req.Destinations)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_graph", "destinations")
		return
	}

	paths, err := routing.ShortestPath(h.store, originCell, destCells, h.opts)
	if err != nil {
		if errors.Is(err, routing.ErrDestinationsNotInGraph) {
			writeError(w, http.StatusUnprocessableEntity, "destinations_not_in_graph", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, p := range paths {
		f := h3cell.PathFeature(p.Origin, p.Edges)
		f.Properties["cost_meters"] = float64(p.Cost) / 1000
		fc.Append(f)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(b)
}

// HandleShortestPathManyToMany handles POST /api/v1/shortest_path_many_to_many.
func (h *Handlers) HandleShortestPathManyToMany(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req ManyToManyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	for _, o := range req.Origins {
		if err := validateCoord(o); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "origins")
			return
		}
	}
	for _, d := range req.Destinations {
		if err := validateCoord(d); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "destinations")
			return
		}
	}

	originCells, err := h.resolveCells(req.Origins)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_graph", "origins")
		return
	}
	destCells, err := h.resolveCells(req.Destinations)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_graph", "destinations")
		return
	}

	byCell, err := routing.ShortestPathManyToMany(h.store, originCells, destCells, h.opts)
	if err != nil {
		if errors.Is(err, routing.ErrDestinationsNotInGraph) {
			writeError(w, http.StatusUnprocessableEntity, "destinations_not_in_graph", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	resp := ManyToManyResponse{Results: make([]OriginPaths, len(req.Origins))}
	for i, origin := range req.Origins {
		paths := byCell[originCells[i]]
		pj := make([]PathJSON, len(paths))
		for j, p := range paths {
			pj[j] = pathToJSON(p)
		}
		resp.Results[i] = OriginPaths{Origin: origin, Paths: pj}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Resolution:   uint8(h.store.H3Resolution()),
		NumNodes:     h.store.NumNodes(),
		NumEdges:     h.store.NumEdges(),
		NumLongEdges: len(h.store.LongEdges()),
	})
}

func (h *Handlers) resolveCell(ll LatLngJSON) (h3cell.Cell, error) {
	if h.index == nil {
		return h3cell.CellFromLatLng(ll.Lat, ll.Lng, h.store.H3Resolution()), nil
	}
	return h.index.Nearest(ll.Lat, ll.Lng)
}

func (h *Handlers) resolveCells(lls []LatLngJSON) ([]h3cell.Cell, error) {
	out := make([]h3cell.Cell, len(lls))
	for i, ll := range lls {
		c, err := h.resolveCell(ll)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func pathToJSON(p routing.Path) PathJSON {
	cells := make([]LatLngJSON, 0, len(p.Edges)+1)
	lat, lng := h3cell.Centroid(p.Origin)
	cells = append(cells, LatLngJSON{Lat: lat, Lng: lng})
	for _, e := range p.Edges {
		lat, lng := h3cell.Centroid(e.DestinationCell())
		cells = append(cells, LatLngJSON{Lat: lat, Lng: lng})
	}
	oLat, oLng := h3cell.Centroid(p.Origin)
	dLat, dLng := h3cell.Centroid(p.Destination)
	return PathJSON{
		Origin:      LatLngJSON{Lat: oLat, Lng: oLng},
		Destination: LatLngJSON{Lat: dLat, Lng: dLng},
		CostMeters:  float64(p.Cost) / 1000,
		Cells:       cells,
	}
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field})
}
