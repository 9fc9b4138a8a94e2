package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"h3route/pkg/api"
	"h3route/pkg/graph"
	"h3route/pkg/routing"
	"h3route/pkg/snap"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed graph binary")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	gapCells := flag.Uint("gap-cells", 2, "Number of H3 hops a query point may be from the graph and still be treated as connected")
	flag.Parse()

	start := time.Now()

	log.Printf("Loading graph from %s...", *graphPath)
	store, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: resolution %d, %d nodes, %d edges, %d long edges",
		store.H3Resolution(), store.NumNodes(), store.NumEdges(), len(store.LongEdges()))

	log.Println("Building spatial index...")
	index := snap.NewIndex(store)

	// Reclaim memory from init-time temporaries: return unused pages to
	// the OS rather than let Go's doubling heap hold onto peak RSS.
	runtime.GC()
	debug.FreeOSMemory()

	loadTime := time.Since(start)
	log.Printf("Ready in %s", loadTime.Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	opts := routing.DefaultOptions()
	opts.GapCellsToGraph = uint32(*gapCells)

	handlers := api.NewHandlers(store, index, opts)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
