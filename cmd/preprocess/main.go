package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"h3route/pkg/graph"
	"h3route/pkg/h3cell"
	"h3route/pkg/ingest"
	"h3route/pkg/longedge"
	osmparser "h3route/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	output := flag.String("output", "graph.bin", "Output binary graph file path")
	resolution := flag.Int("resolution", 9, "H3 resolution to build the graph at (0-15)")
	sampleCellsOutput := flag.String("sample-cells-output", "", "If set, write a GeoJSON FeatureCollection of up to sample-cells-max cell boundaries to this path, for a quick visual sanity check of the built graph in a map viewer")
	sampleCellsMax := flag.Int("sample-cells-max", 2000, "Maximum number of cells written by -sample-cells-output")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	singapore := flag.Bool("singapore", false, "Shortcut for --bbox 1.15,103.6,1.48,104.1 (Singapore bounding box)")
	kl := flag.Bool("kl", false, "Shortcut for --bbox 2.75,101.2,3.5,102.0 (Selangor + Kuala Lumpur bounding box)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file.osm.pbf> [--output graph.bin] [--resolution 9] [--singapore | --kl | --bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}
	if *resolution < 0 || *resolution > int(h3cell.MaxResolution) {
		log.Fatalf("resolution must be between 0 and %d", h3cell.MaxResolution)
	}

	var opts osmparser.ParseOptions
	if *kl {
		opts.BBox = osmparser.BBox{MinLat: 2.75, MaxLat: 3.5, MinLng: 101.2, MaxLng: 102.0}
		log.Println("Using Selangor + KL bounding box filter: lat [2.75, 3.50], lng [101.20, 102.00]")
	} else if *singapore {
		opts.BBox = osmparser.BBox{MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1}
		log.Println("Using Singapore bounding box filter: lat [1.15, 1.48], lng [103.6, 104.1]")
	} else if *bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		_, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng)
		if err != nil {
			log.Fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
		log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
	}

	start := time.Now()

	log.Println("Opening OSM file...")
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	log.Printf("Building H3 graph at resolution %d...", *resolution)
	s, err := ingest.Build(context.Background(), f, ingest.Options{
		Resolution: h3cell.Resolution(*resolution),
		BBox:       opts.BBox,
	})
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	log.Printf("Graph: %d nodes, %d edges", s.NumNodes(), s.NumEdges())

	log.Println("Collapsing pass-through chains into long edges...")
	n := longedge.Build(s)
	log.Printf("Long edges: %d chains collapsed", n)

	if *sampleCellsOutput != "" {
		if err := writeSampleCellsGeoJSON(s, *sampleCellsOutput, *sampleCellsMax); err != nil {
			log.Printf("Warning: failed to write sample cells GeoJSON: %v", err)
		} else {
			log.Printf("Wrote sample cells GeoJSON to %s", *sampleCellsOutput)
		}
	}

	log.Printf("Writing binary to %s...", *output)
	if err := graph.WriteBinary(*output, s); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Second), *output, float64(info.Size())/(1024*1024))
}

// writeSampleCellsGeoJSON dumps up to max of the graph's cell boundaries as
// a GeoJSON FeatureCollection, so a human can drop the file into a map
// viewer and eyeball whether the built graph looks right before serving it.
func writeSampleCellsGeoJSON(s *graph.Store, path string, max int) error {
	cells := s.Cells()
	if len(cells) > max {
		cells = cells[:max]
	}
	fc := h3cell.CellsFeatureCollection(cells)
	b, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling sample cells: %w", err)
	}
	return os.WriteFile(path, b, 0644)
}
