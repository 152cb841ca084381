package main

// Example command that loads the generated price dataset, encodes a small
// batch of rows and converts it into a gomlx tensor, for callers that want
// to train with gomlx instead of the built-in forest.
//
// Usage:
//   go run ./features/example -data agriculture_data.csv -n 8
//
// Note: this example expects the CSV written by cmd/generate. If it is
// missing the example prints an error and exits.

import (
	"flag"
	"fmt"
	"log"

	"github.com/Noofbiz/harvestPrice/datasets"
	"github.com/Noofbiz/harvestPrice/features"
)

func main() {
	dataPath := flag.String("data", "agriculture_data.csv", "dataset CSV written by cmd/generate")
	batch := flag.Int("n", 8, "number of rows to convert")
	flag.Parse()

	ds, err := datasets.LoadCSV(*dataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	fmt.Printf("Using dataset: %s\n", *dataPath)
	fmt.Printf("Total rows available: %d\n", ds.Len())

	x, y, err := features.NewEncoder().Encode(ds)
	if err != nil {
		log.Fatalf("failed to encode dataset: %v", err)
	}

	// Prepare a small batch (first N rows)
	n := min(*batch, ds.Len())
	indices := make([]int, n)
	for i := range n {
		indices[i] = i
	}
	sub, err := x.Subset(indices)
	if err != nil {
		log.Fatalf("failed to build batch: %v", err)
	}

	inT := sub.ToGomlxTensor()
	fmt.Printf("Created feature tensor: %T\n", inT)
	fmt.Printf("  Shape: %v\n", inT.Shape())
	fmt.Printf("  Columns: %v\n", sub.Columns())

	if n > 0 {
		fmt.Printf("  First row features: %v\n", sub.Row(0))
		fmt.Printf("  First row target:   %v\n", y[0])
	}
}
