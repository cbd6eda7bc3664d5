// Command genfeed generates a NeoWs-shaped feed JSON document with
// randomized NEO records, for exercising the pipeline locally without an
// API key. Point NASA_BASE_URL at a static file server hosting the output,
// or feed it to tests directly.
//
// Usage:
//
//	go run ./cmd/genfeed -date 2025-11-01 -count 12 -seed 42 -out feed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/orbitwatch/neo-data-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	date := flag.String("date", "", "close-approach date (YYYY-MM-DD)")
	count := flag.Int("count", 10, "number of NEO records to generate")
	seed := flag.Int64("seed", 1, "random seed for reproducible output")
	out := flag.String("out", "", "output path (default stdout)")
	strayRatio := flag.Float64("stray", 0, "fraction of records whose only close approach is on a different date")
	flag.Parse()

	if *date == "" || !domain.ValidDate(*date) {
		flag.Usage()
		return fmt.Errorf("missing or invalid -date: use YYYY-MM-DD")
	}
	if *count < 1 {
		return fmt.Errorf("-count must be at least 1")
	}

	rng := rand.New(rand.NewSource(*seed))
	records := make([]domain.RawNeoRecord, 0, *count)
	for i := 0; i < *count; i++ {
		stray := rng.Float64() < *strayRatio
		records = append(records, genRecord(rng, *date, i, stray))
	}

	feed := map[string]any{
		"near_earth_objects": map[string][]domain.RawNeoRecord{
			*date: records,
		},
	}

	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d records to %s", len(records), *out)
	return nil
}

// genRecord fabricates one raw record with plausible magnitudes. Stray
// records get a close approach on a different date, exercising the
// pipeline's skip path.
func genRecord(rng *rand.Rand, date string, i int, stray bool) domain.RawNeoRecord {
	diameterMin := 10 + rng.Float64()*400
	approachDate := date
	if stray {
		approachDate = "1900-01-01"
	}

	return domain.RawNeoRecord{
		NeoReferenceID:                 fmt.Sprintf("%d", 3000000+rng.Intn(900000)),
		Name:                           fmt.Sprintf("(2025 MK%d)", i+1),
		AbsoluteMagnitudeH:             18 + rng.Float64()*10,
		IsPotentiallyHazardousAsteroid: rng.Intn(10) == 0,
		EstimatedDiameter: domain.EstimatedDiameter{
			Meters: domain.DiameterRange{
				Min: diameterMin,
				Max: diameterMin * 2.2,
			},
		},
		CloseApproachData: []domain.CloseApproach{
			{
				CloseApproachDate: approachDate,
				MissDistance: domain.MissDistance{
					Kilometers: fmt.Sprintf("%.3f", 100000+rng.Float64()*70000000),
				},
				RelativeVelocity: domain.RelativeVelocity{
					KilometersPerSecond: fmt.Sprintf("%.4f", 2+rng.Float64()*38),
				},
			},
		},
	}
}
