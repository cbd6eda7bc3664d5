// Command neoproc processes NEO data for a single calendar date: fetch
// from the feed, store, and recompute the daily analysis.
//
// Usage:
//
//	neoproc [date]
//
// The date is YYYY-MM-DD and defaults to yesterday (UTC).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/orbitwatch/neo-data-service/internal/adapter/nasa"
	"github.com/orbitwatch/neo-data-service/internal/adapter/store"
	"github.com/orbitwatch/neo-data-service/internal/config"
	"github.com/orbitwatch/neo-data-service/internal/domain"
	"github.com/orbitwatch/neo-data-service/internal/observability"
	"github.com/orbitwatch/neo-data-service/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to process NEO data: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [date]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Processes NEO data for one date (YYYY-MM-DD, default yesterday).")
		flag.PrintDefaults()
	}
	flag.Parse()

	date := flag.Arg(0)
	if date == "" {
		date = domain.Yesterday()
	}
	if !domain.ValidDate(date) {
		return fmt.Errorf("invalid date %q: use YYYY-MM-DD format (e.g. 2025-11-01)", date)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	db, err := store.Open(cfg)
	if err != nil {
		return err
	}

	st := store.New(db, logger, metrics)
	client := nasa.NewClient(cfg, logger, metrics)
	analyzer := pipeline.NewAnalyzer(st, logger)
	p := pipeline.New(client, st, analyzer, logger, metrics)

	fmt.Printf("Processing NEO data for date: %s\n", date)

	result, err := p.ProcessDate(context.Background(), date)
	if err != nil {
		return err
	}

	if result.Analysis == nil {
		fmt.Printf("warning: %s\n", result.Message)
		return nil
	}

	fmt.Println("Processing completed successfully.")
	printSummary(result)
	return nil
}

func printSummary(result pipeline.Result) {
	a := result.Analysis

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	fmt.Fprintf(w, "Date\t%s\n", result.Date)
	fmt.Fprintf(w, "NEOs Stored\t%d\n", result.NeosStored)
	fmt.Fprintf(w, "Total Count\t%d\n", a.TotalNeoCount)
	fmt.Fprintf(w, "Avg Diameter (min)\t%.2f m\n", a.AverageDiameterMin)
	fmt.Fprintf(w, "Avg Diameter (max)\t%.2f m\n", a.AverageDiameterMax)
	fmt.Fprintf(w, "Max Velocity\t%.2f m/s\n", a.MaxVelocity)
	fmt.Fprintf(w, "Smallest Miss Distance\t%.2f m\n", a.SmallestMissDistance)
	w.Flush()
}
