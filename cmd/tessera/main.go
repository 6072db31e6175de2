package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/tessera-analytics/tessera/config"
	"github.com/tessera-analytics/tessera/dataset"
	"github.com/tessera-analytics/tessera/engine"
	"github.com/tessera-analytics/tessera/server"
	"github.com/tessera-analytics/tessera/session"
)

// ============================================================================
// TESSERA CLI — contract analytics core
// ============================================================================

const version = "0.3.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	filePath := flag.String("file", "", "Path to CSV dataset (overrides config)")
	serve := flag.Bool("serve", false, "Run the dashboard API server")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	mode := flag.String("mode", "volume", "Aggregation mode for one-shot render: volume or revenue")
	render := flag.Bool("render", false, "Run one render pass over the full dataset and print JSON")
	export := flag.String("export", "", "Write the (unfiltered) dataset render to a CSV file and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Tessera — hierarchical contract analytics

Usage:
  tessera --serve
  tessera --file contracts.csv --render --mode revenue
  tessera --file contracts.csv --export filtered.csv

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  TESSERA_CONFIG       Path to a TOML config file
  TESSERA_DATASET_PATH, TESSERA_EXPORT_SECRET, ...  per-key overrides
`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("tessera %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if *filePath != "" {
		cfg.Dataset.Path = *filePath
		cfg.Dataset.SQLitePath = ""
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	loader, err := buildLoader(cfg)
	if err != nil {
		fatalf("Failed to open dataset source: %v", err)
	}

	passCfg := engine.PassConfig{
		Levels:       []string{"hq", "branch", "account"},
		MeasureKey:   "amount",
		CutoffYear:   cfg.Core.CutoffYear,
		RankKeywords: cfg.Core.RankKeywords,
		FlagKey:      cfg.Core.FlagColumn,
		ArrearsKey:   cfg.Core.ArrearsCol,
		Sentinel:     dataset.Sentinel,
		TargetMarker: cfg.Core.TargetMarker,
	}

	switch {
	case *serve:
		sessions := session.NewRegistry(0)
		srv := server.New(loader, sessions, passCfg, cfg.Export.Secret)
		log.Printf("tessera %s listening on %s", version, cfg.Server.Addr)
		if err := http.ListenAndServe(cfg.Server.Addr, srv.Router()); err != nil {
			fatalf("Server failed: %v", err)
		}

	case *render, *export != "":
		result, err := oneShot(loader, passCfg, engine.ParseMode(*mode))
		if err != nil {
			fatalf("Render failed: %v", err)
		}
		if *export != "" {
			f, err := os.Create(*export)
			if err != nil {
				fatalf("Failed to create export file: %v", err)
			}
			defer f.Close()
			if err := dataset.WriteCSV(f, result.View); err != nil {
				fatalf("Export failed: %v", err)
			}
			log.Printf("exported %d rows to %s", result.View.Len(), *export)
			return
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fatalf("Failed to encode result: %v", err)
		}

	default:
		flag.Usage()
		os.Exit(1)
	}
}

func buildLoader(cfg config.Config) (*dataset.Loader, error) {
	cols := dataset.ColumnMap{
		HQ:        cfg.Columns.HQ,
		Branch:    cfg.Columns.Branch,
		Account:   cfg.Columns.Account,
		EventDate: cfg.Columns.EventDate,
		Amount:    cfg.Columns.Amount,
	}
	if cfg.Dataset.SQLitePath != "" {
		db, err := dataset.OpenSQLite(cfg.Dataset.SQLitePath)
		if err != nil {
			return nil, err
		}
		return dataset.NewSQLLoader(db, cfg.Dataset.Table, cols, cfg.Core.CutoffYear, cfg.Dataset.Staleness), nil
	}
	return dataset.NewFileLoader(cfg.Dataset.Path, cols, cfg.Core.CutoffYear, cfg.Dataset.Staleness), nil
}

// oneShot renders the full dataset with empty selections — the same pass the
// server runs for a fresh session.
func oneShot(loader *dataset.Loader, passCfg engine.PassConfig, mode engine.AggregationMode) (*engine.PassResult, error) {
	snap, err := loader.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(passCfg.CategoryKeys) == 0 {
		passCfg.CategoryKeys = snap.CategoryKeys
	}
	return engine.RunPass(snap.View, passCfg, engine.PassInput{
		Selections: map[string][]string{},
		Mode:       mode,
	})
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
