package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"raceresults/internal/config"
	"raceresults/internal/listener"
	"raceresults/internal/pipeline"
	"raceresults/internal/rules"
	"raceresults/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", cfg.InputDir, "directory of result lists")
		output := fs.String("output", cfg.OutputPath, "output xlsx path")
		workers := fs.Int("workers", cfg.Workers, "documents processed in parallel")
		_ = fs.Parse(os.Args[2:])
		cfg.InputDir = *input
		cfg.OutputPath = *output
		cfg.Workers = max(1, *workers)
		must(cfg.Require("INPUT_DIR", cfg.InputDir))

		rs, err := rules.Load(cfg.RulesPath)
		must(err)
		logger.Info("rules loaded", "version", rs.Version, "rules", rs.Len())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		svc := pipeline.NewRunService(db, cfg, rs, logger)
		res, err := svc.Run(ctx)
		must(err)
		fmt.Printf("run done id=%s documents=%d skipped=%d records=%d warnings=%d output=%s\n",
			res.Summary.ID, res.Summary.Documents, res.Summary.Skipped, res.Summary.Records, res.Summary.Warnings, cfg.OutputPath)
	case "watch":
		rs, err := rules.Load(cfg.RulesPath)
		must(err)
		must(cfg.Require("INPUT_DIR", cfg.InputDir))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		must(listener.NewService(db, cfg, rs, logger).Run(ctx))
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs listed")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s  %s  documents=%d skipped=%d records=%d warnings=%d ms=%d  %s\n",
				r.ID, r.StartedAt, r.Documents, r.Skipped, r.Records, r.Warnings, r.DurationMs, r.InputDir)
		}
	case "export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.String("run", "", "run id (default: latest run)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		n, err := pipeline.Export(db, strings.TrimSpace(*runID), *out)
		must(err)
		fmt.Printf("exported %d records to %s\n", n, *out)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: raceresults <command>")
	fmt.Println("commands:")
	fmt.Println("  run [--input=./data/raw] [--output=./out/results.xlsx] [--workers=1]")
	fmt.Println("  watch")
	fmt.Println("  runs [--limit=20]")
	fmt.Println("  export [--run=<id>] --out=./out/results.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
