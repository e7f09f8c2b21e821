package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"raceresults/internal"
	"raceresults/internal/config"
	"raceresults/internal/extract"
	"raceresults/internal/rules"
	"raceresults/internal/storage"
)

// RunService normalizes every document of an input directory into one
// record list, stores the run and exports it.
type RunService struct {
	db     *storage.DB
	cfg    config.Config
	rules  *rules.Set
	logger *slog.Logger
}

func NewRunService(db *storage.DB, cfg config.Config, rs *rules.Set, logger *slog.Logger) *RunService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunService{db: db, cfg: cfg, rules: rs, logger: logger}
}

type RunResult struct {
	Summary  internal.RunSummary
	Records  []internal.Record
	Warnings []internal.DocumentWarning
	Applied  int
}

// documentResult is what one worker produces for one document. A failed
// extraction leaves tables empty and sets warning.
type documentResult struct {
	tables  []Table
	warning *internal.DocumentWarning
}

// Run processes the documents of cfg.InputDir. Documents are extracted and
// normalized on up to cfg.Workers goroutines; records are assembled in
// discovery order regardless of the worker count. A document that cannot be
// extracted is skipped with a warning; a coercion failure aborts the run.
func (s *RunService) Run(ctx context.Context) (RunResult, error) {
	start := time.Now()

	docs, err := extract.Discover(s.cfg.InputDir)
	if err != nil {
		return RunResult{}, fmt.Errorf("discover %s: %w", s.cfg.InputDir, err)
	}
	s.logger.Info("documents discovered", "dir", s.cfg.InputDir, "count", len(docs))

	results, err := s.normalizeAll(ctx, docs)
	if err != nil {
		return RunResult{}, err
	}

	asm := NewAssembler()
	var warnings []internal.DocumentWarning
	skipped := 0
	for _, res := range results {
		if res.warning != nil {
			skipped++
			warnings = append(warnings, *res.warning)
			continue
		}
		for _, t := range res.tables {
			asm.Append(t)
		}
	}
	warnings = append(warnings, asm.Warnings()...)

	records := asm.Records()
	applied := 0
	if s.cfg.OverridePath != "" {
		ov, err := LoadOverrides(s.cfg.OverridePath, s.cfg.OverrideYear)
		if err != nil {
			return RunResult{}, err
		}
		records, applied = ApplyOverrides(records, ov)
		s.logger.Info("overrides applied", "year", ov.Year, "entries", ov.Len(), "applied", applied)
	}

	finished := time.Now()
	summary := internal.RunSummary{
		ID:         uuid.NewString(),
		StartedAt:  start.UTC().Format(time.RFC3339),
		FinishedAt: finished.UTC().Format(time.RFC3339),
		InputDir:   s.cfg.InputDir,
		Documents:  len(docs),
		Skipped:    skipped,
		Records:    len(records),
		Warnings:   len(warnings),
		DurationMs: finished.Sub(start).Milliseconds(),
	}

	if s.db != nil {
		if err := s.db.SaveRun(summary, records, warnings); err != nil {
			return RunResult{}, fmt.Errorf("save run: %w", err)
		}
	}
	if s.cfg.OutputPath != "" {
		if err := ExportRecordsToXLSX(records, warnings, s.cfg.OutputPath); err != nil {
			return RunResult{}, fmt.Errorf("export %s: %w", s.cfg.OutputPath, err)
		}
	}

	s.logger.Info("run finished",
		"run", summary.ID,
		"documents", summary.Documents,
		"skipped", summary.Skipped,
		"records", summary.Records,
		"warnings", summary.Warnings,
		"ms", summary.DurationMs,
	)
	return RunResult{Summary: summary, Records: records, Warnings: warnings, Applied: applied}, nil
}

func (s *RunService) normalizeAll(ctx context.Context, docs []extract.Document) ([]documentResult, error) {
	norm := NewNormalizer(s.rules, s.cfg.RowMarkers, s.logger)
	opts := extract.Options{PDFColumnGap: s.cfg.PDFColumnGap}
	results := make([]documentResult, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Workers))
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := extract.ExtractDocument(ctx, doc, opts)
			if err != nil {
				s.logger.Warn("document skipped", "document", doc.Name, "err", err)
				results[i].warning = &internal.DocumentWarning{Document: doc.Name, Message: err.Error()}
				return nil
			}

			tables := make([]Table, 0, len(raw))
			for _, rt := range raw {
				t, err := norm.NormalizeTable(rt)
				if err != nil {
					return err
				}
				if len(t.Rows) > 0 {
					tables = append(tables, t)
				}
			}
			results[i].tables = tables
			s.logger.Debug("document normalized", "document", doc.Name, "tables", len(tables))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var ce *CoercionError
		if errors.As(err, &ce) {
			return nil, fmt.Errorf("run aborted: %w", err)
		}
		return nil, err
	}
	return results, nil
}

// Export re-exports a stored run. An empty runID selects the latest run.
func Export(db *storage.DB, runID, outputPath string) (int, error) {
	if runID == "" {
		last, err := db.LastRunID()
		if err != nil {
			return 0, err
		}
		if last == "" {
			return 0, errors.New("no stored runs")
		}
		runID = last
	}
	run, err := db.GetRun(runID)
	if err != nil {
		return 0, err
	}
	if run == nil {
		return 0, fmt.Errorf("run not found: %s", runID)
	}
	records, err := db.GetRunRecords(runID)
	if err != nil {
		return 0, err
	}
	warnings, err := db.GetRunWarnings(runID)
	if err != nil {
		return 0, err
	}
	return len(records), ExportRecordsToXLSX(records, warnings, outputPath)
}
