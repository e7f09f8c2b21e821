// Package listener watches the input directory and starts a new run whenever
// its set of documents changes.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"raceresults/internal/config"
	"raceresults/internal/extract"
	"raceresults/internal/pipeline"
	"raceresults/internal/rules"
	"raceresults/internal/storage"
)

type Service struct {
	db     *storage.DB
	cfg    config.Config
	rules  *rules.Set
	logger *slog.Logger

	last string
}

func NewService(db *storage.DB, cfg config.Config, rs *rules.Set, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, cfg: cfg, rules: rs, logger: logger}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			s.logger.Error("watch cycle failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.WatchIntervalSec) * time.Second):
		}
	}
}

// runCycle starts a run when the documents differ from the previous cycle.
// A failed run is retried on the next cycle.
func (s *Service) runCycle(ctx context.Context) error {
	fp, err := fingerprint(s.cfg.InputDir)
	if err != nil {
		return err
	}
	if fp == s.last {
		s.logger.Debug("input unchanged", "dir", s.cfg.InputDir)
		return nil
	}

	res, err := pipeline.NewRunService(s.db, s.cfg, s.rules, s.logger).Run(ctx)
	if err != nil {
		return err
	}
	s.last = fp
	s.logger.Info("watch cycle done", "run", res.Summary.ID, "records", res.Summary.Records)
	return nil
}

// fingerprint identifies the current document set by name, size and
// modification time.
func fingerprint(dir string) (string, error) {
	docs, err := extract.Discover(dir)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		info, err := os.Stat(d.Path)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s|%d|%d", d.Name, info.Size(), info.ModTime().UnixNano()))
	}
	sort.Strings(parts)
	return strings.Join(parts, "\n"), nil
}
