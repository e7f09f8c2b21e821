package pipeline

import (
	"fmt"
	"log/slog"

	"raceresults/internal"
	"raceresults/internal/rules"
)

// Normalizer runs the per-table stages. It holds no state between tables.
type Normalizer struct {
	Rules   *rules.Set
	Markers []string
	Logger  *slog.Logger
}

func NewNormalizer(rs *rules.Set, markers []string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{Rules: rs, Markers: markers, Logger: logger}
}

// NormalizeTable turns one extracted page into a table of CanonicalWidth
// columns ready for assembly. Only a non-numeric rank or bib cell fails.
func (n *Normalizer) NormalizeTable(raw internal.RawTable) (Table, error) {
	t := FromRaw(raw)
	before := len(t.Rows)

	t = SanitizeRows(t, n.Markers)
	if len(t.Rows) == 0 {
		n.Logger.Debug("table has no data rows", "source", t.Source(), "rows", before)
		return t, nil
	}
	t = FuseIdentity(t)
	t = TagYear(t)
	t = CorrectNames(t, n.Rules)
	t = SplitIdentity(t)
	t = AlignColumns(t)
	t = CompactColumns(t)

	t, err := CoerceTypes(t)
	if err != nil {
		return Table{}, fmt.Errorf("coerce: %w", err)
	}

	t = ResolveTrailingColumns(t)
	t = ApplyGender(t)

	n.Logger.Debug("table normalized", "source", t.Source(), "rows_in", before, "rows_out", len(t.Rows))
	return t, nil
}
