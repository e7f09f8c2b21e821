package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORKERS", "")
	t.Setenv("ROW_MARKERS", "")
	t.Setenv("OVERRIDE_YEAR", "")
	t.Setenv("WATCH_INTERVAL_SEC", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, []string{"10km", "Stadtlauf"}, cfg.RowMarkers)
	assert.Equal(t, 2013, cfg.OverrideYear)
	assert.Equal(t, 60, cfg.WatchIntervalSec)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKERS", "4")
	t.Setenv("ROW_MARKERS", " 5km , Volkslauf ,")
	t.Setenv("OVERRIDE_YEAR", "2014")
	t.Setenv("PDF_COLUMN_GAP", "12.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"5km", "Volkslauf"}, cfg.RowMarkers)
	assert.Equal(t, 2014, cfg.OverrideYear)
	assert.InDelta(t, 12.5, cfg.PDFColumnGap, 0.001)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadClampsWorkers(t *testing.T) {
	t.Setenv("WORKERS", "0")
	t.Setenv("WATCH_INTERVAL_SEC", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 1, cfg.WatchIntervalSec)
}

func TestRequire(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.Require("OVERRIDE_PATH", "  "))
	assert.NoError(t, cfg.Require("OVERRIDE_PATH", "x.xlsx"))
}
