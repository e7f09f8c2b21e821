package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	InputDir   string
	OutputPath string
	DBPath     string

	RulesPath    string
	OverridePath string
	OverrideYear int

	Workers      int
	RowMarkers   []string
	PDFColumnGap float64

	WatchIntervalSec int

	LogLevel slog.Level
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		InputDir:   getEnv("INPUT_DIR", filepath.Join(cwd, "data", "raw")),
		OutputPath: getEnv("OUTPUT_PATH", filepath.Join(cwd, "out", "results.xlsx")),
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "results.db")),

		RulesPath:    getEnv("RULES_PATH", ""),
		OverridePath: getEnv("OVERRIDE_PATH", ""),
		OverrideYear: getEnvInt("OVERRIDE_YEAR", 2013),

		Workers:      getEnvInt("WORKERS", 1),
		RowMarkers:   getEnvList("ROW_MARKERS", []string{"10km", "Stadtlauf"}),
		PDFColumnGap: getEnvFloat("PDF_COLUMN_GAP", 8),

		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 60),

		LogLevel: getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.WatchIntervalSec < 1 {
		cfg.WatchIntervalSec = 1
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return fallback
	}
	return level
}
