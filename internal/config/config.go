// Package config loads and saves the Doubloon application configuration.
//
// The configuration lives in a JSON file (by default ~/.doubloon) and is
// deliberately forgiving: invalid entries are logged as warnings and fall
// back to defaults instead of failing startup.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Environment variables honored at startup.
const (
	EnvConfigPath = "DOUBLOON_CONFIG"
	EnvLogLevel   = "DOUBLOON_LOG_LEVEL"
	EnvHistoryDSN = "DOUBLOON_HISTORY_DSN"
)

// TimeFormat selects the clock display format.
type TimeFormat string

const (
	TimeFormatTwelveHour     TimeFormat = "12h"
	TimeFormatTwentyFourHour TimeFormat = "24h"
)

// SortDirection orders the watchlist table.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// TickerColumnKey is the column that is always present and always first in
// the watchlist table.
const TickerColumnKey = "ticker"

// Watchlist defaults.
var (
	DefaultColumns = []string{"last", "change_percent", "volume", "market_cap"}
	DefaultTickers = []string{"AAPL", "F", "VT", "^DJI", "ARKK", "GC=F", "EURUSD=X", "BTC-USD"}
)

const (
	DefaultQueryFrequency = 60
	DefaultTitle          = "Doubloon"
	DefaultLogLevel       = "info"
)

// Watchlist holds the watchlist screen configuration.
type Watchlist struct {
	// Columns are the non-ticker columns to display; the ticker column is
	// implicit and always first.
	Columns []string `json:"columns"`
	// SortColumn is the key of the column to sort by, including "ticker".
	SortColumn string `json:"sort_column"`
	// SortDirection is "asc" or "desc".
	SortDirection SortDirection `json:"sort_direction"`
	// Quotes are the watched symbols, uppercased and unique.
	Quotes []string `json:"quotes"`
	// QueryFrequency is the quote refresh interval in seconds.
	QueryFrequency int `json:"query_frequency"`
}

// Config is the whole application configuration.
type Config struct {
	Title      string     `json:"title"`
	LogLevel   string     `json:"log_level"`
	TimeFormat TimeFormat `json:"time_format"`
	Watchlist  Watchlist  `json:"watchlist"`
	// HistoryDSN enables the Postgres quote journal when non-empty. It is
	// supplied through DOUBLOON_HISTORY_DSN only and never written to the
	// config file, so credentials do not end up on disk.
	HistoryDSN string `json:"-"`

	// fileLogLevel is the log level as it appeared in the file, before any
	// DOUBLOON_LOG_LEVEL override. Save writes this value back so an env
	// override for one session does not stick.
	fileLogLevel string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Title:        DefaultTitle,
		LogLevel:     DefaultLogLevel,
		fileLogLevel: DefaultLogLevel,
		TimeFormat:   TimeFormatTwentyFourHour,
		Watchlist: Watchlist{
			Columns:        append([]string(nil), DefaultColumns...),
			SortColumn:     TickerColumnKey,
			SortDirection:  SortAscending,
			Quotes:         append([]string(nil), DefaultTickers...),
			QueryFrequency: DefaultQueryFrequency,
		},
	}
}

// Path returns the configuration file location: DOUBLOON_CONFIG when set,
// otherwise ~/.doubloon.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".doubloon"
	}
	return filepath.Join(home, ".doubloon")
}

// Load reads the configuration from path and normalizes it against the
// known watchlist column keys. A missing file is a warning, not an error;
// the defaults are returned. Only undecodable JSON is an error.
func Load(path string, knownColumns []string) (*Config, error) {
	logger := log.With().Str("component", "config").Logger()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("config file not found, using defaults")
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	cfg.normalize(knownColumns)
	cfg.fileLogLevel = cfg.LogLevel
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration back to path. Environment overrides are not
// persisted: the saved log level is the one the file carried at load time.
func (c *Config) Save(path string) error {
	out := *c
	out.LogLevel = c.fileLogLevel
	data, err := json.MarshalIndent(&out, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides folds environment settings over the file values.
func (c *Config) applyEnvOverrides() {
	c.LogLevel = getEnvWithDefault(EnvLogLevel, c.LogLevel)
	c.HistoryDSN = getEnvWithDefault(EnvHistoryDSN, c.HistoryDSN)
}

// normalize applies the lenient validation rules: anything invalid logs a
// warning and falls back to a default.
func (c *Config) normalize(knownColumns []string) {
	logger := log.With().Str("component", "config").Logger()

	known := make(map[string]struct{}, len(knownColumns))
	for _, key := range knownColumns {
		known[key] = struct{}{}
	}

	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	switch c.TimeFormat {
	case TimeFormatTwelveHour, TimeFormatTwentyFourHour:
	default:
		if c.TimeFormat != "" {
			logger.Warn().Str("time_format", string(c.TimeFormat)).
				Msg("unsupported time format in config, using 24h")
		}
		c.TimeFormat = TimeFormatTwentyFourHour
	}

	w := &c.Watchlist

	// Columns: drop the implicit ticker column, unknowns and duplicates.
	if len(w.Columns) == 0 {
		logger.Warn().Msg("no columns specified in config, using defaults")
		w.Columns = append([]string(nil), DefaultColumns...)
	} else {
		filtered := make([]string, 0, len(w.Columns))
		seen := make(map[string]struct{}, len(w.Columns))
		for _, col := range w.Columns {
			if col == TickerColumnKey {
				continue
			}
			if _, ok := known[col]; !ok {
				logger.Warn().Str("column", col).Msg("invalid column key specified in config")
				continue
			}
			if _, dup := seen[col]; dup {
				logger.Warn().Str("column", col).Msg("duplicate column key specified in config")
				continue
			}
			seen[col] = struct{}{}
			filtered = append(filtered, col)
		}
		if len(filtered) == 0 {
			logger.Warn().Msg("all provided columns were invalid, using defaults")
			filtered = append([]string(nil), DefaultColumns...)
		}
		w.Columns = filtered
	}

	// Quotes: uppercase, drop empties and duplicates.
	if len(w.Quotes) == 0 {
		logger.Warn().Msg("no quotes specified in config, using defaults")
		w.Quotes = append([]string(nil), DefaultTickers...)
	} else {
		cleaned := make([]string, 0, len(w.Quotes))
		seen := make(map[string]struct{}, len(w.Quotes))
		for _, symbol := range w.Quotes {
			if symbol == "" {
				logger.Warn().Msg("empty quote symbol specified in config")
				continue
			}
			up := strings.ToUpper(symbol)
			if _, dup := seen[up]; dup {
				logger.Warn().Str("symbol", up).Msg("duplicate quote symbol specified in config")
				continue
			}
			seen[up] = struct{}{}
			cleaned = append(cleaned, up)
		}
		if len(cleaned) == 0 {
			logger.Warn().Msg("all provided quotes were invalid, using defaults")
			cleaned = append([]string(nil), DefaultTickers...)
		}
		w.Quotes = cleaned
	}

	switch w.SortDirection {
	case SortAscending, SortDescending:
	default:
		if w.SortDirection != "" {
			logger.Warn().Str("sort_direction", string(w.SortDirection)).
				Msg("unsupported sort direction in config, using ascending")
		}
		w.SortDirection = SortAscending
	}

	// The sort column must be displayed; fall back to the ticker column.
	if w.SortColumn != TickerColumnKey {
		found := false
		for _, col := range w.Columns {
			if col == w.SortColumn {
				found = true
				break
			}
		}
		if !found {
			if w.SortColumn != "" {
				logger.Warn().Str("sort_column", w.SortColumn).
					Msg("sort column not among configured columns, sorting by ticker")
			}
			w.SortColumn = TickerColumnKey
		}
	}

	if w.QueryFrequency < 1 {
		logger.Warn().Int("query_frequency", w.QueryFrequency).
			Msg("invalid query frequency specified in config, using default")
		w.QueryFrequency = DefaultQueryFrequency
	}
}

// getEnvWithDefault returns the environment value for key, or the fallback
// when unset.
func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
