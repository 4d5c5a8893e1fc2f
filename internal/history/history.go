// Package history journals quote snapshots to PostgreSQL. The journal is
// optional: it is only opened when a DSN is configured, and write failures
// never reach the user interface.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/doubloon-app/doubloon/calahan"
)

// Journal represents the quote snapshot store.
type Journal struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open connects to PostgreSQL with the given DSN and bootstraps the schema.
func Open(dsn string) (*Journal, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// Check connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{
		db:     db,
		logger: log.With().Str("component", "history").Logger(),
	}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS quote_snapshots (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL,
			market_state TEXT,
			price DOUBLE PRECISION,
			change DOUBLE PRECISION,
			change_percent DOUBLE PRECISION,
			volume BIGINT,
			market_cap BIGINT
		)
	`)
	if err != nil {
		return fmt.Errorf("creating quote_snapshots table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS quote_snapshots_symbol_recorded_at
		ON quote_snapshots (symbol, recorded_at)
	`)
	if err != nil {
		return fmt.Errorf("creating quote_snapshots index: %w", err)
	}

	return nil
}

// Record inserts one snapshot row per quote, all stamped with the same
// refresh time.
func (j *Journal) Record(ctx context.Context, quotes []calahan.YQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	now := time.Now().UTC()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quote_snapshots (
			symbol, recorded_at, market_state, price, change, change_percent, volume, market_cap
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range quotes {
		_, err := stmt.ExecContext(ctx,
			q.Symbol,
			now,
			string(q.MarketState),
			nullFloat(q.RegularMarketPrice),
			nullFloat(q.RegularMarketChange),
			nullFloat(q.RegularMarketChangePercent),
			nullInt(q.RegularMarketVolume),
			nullInt(q.MarketCap),
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot for %s: %w", q.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshots: %w", err)
	}

	j.logger.Debug().Int("count", len(quotes)).Msg("recorded quote snapshots")
	return nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
