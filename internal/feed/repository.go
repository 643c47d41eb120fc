package feed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fleetdeck/internal/telemetry"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// BarRepository stores raw bar series in PostgreSQL and serves them as
// an enriched telemetry.BarProvider. It backs the database feed source
// for tickers whose history is loaded out of band.
type BarRepository struct {
	pool     *pgxpool.Pool
	enricher *Enricher
	logger   *logger.Logger
}

// NewBarRepository creates a PostgreSQL-backed bar repository.
func NewBarRepository(pool *pgxpool.Pool, log *logger.Logger) *BarRepository {
	return &BarRepository{
		pool:     pool,
		enricher: NewEnricher(),
		logger:   log,
	}
}

// Init creates the bar table if it does not exist.
func (r *BarRepository) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS telemetry_bars (
			ticker     TEXT             NOT NULL,
			bar_time   BIGINT           NOT NULL,
			open       DOUBLE PRECISION,
			high       DOUBLE PRECISION,
			low        DOUBLE PRECISION,
			close      DOUBLE PRECISION NOT NULL,
			volume     DOUBLE PRECISION,
			PRIMARY KEY (ticker, bar_time)
		)`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create telemetry_bars table: %w", err)
	}
	return nil
}

// SaveBars upserts a raw series for a ticker.
func (r *BarRepository) SaveBars(ctx context.Context, ticker string, bars []RawBar) error {
	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(`
			INSERT INTO telemetry_bars (ticker, bar_time, open, high, low, close, volume)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (ticker, bar_time) DO UPDATE SET
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close,
				volume = EXCLUDED.volume`,
			ticker, b.Time, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert bars for %s: %w", ticker, err)
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(bars),
	}).Debug("Saved bar series")

	return nil
}

// GetRecentBars implements telemetry.BarProvider. Extra warmup bars are
// read so the trailing indicators of the returned window are settled.
func (r *BarRepository) GetRecentBars(ctx context.Context, ticker string, lookback int) ([]telemetry.Bar, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT bar_time, open, high, low, close, volume
		FROM telemetry_bars
		WHERE ticker = $1
		ORDER BY bar_time DESC
		LIMIT $2`,
		ticker, lookback+warmupBars)
	if err != nil {
		return nil, fmt.Errorf("query bars for %s: %w", ticker, err)
	}
	defer rows.Close()

	var raw []RawBar
	for rows.Next() {
		var b RawBar
		var open, high, low, volume *float64
		if err := rows.Scan(&b.Time, &open, &high, &low, &b.Close, &volume); err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}
		if open != nil {
			b.Open = *open
		}
		if high != nil {
			b.High = *high
		}
		if low != nil {
			b.Low = *low
		}
		if volume != nil {
			b.Volume = *volume
		}
		raw = append(raw, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("no bars stored for %s", ticker)
	}

	// query order is newest first
	for i, j := 0, len(raw)-1; i < j; i, j = i+1, j-1 {
		raw[i], raw[j] = raw[j], raw[i]
	}

	bars := r.enricher.Enrich(raw)
	return tail(bars, lookback), nil
}
