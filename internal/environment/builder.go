package environment

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fleetdeck/internal/stats"
	"github.com/wonny/fleetdeck/internal/telemetry"
	"github.com/wonny/fleetdeck/pkg/logger"
	"github.com/wonny/fleetdeck/pkg/redis"
)

// DefaultLookback is the bar window used when the caller passes none.
const DefaultLookback = 32

// Builder assembles environment snapshots from a bar provider.
// ⭐ SSOT: 스냅샷 조립은 여기서만
type Builder struct {
	provider telemetry.BarProvider
	cache    *redis.Cache // optional, may be nil
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewBuilder creates a new snapshot builder. cache may be nil.
func NewBuilder(provider telemetry.BarProvider, cache *redis.Cache, cacheTTL time.Duration, log *logger.Logger) *Builder {
	return &Builder{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// Compute fetches the recent bar series for ticker and reduces it to a
// snapshot. The provider fetch is the only suspension point; everything
// after it is synchronous and deterministic for a given bar series.
func (b *Builder) Compute(ctx context.Context, ticker string, lookback int) (*Snapshot, error) {
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	if b.cache != nil {
		var cached Snapshot
		found, err := b.cache.Get(ctx, redis.SnapshotKey(ticker, lookback), &cached)
		if err != nil {
			b.logger.WithError(err).Warn("Snapshot cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	snapshot, err := b.computeFresh(ctx, ticker, lookback)
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, redis.SnapshotKey(ticker, lookback), snapshot, b.cacheTTL); err != nil {
			b.logger.WithError(err).Warn("Snapshot cache write failed")
		}
	}

	return snapshot, nil
}

// Refresh recomputes a snapshot ignoring whatever is cached, then
// replaces the cached entry. The watchlist refresh job uses this to
// keep the cache warm.
func (b *Builder) Refresh(ctx context.Context, ticker string, lookback int) (*Snapshot, error) {
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	snapshot, err := b.computeFresh(ctx, ticker, lookback)
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, redis.SnapshotKey(ticker, lookback), snapshot, b.cacheTTL); err != nil {
			b.logger.WithError(err).Warn("Snapshot cache write failed")
		}
	}

	return snapshot, nil
}

func (b *Builder) computeFresh(ctx context.Context, ticker string, lookback int) (*Snapshot, error) {
	bars, err := b.provider.GetRecentBars(ctx, ticker, lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", ticker, err)
	}

	if len(bars) < stats.MinBars {
		return nil, fmt.Errorf("%w: %s returned %d bars", stats.ErrInsufficientData, ticker, len(bars))
	}

	hull, err := stats.ComputeHull(bars)
	if err != nil {
		return nil, err
	}
	firepower, err := stats.ComputeFirepower(bars)
	if err != nil {
		return nil, err
	}
	sensors, err := stats.ComputeSensors(bars)
	if err != nil {
		return nil, err
	}
	fuel, err := stats.ComputeFuel(bars)
	if err != nil {
		return nil, err
	}
	threat, err := stats.ComputeThreat(bars)
	if err != nil {
		return nil, err
	}

	latest := bars[len(bars)-1]
	snapshot := &Snapshot{
		Ticker:     ticker,
		ComputedAt: time.Now(),
		BarsUsed:   len(bars),
		Hull:       hull.Value,
		Firepower:  firepower.Value,
		Sensors:    sensors.Value,
		Fuel:       fuel.Value,
		Threat:     threat.Value,
		Why: map[string]string{
			"hull":      hull.Why,
			"firepower": firepower.Why,
			"sensors":   sensors.Why,
			"fuel":      fuel.Why,
			"threat":    threat.Why,
		},
		LatestBar: BarSummary{
			Time:   latest.Time,
			Close:  latest.Close,
			Volume: telemetry.Value(latest.Volume),
		},
	}

	b.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"bars_used": snapshot.BarsUsed,
		"hull":      snapshot.Hull,
		"firepower": snapshot.Firepower,
		"sensors":   snapshot.Sensors,
		"fuel":      snapshot.Fuel,
		"threat":    snapshot.Threat,
	}).Debug("Computed environment snapshot")

	return snapshot, nil
}
