// Package jobs holds the concrete scheduled jobs of the service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fleetdeck/internal/api"
	"github.com/wonny/fleetdeck/internal/environment"
	"github.com/wonny/fleetdeck/pkg/logger"
	"github.com/wonny/fleetdeck/pkg/metrics"
)

// WatchlistRefreshJob recomputes the environment snapshot of every
// watchlist ticker, keeps the cache warm and pushes the fresh snapshots
// to the stream hub.
type WatchlistRefreshJob struct {
	watchlist []string
	builder   *environment.Builder
	hub       *api.Hub // optional, may be nil
	recorder  *metrics.Recorder
	schedule  string
	logger    *logger.Logger
}

// NewWatchlistRefreshJob creates the refresh job. hub and recorder may
// be nil.
func NewWatchlistRefreshJob(
	watchlist []string,
	builder *environment.Builder,
	hub *api.Hub,
	recorder *metrics.Recorder,
	schedule string,
	log *logger.Logger,
) *WatchlistRefreshJob {
	return &WatchlistRefreshJob{
		watchlist: watchlist,
		builder:   builder,
		hub:       hub,
		recorder:  recorder,
		schedule:  schedule,
		logger:    log,
	}
}

// Name implements scheduler.Job
func (j *WatchlistRefreshJob) Name() string {
	return "watchlist_refresh"
}

// Schedule implements scheduler.Job
func (j *WatchlistRefreshJob) Schedule() string {
	return j.schedule
}

// Run implements scheduler.Job. A ticker that fails is logged and
// skipped; the job only fails when every ticker fails.
func (j *WatchlistRefreshJob) Run(ctx context.Context) error {
	if len(j.watchlist) == 0 {
		return nil
	}

	failed := 0
	for _, ticker := range j.watchlist {
		start := time.Now()
		snapshot, err := j.builder.Refresh(ctx, ticker, environment.DefaultLookback)

		if j.recorder != nil {
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			j.recorder.RecordScan(outcome)
			j.recorder.RecordScanDuration(ticker, time.Since(start).Seconds())
		}

		if err != nil {
			failed++
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Watchlist refresh failed for ticker")
			continue
		}

		if j.hub != nil {
			j.hub.Broadcast(snapshot)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(j.watchlist),
		"failed":  failed,
	}).Info("Watchlist refresh finished")

	if failed == len(j.watchlist) {
		return fmt.Errorf("all %d watchlist tickers failed to refresh", failed)
	}
	return nil
}
