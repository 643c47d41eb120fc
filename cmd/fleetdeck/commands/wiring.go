package commands

import (
	"context"
	"fmt"

	"github.com/wonny/fleetdeck/internal/environment"
	"github.com/wonny/fleetdeck/internal/feed"
	"github.com/wonny/fleetdeck/internal/missions"
	"github.com/wonny/fleetdeck/internal/telemetry"
	"github.com/wonny/fleetdeck/pkg/config"
	"github.com/wonny/fleetdeck/pkg/database"
	"github.com/wonny/fleetdeck/pkg/httputil"
	"github.com/wonny/fleetdeck/pkg/logger"
	"github.com/wonny/fleetdeck/pkg/redis"
)

// needsDatabase reports whether the configured sources require a
// PostgreSQL connection.
func needsDatabase(cfg *config.Config) bool {
	return cfg.Feed.Source == "database" || cfg.Missions.Store == "postgres"
}

// newBarProvider wires the configured feed source. db may be nil when
// the source does not need it.
func newBarProvider(cfg *config.Config, db *database.DB, log *logger.Logger) (telemetry.BarProvider, error) {
	var repo *feed.BarRepository
	if db != nil {
		repo = feed.NewBarRepository(db.Pool, log)
		if err := repo.Init(context.Background()); err != nil {
			return nil, fmt.Errorf("init bar repository: %w", err)
		}
	}

	client := feed.NewChartClient(cfg.Feed, httputil.New(log), log)
	return feed.NewProvider(cfg, client, repo, log)
}

// newSnapshotCache wires the optional redis snapshot cache. Both return
// values are nil when redis is disabled.
func newSnapshotCache(cfg *config.Config, log *logger.Logger) (*redis.Client, *redis.Cache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil, nil
	}

	client, err := redis.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, redis.NewCache(client, "fleetdeck"), nil
}

// newSnapshotBuilder wires the feed and the optional cache into a
// snapshot builder.
func newSnapshotBuilder(cfg *config.Config, db *database.DB, cache *redis.Cache, log *logger.Logger) (*environment.Builder, error) {
	provider, err := newBarProvider(cfg, db, log)
	if err != nil {
		return nil, err
	}

	return environment.NewBuilder(provider, cache, cfg.Redis.SnapshotTTL, log), nil
}

// newMissionStore wires the configured mission persistence backend.
func newMissionStore(cfg *config.Config, db *database.DB) (missions.Store, error) {
	switch cfg.Missions.Store {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres mission store requires a connected database")
		}
		store := missions.NewPostgresStore(db.Pool)
		if err := store.Init(context.Background()); err != nil {
			return nil, fmt.Errorf("init mission store: %w", err)
		}
		return store, nil

	case "file":
		return missions.NewFileStore(cfg.Missions.FilePath), nil

	case "memory":
		return missions.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown mission store: %s", cfg.Missions.Store)
	}
}
