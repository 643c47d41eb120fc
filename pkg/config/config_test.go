package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Make sure inherited env vars don't leak into the test
	t.Setenv("ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FEED_SOURCE", "")
	t.Setenv("MISSION_STORE", "")
	t.Setenv("WATCHLIST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8099", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "synthetic", cfg.Feed.Source)
	assert.Equal(t, 32, cfg.Feed.Lookback)
	assert.Equal(t, "file", cfg.Missions.Store)
	assert.Equal(t, []string{"RKLB"}, cfg.Scheduler.Watchlist)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("MISSION_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_WatchlistParsing(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("MISSION_STORE", "memory")
	t.Setenv("WATCHLIST", "RKLB, ASTS ,LUNR")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"RKLB", "ASTS", "LUNR"}, cfg.Scheduler.Watchlist)
}

func TestLoad_InvalidFeedSource(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("FEED_SOURCE", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}
