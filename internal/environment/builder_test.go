package environment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fleetdeck/internal/stats"
	"github.com/wonny/fleetdeck/internal/telemetry"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// fixedProvider returns a canned series regardless of ticker.
type fixedProvider struct {
	bars []telemetry.Bar
	err  error
}

func (p *fixedProvider) GetRecentBars(_ context.Context, _ string, _ int) ([]telemetry.Bar, error) {
	return p.bars, p.err
}

func testBars(n int) []telemetry.Bar {
	bars := make([]telemetry.Bar, n)
	for i := range bars {
		kre := 50 + float64(i)*0.5
		bars[i] = telemetry.Bar{
			Time:             int64(1700000000 + i*86400),
			Close:            kre + 0.3,
			KernelRegression: telemetry.Ptr(kre),
			Volume:           telemetry.Ptr(2000),
			VolumeMA:         telemetry.Ptr(1800),
			Histogram:        telemetry.Ptr(0.05),
		}
	}
	return bars
}

func TestBuilder_Compute(t *testing.T) {
	provider := &fixedProvider{bars: testBars(32)}
	builder := NewBuilder(provider, nil, 0, logger.NewNop())

	snapshot, err := builder.Compute(context.Background(), "RKLB", 32)
	require.NoError(t, err)

	assert.Equal(t, "RKLB", snapshot.Ticker)
	assert.Equal(t, 32, snapshot.BarsUsed)
	assert.False(t, snapshot.ComputedAt.IsZero())

	for _, name := range []string{"hull", "firepower", "sensors", "fuel", "threat"} {
		v, ok := snapshot.Stat(name)
		require.True(t, ok, name)
		assert.GreaterOrEqual(t, v, 0, name)
		assert.LessOrEqual(t, v, 100, name)
		assert.NotEmpty(t, snapshot.Why[name], name)
	}

	last := provider.bars[len(provider.bars)-1]
	assert.Equal(t, last.Time, snapshot.LatestBar.Time)
	assert.Equal(t, last.Close, snapshot.LatestBar.Close)
	assert.Equal(t, 2000.0, snapshot.LatestBar.Volume)
}

func TestBuilder_Compute_DefaultLookback(t *testing.T) {
	provider := &fixedProvider{bars: testBars(10)}
	builder := NewBuilder(provider, nil, 0, logger.NewNop())

	snapshot, err := builder.Compute(context.Background(), "RKLB", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, snapshot.BarsUsed)
}

func TestBuilder_Compute_InsufficientData(t *testing.T) {
	provider := &fixedProvider{bars: testBars(4)}
	builder := NewBuilder(provider, nil, 0, logger.NewNop())

	_, err := builder.Compute(context.Background(), "RKLB", 32)
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrInsufficientData)
}

func TestBuilder_Compute_ProviderError(t *testing.T) {
	wantErr := errors.New("feed offline")
	provider := &fixedProvider{err: wantErr}
	builder := NewBuilder(provider, nil, 0, logger.NewNop())

	_, err := builder.Compute(context.Background(), "RKLB", 32)
	assert.ErrorIs(t, err, wantErr)
}

// countingProvider tracks how many times the feed is hit.
type countingProvider struct {
	fixedProvider
	calls int
}

func (p *countingProvider) GetRecentBars(ctx context.Context, ticker string, lookback int) ([]telemetry.Bar, error) {
	p.calls++
	return p.fixedProvider.GetRecentBars(ctx, ticker, lookback)
}

func TestBuilder_Refresh_AlwaysRecomputes(t *testing.T) {
	provider := &countingProvider{fixedProvider: fixedProvider{bars: testBars(32)}}
	builder := NewBuilder(provider, nil, 0, logger.NewNop())

	_, err := builder.Refresh(context.Background(), "RKLB", 32)
	require.NoError(t, err)
	_, err = builder.Refresh(context.Background(), "RKLB", 32)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
}

func TestBuilder_Compute_Deterministic(t *testing.T) {
	provider := &fixedProvider{bars: testBars(32)}
	builder := NewBuilder(provider, nil, 0, logger.NewNop())

	first, err := builder.Compute(context.Background(), "RKLB", 32)
	require.NoError(t, err)
	second, err := builder.Compute(context.Background(), "RKLB", 32)
	require.NoError(t, err)

	// Identical bars must yield identical stats and rationales
	assert.Equal(t, first.Hull, second.Hull)
	assert.Equal(t, first.Firepower, second.Firepower)
	assert.Equal(t, first.Sensors, second.Sensors)
	assert.Equal(t, first.Fuel, second.Fuel)
	assert.Equal(t, first.Threat, second.Threat)
	assert.Equal(t, first.Why, second.Why)
}
