package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fleetdeck/internal/telemetry"
)

// quietSeries is the reference scenario: 10 bars with a flat trend,
// volume pinned to its MA, a dead histogram and no signals or bands.
func quietSeries() []telemetry.Bar {
	bars := make([]telemetry.Bar, 10)
	for i := range bars {
		bars[i] = telemetry.Bar{
			Time:             int64(1700000000 + i*86400),
			Close:            100,
			KernelRegression: telemetry.Ptr(100),
			G200:             telemetry.Ptr(100),
			Volume:           telemetry.Ptr(1000),
			VolumeMA:         telemetry.Ptr(1000),
			Histogram:        telemetry.Ptr(0),
		}
	}
	return bars
}

// trendingSeries has a monotonically climbing KRE and a constant positive
// close-vs-KRE deviation, so zero chop flips.
func trendingSeries(n int) []telemetry.Bar {
	bars := make([]telemetry.Bar, n)
	for i := range bars {
		kre := 100 + float64(i)
		bars[i] = telemetry.Bar{
			Time:             int64(1700000000 + i*86400),
			Close:            kre + 1,
			KernelRegression: telemetry.Ptr(kre),
		}
	}
	return bars
}

func computators() map[string]func([]telemetry.Bar) (StatResult, error) {
	return map[string]func([]telemetry.Bar) (StatResult, error){
		"hull":      ComputeHull,
		"firepower": ComputeFirepower,
		"sensors":   ComputeSensors,
		"fuel":      ComputeFuel,
		"threat":    ComputeThreat,
	}
}

func TestComputators_InsufficientData(t *testing.T) {
	short := quietSeries()[:4]

	for name, compute := range computators() {
		t.Run(name, func(t *testing.T) {
			_, err := compute(short)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestComputators_ValuesBounded(t *testing.T) {
	series := [][]telemetry.Bar{
		quietSeries(),
		trendingSeries(32),
		choppySeries(20),
		sparseSeries(8),
	}

	for name, compute := range computators() {
		for _, bars := range series {
			res, err := compute(bars)
			require.NoError(t, err, name)
			assert.GreaterOrEqual(t, res.Value, 0, name)
			assert.LessOrEqual(t, res.Value, 100, name)
			assert.NotEmpty(t, res.Why, name)
		}
	}
}

func TestComputators_Deterministic(t *testing.T) {
	bars := choppySeries(24)

	for name, compute := range computators() {
		first, err := compute(bars)
		require.NoError(t, err, name)
		second, err := compute(bars)
		require.NoError(t, err, name)
		assert.Equal(t, first, second, name)
	}
}

func TestComputeHull_QuietSeries(t *testing.T) {
	res, err := ComputeHull(quietSeries())
	require.NoError(t, err)

	// 40 baseline + 0 slope + 30 anchor - 0 chop
	assert.Equal(t, 70, res.Value)
	assert.Contains(t, res.Why, "trend flat")
	assert.Contains(t, res.Why, "low chop")
	assert.Contains(t, res.Why, "near the G200 anchor")
}

func TestComputeHull_MonotonicTrend(t *testing.T) {
	res, err := ComputeHull(trendingSeries(32))
	require.NoError(t, err)

	// Slope term saturates at 50, zero chop penalty
	assert.GreaterOrEqual(t, res.Value, 70)
	assert.Contains(t, res.Why, "trend climbing")
}

func TestComputeHull_ChopPenalty(t *testing.T) {
	calm, err := ComputeHull(trendingSeries(32))
	require.NoError(t, err)
	choppy, err := ComputeHull(choppySeries(32))
	require.NoError(t, err)

	assert.Greater(t, calm.Value, choppy.Value)
}

func TestComputeFirepower_QuietSeries(t *testing.T) {
	res, err := ComputeFirepower(quietSeries())
	require.NoError(t, err)

	// No ranges: default ATR 0.03 -> normalize 40 * 0.6 = 24; dead histogram adds 0
	assert.Equal(t, 24, res.Value)
}

func TestComputeFirepower_NoHistogram(t *testing.T) {
	bars := trendingSeries(10)
	res, err := ComputeFirepower(bars)
	require.NoError(t, err)

	assert.Contains(t, res.Why, "momentum telemetry unavailable")
}

func TestComputeSensors_QuietSeries(t *testing.T) {
	res, err := ComputeSensors(quietSeries())
	require.NoError(t, err)

	// normalize(1.0, 0.7, 1.5)*0.5 = 18.75 and ratio>1 never holds at exactly 1
	assert.Equal(t, 19, res.Value)
}

func TestComputeSensors_NoVolumeData(t *testing.T) {
	res, err := ComputeSensors(trendingSeries(10))
	require.NoError(t, err)

	assert.Equal(t, 50, res.Value)
	assert.Contains(t, res.Why, "unavailable")
}

func TestComputeFuel_QuietSeries(t *testing.T) {
	res, err := ComputeFuel(quietSeries())
	require.NoError(t, err)

	// normalize(10, 0, 32)*0.6 = 18.75 plus full 40 calm bonus
	assert.Equal(t, 59, res.Value)
	assert.Contains(t, res.Why, "no recent signal")
}

func TestComputeFuel_FreshSignal(t *testing.T) {
	bars := quietSeries()
	bars[len(bars)-2].Buy = telemetry.Ptr(99.5)

	res, err := ComputeFuel(bars)
	require.NoError(t, err)

	// 1 bar since signal: normalize(1,0,32)*0.6 = 1.875 plus 40 bonus
	assert.Equal(t, 42, res.Value)
	assert.Contains(t, res.Why, "signal fired recently")
}

func TestComputeThreat_QuietSeries(t *testing.T) {
	res, err := ComputeThreat(quietSeries())
	require.NoError(t, err)

	// Neutral band 50 + zero flips + firepower 24 contributing 4.8
	assert.Equal(t, 55, res.Value)
}

func TestComputeThreat_BandPosition(t *testing.T) {
	center := quietSeries()
	edge := quietSeries()
	for i := range center {
		center[i].A1 = telemetry.Ptr(90)
		center[i].F5 = telemetry.Ptr(110)
		edge[i].A1 = telemetry.Ptr(100)
		edge[i].F5 = telemetry.Ptr(140)
	}
	// center close 100 sits mid-envelope; edge close 100 sits on the floor

	centerRes, err := ComputeThreat(center)
	require.NoError(t, err)
	edgeRes, err := ComputeThreat(edge)
	require.NoError(t, err)

	assert.Less(t, centerRes.Value, edgeRes.Value)
	assert.Contains(t, centerRes.Why, "well inside the envelope")
	assert.Contains(t, edgeRes.Why, "pressing the envelope edge")
}

func TestComputators_TolerateNaN(t *testing.T) {
	bars := quietSeries()
	nan := math.NaN()
	bars[3].KernelRegression = &nan
	bars[4].Histogram = &nan
	bars[5].VolumeMA = &nan

	for name, compute := range computators() {
		res, err := compute(bars)
		require.NoError(t, err, name)
		assert.GreaterOrEqual(t, res.Value, 0, name)
		assert.LessOrEqual(t, res.Value, 100, name)
	}
}

// choppySeries alternates the close around the KRE every bar and flips
// the histogram sign, producing a maximal flip count.
func choppySeries(n int) []telemetry.Bar {
	bars := make([]telemetry.Bar, n)
	for i := range bars {
		dev := 1.0
		hist := 0.15
		if i%2 == 1 {
			dev = -1.0
			hist = -0.15
		}
		bars[i] = telemetry.Bar{
			Time:             int64(1700000000 + i*86400),
			Close:            100 + dev,
			KernelRegression: telemetry.Ptr(100),
			High:             telemetry.Ptr(103),
			Low:              telemetry.Ptr(98),
			Volume:           telemetry.Ptr(1500),
			VolumeMA:         telemetry.Ptr(1000),
			Histogram:        telemetry.Ptr(hist),
		}
	}
	return bars
}

// sparseSeries carries only the mandatory fields.
func sparseSeries(n int) []telemetry.Bar {
	bars := make([]telemetry.Bar, n)
	for i := range bars {
		bars[i] = telemetry.Bar{
			Time:  int64(1700000000 + i*86400),
			Close: 50 + float64(i%3),
		}
	}
	return bars
}
