package missions

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fleetdeck/internal/environment"
)

func env(hull, firepower, sensors, fuel, threat int) *environment.Snapshot {
	return &environment.Snapshot{
		Ticker:    "RKLB",
		Hull:      hull,
		Firepower: firepower,
		Sensors:   sensors,
		Fuel:      fuel,
		Threat:    threat,
	}
}

func TestGenerateRecommendations_FiveSortedEntries(t *testing.T) {
	envs := []*environment.Snapshot{
		env(70, 30, 80, 60, 25),
		env(20, 90, 40, 10, 85),
		env(50, 50, 50, 50, 45),
		env(0, 0, 0, 0, 0),
		env(100, 100, 100, 100, 100),
	}

	for _, e := range envs {
		recs := GenerateRecommendations(e)
		require.Len(t, recs, 5)

		assert.True(t, sort.SliceIsSorted(recs, func(i, j int) bool {
			return recs[i].Suitability > recs[j].Suitability
		}))

		seen := map[TypeID]bool{}
		for _, r := range recs {
			seen[r.ID] = true
			assert.GreaterOrEqual(t, r.Difficulty, 1, r.ID)
			assert.LessOrEqual(t, r.Difficulty, 3, r.ID)
			assert.NotEmpty(t, r.WhyNow, r.ID)
		}
		assert.Len(t, seen, 5)
	}
}

func TestGenerateRecommendations_Threshold(t *testing.T) {
	recs := GenerateRecommendations(env(50, 50, 50, 50, 45))
	for _, r := range recs {
		assert.Equal(t, r.Suitability >= RecommendedThreshold, r.Recommended, r.ID)
	}
}

func TestGenerateRecommendations_SuitabilityNotClampedAt100(t *testing.T) {
	// RECON: 100*0.5 + (100-0)*0.35 + 100*0.2 = 105
	recs := GenerateRecommendations(env(100, 0, 100, 0, 0))

	var recon *Recommendation
	for i := range recs {
		if recs[i].ID == TypeRecon {
			recon = &recs[i]
		}
	}
	require.NotNil(t, recon)
	assert.Equal(t, 105, recon.Suitability)
}

func TestReconDifficulty_SensorAdjustment(t *testing.T) {
	// At every fixed threat tier, moving sensors from the blind extreme
	// to the sharp extreme lowers the rating (or holds at the floor).
	for _, threat := range []int{20, 55, 90} {
		blind := reconDifficulty(env(50, 50, 35, 50, threat))
		sharp := reconDifficulty(env(50, 50, 70, 50, threat))

		assert.LessOrEqual(t, sharp, blind, "threat=%d", threat)
		if blind > 1 {
			assert.Less(t, sharp, blind, "threat=%d", threat)
		}
	}

	// Baseline tiers without sensor adjustment
	assert.Equal(t, 1, reconDifficulty(env(50, 50, 50, 50, 20)))
	assert.Equal(t, 2, reconDifficulty(env(50, 50, 50, 50, 55)))
	assert.Equal(t, 3, reconDifficulty(env(50, 50, 50, 50, 90)))
}

func TestEscortSuitability_MidpointPreference(t *testing.T) {
	atMidpoint := escortSuitability(env(50, 50, 50, 50, 45))
	atExtreme := escortSuitability(env(50, 50, 50, 50, 95))
	atQuiet := escortSuitability(env(50, 50, 50, 50, 5))

	assert.Greater(t, atMidpoint, atExtreme)
	assert.Greater(t, atMidpoint, atQuiet)
}

func TestHarvestSuitability_PrefersQuietRegimes(t *testing.T) {
	quiet := harvestSuitability(env(50, 20, 50, 50, 20))
	violent := harvestSuitability(env(50, 90, 50, 50, 90))

	assert.Greater(t, quiet, violent)
}

func TestWhyNow_Deterministic(t *testing.T) {
	e := env(70, 30, 80, 60, 25)

	first := GenerateRecommendations(e)
	second := GenerateRecommendations(e)
	assert.Equal(t, first, second)
}
