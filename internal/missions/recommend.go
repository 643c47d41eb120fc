package missions

import (
	"math"
	"sort"

	"github.com/wonny/fleetdeck/internal/environment"
)

// RecommendedThreshold is the suitability floor for a recommendation.
const RecommendedThreshold = 55

// Recommendation is one archetype scored against an environment
// snapshot. Transient: recomputed on demand, never persisted.
type Recommendation struct {
	MissionType

	// Suitability is rounded but deliberately not clamped at 100: each
	// weighted term is bounded on its own, the sum may exceed the scale.
	Suitability int    `json:"suitability"`
	Difficulty  int    `json:"difficulty"` // 1..3
	WhyNow      string `json:"whyNow"`
	Recommended bool   `json:"recommended"`
}

// scorer carries the per-archetype scoring functions. One entry per
// catalog id keeps the dispatch closed and exhaustive.
type scorer struct {
	suitability func(env *environment.Snapshot) float64
	difficulty  func(env *environment.Snapshot) int
	whyNow      func(env *environment.Snapshot) string
}

var scorers = map[TypeID]scorer{
	TypeRecon:   {reconSuitability, reconDifficulty, reconWhyNow},
	TypeCargo:   {cargoSuitability, cargoDifficulty, cargoWhyNow},
	TypeEscort:  {escortSuitability, escortDifficulty, escortWhyNow},
	TypeStrike:  {strikeSuitability, strikeDifficulty, strikeWhyNow},
	TypeHarvest: {harvestSuitability, harvestDifficulty, harvestWhyNow},
}

// GenerateRecommendations scores every archetype against env and returns
// all five sorted by suitability descending. The sort is stable, so ties
// keep catalog order.
func GenerateRecommendations(env *environment.Snapshot) []Recommendation {
	out := make([]Recommendation, 0, len(catalog))
	for _, mt := range catalog {
		s := scorers[mt.ID]
		suitability := int(math.Round(s.suitability(env)))
		out = append(out, Recommendation{
			MissionType: mt,
			Suitability: suitability,
			Difficulty:  s.difficulty(env),
			WhyNow:      s.whyNow(env),
			Recommended: suitability >= RecommendedThreshold,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Suitability > out[j].Suitability
	})

	return out
}

// --- RECON: information play, wants clarity and quiet ---

func reconSuitability(env *environment.Snapshot) float64 {
	return float64(env.Sensors)*0.5 +
		float64(100-env.Threat)*0.35 +
		float64(env.Hull)*0.2
}

// reconDifficulty is the only rating with a secondary adjustment: the
// threat-driven baseline is eased or worsened one star by sensor extremes.
func reconDifficulty(env *environment.Snapshot) int {
	base := 3
	switch {
	case env.Threat < 40:
		base = 1
	case env.Threat < 70:
		base = 2
	}

	if env.Sensors >= 70 && base > 1 {
		base--
	} else if env.Sensors <= 35 && base < 3 {
		base++
	}
	return base
}

func reconWhyNow(env *environment.Snapshot) string {
	switch {
	case env.Sensors >= 70 && env.Threat <= 40:
		return "Sensors are dialed in and the lanes are quiet. Prime conditions to chart the sector."
	case env.Sensors >= 70:
		return "Sensor clarity is excellent even with turbulence out there. Scout carefully."
	case env.Threat >= 70:
		return "The region is hot. A sweep now carries real risk but maximum information value."
	default:
		return "Standard survey conditions. Reasonable scouting weather."
	}
}

// --- CARGO: trend-following haul, wants a proven route ---

func cargoSuitability(env *environment.Snapshot) float64 {
	return float64(env.Hull)*0.45 +
		float64(100-env.Threat)*0.3 +
		float64(env.Fuel)*0.3
}

func cargoDifficulty(env *environment.Snapshot) int {
	switch {
	case env.Hull >= 60 && env.Threat < 50:
		return 1
	case env.Hull < 40 || env.Threat >= 70:
		return 3
	default:
		return 2
	}
}

func cargoWhyNow(env *environment.Snapshot) string {
	switch {
	case env.Hull >= 70 && env.Threat <= 35:
		return "Stable trend and calm space. Ideal weather for a long haul."
	case env.Hull <= 40:
		return "The trend structure is shaky. A cargo run risks rerouting mid-haul."
	case env.Threat >= 65:
		return "Contested lanes ahead. Hauling through this needs conviction."
	default:
		return "Serviceable route conditions. Plan the haul, watch the lanes."
	}
}

// --- ESCORT: wants threat near the 45 midpoint, not an extreme ---

func escortSuitability(env *environment.Snapshot) float64 {
	midpointFit := math.Max(0, 100-math.Abs(float64(env.Threat)-45)*2)
	return midpointFit*0.5 +
		float64(env.Hull)*0.3 +
		float64(env.Firepower)*0.25
}

func escortDifficulty(env *environment.Snapshot) int {
	switch {
	case env.Threat >= 65 || env.Firepower >= 75:
		return 3
	case env.Threat < 35 && env.Firepower < 45:
		return 1
	default:
		return 2
	}
}

func escortWhyNow(env *environment.Snapshot) string {
	diff := env.Threat - 45
	switch {
	case diff >= -10 && diff <= 10:
		return "Threat sits in the band where escorts earn their keep. Contact is likely but containable."
	case env.Threat < 30:
		return "Too quiet. An escort would mostly be along for the ride."
	case env.Threat >= 70:
		return "Escort duty in a firestorm. Expect sustained contact."
	default:
		return "Workable escort conditions. Stay on formation."
	}
}

// --- STRIKE: wants loaded volatility and clean targeting ---

func strikeSuitability(env *environment.Snapshot) float64 {
	return float64(env.Firepower)*0.55 +
		float64(env.Threat)*0.25 +
		float64(env.Sensors)*0.25
}

func strikeDifficulty(env *environment.Snapshot) int {
	switch {
	case env.Threat >= 60 || env.Fuel < 25:
		return 3
	case env.Firepower >= 70 && env.Threat < 40:
		return 1
	default:
		return 2
	}
}

func strikeWhyNow(env *environment.Snapshot) string {
	switch {
	case env.Firepower >= 70 && env.Sensors >= 50:
		return "Volatility is loaded and the targeting data is clean. Strike window open."
	case env.Firepower >= 70:
		return "Plenty of stored energy but fuzzy targeting. Strike fast and verify twice."
	case env.Firepower <= 35:
		return "Not enough energy in the sector for a strike. Hold position."
	default:
		return "Marginal strike conditions. Only high-conviction targets."
	}
}

// --- HARVEST: wants boring space ---

func harvestSuitability(env *environment.Snapshot) float64 {
	return float64(100-env.Firepower)*0.45 +
		float64(100-env.Threat)*0.35 +
		float64(env.Fuel)*0.25
}

func harvestDifficulty(env *environment.Snapshot) int {
	switch {
	case env.Threat < 40 && env.Firepower < 40:
		return 1
	case env.Threat >= 65:
		return 3
	default:
		return 2
	}
}

func harvestWhyNow(env *environment.Snapshot) string {
	switch {
	case env.Firepower <= 35 && env.Threat <= 40:
		return "Calm fields and low risk. Deploy the collectors."
	case env.Threat >= 65:
		return "Harvesting under fire rarely pays. Wait for the regime to settle."
	case env.Firepower >= 65:
		return "Too much turbulence to harvest cleanly."
	default:
		return "Collection conditions are mixed. Size the detail modestly."
	}
}
