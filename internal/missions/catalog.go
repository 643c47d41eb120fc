// Package missions holds the mission archetype catalog, the
// recommendation engine that matches archetypes against an environment
// snapshot, and the lifecycle manager for persisted mission records.
package missions

import "errors"

// TypeID identifies one of the five mission archetypes. The set is
// closed: scoring dispatch is exhaustive over these values.
type TypeID string

const (
	TypeRecon   TypeID = "RECON"
	TypeCargo   TypeID = "CARGO"
	TypeEscort  TypeID = "ESCORT"
	TypeStrike  TypeID = "STRIKE"
	TypeHarvest TypeID = "HARVEST"
)

// ErrUnknownMissionType is returned for ids outside the catalog.
var ErrUnknownMissionType = errors.New("unknown mission type")

// Duration is one allowed duration band for a mission.
type Duration struct {
	Unit       string `json:"unit"`       // bar interval, e.g. "1D"
	TargetBars int    `json:"targetBars"` // how many bars the mission targets
}

// MissionType is the static catalog entry for one archetype.
// Catalog entries are never mutated at runtime.
type MissionType struct {
	ID              TypeID     `json:"id"`
	Name            string     `json:"name"`
	Icon            string     `json:"icon"`
	Concept         string     `json:"concept"`
	BettingOn       string     `json:"bettingOn"`
	Durations       []Duration `json:"durations"`
	IdealConditions string     `json:"idealConditions"`
	RiskProfile     string     `json:"riskProfile"`
}

// catalog is the closed archetype table, in presentation order.
// ⭐ SSOT: 미션 카탈로그는 여기서만 정의
var catalog = []MissionType{
	{
		ID:        TypeRecon,
		Name:      "Recon Sweep",
		Icon:      "🛰️",
		Concept:   "Scout the sector before committing capital. A small probe position whose job is information, not profit.",
		BettingOn: "Signal clarity. You are betting that what the sensors show now will still be true in a few bars.",
		Durations: []Duration{
			{Unit: "1D", TargetBars: 8},
			{Unit: "1D", TargetBars: 16},
		},
		IdealConditions: "High sensor clarity with quiet lanes. Volume telling a consistent story.",
		RiskProfile:     "Low exposure by design. The main risk is acting on stale readings.",
	},
	{
		ID:        TypeCargo,
		Name:      "Cargo Run",
		Icon:      "🚚",
		Concept:   "A patient haul along an established trend. Load up, follow the route, deliver at the target.",
		BettingOn: "Trend persistence. You are betting the current trajectory survives the whole route.",
		Durations: []Duration{
			{Unit: "1D", TargetBars: 32},
			{Unit: "1W", TargetBars: 26},
		},
		IdealConditions: "Solid hull readings and calm space. A trend that has already proven itself.",
		RiskProfile:     "Moderate. Long exposure windows punish route changes midway.",
	},
	{
		ID:        TypeEscort,
		Name:      "Escort Duty",
		Icon:      "🛡️",
		Concept:   "Guard a position through contested space. Active management where the danger is real but priced.",
		BettingOn: "Manageable conflict. You are betting the turbulence stays within the envelope you planned for.",
		Durations: []Duration{
			{Unit: "1D", TargetBars: 16},
			{Unit: "1D", TargetBars: 32},
		},
		IdealConditions: "Mid-range threat. Quiet lanes waste the escort, firestorms overwhelm it.",
		RiskProfile:     "Elevated. Sized for contact, not for ambush.",
	},
	{
		ID:        TypeStrike,
		Name:      "Strike Op",
		Icon:      "⚡",
		Concept:   "A fast raid on a volatile target. In, hit the objective, out before the window closes.",
		BettingOn: "Momentum release. You are betting the stored energy discharges in your direction.",
		Durations: []Duration{
			{Unit: "1D", TargetBars: 4},
			{Unit: "1D", TargetBars: 8},
		},
		IdealConditions: "High firepower with clean targeting data. Volatility you can aim.",
		RiskProfile:     "High. Fast reversals hit hardest when the ranges are wide.",
	},
	{
		ID:        TypeHarvest,
		Name:      "Harvest Detail",
		Icon:      "🌾",
		Concept:   "Slow accumulation in quiet fields. Collect a little every bar while nothing is shooting.",
		BettingOn: "Continued calm. You are betting the quiet regime outlasts your collection schedule.",
		Durations: []Duration{
			{Unit: "1D", TargetBars: 32},
			{Unit: "1W", TargetBars: 52},
		},
		IdealConditions: "Low firepower and low threat. Boring space is productive space.",
		RiskProfile:     "Low per bar, but regime breaks can give back weeks of collection.",
	},
}

// AllTypes returns the catalog in presentation order.
func AllTypes() []MissionType {
	out := make([]MissionType, len(catalog))
	copy(out, catalog)
	return out
}

// TypeByID looks up a catalog entry.
func TypeByID(id TypeID) (MissionType, bool) {
	for _, mt := range catalog {
		if mt.ID == id {
			return mt, true
		}
	}
	return MissionType{}, false
}
