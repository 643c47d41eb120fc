package environment

import "time"

// Snapshot is the immutable five-stat summary of a ticker's indicator
// state, produced fresh on every computation.
type Snapshot struct {
	Ticker     string    `json:"ticker"`
	ComputedAt time.Time `json:"computedAt"`
	BarsUsed   int       `json:"barsUsed"`

	Hull      int `json:"hull"`
	Firepower int `json:"firepower"`
	Sensors   int `json:"sensors"`
	Fuel      int `json:"fuel"`
	Threat    int `json:"threat"`

	// Why holds the rationale string for each stat, keyed by stat name.
	Why map[string]string `json:"why"`

	LatestBar BarSummary `json:"latestBar"`
}

// BarSummary is the trimmed view of the newest bar in the snapshot.
type BarSummary struct {
	Time   int64   `json:"time"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Stat returns a stat value by its snapshot key.
func (s *Snapshot) Stat(name string) (int, bool) {
	switch name {
	case "hull":
		return s.Hull, true
	case "firepower":
		return s.Firepower, true
	case "sensors":
		return s.Sensors, true
	case "fuel":
		return s.Fuel, true
	case "threat":
		return s.Threat, true
	}
	return 0, false
}
