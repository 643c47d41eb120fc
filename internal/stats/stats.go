// Package stats reduces an ordered bar series into the five bounded
// vessel stats (Hull, Firepower, Sensors, Fuel, Threat). Every computator
// is pure: same bars in, same score and rationale out.
package stats

import (
	"errors"
	"fmt"

	"github.com/wonny/fleetdeck/internal/telemetry"
)

// MinBars is the minimum series length for any stat computation.
const MinBars = 5

// ErrInsufficientData is returned when fewer than MinBars bars are available.
var ErrInsufficientData = errors.New("insufficient telemetry data")

// StatResult is one bounded stat with its human-readable rationale.
type StatResult struct {
	Value int    `json:"value"` // 0..100
	Why   string `json:"why"`
}

// checkBars enforces the minimum series length shared by all computators.
func checkBars(bars []telemetry.Bar) error {
	if len(bars) < MinBars {
		return fmt.Errorf("%w: got %d bars, need %d", ErrInsufficientData, len(bars), MinBars)
	}
	return nil
}

// kreValues collects the valid kernel-regression values preserving order.
// Bars with an absent or non-finite KRE are skipped, not zero-filled.
func kreValues(bars []telemetry.Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for i := range bars {
		if telemetry.Defined(bars[i].KernelRegression) {
			out = append(out, *bars[i].KernelRegression)
		}
	}
	return out
}

// kreDeviations collects close-minus-KRE deviations aligned to the bars
// where the KRE is valid. Shared by Hull and Fuel as the chop series.
func kreDeviations(bars []telemetry.Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for i := range bars {
		if telemetry.Defined(bars[i].KernelRegression) {
			out = append(out, bars[i].Close-*bars[i].KernelRegression)
		}
	}
	return out
}

// chopLabel is the shared 3-tier flip-count label used by Hull and Fuel.
func chopLabel(flips int) string {
	switch {
	case flips <= 5:
		return "low chop"
	case flips <= 10:
		return "moderate chop"
	default:
		return "high chop"
	}
}
