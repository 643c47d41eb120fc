package stats

import (
	"fmt"
	"math"

	"github.com/wonny/fleetdeck/internal/telemetry"
)

// ComputeFirepower scores volatility and thrust from the mean bar range
// (60%) and the mean absolute oscillator histogram (40%).
func ComputeFirepower(bars []telemetry.Bar) (StatResult, error) {
	if err := checkBars(bars); err != nil {
		return StatResult{}, err
	}

	// Mean (high-low)/close across bars carrying a full range
	var atrSum float64
	atrCount := 0
	for i := range bars {
		b := &bars[i]
		if telemetry.Defined(b.High) && telemetry.Defined(b.Low) && b.Close != 0 {
			atrSum += (*b.High - *b.Low) / b.Close
			atrCount++
		}
	}
	meanATR := 0.03 // default when no bar carries a usable range
	if atrCount > 0 {
		meanATR = atrSum / float64(atrCount)
	}
	atrScore := telemetry.Normalize(meanATR, 0.01, 0.06) * 0.6

	// Mean absolute histogram where present
	var histSum float64
	histCount := 0
	for i := range bars {
		if telemetry.Defined(bars[i].Histogram) {
			histSum += math.Abs(*bars[i].Histogram)
			histCount++
		}
	}
	momScore := 0.0
	meanHist := 0.0
	if histCount > 0 {
		meanHist = histSum / float64(histCount)
		momScore = telemetry.Normalize(meanHist, 0, 0.3) * 0.4
	}

	value := telemetry.Round(telemetry.Clamp(atrScore+momScore, 0, 100))

	var atrLabel string
	switch {
	case meanATR < 0.02:
		atrLabel = "tight bar ranges"
	case meanATR < 0.04:
		atrLabel = "moderate bar ranges"
	default:
		atrLabel = "wide bar ranges"
	}

	momLabel := "momentum telemetry unavailable"
	if histCount > 0 {
		switch {
		case meanHist < 0.1:
			momLabel = "soft momentum"
		case meanHist < 0.2:
			momLabel = "building momentum"
		default:
			momLabel = "surging momentum"
		}
	}

	why := fmt.Sprintf("%s, %s", atrLabel, momLabel)

	return StatResult{Value: value, Why: why}, nil
}
