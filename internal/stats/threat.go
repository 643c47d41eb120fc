package stats

import (
	"fmt"
	"math"

	"github.com/wonny/fleetdeck/internal/telemetry"
)

// ComputeThreat scores regime risk. The dominant term is how far the
// latest close sits from the center of its volatility envelope, with
// smaller terms for histogram sign instability and current firepower.
//
// When the latest bar carries no band levels the band term falls back to
// a neutral 50, which is NOT pre-weighted the way the real band term is
// (the band score alone also tops out at 50). A no-band series and a
// fully-stretched envelope are therefore numerically indistinguishable.
// Downstream rationale text keys off the number, so this stays as is.
func ComputeThreat(bars []telemetry.Bar) (StatResult, error) {
	if err := checkBars(bars); err != nil {
		return StatResult{}, err
	}

	latest := &bars[len(bars)-1]
	bands := latest.Bands()

	bandScore := 50.0
	if len(bands) > 0 {
		min, max := bands[0], bands[0]
		for _, v := range bands[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if max > min {
			pos := (latest.Close - min) / (max - min)
			distFromCenter := math.Abs(pos-0.5) * 2
			bandScore = distFromCenter * 50
		}
	}

	// Histogram sign instability across the whole visible sequence
	hist := make([]float64, 0, len(bars))
	for i := range bars {
		if telemetry.Defined(bars[i].Histogram) {
			hist = append(hist, *bars[i].Histogram)
		}
	}
	flips := telemetry.CountSignFlips(hist)
	flipScore := telemetry.Normalize(float64(flips), 0, float64(len(hist))/2) * 0.3

	// Volatility contribution from the firepower computator
	firepower, err := ComputeFirepower(bars)
	if err != nil {
		return StatResult{}, err
	}
	volContribution := float64(firepower.Value) / 100 * 20

	value := telemetry.Round(telemetry.Clamp(bandScore+flipScore+volContribution, 0, 100))

	// Band label derives from the numeric score, not from band presence
	var bandLabel string
	switch {
	case bandScore < 16.5:
		bandLabel = "well inside the envelope"
	case bandScore < 33:
		bandLabel = "drifting toward the envelope edge"
	default:
		bandLabel = "pressing the envelope edge"
	}

	var flipLabel string
	switch {
	case flips <= 2:
		flipLabel = "stable momentum sign"
	case flips <= 5:
		flipLabel = "occasional whipsaw"
	default:
		flipLabel = "frequent whipsaw"
	}

	var volLabel string
	switch {
	case firepower.Value < 35:
		volLabel = "low volatility"
	case firepower.Value < 65:
		volLabel = "moderate volatility"
	default:
		volLabel = "high volatility"
	}

	why := fmt.Sprintf("%s, %s, %s", bandLabel, flipLabel, volLabel)

	return StatResult{Value: value, Why: why}, nil
}
