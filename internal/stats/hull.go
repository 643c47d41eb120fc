package stats

import (
	"fmt"
	"math"

	"github.com/wonny/fleetdeck/internal/telemetry"
)

// ComputeHull scores trend stability from the kernel-regression slope,
// penalized by close-vs-trend chop and rewarded by G200 anchor proximity.
func ComputeHull(bars []telemetry.Bar) (StatResult, error) {
	if err := checkBars(bars); err != nil {
		return StatResult{}, err
	}

	// Slope of the smoothed trend, capped at half the scale
	slope := telemetry.LinearRegressionSlope(kreValues(bars))
	slopeScore := math.Min(math.Abs(slope)*500, 50)

	// Chop penalty from close-vs-KRE sign flips
	flips := telemetry.CountSignFlips(kreDeviations(bars))
	chopPenalty := math.Min(float64(flips)*3, 30)

	// Anchor proximity: most recent valid G200, else the close anchors itself
	latestClose := bars[len(bars)-1].Close
	anchorDist := 0.0
	for i := len(bars) - 1; i >= 0; i-- {
		if telemetry.Defined(bars[i].G200) {
			if latestClose != 0 {
				anchorDist = math.Abs(latestClose-*bars[i].G200) / latestClose
			}
			break
		}
	}
	anchorScore := math.Max(0, 30-anchorDist*200)

	value := telemetry.Round(telemetry.Clamp(40+slopeScore+anchorScore-chopPenalty, 0, 100))

	var direction string
	switch {
	case slope > 0.001:
		direction = "trend climbing"
	case slope < -0.001:
		direction = "trend decaying"
	default:
		direction = "trend flat"
	}

	var anchorLabel string
	switch {
	case anchorDist < 0.03:
		anchorLabel = "holding near the G200 anchor"
	case anchorDist < 0.08:
		anchorLabel = "moderate distance from the G200 anchor"
	default:
		anchorLabel = "far from the G200 anchor"
	}

	why := fmt.Sprintf("%s, %s (%d flips), %s", direction, chopLabel(flips), flips, anchorLabel)

	return StatResult{Value: value, Why: why}, nil
}
