package stats

import (
	"fmt"

	"github.com/wonny/fleetdeck/internal/telemetry"
)

// ComputeSensors scores flow clarity from the volume-to-MA ratio and the
// fraction of bars trading above their volume MA.
func ComputeSensors(bars []telemetry.Bar) (StatResult, error) {
	if err := checkBars(bars); err != nil {
		return StatResult{}, err
	}

	var ratioSum float64
	aboveCount := 0
	valid := 0
	for i := range bars {
		b := &bars[i]
		if !telemetry.Defined(b.Volume) || !telemetry.Defined(b.VolumeMA) || *b.VolumeMA <= 0 {
			continue
		}
		ratio := *b.Volume / *b.VolumeMA
		ratioSum += ratio
		if ratio > 1 {
			aboveCount++
		}
		valid++
	}

	if valid == 0 {
		return StatResult{Value: 50, Why: "volume flow telemetry unavailable"}, nil
	}

	meanRatio := ratioSum / float64(valid)
	aboveFrac := float64(aboveCount) / float64(valid)

	score := telemetry.Normalize(meanRatio, 0.7, 1.5)*0.5 + aboveFrac*50
	value := telemetry.Round(telemetry.Clamp(score, 0, 100))

	var flowLabel string
	switch {
	case meanRatio >= 1.2:
		flowLabel = "heavy flow"
	case meanRatio >= 0.9:
		flowLabel = "steady flow"
	default:
		flowLabel = "thin flow"
	}

	var consistencyLabel string
	switch {
	case aboveFrac >= 0.6:
		consistencyLabel = "consistently above the volume MA"
	case aboveFrac >= 0.3:
		consistencyLabel = "intermittently above the volume MA"
	default:
		consistencyLabel = "rarely above the volume MA"
	}

	why := fmt.Sprintf("%s, %s", flowLabel, consistencyLabel)

	return StatResult{Value: value, Why: why}, nil
}
