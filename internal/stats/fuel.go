package stats

import (
	"fmt"

	"github.com/wonny/fleetdeck/internal/telemetry"
)

// ComputeFuel scores patience: how long since the last discrete buy/sell
// signal fired, plus a bonus for a calm close-vs-trend deviation series.
func ComputeFuel(bars []telemetry.Bar) (StatResult, error) {
	if err := checkBars(bars); err != nil {
		return StatResult{}, err
	}

	// Bars since the most recent fired signal, full lookback when none
	barsSince := len(bars)
	for i := len(bars) - 1; i >= 0; i-- {
		b := &bars[i]
		buyFired := telemetry.Defined(b.Buy) && *b.Buy != 0
		sellFired := telemetry.Defined(b.Sell) && *b.Sell != 0
		if buyFired || sellFired {
			barsSince = len(bars) - 1 - i
			break
		}
	}
	persistence := telemetry.Normalize(float64(barsSince), 0, 32) * 0.6

	flips := telemetry.CountSignFlips(kreDeviations(bars))
	bonus := 40 - float64(flips)*4
	if bonus < 0 {
		bonus = 0
	}

	value := telemetry.Round(telemetry.Clamp(persistence+bonus, 0, 100))

	var recencyLabel string
	switch {
	case barsSince < 5:
		recencyLabel = "signal fired recently"
	case barsSince < 15:
		recencyLabel = "signal maturing"
	default:
		recencyLabel = "no recent signal"
	}

	why := fmt.Sprintf("%s (%d bars ago), %s", recencyLabel, barsSince, chopLabel(flips))

	return StatResult{Value: value, Why: why}, nil
}
