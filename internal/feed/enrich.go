package feed

import (
	"github.com/wonny/fleetdeck/internal/telemetry"
)

// Enricher derives the indicator fields of a telemetry.Bar from a raw
// OHLCV series: volume moving average, kernel regression estimate, the
// long anchor, the momentum histogram, the nested volatility envelopes
// and the discrete cross signals.
// ⭐ SSOT: 지표 계산은 Enricher에서만
type Enricher struct {
	VolumeWindow int // volume SMA window
	KRESpan      int // EMA span of the kernel regression estimate
	AnchorWindow int // long SMA window of G200
	ATRWindow    int // averaging window of the envelope width

	// momentum oscillator periods
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

// NewEnricher creates an enricher with the standard windows.
func NewEnricher() *Enricher {
	return &Enricher{
		VolumeWindow: 20,
		KRESpan:      9,
		AnchorWindow: 200,
		ATRWindow:    14,
		FastPeriod:   12,
		SlowPeriod:   26,
		SignalPeriod: 9,
	}
}

// Enrich converts a raw series into telemetry bars with every derivable
// indicator field populated. The input must be ordered oldest first;
// the output is deterministic for a given input.
func (e *Enricher) Enrich(raw []RawBar) []telemetry.Bar {
	n := len(raw)
	bars := make([]telemetry.Bar, n)
	if n == 0 {
		return bars
	}

	closes := make([]float64, n)
	for i, r := range raw {
		closes[i] = r.Close
	}

	kre := emaSeries(closes, e.KRESpan)
	hist := e.histogramSeries(closes)

	for i, r := range raw {
		bar := telemetry.Bar{
			Time:  r.Time,
			Close: r.Close,
		}

		if r.Open > 0 {
			bar.Open = telemetry.Ptr(r.Open)
		}
		if r.High > 0 {
			bar.High = telemetry.Ptr(r.High)
		}
		if r.Low > 0 {
			bar.Low = telemetry.Ptr(r.Low)
		}
		if r.Volume > 0 {
			bar.Volume = telemetry.Ptr(r.Volume)
			bar.VolumeMA = telemetry.Ptr(volumeSMA(raw, i, e.VolumeWindow))
		}

		bar.KernelRegression = telemetry.Ptr(kre[i])
		bar.G200 = telemetry.Ptr(trailingSMA(closes, i, e.AnchorWindow))

		if r.Close > 0 {
			bar.Histogram = telemetry.Ptr(hist[i] / r.Close)
		}

		if atr := trailingATR(raw, i, e.ATRWindow); atr > 0 {
			setBands(&bar, kre[i], atr)
		}

		if i > 0 {
			prevClose, prevKRE := closes[i-1], kre[i-1]
			switch {
			case prevClose <= prevKRE && r.Close > kre[i]:
				bar.Buy = telemetry.Ptr(r.Close)
			case prevClose >= prevKRE && r.Close < kre[i]:
				bar.Sell = telemetry.Ptr(r.Close)
			}
		}

		bars[i] = bar
	}

	return bars
}

// histogramSeries computes the momentum-oscillator histogram:
// (fast EMA − slow EMA) minus its signal EMA, per bar.
func (e *Enricher) histogramSeries(closes []float64) []float64 {
	fast := emaSeries(closes, e.FastPeriod)
	slow := emaSeries(closes, e.SlowPeriod)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}

	signal := emaSeries(macd, e.SignalPeriod)

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}
	return hist
}

// emaSeries is a running exponential moving average seeded at the first
// value.
func emaSeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	multiplier := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// trailingSMA averages the last window values ending at index i,
// shrinking the window at the head of the series.
func trailingSMA(values []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}

	sum := 0.0
	for j := start; j <= i; j++ {
		sum += values[j]
	}
	return sum / float64(i-start+1)
}

// volumeSMA averages the trailing volumes, counting only bars that
// carry volume.
func volumeSMA(raw []RawBar, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}

	sum, count := 0.0, 0
	for j := start; j <= i; j++ {
		if raw[j].Volume > 0 {
			sum += raw[j].Volume
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// trailingATR averages the high−low range over the trailing window,
// counting only bars with a usable range.
func trailingATR(raw []RawBar, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}

	sum, count := 0.0, 0
	for j := start; j <= i; j++ {
		if raw[j].High > 0 && raw[j].Low > 0 && raw[j].High >= raw[j].Low {
			sum += raw[j].High - raw[j].Low
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// bandMultipliers widen per letter, innermost A to outermost F.
var bandMultipliers = [6]float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0}

// setBands fills the 30 envelope levels around the kernel regression
// estimate. Within a letter the five digits spread from the lower edge
// to the upper edge of that envelope.
func setBands(bar *telemetry.Bar, center, atr float64) {
	fields := [30]**float64{
		&bar.A1, &bar.A2, &bar.A3, &bar.A4, &bar.A5,
		&bar.B1, &bar.B2, &bar.B3, &bar.B4, &bar.B5,
		&bar.C1, &bar.C2, &bar.C3, &bar.C4, &bar.C5,
		&bar.D1, &bar.D2, &bar.D3, &bar.D4, &bar.D5,
		&bar.E1, &bar.E2, &bar.E3, &bar.E4, &bar.E5,
		&bar.F1, &bar.F2, &bar.F3, &bar.F4, &bar.F5,
	}

	for letter := 0; letter < 6; letter++ {
		width := atr * bandMultipliers[letter]
		for digit := 0; digit < 5; digit++ {
			// digit 0 → −width, digit 2 → center, digit 4 → +width
			offset := width * (float64(digit) - 2) / 2
			*fields[letter*5+digit] = telemetry.Ptr(center + offset)
		}
	}
}
