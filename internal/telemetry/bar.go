package telemetry

import "math"

// Bar is one sampled interval of market and indicator data for a ticker.
// Bars are immutable once produced and always ordered oldest → newest.
// Only Time and Close are guaranteed; every other field is optional and
// carried as a pointer so that "absent" stays distinguishable from zero.
type Bar struct {
	Time  int64   `json:"time"` // epoch seconds
	Close float64 `json:"close"`

	Open   *float64 `json:"open,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Low    *float64 `json:"low,omitempty"`
	Volume *float64 `json:"volume,omitempty"`

	// VolumeMA is the moving average of volume over the feed's window.
	VolumeMA *float64 `json:"volumeMA,omitempty"`

	// KernelRegression (KRE) is the smoothed trend estimate for this bar.
	KernelRegression *float64 `json:"kernelRegression,omitempty"`

	// G200 is the long-window anchor level.
	G200 *float64 `json:"g200,omitempty"`

	// Histogram is the momentum-oscillator histogram value.
	Histogram *float64 `json:"histogram,omitempty"`

	// Buy/Sell are non-zero when a discrete signal fired on this bar.
	Buy  *float64 `json:"buy,omitempty"`
	Sell *float64 `json:"sell,omitempty"`

	// Nested volatility-envelope boundaries, innermost (A) to outermost (F),
	// five levels each. Explicit fields, not a map: the set is closed.
	A1 *float64 `json:"a1,omitempty"`
	A2 *float64 `json:"a2,omitempty"`
	A3 *float64 `json:"a3,omitempty"`
	A4 *float64 `json:"a4,omitempty"`
	A5 *float64 `json:"a5,omitempty"`
	B1 *float64 `json:"b1,omitempty"`
	B2 *float64 `json:"b2,omitempty"`
	B3 *float64 `json:"b3,omitempty"`
	B4 *float64 `json:"b4,omitempty"`
	B5 *float64 `json:"b5,omitempty"`
	C1 *float64 `json:"c1,omitempty"`
	C2 *float64 `json:"c2,omitempty"`
	C3 *float64 `json:"c3,omitempty"`
	C4 *float64 `json:"c4,omitempty"`
	C5 *float64 `json:"c5,omitempty"`
	D1 *float64 `json:"d1,omitempty"`
	D2 *float64 `json:"d2,omitempty"`
	D3 *float64 `json:"d3,omitempty"`
	D4 *float64 `json:"d4,omitempty"`
	D5 *float64 `json:"d5,omitempty"`
	E1 *float64 `json:"e1,omitempty"`
	E2 *float64 `json:"e2,omitempty"`
	E3 *float64 `json:"e3,omitempty"`
	E4 *float64 `json:"e4,omitempty"`
	E5 *float64 `json:"e5,omitempty"`
	F1 *float64 `json:"f1,omitempty"`
	F2 *float64 `json:"f2,omitempty"`
	F3 *float64 `json:"f3,omitempty"`
	F4 *float64 `json:"f4,omitempty"`
	F5 *float64 `json:"f5,omitempty"`
}

// Bands returns the defined, finite band values of the bar in fixed
// A1..F5 order. Absent or non-finite levels are skipped.
func (b *Bar) Bands() []float64 {
	fields := []*float64{
		b.A1, b.A2, b.A3, b.A4, b.A5,
		b.B1, b.B2, b.B3, b.B4, b.B5,
		b.C1, b.C2, b.C3, b.C4, b.C5,
		b.D1, b.D2, b.D3, b.D4, b.D5,
		b.E1, b.E2, b.E3, b.E4, b.E5,
		b.F1, b.F2, b.F3, b.F4, b.F5,
	}

	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if Defined(f) {
			out = append(out, *f)
		}
	}
	return out
}

// Defined reports whether an optional bar field is present and finite.
func Defined(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}

// Value dereferences an optional field, or returns 0 when absent.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Ptr is a convenience constructor for optional fields.
func Ptr(v float64) *float64 {
	return &v
}
