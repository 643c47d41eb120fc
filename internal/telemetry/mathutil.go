package telemetry

import "math"

// LinearRegressionSlope returns the ordinary least-squares slope of values
// against their index position. Fewer than two points have no slope.
func LinearRegressionSlope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	nf := float64(n)
	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	return (nf*sumXY - sumX*sumY) / denom
}

// CountSignFlips counts adjacent-pair sign changes across a sequence.
// Zero is treated as non-negative. Used as a chop/noise proxy.
func CountSignFlips(values []float64) int {
	flips := 0
	for i := 1; i < len(values); i++ {
		prevNeg := values[i-1] < 0
		curNeg := values[i] < 0
		if prevNeg != curNeg {
			flips++
		}
	}
	return flips
}

// Normalize rescales value linearly into [0,100], clamped at both ends.
// A degenerate range (min == max) maps everything to the midpoint 50.
func Normalize(value, min, max float64) float64 {
	if min == max {
		return 50
	}
	return Clamp((value-min)/(max-min)*100, 0, 100)
}

// Clamp bounds value into [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Round rounds half away from zero, matching the snapshot's integer stats.
func Round(value float64) int {
	return int(math.Round(value))
}
