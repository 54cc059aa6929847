// Package indicators implements the derived-series math used by the
// strategy catalogue. Every function is pure: it consumes aligned float64
// columns (or an ohlcv.Series) and returns series of the same length, with
// leading positions set to NaN until enough history exists. Insufficient
// history never produces an error; strategies reject signals whose required
// values are undefined.
package indicators

import "math"

var nan = math.NaN()

// Defined reports whether v is a usable indicator value.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CrossOver reports whether a crossed above b on the last bar of the two
// series: a[i] > b[i] while a[i-1] <= b[i-1]. Undefined values on either
// bar yield false.
func CrossOver(a, b []float64, i int) bool {
	if i < 1 || i >= len(a) || i >= len(b) {
		return false
	}
	if !Defined(a[i]) || !Defined(b[i]) || !Defined(a[i-1]) || !Defined(b[i-1]) {
		return false
	}
	return a[i] > b[i] && a[i-1] <= b[i-1]
}

// CrossUnder reports whether a crossed below b on the last bar of the two
// series.
func CrossUnder(a, b []float64, i int) bool {
	if i < 1 || i >= len(a) || i >= len(b) {
		return false
	}
	if !Defined(a[i]) || !Defined(b[i]) || !Defined(a[i-1]) || !Defined(b[i-1]) {
		return false
	}
	return a[i] < b[i] && a[i-1] >= b[i-1]
}

// CrossOverSeries evaluates CrossOver at every bar.
func CrossOverSeries(a, b []float64) []bool {
	out := make([]bool, len(a))
	for i := range out {
		out[i] = CrossOver(a, b, i)
	}
	return out
}

// CrossUnderSeries evaluates CrossUnder at every bar.
func CrossUnderSeries(a, b []float64) []bool {
	out := make([]bool, len(a))
	for i := range out {
		out[i] = CrossUnder(a, b, i)
	}
	return out
}

// Shift returns the series displaced forward by one bar; the first value is
// undefined.
func Shift(values []float64) []float64 {
	out := nanSlice(len(values))
	copy(out[1:], values)
	return out
}

// Constant returns a series of the given length filled with v. Useful as a
// crossing reference level.
func Constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = nan
	}
	return out
}

func typicalPrice(high, low, close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		out[i] = (high[i] + low[i] + close[i]) / 3.0
	}
	return out
}
