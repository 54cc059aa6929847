package indicators

import "math"

// TrueRange computes the per-bar true range:
// max(|high-low|, |high-prev_close|, |low-prev_close|). The first bar has no
// previous close and uses high-low alone.
func TrueRange(high, low, close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		hl := math.Abs(high[i] - low[i])
		if i == 0 {
			out[i] = hl
			continue
		}
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR computes the mean of true range over a trailing window. Undefined
// until period bars are available.
func ATR(high, low, close []float64, period int) []float64 {
	return SMA(TrueRange(high, low, close), period)
}

// ATRPercent expresses ATR as a percentage of the close.
func ATRPercent(high, low, close []float64, period int) []float64 {
	atr := ATR(high, low, close, period)
	out := nanSlice(len(close))
	for i := range close {
		if Defined(atr[i]) && close[i] != 0 {
			out[i] = atr[i] / close[i] * 100.0
		}
	}
	return out
}
