package indicators

// SupertrendResult exposes the trailing line and a directional sign series:
// +1 while the trend is up, -1 while it is down, 0 before warm-up.
type SupertrendResult struct {
	Line      []float64
	Direction []float64
}

// Supertrend computes the ATR-banded trend-following envelope. Bands are
// carried forward while they tighten; the direction flips when the close
// escapes the active band.
func Supertrend(high, low, close []float64, length int, multiplier float64) SupertrendResult {
	n := len(close)
	res := SupertrendResult{Line: nanSlice(n), Direction: make([]float64, n)}
	atr := ATR(high, low, close, length)

	upper := nanSlice(n)
	lower := nanSlice(n)
	for i := 0; i < n; i++ {
		if !Defined(atr[i]) {
			continue
		}
		mid := (high[i] + low[i]) / 2.0
		basicUpper := mid + multiplier*atr[i]
		basicLower := mid - multiplier*atr[i]

		if i > 0 && Defined(upper[i-1]) && (basicUpper < upper[i-1] || close[i-1] > upper[i-1]) {
			upper[i] = basicUpper
		} else if i > 0 && Defined(upper[i-1]) {
			upper[i] = upper[i-1]
		} else {
			upper[i] = basicUpper
		}

		if i > 0 && Defined(lower[i-1]) && (basicLower > lower[i-1] || close[i-1] < lower[i-1]) {
			lower[i] = basicLower
		} else if i > 0 && Defined(lower[i-1]) {
			lower[i] = lower[i-1]
		} else {
			lower[i] = basicLower
		}

		prevDir := 0.0
		if i > 0 {
			prevDir = res.Direction[i-1]
		}
		switch {
		case prevDir >= 0 && close[i] < lower[i]:
			res.Direction[i] = -1
		case prevDir <= 0 && close[i] > upper[i]:
			res.Direction[i] = 1
		case prevDir == 0:
			// First defined bar: infer from position against the midline.
			if close[i] >= (upper[i]+lower[i])/2.0 {
				res.Direction[i] = 1
			} else {
				res.Direction[i] = -1
			}
		default:
			res.Direction[i] = prevDir
		}

		if res.Direction[i] > 0 {
			res.Line[i] = lower[i]
		} else {
			res.Line[i] = upper[i]
		}
	}
	return res
}
