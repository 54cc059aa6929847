package indicators

import "time"

// AnchoredVWAP computes the volume-weighted average price, restarting the
// cumulative sums at each anchor-period boundary. The default anchor is the
// UTC calendar day. Bars inside a bucket with zero cumulative volume are
// undefined.
func AnchoredVWAP(high, low, close, volume []float64, timestamps []time.Time) []float64 {
	n := len(close)
	out := nanSlice(n)
	tp := typicalPrice(high, low, close)

	var cumPV, cumV float64
	var anchor time.Time
	for i := 0; i < n; i++ {
		day := timestamps[i].UTC().Truncate(24 * time.Hour)
		if i == 0 || !day.Equal(anchor) {
			anchor = day
			cumPV = 0
			cumV = 0
		}
		cumPV += tp[i] * volume[i]
		cumV += volume[i]
		if cumV > 0 {
			out[i] = cumPV / cumV
		}
	}
	return out
}
