package indicators

// Bands is a generic three-line channel.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Bollinger Bands: moving average +/- k rolling standard
// deviations.
func Bollinger(values []float64, length int, stddev float64) Bands {
	mid := SMA(values, length)
	sd := RollingStd(values, length)
	upper := nanSlice(len(values))
	lower := nanSlice(len(values))
	for i := range values {
		if Defined(mid[i]) && Defined(sd[i]) {
			upper[i] = mid[i] + stddev*sd[i]
			lower[i] = mid[i] - stddev*sd[i]
		}
	}
	return Bands{Upper: upper, Middle: mid, Lower: lower}
}

// Keltner computes Keltner Channels: EMA +/- scalar*ATR.
func Keltner(high, low, close []float64, length int, scalar float64) Bands {
	mid := EMA(close, length)
	atr := ATR(high, low, close, length)
	upper := nanSlice(len(close))
	lower := nanSlice(len(close))
	for i := range close {
		if Defined(atr[i]) {
			upper[i] = mid[i] + scalar*atr[i]
			lower[i] = mid[i] - scalar*atr[i]
		}
	}
	return Bands{Upper: upper, Middle: mid, Lower: lower}
}

// Donchian computes the Donchian channel: rolling max of highs and rolling
// min of lows. The middle line is their midpoint.
func Donchian(high, low []float64, length int) Bands {
	upper := RollingMax(high, length)
	lower := RollingMin(low, length)
	mid := nanSlice(len(high))
	for i := range high {
		if Defined(upper[i]) && Defined(lower[i]) {
			mid[i] = (upper[i] + lower[i]) / 2.0
		}
	}
	return Bands{Upper: upper, Middle: mid, Lower: lower}
}
