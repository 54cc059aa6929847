package indicators

import "math"

// RSI computes the relative strength index using Wilder's smoothing of
// gains and losses. Undefined until period changes have accumulated.
func RSI(values []float64, period int) []float64 {
	n := len(values)
	out := nanSlice(n)
	if n < 2 || period <= 0 {
		return out
	}
	gains := nanSlice(n)
	losses := nanSlice(n)
	for i := 1; i < n; i++ {
		d := values[i] - values[i-1]
		gains[i] = math.Max(d, 0)
		losses[i] = math.Max(-d, 0)
	}
	avgGain := wilderSmooth(gains, period)
	avgLoss := wilderSmooth(losses, period)
	for i := range out {
		if !Defined(avgGain[i]) || !Defined(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}

// StochRSIResult holds the smoothed %K and %D lines, scaled 0..1.
type StochRSIResult struct {
	K []float64
	D []float64
}

// StochRSI computes the stochastic of RSI: the RSI's position within its
// rolling high/low range over stochLen bars, smoothed into %K and %D.
func StochRSI(values []float64, rsiLen, stochLen, k, d int) StochRSIResult {
	rsi := RSI(values, rsiLen)
	n := len(values)
	stoch := nanSlice(n)
	hi := RollingMax(rsi, stochLen)
	lo := RollingMin(rsi, stochLen)
	for i := range stoch {
		if !Defined(rsi[i]) || !Defined(hi[i]) || !Defined(lo[i]) {
			continue
		}
		span := hi[i] - lo[i]
		if span == 0 {
			stoch[i] = 0
			continue
		}
		stoch[i] = (rsi[i] - lo[i]) / span
	}
	kLine := smaSkipNaN(stoch, k)
	dLine := smaSkipNaN(kLine, d)
	return StochRSIResult{K: kLine, D: dLine}
}

// CCI computes the commodity channel index over typical price:
// (tp - SMA(tp)) / (0.015 * mean absolute deviation).
func CCI(high, low, close []float64, length int) []float64 {
	tp := typicalPrice(high, low, close)
	sma := SMA(tp, length)
	out := nanSlice(len(close))
	for i := length - 1; i < len(tp); i++ {
		if !Defined(sma[i]) {
			continue
		}
		mad := 0.0
		for _, v := range tp[i-length+1 : i+1] {
			mad += math.Abs(v - sma[i])
		}
		mad /= float64(length)
		if mad == 0 {
			continue
		}
		out[i] = (tp[i] - sma[i]) / (0.015 * mad)
	}
	return out
}

// smaSkipNaN is an SMA whose window only opens once its input is defined,
// used to smooth series that already carry a warm-up prefix.
func smaSkipNaN(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for _, v := range values[i-period+1 : i+1] {
			if !Defined(v) {
				ok = false
				break
			}
			sum += v
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}
