package indicators

import "math"

// DMI holds the directional movement family: +DI, -DI and ADX, all smoothed
// by Wilder's method.
type DMI struct {
	PlusDI  []float64
	MinusDI []float64
	ADX     []float64
}

// DirectionalMovement computes +DI/-DI and ADX over the given period.
// +DI and -DI become defined after period bars, ADX after roughly twice
// that, matching the standard double smoothing.
func DirectionalMovement(high, low, close []float64, period int) DMI {
	n := len(close)
	res := DMI{
		PlusDI:  nanSlice(n),
		MinusDI: nanSlice(n),
		ADX:     nanSlice(n),
	}
	if n < 2 || period <= 0 {
		return res
	}

	plusDM := nanSlice(n)
	minusDM := nanSlice(n)
	tr := TrueRange(high, low, close)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		plusDM[i] = 0
		minusDM[i] = 0
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}
	// TR at index 0 has no previous close; start smoothing from bar 1 so
	// all three inputs share the same origin.
	trFrom1 := nanSlice(n)
	copy(trFrom1[1:], tr[1:])

	smTR := wilderSmooth(trFrom1, period)
	smPlus := wilderSmooth(plusDM, period)
	smMinus := wilderSmooth(minusDM, period)

	dx := nanSlice(n)
	for i := range close {
		if !Defined(smTR[i]) || smTR[i] == 0 {
			continue
		}
		res.PlusDI[i] = 100.0 * smPlus[i] / smTR[i]
		res.MinusDI[i] = 100.0 * smMinus[i] / smTR[i]
		sum := res.PlusDI[i] + res.MinusDI[i]
		if sum != 0 {
			dx[i] = 100.0 * math.Abs(res.PlusDI[i]-res.MinusDI[i]) / sum
		}
	}
	res.ADX = wilderSmooth(dx, period)
	return res
}

// ADX returns only the trend-strength line for the given period.
func ADX(high, low, close []float64, period int) []float64 {
	return DirectionalMovement(high, low, close, period).ADX
}
