package indicators

// PSAR computes the standard iterative parabolic stop-and-reverse with the
// given acceleration step and maximum. The first bar is undefined; the
// initial trend is inferred from the first two bars.
func PSAR(high, low []float64, accel, maxAccel float64) []float64 {
	n := len(high)
	out := nanSlice(n)
	if n < 2 {
		return out
	}

	uptrend := high[1]+low[1] >= high[0]+low[0]
	af := accel
	var sar, ep float64
	if uptrend {
		sar = low[0]
		ep = high[1]
	} else {
		sar = high[0]
		ep = low[1]
	}
	out[1] = sar

	for i := 2; i < n; i++ {
		sar = sar + af*(ep-sar)
		if uptrend {
			// SAR may not enter the prior two bars' range.
			if sar > low[i-1] {
				sar = low[i-1]
			}
			if sar > low[i-2] {
				sar = low[i-2]
			}
			if low[i] < sar {
				uptrend = false
				sar = ep
				ep = low[i]
				af = accel
			} else if high[i] > ep {
				ep = high[i]
				af += accel
				if af > maxAccel {
					af = maxAccel
				}
			}
		} else {
			if sar < high[i-1] {
				sar = high[i-1]
			}
			if sar < high[i-2] {
				sar = high[i-2]
			}
			if high[i] > sar {
				uptrend = true
				sar = ep
				ep = high[i]
				af = accel
			} else if low[i] < ep {
				ep = low[i]
				af += accel
				if af > maxAccel {
					af = maxAccel
				}
			}
		}
		out[i] = sar
	}
	return out
}
