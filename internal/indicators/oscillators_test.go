package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSIExtremes(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 100 - float64(i)
	}

	rsiUp := RSI(up, 14)
	rsiDown := RSI(down, 14)
	assert.True(t, math.IsNaN(rsiUp[5]))
	assert.Equal(t, 100.0, rsiUp[len(rsiUp)-1])
	assert.Equal(t, 0.0, rsiDown[len(rsiDown)-1])
}

func TestRSIBounded(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + 10*math.Sin(float64(i)/3)
	}
	for _, v := range RSI(values, 14) {
		if Defined(v) {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestStochRSIScaledToUnit(t *testing.T) {
	values := make([]float64, 80)
	for i := range values {
		values[i] = 100 + 10*math.Sin(float64(i)/4)
	}
	res := StochRSI(values, 14, 14, 3, 3)
	require.Len(t, res.K, len(values))
	require.Len(t, res.D, len(values))

	sawDefined := false
	for i := range res.K {
		if Defined(res.K[i]) {
			sawDefined = true
			assert.GreaterOrEqual(t, res.K[i], 0.0)
			assert.LessOrEqual(t, res.K[i], 1.0)
		}
	}
	assert.True(t, sawDefined)
}

func TestCCIZeroAtFlat(t *testing.T) {
	// Flat typical price has zero MAD, which leaves CCI undefined.
	n := 30
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := range high {
		high[i], low[i], close[i] = 100, 100, 100
	}
	for _, v := range CCI(high, low, close, 20) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestCCISignOfExcursion(t *testing.T) {
	n := 30
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := range high {
		high[i], low[i], close[i] = 101, 99, 100
	}
	// Final bar spikes above the channel.
	high[n-1], low[n-1], close[n-1] = 111, 109, 110

	cci := CCI(high, low, close, 20)
	last := cci[n-1]
	require.True(t, Defined(last))
	assert.Greater(t, last, 100.0)
}

func TestTrueRangeGapsUsePrevClose(t *testing.T) {
	high := []float64{12, 20}
	low := []float64{10, 18}
	close := []float64{11, 19}
	tr := TrueRange(high, low, close)
	assert.Equal(t, 2.0, tr[0])
	// Gap up: high-prevClose dominates.
	assert.Equal(t, 9.0, tr[1])
}

func TestATRIsSMAOfTrueRange(t *testing.T) {
	high := []float64{12, 13, 14}
	low := []float64{10, 11, 12}
	close := []float64{11, 12, 13}
	atr := ATR(high, low, close, 2)
	assert.True(t, math.IsNaN(atr[0]))
	assert.Equal(t, 2.0, atr[1])
	assert.Equal(t, 2.0, atr[2])
}

func TestATRPercent(t *testing.T) {
	high := []float64{102, 102}
	low := []float64{98, 98}
	close := []float64{100, 100}
	atrp := ATRPercent(high, low, close, 2)
	assert.InDelta(t, 4.0, atrp[1], 1e-12)
}

func TestMACDFlatSeriesIsZero(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 100
	}
	res := MACD(values, 12, 26, 9)
	for i := range values {
		assert.Equal(t, 0.0, res.DIF[i])
		assert.Equal(t, 0.0, res.DEA[i])
		assert.Equal(t, 0.0, res.Histogram[i])
	}
}

func TestMACDHistogramIdentity(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + 5*math.Sin(float64(i)/5)
	}
	res := MACD(values, 12, 26, 9)
	for i := range values {
		assert.InDelta(t, res.DIF[i]-res.DEA[i], res.Histogram[i], 1e-12)
	}
}

func TestPSARStaysBelowUptrend(t *testing.T) {
	n := 20
	high := make([]float64, n)
	low := make([]float64, n)
	for i := range high {
		high[i] = 102 + float64(i)
		low[i] = 100 + float64(i)
	}
	sar := PSAR(high, low, 0.02, 0.2)
	assert.True(t, math.IsNaN(sar[0]))
	for i := 2; i < n; i++ {
		require.True(t, Defined(sar[i]))
		assert.Less(t, sar[i], low[i])
	}
}

func TestHeikinAshiRecursion(t *testing.T) {
	open := []float64{10, 12}
	high := []float64{14, 16}
	low := []float64{8, 10}
	close := []float64{12, 14}

	ha := HeikinAshiOC(open, high, low, close)
	assert.Equal(t, 11.0, ha.Close[0]) // (10+14+8+12)/4
	assert.Equal(t, 11.0, ha.Open[0])  // (10+12)/2
	assert.Equal(t, 13.0, ha.Close[1]) // (12+16+10+14)/4
	assert.Equal(t, 11.0, ha.Open[1])  // (11+11)/2
}

func TestAnchoredVWAPResetsDaily(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{
		base, base.Add(4 * time.Hour),
		base.Add(24 * time.Hour), base.Add(28 * time.Hour),
	}
	high := []float64{101, 111, 201, 211}
	low := []float64{99, 109, 199, 209}
	close := []float64{100, 110, 200, 210}
	volume := []float64{1, 1, 1, 1}

	vwap := AnchoredVWAP(high, low, close, volume, ts)
	assert.Equal(t, 100.0, vwap[0])
	assert.Equal(t, 105.0, vwap[1])
	// New day: the cumulative sums restart.
	assert.Equal(t, 200.0, vwap[2])
	assert.Equal(t, 205.0, vwap[3])
}

func TestAnchoredVWAPZeroVolumeUndefined(t *testing.T) {
	ts := []time.Time{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	vwap := AnchoredVWAP([]float64{101}, []float64{99}, []float64{100}, []float64{0}, ts)
	assert.True(t, math.IsNaN(vwap[0]))
}
