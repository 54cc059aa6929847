package strategies

import "strings"

// Regime selects which side of the TP/SL multiplier table applies.
type Regime string

const (
	RegimeTrend  Regime = "trend"
	RegimeRevert Regime = "revert"
)

// Params is the per-timeframe configuration bundle shared by the event-style
// strategies: ADX and ATR-percent floors plus take-profit and stop-loss ATR
// multipliers per regime.
type Params struct {
	ADXMin  float64
	ATRPMin float64
	TPATR   map[Regime]float64
	SLATR   map[Regime]float64
}

var timeframeParams = map[string]Params{
	"4h": {ADXMin: 18, ATRPMin: 0.35, TPATR: map[Regime]float64{RegimeTrend: 2.0, RegimeRevert: 1.5}, SLATR: map[Regime]float64{RegimeTrend: 1.4, RegimeRevert: 1.2}},
	"1d": {ADXMin: 16, ATRPMin: 0.30, TPATR: map[Regime]float64{RegimeTrend: 2.6, RegimeRevert: 2.0}, SLATR: map[Regime]float64{RegimeTrend: 1.8, RegimeRevert: 1.5}},
	"1w": {ADXMin: 14, ATRPMin: 0.50, TPATR: map[Regime]float64{RegimeTrend: 3.0, RegimeRevert: 2.3}, SLATR: map[Regime]float64{RegimeTrend: 2.5, RegimeRevert: 2.0}},
}

var defaultParams = Params{
	ADXMin:  16,
	ATRPMin: 0.4,
	TPATR:   map[Regime]float64{RegimeTrend: 2.2, RegimeRevert: 1.8},
	SLATR:   map[Regime]float64{RegimeTrend: 1.6, RegimeRevert: 1.3},
}

// ParamsFor returns the configuration bundle for a timeframe, falling back
// to the defaults for unknown timeframes.
func ParamsFor(tf string) Params {
	if p, ok := timeframeParams[strings.ToLower(tf)]; ok {
		return p
	}
	return defaultParams
}

// vegasBreakoutDist is the minimum breakout distance beyond the tunnel in
// ATR multiples.
func vegasBreakoutDist(relax bool) float64 {
	if relax {
		return 0.15
	}
	return 0.3
}

// chanADXMin is the stricter ADX floor used by chan_simplified, per
// timeframe, loosened under relax mode.
func chanADXMin(tf string, relax bool) float64 {
	strict := map[string]float64{"4h": 22, "1d": 20, "1w": 18}
	relaxed := map[string]float64{"4h": 16, "1d": 15, "1w": 13}
	table := strict
	if relax {
		table = relaxed
	}
	if v, ok := table[strings.ToLower(tf)]; ok {
		return v
	}
	return 20
}

// chanTPSL returns the asymmetric take-profit and stop-loss ATR multipliers
// for chan_simplified.
func chanTPSL(tf string) (tp, sl float64) {
	switch strings.ToLower(tf) {
	case "4h":
		return 3.0, 1.2
	case "1d":
		return 3.0, 1.5
	case "1w":
		return 3.5, 2.0
	}
	return 3.0, 1.2
}

// chanHTFRule maps a timeframe to the higher timeframe used for direction
// confirmation; empty when none applies.
func chanHTFRule(tf string) string {
	switch strings.ToLower(tf) {
	case "4h":
		return "1d"
	case "1d":
		return "1w"
	}
	return ""
}
