package strategies

import (
	"fmt"
	"math"

	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// vegasTunnel is the EMA55/EMA144 tunnel breakout: the prior bar must close
// inside the tunnel and the current bar must close beyond it by at least a
// fraction of ATR, with ADX and ATR-percent floors filtering chop.
func vegasTunnel(symbol string, s ohlcv.Series, ctx Context) (*models.Signal, error) {
	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()

	ema55 := indicators.EMA(closes, 55)
	ema144 := indicators.EMA(closes, 144)
	n := len(s)
	up := make([]float64, n)
	dn := make([]float64, n)
	for i := range closes {
		up[i] = math.Max(ema55[i], ema144[i])
		dn[i] = math.Min(ema55[i], ema144[i])
	}

	atr := indicators.ATR(highs, lows, closes, 14)
	atrp := indicators.ATRPercent(highs, lows, closes, 14)
	adx := indicators.ADX(highs, lows, closes, 14)

	i := n - 1
	p := ParamsFor(ctx.Timeframe)
	if !indicators.Defined(adx[i]) || adx[i] < p.ADXMin {
		return nil, nil
	}
	if !indicators.Defined(atrp[i]) || atrp[i] < p.ATRPMin {
		return nil, nil
	}
	if !(dn[i-1] <= closes[i-1] && closes[i-1] <= up[i-1]) {
		return nil, nil
	}

	last := closes[i]
	lastATR := atr[i]
	if !indicators.Defined(lastATR) || lastATR <= 0 {
		return nil, nil
	}

	dist := vegasBreakoutDist(ctx.Relax)
	var side models.Side
	switch {
	case last > up[i]+dist*lastATR:
		side = models.SideBuy
	case last < dn[i]-dist*lastATR:
		side = models.SideSell
	default:
		return nil, nil
	}

	tp := p.TPATR[RegimeTrend]
	sl := p.SLATR[RegimeTrend]
	var target, stop float64
	if side == models.SideBuy {
		target = last + tp*lastATR
		stop = last - sl*lastATR
	} else {
		target = last - tp*lastATR
		stop = last + sl*lastATR
	}

	verb := "long"
	if side == models.SideSell {
		verb = "short"
	}
	return &models.Signal{
		Symbol:     symbol,
		Side:       side,
		Entry:      models.RoundPrice(symbol, last),
		Target:     models.RoundPrice(symbol, target),
		Stop:       models.RoundPrice(symbol, stop),
		Confidence: 45,
		Reason:     fmt.Sprintf("%s (%s) %s: close broke out of the Vegas tunnel, ADX %d", symbol, ctx.Timeframe, verb, int(adx[i])),
	}, nil
}
