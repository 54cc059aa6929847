package strategies

import (
	"fmt"

	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// macdBaseline fires on a MACD histogram sign flip on the current bar,
// confirmed by the EMA200 baseline: buys only above it, sells only below.
// Under relax mode the baseline confirmation is skipped. ADX and
// ATR-percent floors filter small oscillations.
func macdBaseline(symbol string, s ohlcv.Series, ctx Context) (*models.Signal, error) {
	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()

	macd := indicators.MACD(closes, 12, 26, 9)
	ema200 := indicators.EMA(closes, 200)
	atr := indicators.ATR(highs, lows, closes, 14)
	atrp := indicators.ATRPercent(highs, lows, closes, 14)
	adx := indicators.ADX(highs, lows, closes, 14)

	i := len(s) - 1
	if !indicators.Defined(atrp[i]) || !indicators.Defined(adx[i]) {
		return nil, nil
	}
	p := ParamsFor(ctx.Timeframe)
	if atrp[i] < p.ATRPMin || adx[i] < p.ADXMin {
		return nil, nil
	}
	hist := macd.Histogram
	if !indicators.Defined(hist[i]) || !indicators.Defined(hist[i-1]) || !indicators.Defined(ema200[i]) {
		return nil, nil
	}

	condBuy := hist[i-1] <= 0 && hist[i] > 0
	condSell := hist[i-1] >= 0 && hist[i] < 0
	if !ctx.Relax {
		condBuy = condBuy && closes[i] > ema200[i]
		condSell = condSell && closes[i] < ema200[i]
	}

	var side models.Side
	switch {
	case condBuy:
		side = models.SideBuy
	case condSell:
		side = models.SideSell
	default:
		return nil, nil
	}

	last := closes[i]
	lastATR := atr[i]
	if !indicators.Defined(lastATR) || lastATR <= 0 {
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
		Confidence: 30,
		Reason:     fmt.Sprintf("%s (%s) %s: MACD histogram flipped with EMA200 baseline and ADX filter", symbol, ctx.Timeframe, verb),
	}, nil
}
