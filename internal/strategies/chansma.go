package strategies

import (
	"fmt"

	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// chanSimplified is trend following on the SMA20/SMA60 pair: it fires only
// when the cross happens on the current bar, requires a stricter ADX floor
// than the rest of the catalogue, and confirms direction against the
// resampled higher timeframe when enough resampled history exists. The
// higher-timeframe check degrades softly: with insufficient resampled data
// the confirmation is skipped rather than the signal withheld.
func chanSimplified(symbol string, s ohlcv.Series, ctx Context) (*models.Signal, error) {
	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()

	sma20 := indicators.SMA(closes, 20)
	sma60 := indicators.SMA(closes, 60)
	atr := indicators.ATR(highs, lows, closes, 14)
	adx := indicators.ADX(highs, lows, closes, 14)

	i := len(s) - 1
	if !indicators.Defined(sma20[i]) || !indicators.Defined(sma60[i]) {
		return nil, nil
	}
	if !indicators.Defined(adx[i]) || adx[i] < chanADXMin(ctx.Timeframe, ctx.Relax) {
		return nil, nil
	}

	crossUp := indicators.CrossOver(sma20, sma60, i)
	crossDown := indicators.CrossUnder(sma20, sma60, i)
	if !crossUp && !crossDown {
		return nil, nil
	}

	if rule := chanHTFRule(ctx.Timeframe); rule != "" {
		htf := ohlcv.Resample(s, rule)
		if len(htf) >= 60 {
			hCloses := htf.Closes()
			h20 := indicators.SMA(hCloses, 20)
			h60 := indicators.SMA(hCloses, 60)
			j := len(htf) - 1
			if indicators.Defined(h20[j]) && indicators.Defined(h60[j]) {
				if crossUp && !(h20[j] > h60[j]) {
					return nil, nil
				}
				if crossDown && !(h60[j] > h20[j]) {
					return nil, nil
				}
			}
		}
	}

	lastClose := closes[i]
	lastATR := atr[i]
	if !indicators.Defined(lastATR) || lastATR <= 0 {
		return nil, nil
	}

	side := models.SideBuy
	if crossDown {
		side = models.SideSell
	}
	tp, sl := chanTPSL(ctx.Timeframe)
	var target, stop float64
	if side == models.SideBuy {
		target = lastClose + tp*lastATR
		stop = lastClose - sl*lastATR
	} else {
		target = lastClose - tp*lastATR
		stop = lastClose + sl*lastATR
	}

	verb := "long"
	if side == models.SideSell {
		verb = "short"
	}
	return &models.Signal{
		Symbol:     symbol,
		Side:       side,
		Entry:      models.RoundPrice(symbol, lastClose),
		Target:     models.RoundPrice(symbol, target),
		Stop:       models.RoundPrice(symbol, stop),
		Confidence: 42,
		Reason:     fmt.Sprintf("%s (%s) %s: SMA20/60 crossed this bar with HTF confirmation, ADX %d", symbol, ctx.Timeframe, verb, int(adx[i])),
	}, nil
}
