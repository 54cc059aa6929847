package services

import (
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/volatility"
	"github.com/cinar/indicator/v2/volume"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// minScoreBars is the history needed before the scorer has anything useful
// to say; shorter series leave the raw confidence untouched.
const minScoreBars = 30

// QualityAssessment records how a signal's confidence was adjusted.
type QualityAssessment struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	Strategy        string          `json:"strategy"`
	MomentumScore   decimal.Decimal `json:"momentum_score"`
	VolumeScore     decimal.Decimal `json:"volume_score"`
	VolatilityScore decimal.Decimal `json:"volatility_score"`
	OverallScore    decimal.Decimal `json:"overall_score"`
	BaseConfidence  int             `json:"base_confidence"`
	FinalConfidence int             `json:"final_confidence"`
	AssessedAt      time.Time       `json:"assessed_at"`
}

// QualityScorer nudges a signal's confidence using market context the
// strategies themselves do not look at: RSI regime agreement, on-balance
// volume direction, and current volatility relative to price.
type QualityScorer struct {
	logger *logrus.Logger
}

func NewQualityScorer(logger *logrus.Logger) *QualityScorer {
	return &QualityScorer{logger: logger}
}

// Score adjusts the signal's confidence in place and returns the
// assessment. Confidence moves at most 10 points either way and stays
// within 0..100.
func (qs *QualityScorer) Score(sig *models.Signal, s ohlcv.Series) *QualityAssessment {
	assessment := &QualityAssessment{
		ID:             uuid.New().String(),
		Symbol:         sig.Symbol,
		Strategy:       sig.Strategy,
		BaseConfidence: sig.Confidence,
		AssessedAt:     time.Now().UTC(),
	}

	if len(s) < minScoreBars {
		assessment.FinalConfidence = sig.Confidence
		return assessment
	}

	closes := s.Closes()
	assessment.MomentumScore = qs.momentumScore(closes, sig.Side)
	assessment.VolumeScore = qs.volumeScore(closes, s.Volumes(), sig.Side)
	assessment.VolatilityScore = qs.volatilityScore(s)

	// Momentum and volume confirm direction; volatility only dampens.
	overall := assessment.MomentumScore.Mul(decimal.NewFromFloat(0.4)).
		Add(assessment.VolumeScore.Mul(decimal.NewFromFloat(0.4))).
		Add(assessment.VolatilityScore.Mul(decimal.NewFromFloat(0.2)))
	assessment.OverallScore = overall

	// Map 0..1 overall onto a -10..+10 confidence shift.
	shift := overall.Sub(decimal.NewFromFloat(0.5)).Mul(decimal.NewFromInt(20))
	final := sig.Confidence + int(shift.Round(0).IntPart())
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	sig.Confidence = final
	assessment.FinalConfidence = final

	qs.logger.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"symbol":        sig.Symbol,
		"strategy":      sig.Strategy,
		"base":          assessment.BaseConfidence,
		"final":         final,
	}).Debug("Signal quality scored")

	return assessment
}

// momentumScore checks whether the RSI regime agrees with the trade side.
func (qs *QualityScorer) momentumScore(closes []float64, side models.Side) decimal.Decimal {
	rsiIndicator := momentum.NewRsiWithPeriod[float64](14)
	values := helper.ChanToSlice(rsiIndicator.Compute(helper.SliceToChan(closes)))
	if len(values) == 0 {
		return decimal.NewFromFloat(0.5)
	}
	last := values[len(values)-1]
	aligned := (side == models.SideBuy && last > 50) || (side == models.SideSell && last < 50)
	if aligned {
		return decimal.NewFromFloat(0.75)
	}
	return decimal.NewFromFloat(0.35)
}

// volumeScore checks whether on-balance volume is rising into a BUY or
// falling into a SELL over the recent window.
func (qs *QualityScorer) volumeScore(closes, volumes []float64, side models.Side) decimal.Decimal {
	obvIndicator := volume.NewObv[float64]()
	values := helper.ChanToSlice(obvIndicator.Compute(helper.SliceToChan(closes), helper.SliceToChan(volumes)))
	if len(values) < 6 {
		return decimal.NewFromFloat(0.5)
	}
	delta := values[len(values)-1] - values[len(values)-6]
	aligned := (side == models.SideBuy && delta > 0) || (side == models.SideSell && delta < 0)
	if aligned {
		return decimal.NewFromFloat(0.75)
	}
	return decimal.NewFromFloat(0.35)
}

// volatilityScore penalizes signals taken into unusually wide ranges.
func (qs *QualityScorer) volatilityScore(s ohlcv.Series) decimal.Decimal {
	atrIndicator := volatility.NewAtr[float64]()
	values := helper.ChanToSlice(atrIndicator.Compute(
		helper.SliceToChan(s.Highs()),
		helper.SliceToChan(s.Lows()),
		helper.SliceToChan(s.Closes()),
	))
	if len(values) == 0 {
		return decimal.NewFromFloat(0.5)
	}
	last, ok := s.Last()
	if !ok || last.Close <= 0 {
		return decimal.NewFromFloat(0.5)
	}
	atrPct := values[len(values)-1] / last.Close * 100
	switch {
	case atrPct < 1:
		return decimal.NewFromFloat(0.7)
	case atrPct < 3:
		return decimal.NewFromFloat(0.55)
	default:
		return decimal.NewFromFloat(0.3)
	}
}
