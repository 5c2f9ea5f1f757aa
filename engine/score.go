package engine

import (
	"github.com/dnldd/advisor/priceaction"
)

const (
	// neutralScore is the sub-score every scorer falls back to when its
	// input is missing.
	neutralScore = 50
	// patternBump is the score adjustment applied for a hammer or shooting
	// star pattern.
	patternBump = 10
	// trendBump is the score adjustment applied for trend alignment.
	trendBump = 10
	// oversoldScore anchors the rsi score at the oversold threshold.
	oversoldScore = 60
	// overboughtScore anchors the rsi score at the overbought threshold.
	overboughtScore = 40
	// alignedScore anchors a full bullish moving average alignment.
	alignedScore = 90
	// opposedScore anchors a full bearish moving average alignment.
	opposedScore = 10
	// crossScore anchors the score at the unaligned side of a moving
	// average cross.
	crossScore = 60
	// alignmentRange is the score span covered while the close travels
	// between the two moving averages.
	alignmentRange = 30
)

// Component names, in aggregation (weight table) order.
const (
	RSIComponent            = "rsi"
	MACDComponent           = "macd"
	PriceActionComponent    = "price_action"
	MovingAveragesComponent = "moving_averages"
	BollingerComponent      = "bollinger"
	SentimentComponent      = "sentiment"
	MLPredictionComponent   = "ml_prediction"
)

// clampScore clamps the provided score to [0,100].
func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// scoreRSI maps the provided rsi to a bullishness sub-score. Deep oversold
// readings score toward 100, deep overbought readings toward 0, with linear
// interpolation through 50 at the band midpoint.
func scoreRSI(rsi *float64, oversold float64, overbought float64) float64 {
	if rsi == nil {
		return neutralScore
	}

	r := *rsi
	switch {
	case r <= oversold:
		return oversoldScore + (100-oversoldScore)*(oversold-r)/oversold
	case r >= overbought:
		return overboughtScore - overboughtScore*(r-overbought)/(100-overbought)
	default:
		return oversoldScore + (overboughtScore-oversoldScore)*(r-oversold)/(overbought-oversold)
	}
}

// scoreMACD maps the provided macd histogram to a bullishness sub-score. The
// histogram is normalized against the entry price so the scale holds across
// instruments of different magnitudes.
func scoreMACD(histogram *float64, entry float64, scale float64) float64 {
	if histogram == nil || entry <= 0 {
		return neutralScore
	}

	histogramPercent := *histogram / entry * 100
	return clampScore(neutralScore + scale*histogramPercent)
}

// scorePriceAction maps the provided price action classification to a
// bullishness sub-score.
func scorePriceAction(cls priceaction.Classification) float64 {
	score := float64(neutralScore)

	switch cls.Pattern {
	case priceaction.Hammer:
		score += patternBump
	case priceaction.ShootingStar:
		score -= patternBump
	}

	switch cls.Trend {
	case priceaction.Uptrend:
		score += trendBump
	case priceaction.Downtrend:
		score -= trendBump
	}

	return clampScore(score)
}

// scoreMovingAverages maps the ordering of the close and the two moving
// averages to a bullishness sub-score. Full bullish alignment
// (close > short > long) anchors near 100, full bearish alignment near 0,
// and a close between the averages interpolates by its relative distance.
func scoreMovingAverages(closePrice float64, smaShort *float64, smaLong *float64) float64 {
	if smaShort == nil || smaLong == nil {
		return neutralScore
	}

	short, long := *smaShort, *smaLong
	switch {
	case short > long:
		if closePrice >= short {
			return alignedScore
		}
		if closePrice <= long {
			return crossScore
		}
		return crossScore + alignmentRange*(closePrice-long)/(short-long)
	case short < long:
		if closePrice <= short {
			return opposedScore
		}
		if closePrice >= long {
			return 100 - crossScore
		}
		return (100 - crossScore) - alignmentRange*(long-closePrice)/(long-short)
	default:
		return neutralScore
	}
}

// scoreBollinger maps the close's position within the bollinger bands to a
// mean-reversion biased sub-score, proximity to the lower band is bullish.
func scoreBollinger(closePrice float64, upper *float64, lower *float64) float64 {
	if upper == nil || lower == nil {
		return neutralScore
	}

	width := *upper - *lower
	if width <= 0 {
		return neutralScore
	}

	percentB := (closePrice - *lower) / width
	return clampScore(100 * (1 - percentB))
}

// scorePassThrough relays an externally supplied auxiliary score, falling
// back to neutral when the collaborator did not deliver one.
func scorePassThrough(score *float64) float64 {
	if score == nil {
		return neutralScore
	}

	return clampScore(*score)
}
