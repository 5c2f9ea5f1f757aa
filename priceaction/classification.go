package priceaction

import (
	"math"

	"github.com/dnldd/advisor/shared"
)

const (
	// dojiBodyFraction is the maximum fraction of the candle range a doji
	// body can occupy.
	dojiBodyFraction = 0.1
	// wickBodyMultiple is the minimum wick to body multiple for hammers and
	// shooting stars.
	wickBodyMultiple = 2
	// DefaultTrendLookback is the stock number of candles used for trend
	// detection.
	DefaultTrendLookback = 5
)

// Pattern represents a candlestick pattern.
type Pattern int

const (
	NoPattern Pattern = iota
	Doji
	Hammer
	ShootingStar
)

// String stringifies the provided pattern.
func (p Pattern) String() string {
	switch p {
	case Doji:
		return "doji"
	case Hammer:
		return "hammer"
	case ShootingStar:
		return "shooting_star"
	case NoPattern:
		return "none"
	default:
		return "unknown"
	}
}

// Trend represents the market trend over a lookback window.
type Trend int

const (
	Ranging Trend = iota
	Uptrend
	Downtrend
)

// String stringifies the provided trend.
func (t Trend) String() string {
	switch t {
	case Uptrend:
		return "uptrend"
	case Downtrend:
		return "downtrend"
	case Ranging:
		return "ranging"
	default:
		return "unknown"
	}
}

// Classification represents the price action state of a series.
type Classification struct {
	Pattern Pattern
	Trend   Trend
	// ClosePosition is the position of the close within the candle's
	// high-low range, in [0,1].
	ClosePosition float64
}

// metrics holds the derived measurements of a single candle.
type metrics struct {
	body        float64
	candleRange float64
	upperWick   float64
	lowerWick   float64
}

// newMetrics derives the measurements of the provided candle.
func newMetrics(candle *shared.Candlestick) metrics {
	return metrics{
		body:        math.Abs(candle.Close - candle.Open),
		candleRange: candle.High - candle.Low,
		upperWick:   candle.High - math.Max(candle.Open, candle.Close),
		lowerWick:   math.Min(candle.Open, candle.Close) - candle.Low,
	}
}

// patternRule pairs a pattern with its matching predicate. Rules are
// evaluated in order, the first match wins.
type patternRule struct {
	pattern Pattern
	match   func(m metrics, trend Trend) bool
}

var patternRules = []patternRule{
	{
		pattern: Doji,
		match: func(m metrics, _ Trend) bool {
			return m.candleRange > 0 && m.body <= dojiBodyFraction*m.candleRange
		},
	},
	{
		pattern: Hammer,
		match: func(m metrics, trend Trend) bool {
			return trend == Downtrend && m.lowerWick >= wickBodyMultiple*m.body &&
				m.upperWick <= m.body
		},
	},
	{
		pattern: ShootingStar,
		match: func(m metrics, trend Trend) bool {
			return trend == Uptrend && m.upperWick >= wickBodyMultiple*m.body &&
				m.lowerWick <= m.body
		},
	},
}

// DetectTrend classifies the trend over the last lookback candles of the
// provided set. An uptrend requires both highs and lows to be non-decreasing
// across the window, a downtrend requires both to be non-increasing.
func DetectTrend(candles []*shared.Candlestick, lookback int) Trend {
	if lookback > len(candles) {
		lookback = len(candles)
	}
	if lookback < 2 {
		return Ranging
	}

	window := candles[len(candles)-lookback:]
	rising, falling := true, true

	for idx := 1; idx < len(window); idx++ {
		if window[idx].High < window[idx-1].High || window[idx].Low < window[idx-1].Low {
			rising = false
		}
		if window[idx].High > window[idx-1].High || window[idx].Low > window[idx-1].Low {
			falling = false
		}
	}

	switch {
	case rising && !falling:
		return Uptrend
	case falling && !rising:
		return Downtrend
	default:
		return Ranging
	}
}

// Classify derives the price action classification for the provided series.
func Classify(series *shared.CandleSeries, trendLookback int) Classification {
	candles := series.Candles()
	last := candles[len(candles)-1]

	cls := Classification{
		Trend:         DetectTrend(candles, trendLookback),
		ClosePosition: 0.5,
	}

	m := newMetrics(last)
	if m.candleRange > 0 {
		cls.ClosePosition = (last.Close - last.Low) / m.candleRange
	}

	for _, rule := range patternRules {
		if rule.match(m, cls.Trend) {
			cls.Pattern = rule.pattern
			break
		}
	}

	return cls
}
