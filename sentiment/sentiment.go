package sentiment

import (
	"strings"
)

const (
	// neutralScore is the score reported when no articles are available.
	neutralScore = 50
	// polarityScale converts a [-1,1] polarity into score points around
	// neutral.
	polarityScale = 25
)

// bullishKeywords are headline terms counted toward bullish polarity.
var bullishKeywords = []string{
	"surge", "rally", "bullish", "gains", "outperform", "upside", "momentum",
	"strength", "breakout", "beat", "profit", "growth", "upgrade", "buy",
	"overweight", "strong", "rebound",
}

// bearishKeywords are headline terms counted toward bearish polarity.
var bearishKeywords = []string{
	"crash", "plunge", "bearish", "losses", "decline", "underperform",
	"downside", "weakness", "breakdown", "miss", "downgrade", "sell",
	"underweight", "concern", "warning", "weak", "slump", "sell-off",
}

// Article represents a news article about an instrument.
type Article struct {
	Headline string
	Content  string
}

// polarity scores the provided text in [-1,1] by relative keyword frequency.
func polarity(text string) float64 {
	text = strings.ToLower(text)

	var bullish, bearish int
	for idx := range bullishKeywords {
		if strings.Contains(text, bullishKeywords[idx]) {
			bullish++
		}
	}
	for idx := range bearishKeywords {
		if strings.Contains(text, bearishKeywords[idx]) {
			bearish++
		}
	}

	total := bullish + bearish
	if total == 0 {
		return 0
	}

	return float64(bullish-bearish) / float64(total)
}

// Score derives a [0,100] bullishness score from the provided articles,
// averaging per-article keyword polarity. No articles resolves to neutral.
func Score(articles []Article) float64 {
	if len(articles) == 0 {
		return neutralScore
	}

	var sum float64
	for idx := range articles {
		sum += polarity(articles[idx].Headline + " " + articles[idx].Content)
	}
	average := sum / float64(len(articles))

	score := neutralScore + polarityScale*average
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// Categorize labels the provided sentiment score.
func Categorize(score float64) string {
	switch {
	case score > 62.5:
		return "very bullish"
	case score > 55:
		return "bullish"
	case score >= 45:
		return "neutral"
	case score >= 37.5:
		return "bearish"
	default:
		return "very bearish"
	}
}
