package indicator

import (
	"math"
	"sort"

	"github.com/dnldd/advisor/shared"
)

// LevelKind represents the type of price level.
type LevelKind int

const (
	Support LevelKind = iota
	Resistance
)

// String stringifies the provided level kind.
func (l LevelKind) String() string {
	switch l {
	case Support:
		return "support"
	case Resistance:
		return "resistance"
	default:
		return "unknown"
	}
}

// Level represents a support or resistance zone derived from local price
// extremes.
type Level struct {
	Kind  LevelKind
	Price float64
}

// localExtremes collects candle highs that are the maximum of their
// symmetric neighborhood and lows that are the minimum of theirs.
func localExtremes(candles []*shared.Candlestick, window int) ([]float64, []float64) {
	highs := make([]float64, 0)
	lows := make([]float64, 0)

	for idx := window; idx < len(candles)-window; idx++ {
		maxHigh := math.Inf(-1)
		minLow := math.Inf(1)

		for n := idx - window; n <= idx+window; n++ {
			if n == idx {
				continue
			}
			maxHigh = math.Max(maxHigh, candles[n].High)
			minLow = math.Min(minLow, candles[n].Low)
		}

		if candles[idx].High >= maxHigh {
			highs = append(highs, candles[idx].High)
		}
		if candles[idx].Low <= minLow {
			lows = append(lows, candles[idx].Low)
		}
	}

	return highs, lows
}

// clusterLevels merges adjacent prices within the provided tolerance
// percentage into zones, scanning left to right over the sorted prices. Each
// zone resolves to the mean of its members.
func clusterLevels(prices []float64, mergePercent float64) []float64 {
	if len(prices) == 0 {
		return nil
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	zones := make([]float64, 0, len(sorted))
	cluster := []float64{sorted[0]}

	for _, price := range sorted[1:] {
		tolerance := cluster[len(cluster)-1] * (mergePercent / 100)
		if math.Abs(price-cluster[len(cluster)-1]) <= tolerance {
			cluster = append(cluster, price)
			continue
		}

		zones = append(zones, mean(cluster))
		cluster = []float64{price}
	}
	zones = append(zones, mean(cluster))

	return zones
}

// Levels detects support and resistance zones for the provided series. A
// candle high is a resistance point when it is the maximum high of its
// symmetric neighborhood, lows are evaluated symmetrically for support.
func Levels(series *shared.CandleSeries, window int, mergePercent float64) []Level {
	highs, lows := localExtremes(series.Candles(), window)

	resistances := clusterLevels(highs, mergePercent)
	supports := clusterLevels(lows, mergePercent)

	levels := make([]Level, 0, len(resistances)+len(supports))
	for _, price := range supports {
		levels = append(levels, Level{Kind: Support, Price: price})
	}
	for _, price := range resistances {
		levels = append(levels, Level{Kind: Resistance, Price: price})
	}

	return levels
}
