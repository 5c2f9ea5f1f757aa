package indicator

import (
	"testing"

	"github.com/dnldd/advisor/shared"
	"github.com/peterldowns/testy/assert"
)

// newLevelSeries creates a candle series from explicit highs and lows, with
// the open and close set to the candle midpoint.
func newLevelSeries(t *testing.T, highs []float64, lows []float64) *shared.CandleSeries {
	t.Helper()

	candles := make([]*shared.Candlestick, len(highs))
	for idx := range highs {
		mid := (highs[idx] + lows[idx]) / 2
		candles[idx] = &shared.Candlestick{
			Open:   mid,
			High:   highs[idx],
			Low:    lows[idx],
			Close:  mid,
			Volume: 100,
			Date:   day(idx),
			Symbol: "AAPL",
		}
	}

	series, err := shared.NewCandleSeries("AAPL", candles)
	assert.NoError(t, err)

	return series
}

func TestLevelKindString(t *testing.T) {
	assert.Equal(t, Support.String(), "support")
	assert.Equal(t, Resistance.String(), "resistance")
	assert.Equal(t, LevelKind(99).String(), "unknown")
}

func TestLevels(t *testing.T) {
	// Ensure a lone peak and trough resolve to one resistance and one
	// support. The middle candle holds both the maximum high and the
	// minimum low of its neighborhood.
	highs := []float64{101, 102, 103, 104, 105, 104, 103, 102, 101}
	lows := []float64{95, 94, 93, 92, 91, 92, 93, 94, 95}
	levels := Levels(newLevelSeries(t, highs, lows), 2, 0.5)

	assert.Equal(t, len(levels), 2)
	assert.Equal(t, levels[0].Kind, Support)
	assert.Equal(t, levels[0].Price, 91.0)
	assert.Equal(t, levels[1].Kind, Resistance)
	assert.Equal(t, levels[1].Price, 105.0)

	// Ensure nearby peaks within the merge tolerance collapse into a single
	// zone at their mean.
	highs = []float64{99, 100, 99, 100.3, 99}
	lows = []float64{98, 97, 96, 95, 94}
	levels = Levels(newLevelSeries(t, highs, lows), 1, 0.5)

	assert.Equal(t, len(levels), 1)
	assert.Equal(t, levels[0].Kind, Resistance)
	approx(t, &levels[0].Price, 100.15)

	// Ensure peaks beyond the merge tolerance stay distinct zones.
	highs = []float64{99, 100, 99, 110, 99}
	levels = Levels(newLevelSeries(t, highs, lows), 1, 0.5)

	assert.Equal(t, len(levels), 2)
	assert.Equal(t, levels[0].Price, 100.0)
	assert.Equal(t, levels[1].Price, 110.0)

	// Ensure a series too short for the neighborhood yields no levels.
	levels = Levels(newLevelSeries(t, highs[:3], lows[:3]), 2, 0.5)
	assert.Equal(t, len(levels), 0)
}
