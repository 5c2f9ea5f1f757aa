package engine

import (
	"math"
	"testing"

	"github.com/dnldd/advisor/priceaction"
	"github.com/peterldowns/testy/assert"
)

// floatPtr returns a pointer to the provided float.
func floatPtr(v float64) *float64 {
	return &v
}

// approx asserts the provided score is within tolerance of the expected value.
func approx(t *testing.T, got float64, want float64) {
	t.Helper()

	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected %.6f, got %.6f", want, got)
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, clampScore(-5), 0.0)
	assert.Equal(t, clampScore(105), 100.0)
	assert.Equal(t, clampScore(42), 42.0)
}

func TestScoreRSI(t *testing.T) {
	// Ensure a missing reading resolves to neutral.
	approx(t, scoreRSI(nil, 30, 70), 50)

	// Ensure the anchors hold at the extremes and thresholds.
	approx(t, scoreRSI(floatPtr(0), 30, 70), 100)
	approx(t, scoreRSI(floatPtr(30), 30, 70), 60)
	approx(t, scoreRSI(floatPtr(70), 30, 70), 40)
	approx(t, scoreRSI(floatPtr(100), 30, 70), 0)

	// Ensure the band midpoint reads neutral and interpolation is linear
	// through it.
	approx(t, scoreRSI(floatPtr(50), 30, 70), 50)
	approx(t, scoreRSI(floatPtr(40), 30, 70), 55)

	// Ensure deeper oversold readings score higher.
	assert.GreaterThan(t, scoreRSI(floatPtr(10), 30, 70), scoreRSI(floatPtr(20), 30, 70))
}

func TestScoreMACD(t *testing.T) {
	// Ensure a missing histogram resolves to neutral.
	approx(t, scoreMACD(nil, 450, 25), 50)

	// Ensure the histogram scales against the entry price. A histogram of
	// 1% of the entry moves the score by one scale unit.
	approx(t, scoreMACD(floatPtr(4.5), 450, 25), 75)
	approx(t, scoreMACD(floatPtr(-4.5), 450, 25), 25)

	// Ensure extreme histograms clamp to the score bounds.
	approx(t, scoreMACD(floatPtr(45), 450, 25), 100)
	approx(t, scoreMACD(floatPtr(-45), 450, 25), 0)

	// Ensure a degenerate entry price resolves to neutral.
	approx(t, scoreMACD(floatPtr(4.5), 0, 25), 50)
}

func TestScorePriceAction(t *testing.T) {
	// Ensure the neutral classification reads neutral.
	approx(t, scorePriceAction(priceaction.Classification{}), 50)

	// Ensure pattern and trend adjustments stack.
	cls := priceaction.Classification{Pattern: priceaction.Hammer, Trend: priceaction.Downtrend}
	approx(t, scorePriceAction(cls), 50)

	cls = priceaction.Classification{Pattern: priceaction.Hammer, Trend: priceaction.Uptrend}
	approx(t, scorePriceAction(cls), 70)

	cls = priceaction.Classification{Pattern: priceaction.ShootingStar, Trend: priceaction.Uptrend}
	approx(t, scorePriceAction(cls), 50)

	cls = priceaction.Classification{Pattern: priceaction.ShootingStar, Trend: priceaction.Downtrend}
	approx(t, scorePriceAction(cls), 30)

	cls = priceaction.Classification{Trend: priceaction.Uptrend}
	approx(t, scorePriceAction(cls), 60)
}

func TestScoreMovingAverages(t *testing.T) {
	// Ensure missing averages resolve to neutral.
	approx(t, scoreMovingAverages(100, nil, floatPtr(90)), 50)
	approx(t, scoreMovingAverages(100, floatPtr(90), nil), 50)

	// Ensure full bullish alignment anchors high.
	approx(t, scoreMovingAverages(110, floatPtr(100), floatPtr(90)), 90)

	// Ensure a close between a bullish cross interpolates upward from the
	// long average.
	approx(t, scoreMovingAverages(95, floatPtr(100), floatPtr(90)), 75)
	approx(t, scoreMovingAverages(90, floatPtr(100), floatPtr(90)), 60)

	// Ensure full bearish alignment anchors low.
	approx(t, scoreMovingAverages(80, floatPtr(90), floatPtr(100)), 10)

	// Ensure a close between a bearish cross interpolates downward from the
	// long average.
	approx(t, scoreMovingAverages(95, floatPtr(90), floatPtr(100)), 25)
	approx(t, scoreMovingAverages(100, floatPtr(90), floatPtr(100)), 40)

	// Ensure equal averages resolve to neutral.
	approx(t, scoreMovingAverages(100, floatPtr(95), floatPtr(95)), 50)
}

func TestScoreBollinger(t *testing.T) {
	// Ensure missing bands resolve to neutral.
	approx(t, scoreBollinger(100, nil, floatPtr(90)), 50)
	approx(t, scoreBollinger(100, floatPtr(110), nil), 50)

	// Ensure a zero width band resolves to neutral.
	approx(t, scoreBollinger(100, floatPtr(100), floatPtr(100)), 50)

	// Ensure proximity to the lower band is bullish and the upper band
	// bearish.
	approx(t, scoreBollinger(90, floatPtr(110), floatPtr(90)), 100)
	approx(t, scoreBollinger(110, floatPtr(110), floatPtr(90)), 0)
	approx(t, scoreBollinger(100, floatPtr(110), floatPtr(90)), 50)

	// Ensure closes beyond the bands clamp to the score bounds.
	approx(t, scoreBollinger(120, floatPtr(110), floatPtr(90)), 0)
	approx(t, scoreBollinger(80, floatPtr(110), floatPtr(90)), 100)
}

func TestScorePassThrough(t *testing.T) {
	// Ensure a missing collaborator score resolves to neutral.
	approx(t, scorePassThrough(nil), 50)

	// Ensure delivered scores relay clamped.
	approx(t, scorePassThrough(floatPtr(72)), 72)
	approx(t, scorePassThrough(floatPtr(140)), 100)
	approx(t, scorePassThrough(floatPtr(-10)), 0)
}
