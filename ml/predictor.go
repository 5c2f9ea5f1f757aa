package ml

import (
	"math"
)

const (
	// DefaultLookback is the stock number of closes used for prediction.
	DefaultLookback = 20
	// neutralScore is the score reported when no prediction is available.
	neutralScore = 50
	// predictionScale converts a [-1,1] prediction into score points around
	// neutral.
	predictionScale = 25
	// confidenceDivisor normalizes the raw trend-to-volatility strength into
	// a [0,1] confidence.
	confidenceDivisor = 10
)

// Prediction represents a directional price prediction.
type Prediction struct {
	// Value is the predicted direction in [-1,1], positive is bullish.
	Value float64
	// Confidence is the prediction confidence in [0,1].
	Confidence float64
}

// slope fits a least squares line through the provided values against their
// indexes and returns its gradient.
func slope(values []float64) float64 {
	n := float64(len(values))

	var sumX, sumY, sumXY, sumXX float64
	for idx := range values {
		x := float64(idx)
		sumX += x
		sumY += values[idx]
		sumXY += x * values[idx]
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}

	return (n*sumXY - sumX*sumY) / denominator
}

// returnVolatility returns the standard deviation of the per-step returns of
// the provided values.
func returnVolatility(values []float64) float64 {
	returns := make([]float64, 0, len(values)-1)
	for idx := 1; idx < len(values); idx++ {
		if values[idx-1] == 0 {
			continue
		}
		returns = append(returns, (values[idx]-values[idx-1])/values[idx-1])
	}

	if len(returns) == 0 {
		return 0
	}

	var sum float64
	for idx := range returns {
		sum += returns[idx]
	}
	avg := sum / float64(len(returns))

	var variance float64
	for idx := range returns {
		diff := returns[idx] - avg
		variance += diff * diff
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance)
}

// PredictNextMove predicts the next price direction from the trailing
// lookback closes, normalizing the fitted trend by return volatility. It
// returns nil when the series is too short to predict from.
func PredictNextMove(closes []float64, lookback int) *Prediction {
	if len(closes) < lookback+1 {
		return nil
	}

	recent := closes[len(closes)-lookback:]
	trend := slope(recent)
	volatility := returnVolatility(recent)

	prediction := &Prediction{}
	switch {
	case volatility > 0:
		prediction.Value = math.Tanh(trend / volatility)
		prediction.Confidence = math.Min(math.Abs(trend)/(volatility+1e-4)/confidenceDivisor, 1)
	default:
		prediction.Confidence = 0.5
	}

	return prediction
}

// Score maps the provided prediction to a [0,100] bullishness score. A nil
// prediction resolves to neutral.
func Score(prediction *Prediction) float64 {
	if prediction == nil {
		return neutralScore
	}

	score := neutralScore + predictionScale*prediction.Value
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
