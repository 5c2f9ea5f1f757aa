package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/dnldd/advisor/shared"
)

// Config represents the tunable parameters for the risk calculator.
type Config struct {
	// StopLossATRMultiple scales the atr into a stop loss distance.
	StopLossATRMultiple float64
	// TakeProfitATRMultiple scales the atr into a take profit distance.
	TakeProfitATRMultiple float64
	// FallbackStopPercent is the stop loss percentage used when no atr is
	// available.
	FallbackStopPercent float64
	// FallbackProfitPercent is the take profit percentage used when no atr
	// is available.
	FallbackProfitPercent float64
}

// DefaultConfig returns the stock risk configuration.
func DefaultConfig() *Config {
	return &Config{
		StopLossATRMultiple:   1.5,
		TakeProfitATRMultiple: 2.0,
		FallbackStopPercent:   2.0,
		FallbackProfitPercent: 4.0,
	}
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.StopLossATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("stop loss atr multiple must be positive"))
	}
	if cfg.TakeProfitATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("take profit atr multiple must be positive"))
	}
	if cfg.FallbackStopPercent <= 0 {
		errs = errors.Join(errs, fmt.Errorf("fallback stop percent must be positive"))
	}
	if cfg.FallbackProfitPercent <= 0 {
		errs = errors.Join(errs, fmt.Errorf("fallback profit percent must be positive"))
	}

	return errs
}

// Levels represents the risk managed price levels of a signal. All fields
// are nil for hold signals. RiskReward is nil when the stop distance is zero
// and the ratio is undefined.
type Levels struct {
	StopLoss   *float64
	TakeProfit *float64
	RiskReward *float64
}

// floatPtr returns a pointer to the provided float.
func floatPtr(v float64) *float64 {
	return &v
}

// Calculate derives the stop loss, take profit and risk reward levels for
// the provided signal classification. A nil atr falls back to the configured
// fixed percentage model.
func Calculate(kind shared.SignalType, entry float64, atr *float64, cfg *Config) Levels {
	if kind == shared.Hold {
		return Levels{}
	}

	var stopDistance, profitDistance float64
	switch {
	case atr != nil:
		stopDistance = *atr * cfg.StopLossATRMultiple
		profitDistance = *atr * cfg.TakeProfitATRMultiple
	default:
		stopDistance = entry * (cfg.FallbackStopPercent / 100)
		profitDistance = entry * (cfg.FallbackProfitPercent / 100)
	}

	var stopLoss, takeProfit float64
	switch kind {
	case shared.Buy:
		stopLoss = entry - stopDistance
		takeProfit = entry + profitDistance
	case shared.Sell:
		stopLoss = entry + stopDistance
		takeProfit = entry - profitDistance
	}

	levels := Levels{
		StopLoss:   floatPtr(stopLoss),
		TakeProfit: floatPtr(takeProfit),
	}

	if denominator := math.Abs(entry - stopLoss); denominator > 0 {
		levels.RiskReward = floatPtr(math.Abs(takeProfit-entry) / denominator)
	}

	return levels
}
