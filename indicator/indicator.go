package indicator

import (
	"errors"
	"fmt"
	"math"

	"github.com/dnldd/advisor/shared"
)

// Config represents the tunable parameters for the indicator engine. All
// windows are expressed in candles.
type Config struct {
	// RSIPeriod is the relative strength index window.
	RSIPeriod int
	// MACDFastPeriod is the fast ema window for the macd.
	MACDFastPeriod int
	// MACDSlowPeriod is the slow ema window for the macd.
	MACDSlowPeriod int
	// MACDSignalPeriod is the signal ema window for the macd.
	MACDSignalPeriod int
	// SMAShortPeriod is the short simple moving average window.
	SMAShortPeriod int
	// SMALongPeriod is the long simple moving average window.
	SMALongPeriod int
	// BollingerPeriod is the bollinger band window.
	BollingerPeriod int
	// BollingerBandWidth is the standard deviation multiplier for the bands.
	BollingerBandWidth float64
	// ATRPeriod is the average true range window.
	ATRPeriod int
	// LevelWindow is the symmetric neighborhood size for support and
	// resistance detection.
	LevelWindow int
	// LevelMergePercent is the tolerance percentage for merging adjacent
	// levels into a single zone.
	LevelMergePercent float64
}

// DefaultConfig returns the stock indicator configuration.
func DefaultConfig() *Config {
	return &Config{
		RSIPeriod:          14,
		MACDFastPeriod:     12,
		MACDSlowPeriod:     26,
		MACDSignalPeriod:   9,
		SMAShortPeriod:     20,
		SMALongPeriod:      50,
		BollingerPeriod:    20,
		BollingerBandWidth: 2,
		ATRPeriod:          14,
		LevelWindow:        5,
		LevelMergePercent:  0.5,
	}
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.RSIPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("rsi period must be positive"))
	}
	if cfg.MACDFastPeriod <= 0 || cfg.MACDSlowPeriod <= 0 || cfg.MACDSignalPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("macd periods must be positive"))
	}
	if cfg.MACDFastPeriod >= cfg.MACDSlowPeriod {
		errs = errors.Join(errs, fmt.Errorf("macd fast period must be below the slow period"))
	}
	if cfg.SMAShortPeriod <= 0 || cfg.SMALongPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("sma periods must be positive"))
	}
	if cfg.SMAShortPeriod >= cfg.SMALongPeriod {
		errs = errors.Join(errs, fmt.Errorf("short sma period must be below the long period"))
	}
	if cfg.BollingerPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("bollinger period must be positive"))
	}
	if cfg.BollingerBandWidth <= 0 {
		errs = errors.Join(errs, fmt.Errorf("bollinger band width must be positive"))
	}
	if cfg.ATRPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("atr period must be positive"))
	}
	if cfg.LevelWindow <= 0 {
		errs = errors.Join(errs, fmt.Errorf("level window must be positive"))
	}
	if cfg.LevelMergePercent <= 0 {
		errs = errors.Join(errs, fmt.Errorf("level merge percent must be positive"))
	}

	return errs
}

// Snapshot is the per-series indicator state. A nil field means the series
// was too short for that indicator's warm up, it is never an error.
type Snapshot struct {
	RSI             *float64
	MACDLine        *float64
	MACDSignal      *float64
	MACDHistogram   *float64
	SMAShort        *float64
	SMALong         *float64
	BollingerUpper  *float64
	BollingerMiddle *float64
	BollingerLower  *float64
	ATR             *float64
}

// floatPtr returns a pointer to the provided float.
func floatPtr(v float64) *float64 {
	return &v
}

// mean returns the arithmetic mean of the provided values.
func mean(values []float64) float64 {
	var sum float64
	for idx := range values {
		sum += values[idx]
	}

	return sum / float64(len(values))
}

// stdDev returns the population standard deviation of the provided values.
func stdDev(values []float64) float64 {
	avg := mean(values)

	var variance float64
	for idx := range values {
		diff := values[idx] - avg
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

// RSI calculates the relative strength index over the provided closes. A
// zero average loss resolves to 100 when gains exist and 50 on a flat series.
func RSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	deltas := make([]float64, len(closes)-1)
	for idx := 1; idx < len(closes); idx++ {
		deltas[idx-1] = closes[idx] - closes[idx-1]
	}

	var gainSum, lossSum float64
	for _, delta := range deltas[len(deltas)-period:] {
		switch {
		case delta > 0:
			gainSum += delta
		case delta < 0:
			lossSum -= delta
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		if avgGain > 0 {
			return floatPtr(100)
		}
		return floatPtr(50)
	}

	rs := avgGain / avgLoss
	return floatPtr(100 - (100 / (1 + rs)))
}

// ema calculates the exponential moving average series for the provided
// values. The first entry seeds the recurrence with the simple mean of the
// first period values.
func ema(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}

	k := 2 / float64(period+1)
	out := make([]float64, len(values))
	out[0] = mean(values[:period])

	for idx := 1; idx < len(values); idx++ {
		out[idx] = values[idx]*k + out[idx-1]*(1-k)
	}

	return out
}

// MACD calculates the moving average convergence divergence line, signal
// and histogram for the provided closes.
func MACD(closes []float64, fast int, slow int, signal int) (*float64, *float64, *float64) {
	if len(closes) < slow+signal {
		return nil, nil, nil
	}

	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)

	macdLine := make([]float64, len(closes))
	for idx := range closes {
		macdLine[idx] = emaFast[idx] - emaSlow[idx]
	}

	signalLine := ema(macdLine, signal)

	line := macdLine[len(macdLine)-1]
	sig := signalLine[len(signalLine)-1]

	return floatPtr(line), floatPtr(sig), floatPtr(line - sig)
}

// SMA calculates the simple moving average of the trailing period closes.
func SMA(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}

	return floatPtr(mean(closes[len(closes)-period:]))
}

// BollingerBands calculates the upper, middle and lower bollinger bands for
// the provided closes.
func BollingerBands(closes []float64, period int, bandWidth float64) (*float64, *float64, *float64) {
	if len(closes) < period {
		return nil, nil, nil
	}

	window := closes[len(closes)-period:]
	middle := mean(window)
	sd := stdDev(window)

	return floatPtr(middle + bandWidth*sd), floatPtr(middle), floatPtr(middle - bandWidth*sd)
}

// ATR calculates the wilder smoothed average true range over the provided
// candles. The first average seeds with the simple mean of the first period
// true ranges.
func ATR(candles []*shared.Candlestick, period int) *float64 {
	if len(candles) < period+1 {
		return nil
	}

	trueRanges := make([]float64, 0, len(candles)-1)
	for idx := 1; idx < len(candles); idx++ {
		high := candles[idx].High
		low := candles[idx].Low
		prevClose := candles[idx-1].Close

		tr := math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
		trueRanges = append(trueRanges, tr)
	}

	atr := mean(trueRanges[:period])
	for idx := period; idx < len(trueRanges); idx++ {
		atr = (atr*float64(period-1) + trueRanges[idx]) / float64(period)
	}

	return floatPtr(atr)
}

// Compute calculates the full indicator snapshot for the provided series.
// Indicators without enough history stay nil.
func Compute(series *shared.CandleSeries, cfg *Config) *Snapshot {
	closes := series.Closes()

	snapshot := &Snapshot{
		RSI:      RSI(closes, cfg.RSIPeriod),
		SMAShort: SMA(closes, cfg.SMAShortPeriod),
		SMALong:  SMA(closes, cfg.SMALongPeriod),
		ATR:      ATR(series.Candles(), cfg.ATRPeriod),
	}

	snapshot.MACDLine, snapshot.MACDSignal, snapshot.MACDHistogram =
		MACD(closes, cfg.MACDFastPeriod, cfg.MACDSlowPeriod, cfg.MACDSignalPeriod)
	snapshot.BollingerUpper, snapshot.BollingerMiddle, snapshot.BollingerLower =
		BollingerBands(closes, cfg.BollingerPeriod, cfg.BollingerBandWidth)

	return snapshot
}
