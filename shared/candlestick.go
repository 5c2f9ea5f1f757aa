package shared

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the format layout for parsing candle dates.
	DateLayout = "2006-01-02"
)

// Candlestick represents a unit candlestick for a symbol.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata fields.
	Symbol string
}

// Validate asserts the candlestick describes a well formed bar.
func (c *Candlestick) Validate() error {
	var errs error

	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		errs = errors.Join(errs, fmt.Errorf("candle prices must be positive"))
	}
	if c.High < c.Open || c.High < c.Close {
		errs = errors.Join(errs, fmt.Errorf("candle high %.4f below open/close", c.High))
	}
	if c.Low > c.Open || c.Low > c.Close {
		errs = errors.Join(errs, fmt.Errorf("candle low %.4f above open/close", c.Low))
	}
	if c.Volume < 0 {
		errs = errors.Join(errs, fmt.Errorf("candle volume cannot be negative"))
	}
	if c.Date.IsZero() {
		errs = errors.Join(errs, fmt.Errorf("candle date cannot be the zero time"))
	}

	return errs
}

// CandleSeries is a validated set of candlesticks for one symbol, ordered
// ascending by date. Malformed candles never make it past construction.
type CandleSeries struct {
	symbol  string
	candles []*Candlestick
}

// NewCandleSeries validates the provided candlesticks and initializes a
// candle series from them.
func NewCandleSeries(symbol string, candles []*Candlestick) (*CandleSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be an empty string")
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("candle series for %s cannot be empty", symbol)
	}

	for idx := range candles {
		if err := candles[idx].Validate(); err != nil {
			return nil, fmt.Errorf("invalid candle at index %d: %w", idx, err)
		}
		if idx > 0 && !candles[idx].Date.After(candles[idx-1].Date) {
			return nil, fmt.Errorf("candle dates must be strictly increasing, "+
				"index %d (%s) does not advance on index %d (%s)", idx,
				candles[idx].Date.Format(DateLayout), idx-1, candles[idx-1].Date.Format(DateLayout))
		}
	}

	set := make([]*Candlestick, len(candles))
	copy(set, candles)

	return &CandleSeries{symbol: symbol, candles: set}, nil
}

// Symbol returns the symbol the series belongs to.
func (s *CandleSeries) Symbol() string {
	return s.symbol
}

// Len returns the number of candles in the series.
func (s *CandleSeries) Len() int {
	return len(s.candles)
}

// Last returns the most recent candle of the series.
func (s *CandleSeries) Last() *Candlestick {
	return s.candles[len(s.candles)-1]
}

// Candles returns the candles of the series in ascending date order.
func (s *CandleSeries) Candles() []*Candlestick {
	return s.candles
}

// LastN fetches the last n candles of the series, clamped to its length.
func (s *CandleSeries) LastN(n int) []*Candlestick {
	if n <= 0 {
		return nil
	}
	if n > len(s.candles) {
		n = len(s.candles)
	}

	return s.candles[len(s.candles)-n:]
}

// Closes returns the close prices of the series in ascending date order.
func (s *CandleSeries) Closes() []float64 {
	closes := make([]float64, len(s.candles))
	for idx := range s.candles {
		closes[idx] = s.candles[idx].Close
	}

	return closes
}
