package shared

import (
	"time"
)

// SignalType represents the classification of a trade signal.
type SignalType int

const (
	Hold SignalType = iota
	Buy
	Sell
)

// String stringifies the provided signal type.
func (s SignalType) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case Hold:
		return "HOLD"
	default:
		return "unknown"
	}
}

// TradeSignal represents a fully reasoned trade recommendation for a symbol.
// It is immutable once produced, ownership passes to the caller.
type TradeSignal struct {
	Symbol     string
	Type       SignalType
	Confidence float64
	Entry      float64

	// Risk levels are nil for hold signals. RiskReward is nil when the stop
	// distance is zero and the ratio is undefined.
	StopLoss   *float64
	TakeProfit *float64
	RiskReward *float64

	IndicatorsUsed []string
	Reasoning      string
	CreatedOn      time.Time
}

// NewTradeSignal initializes a new trade signal.
func NewTradeSignal(symbol string, kind SignalType, confidence float64, entry float64,
	stopLoss *float64, takeProfit *float64, riskReward *float64, indicatorsUsed []string,
	reasoning string, created time.Time) *TradeSignal {
	return &TradeSignal{
		Symbol:         symbol,
		Type:           kind,
		Confidence:     confidence,
		Entry:          entry,
		StopLoss:       stopLoss,
		TakeProfit:     takeProfit,
		RiskReward:     riskReward,
		IndicatorsUsed: indicatorsUsed,
		Reasoning:      reasoning,
		CreatedOn:      created,
	}
}
