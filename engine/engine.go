package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dnldd/advisor/indicator"
	"github.com/dnldd/advisor/priceaction"
	"github.com/dnldd/advisor/risk"
	"github.com/dnldd/advisor/shared"
	"github.com/rs/zerolog"
)

const (
	// weightTolerance is the permitted deviation of the weight sum from one.
	weightTolerance = 1e-9
)

// Weights represents the fixed aggregation weight table, it must sum to one.
type Weights struct {
	RSI            float64
	MACD           float64
	PriceAction    float64
	MovingAverages float64
	Bollinger      float64
	Sentiment      float64
	MLPrediction   float64
}

// DefaultWeights returns the stock aggregation weight table.
func DefaultWeights() Weights {
	return Weights{
		RSI:            0.20,
		MACD:           0.20,
		PriceAction:    0.20,
		MovingAverages: 0.15,
		Bollinger:      0.10,
		Sentiment:      0.10,
		MLPrediction:   0.05,
	}
}

// Validate asserts the weight table sums to one.
func (w *Weights) Validate() error {
	sum := w.RSI + w.MACD + w.PriceAction + w.MovingAverages + w.Bollinger +
		w.Sentiment + w.MLPrediction
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("aggregation weights must sum to 1.00, got %.4f", sum)
	}

	return nil
}

// Config represents the tunable parameters for the scoring engine.
type Config struct {
	// RSIOversold is the rsi level below which the instrument reads oversold.
	RSIOversold float64
	// RSIOverbought is the rsi level above which the instrument reads
	// overbought.
	RSIOverbought float64
	// MACDScale converts the price-normalized macd histogram into score
	// points.
	MACDScale float64
	// BuyThreshold is the confidence a signal must exceed to classify as a
	// buy.
	BuyThreshold float64
	// SellThreshold is the confidence a signal must fall below to classify
	// as a sell.
	SellThreshold float64
	// MaterialityThreshold is the minimum deviation from neutral for a
	// sub-score to count as contributing.
	MaterialityThreshold float64
	// TrendLookback is the number of candles used for trend detection.
	TrendLookback int
	// Weights is the aggregation weight table.
	Weights Weights
}

// DefaultConfig returns the stock scoring configuration.
func DefaultConfig() *Config {
	return &Config{
		RSIOversold:          30,
		RSIOverbought:        70,
		MACDScale:            25,
		BuyThreshold:         60,
		SellThreshold:        40,
		MaterialityThreshold: 10,
		TrendLookback:        priceaction.DefaultTrendLookback,
		Weights:              DefaultWeights(),
	}
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.RSIOversold <= 0 || cfg.RSIOverbought >= 100 || cfg.RSIOversold >= cfg.RSIOverbought {
		errs = errors.Join(errs, fmt.Errorf("rsi thresholds must satisfy 0 < oversold < overbought < 100"))
	}
	if cfg.MACDScale <= 0 {
		errs = errors.Join(errs, fmt.Errorf("macd scale must be positive"))
	}
	if cfg.SellThreshold >= cfg.BuyThreshold {
		errs = errors.Join(errs, fmt.Errorf("sell threshold must be below the buy threshold"))
	}
	if cfg.MaterialityThreshold <= 0 {
		errs = errors.Join(errs, fmt.Errorf("materiality threshold must be positive"))
	}
	if cfg.TrendLookback < 2 {
		errs = errors.Join(errs, fmt.Errorf("trend lookback must be at least 2"))
	}
	if err := cfg.Weights.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// AuxiliaryScores represents the externally supplied collaborator scores,
// each in [0,100]. A nil score means the collaborator was unavailable and
// resolves to neutral.
type AuxiliaryScores struct {
	Sentiment    *float64
	MLPrediction *float64
}

// ComponentScore pairs a named sub-score with its aggregation weight.
type ComponentScore struct {
	Name   string
	Score  float64
	Weight float64
}

// Material reports whether the component deviates from neutral by more than
// the provided threshold.
func (c *ComponentScore) Material(threshold float64) bool {
	return math.Abs(c.Score-neutralScore) > threshold
}

// Engine derives trade signals from candle series snapshots. It holds only
// configuration, every analysis is a pure function of its inputs.
type Engine struct {
	cfg          *Config
	indicatorCfg *indicator.Config
	riskCfg      *risk.Config
	logger       *zerolog.Logger
}

// NewEngine validates the provided configurations and initializes a new
// scoring engine.
func NewEngine(cfg *Config, indicatorCfg *indicator.Config, riskCfg *risk.Config, logger *zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating engine config: %w", err)
	}
	if err := indicatorCfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating indicator config: %w", err)
	}
	if err := riskCfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating risk config: %w", err)
	}

	return &Engine{
		cfg:          cfg,
		indicatorCfg: indicatorCfg,
		riskCfg:      riskCfg,
		logger:       logger,
	}, nil
}

// score derives the seven component sub-scores for the provided snapshot, in
// weight table order.
func (e *Engine) score(snapshot *indicator.Snapshot, cls priceaction.Classification,
	entry float64, aux *AuxiliaryScores) []ComponentScore {
	var sentimentScore, mlScore *float64
	if aux != nil {
		sentimentScore = aux.Sentiment
		mlScore = aux.MLPrediction
	}

	weights := e.cfg.Weights
	return []ComponentScore{
		{Name: RSIComponent, Weight: weights.RSI,
			Score: scoreRSI(snapshot.RSI, e.cfg.RSIOversold, e.cfg.RSIOverbought)},
		{Name: MACDComponent, Weight: weights.MACD,
			Score: scoreMACD(snapshot.MACDHistogram, entry, e.cfg.MACDScale)},
		{Name: PriceActionComponent, Weight: weights.PriceAction,
			Score: scorePriceAction(cls)},
		{Name: MovingAveragesComponent, Weight: weights.MovingAverages,
			Score: scoreMovingAverages(entry, snapshot.SMAShort, snapshot.SMALong)},
		{Name: BollingerComponent, Weight: weights.Bollinger,
			Score: scoreBollinger(entry, snapshot.BollingerUpper, snapshot.BollingerLower)},
		{Name: SentimentComponent, Weight: weights.Sentiment,
			Score: scorePassThrough(sentimentScore)},
		{Name: MLPredictionComponent, Weight: weights.MLPrediction,
			Score: scorePassThrough(mlScore)},
	}
}

// classify maps the provided confidence to a signal type. Confidence landing
// exactly on a threshold classifies as hold.
func (e *Engine) classify(confidence float64) shared.SignalType {
	switch {
	case confidence > e.cfg.BuyThreshold:
		return shared.Buy
	case confidence < e.cfg.SellThreshold:
		return shared.Sell
	default:
		return shared.Hold
	}
}

// reasoning assembles the deterministic reasoning text for the provided
// outcome from its materially contributing components, in weight table order.
func (e *Engine) reasoning(kind shared.SignalType, confidence float64, scores []ComponentScore) string {
	parts := make([]string, 0, len(scores)+1)
	parts = append(parts, fmt.Sprintf("%s signal with %.1f%% confidence", kind.String(), confidence))

	for idx := range scores {
		if !scores[idx].Material(e.cfg.MaterialityThreshold) {
			continue
		}

		direction := "bullish"
		if scores[idx].Score < neutralScore {
			direction = "bearish"
		}

		parts = append(parts, fmt.Sprintf("%s %s (score %.1f, weighted %+.1f)",
			scores[idx].Name, direction, scores[idx].Score,
			scores[idx].Weight*(scores[idx].Score-neutralScore)))
	}

	if len(parts) == 1 {
		parts = append(parts, "no material indicator contributions")
	}

	return strings.Join(parts, " | ")
}

// Analyze derives a trade signal and indicator snapshot for the provided
// series and auxiliary scores. Given identical inputs the outputs are
// identical, the engine retains no state across invocations.
func (e *Engine) Analyze(series *shared.CandleSeries, aux *AuxiliaryScores) (*shared.TradeSignal, *indicator.Snapshot, error) {
	if series == nil {
		return nil, nil, fmt.Errorf("candle series cannot be nil")
	}

	snapshot := indicator.Compute(series, e.indicatorCfg)
	cls := priceaction.Classify(series, e.cfg.TrendLookback)

	entry := series.Last().Close
	scores := e.score(snapshot, cls, entry, aux)

	var confidence float64
	for idx := range scores {
		confidence += scores[idx].Weight * scores[idx].Score
	}

	kind := e.classify(confidence)
	levels := risk.Calculate(kind, entry, snapshot.ATR, e.riskCfg)

	indicatorsUsed := make([]string, 0, len(scores))
	for idx := range scores {
		if scores[idx].Material(e.cfg.MaterialityThreshold) {
			indicatorsUsed = append(indicatorsUsed, scores[idx].Name)
		}
	}

	signal := shared.NewTradeSignal(series.Symbol(), kind, confidence, entry,
		levels.StopLoss, levels.TakeProfit, levels.RiskReward, indicatorsUsed,
		e.reasoning(kind, confidence, scores), series.Last().Date)

	if e.logger != nil {
		e.logger.Debug().Msgf("%s: %s", series.Symbol(), signal.Reasoning)
	}

	return signal, snapshot, nil
}
