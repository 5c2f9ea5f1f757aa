package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/advisor/database"
	"github.com/dnldd/advisor/engine"
	"github.com/dnldd/advisor/fetch"
	"github.com/dnldd/advisor/indicator"
	"github.com/dnldd/advisor/ml"
	"github.com/dnldd/advisor/risk"
	"github.com/dnldd/advisor/sentiment"
	"github.com/dnldd/advisor/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/atomic"
)

const (
	// minCandleLookback is the minimum number of daily candles needed for a
	// full indicator snapshot.
	minCandleLookback = 60
)

// AdvisorConfig represents the configuration struct for the advisor service.
type AdvisorConfig struct {
	// Symbols represents the tracked symbols.
	Symbols []string
	// AlphaVantageAPIKey is the Alpha Vantage service API Key.
	AlphaVantageAPIKey string
	// DatabaseEndpoint represents the database connection endpoint.
	DatabaseEndpoint string
	// DatabaseUser is the database user.
	DatabaseUser string
	// DatabasePass is the database user pass.
	DatabasePass string
	// UpdateIntervalMinutes is the interval between analysis runs.
	UpdateIntervalMinutes int
	// LookbackDays is the number of daily candles fetched per symbol.
	LookbackDays int
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *AdvisorConfig) Validate() error {
	var errs error

	if len(cfg.Symbols) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no symbols provided for advisor service"))
	}
	if cfg.AlphaVantageAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("alpha vantage api key cannot be an empty string"))
	}
	if cfg.DatabaseEndpoint == "" {
		errs = errors.Join(errs, fmt.Errorf("database endpoint cannot be an empty string"))
	}
	if cfg.UpdateIntervalMinutes <= 0 {
		errs = errors.Join(errs, fmt.Errorf("update interval must be positive, got %d",
			cfg.UpdateIntervalMinutes))
	}
	if cfg.LookbackDays < minCandleLookback {
		errs = errors.Join(errs, fmt.Errorf("lookback days must be at least %d, got %d",
			minCandleLookback, cfg.LookbackDays))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Advisor represents a trade recommendation service.
type Advisor struct {
	cfg          *AdvisorConfig
	fetcher      fetch.MarketFetcher
	store        database.SignalStorer
	signalEngine *engine.Engine
	jobScheduler *gocron.Scheduler
	analyzing    atomic.Bool
	logger       *zerolog.Logger
}

// NewAdvisor initializes a new advisor service.
func NewAdvisor(ctx context.Context, cfg *AdvisorConfig) (*Advisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "advisor").Logger()

	avClient := fetch.NewAlphaVantageClient(&fetch.AlphaVantageConfig{
		APIKey:  cfg.AlphaVantageAPIKey,
		BaseURL: fetch.BaseURL,
	})

	dbLogger := logger.With().Str("component", "database").Logger()
	db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
		Endpoint: cfg.DatabaseEndpoint,
		User:     cfg.DatabaseUser,
		Pass:     cfg.DatabasePass,
		Logger:   &dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating database: %v", err)
	}

	engineLogger := logger.With().Str("component", "engine").Logger()
	signalEngine, err := engine.NewEngine(engine.DefaultConfig(), indicator.DefaultConfig(),
		risk.DefaultConfig(), &engineLogger)
	if err != nil {
		return nil, fmt.Errorf("creating signal engine: %v", err)
	}

	service := &Advisor{
		cfg:          cfg,
		fetcher:      avClient,
		store:        db,
		signalEngine: signalEngine,
		jobScheduler: gocron.NewScheduler(time.UTC),
		logger:       &logger,
	}

	return service, nil
}

// auxiliaryScores derives the sentiment and trend prediction scores for the
// provided symbol. A collaborator failure yields a nil score which the engine
// treats as neutral.
func (a *Advisor) auxiliaryScores(ctx context.Context, symbol string, closes []float64) engine.AuxiliaryScores {
	var aux engine.AuxiliaryScores

	articles, err := a.fetcher.FetchNews(ctx, symbol)
	switch {
	case err != nil:
		a.logger.Error().Msgf("fetching news for %s: %v", symbol, err)
	default:
		score := sentiment.Score(articles)
		aux.Sentiment = &score
	}

	prediction := ml.PredictNextMove(closes, ml.DefaultLookback)
	if prediction != nil {
		score := ml.Score(prediction)
		aux.MLPrediction = &score
	}

	return aux
}

// AnalyzeSymbol runs the full recommendation pipeline for the provided symbol
// and persists the resulting signal.
func (a *Advisor) AnalyzeSymbol(ctx context.Context, symbol string) (*shared.TradeSignal, error) {
	candles, err := a.fetcher.FetchDailyCandles(ctx, symbol, a.cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetching daily candles for %s: %v", symbol, err)
	}

	series, err := shared.NewCandleSeries(symbol, candles)
	if err != nil {
		return nil, fmt.Errorf("creating candle series for %s: %v", symbol, err)
	}

	aux := a.auxiliaryScores(ctx, symbol, series.Closes())

	signal, _, err := a.signalEngine.Analyze(series, &aux)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %v", symbol, err)
	}

	err = a.store.PersistSignal(ctx, signal)
	if err != nil {
		return nil, fmt.Errorf("persisting signal for %s: %v", symbol, err)
	}

	sentimentNote := "no sentiment"
	if aux.Sentiment != nil {
		sentimentNote = sentiment.Categorize(*aux.Sentiment)
	}

	a.logger.Info().Msgf("%s: %s at %.1f%% confidence (%s) - %s", symbol,
		signal.Type.String(), signal.Confidence, sentimentNote, signal.Reasoning)

	return signal, nil
}

// analyzeAll runs the recommendation pipeline for all tracked symbols.
// Overlapping runs are skipped.
func (a *Advisor) analyzeAll(ctx context.Context) {
	if !a.analyzing.CompareAndSwap(false, true) {
		a.logger.Warn().Msg("previous analysis run still in progress, skipping")
		return
	}
	defer a.analyzing.Store(false)

	for _, symbol := range a.cfg.Symbols {
		_, err := a.AnalyzeSymbol(ctx, symbol)
		if err != nil {
			a.logger.Error().Msgf("analyzing symbol: %v", err)
		}
	}
}

// Run handles the lifecycle processes of the advisor service.
func (a *Advisor) Run(ctx context.Context) error {
	a.analyzeAll(ctx)

	_, err := a.jobScheduler.Every(a.cfg.UpdateIntervalMinutes).Minutes().Do(func() {
		a.analyzeAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling analysis runs: %v", err)
	}

	a.jobScheduler.StartAsync()

	<-ctx.Done()
	a.jobScheduler.Stop()

	return nil
}
