package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dnldd/advisor/engine"
	"github.com/dnldd/advisor/indicator"
	"github.com/dnldd/advisor/risk"
	"github.com/dnldd/advisor/sentiment"
	"github.com/dnldd/advisor/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

// fakeFetcher serves canned candles and articles.
type fakeFetcher struct {
	candles     []*shared.Candlestick
	articles    []sentiment.Article
	candlesErr  error
	articlesErr error
}

func (f *fakeFetcher) FetchDailyCandles(_ context.Context, _ string, _ int) ([]*shared.Candlestick, error) {
	return f.candles, f.candlesErr
}

func (f *fakeFetcher) FetchNews(_ context.Context, _ string) ([]sentiment.Article, error) {
	return f.articles, f.articlesErr
}

// fakeStore records persisted signals.
type fakeStore struct {
	signals []*shared.TradeSignal
	err     error
}

func (f *fakeStore) PersistSignal(_ context.Context, signal *shared.TradeSignal) error {
	if f.err != nil {
		return f.err
	}

	f.signals = append(f.signals, signal)
	return nil
}

// day returns the date of the provided day offset from the test base date.
func day(n int) time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// testCandles creates count rising daily candles.
func testCandles(count int) []*shared.Candlestick {
	candles := make([]*shared.Candlestick, count)
	for idx := range candles {
		price := 100 + float64(idx)
		candles[idx] = &shared.Candlestick{
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 100,
			Date:   day(idx),
			Symbol: "AAPL",
		}
	}

	return candles
}

// newTestAdvisor creates an advisor wired to the provided fakes.
func newTestAdvisor(t *testing.T, fetcher *fakeFetcher, store *fakeStore) *Advisor {
	t.Helper()

	logger := zerolog.Nop()
	signalEngine, err := engine.NewEngine(engine.DefaultConfig(), indicator.DefaultConfig(),
		risk.DefaultConfig(), &logger)
	assert.NoError(t, err)

	return &Advisor{
		cfg: &AdvisorConfig{
			Symbols:               []string{"AAPL"},
			AlphaVantageAPIKey:    "key",
			DatabaseEndpoint:      "http://localhost:4001",
			UpdateIntervalMinutes: 60,
			LookbackDays:          minCandleLookback,
			Cancel:                func() {},
		},
		fetcher:      fetcher,
		store:        store,
		signalEngine: signalEngine,
		logger:       &logger,
	}
}

func TestAdvisorConfigValidate(t *testing.T) {
	// Ensure a complete configuration validates.
	cfg := &AdvisorConfig{
		Symbols:               []string{"AAPL"},
		AlphaVantageAPIKey:    "key",
		DatabaseEndpoint:      "http://localhost:4001",
		UpdateIntervalMinutes: 60,
		LookbackDays:          minCandleLookback,
		Cancel:                func() {},
	}
	assert.NoError(t, cfg.Validate())

	// Ensure missing collaborator settings are rejected.
	assert.Error(t, (&AdvisorConfig{}).Validate())

	// Ensure a lookback below the indicator warm up is rejected.
	short := *cfg
	short.LookbackDays = 10
	assert.Error(t, short.Validate())
}

func TestAnalyzeSymbol(t *testing.T) {
	fetcher := &fakeFetcher{
		candles:  testCandles(minCandleLookback),
		articles: []sentiment.Article{{Headline: "Shares surge on strong growth"}},
	}
	store := &fakeStore{}
	advisor := newTestAdvisor(t, fetcher, store)

	// Ensure the full pipeline produces and persists a signal.
	signal, err := advisor.AnalyzeSymbol(context.Background(), "AAPL")
	assert.NoError(t, err)
	assert.Equal(t, signal.Symbol, "AAPL")
	assert.Equal(t, len(store.signals), 1)
	assert.Equal(t, store.signals[0], signal)

	// Ensure a failing news fetch degrades to a neutral sentiment rather
	// than aborting the analysis.
	fetcher.articlesErr = fmt.Errorf("news unavailable")
	signal, err = advisor.AnalyzeSymbol(context.Background(), "AAPL")
	assert.NoError(t, err)
	assert.Equal(t, len(store.signals), 2)

	// Ensure a failing candle fetch aborts the analysis.
	fetcher.candlesErr = fmt.Errorf("candles unavailable")
	_, err = advisor.AnalyzeSymbol(context.Background(), "AAPL")
	assert.Error(t, err)

	// Ensure a failing persist surfaces an error.
	fetcher.candlesErr = nil
	store.err = fmt.Errorf("database unavailable")
	_, err = advisor.AnalyzeSymbol(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestAnalyzeAllSkipsOverlap(t *testing.T) {
	fetcher := &fakeFetcher{candles: testCandles(minCandleLookback)}
	store := &fakeStore{}
	advisor := newTestAdvisor(t, fetcher, store)

	// Ensure a run already in progress causes the next one to skip.
	advisor.analyzing.Store(true)
	advisor.analyzeAll(context.Background())
	assert.Equal(t, len(store.signals), 0)

	advisor.analyzing.Store(false)
	advisor.analyzeAll(context.Background())
	assert.Equal(t, len(store.signals), 1)
}
