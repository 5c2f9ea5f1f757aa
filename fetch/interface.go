package fetch

import (
	"context"

	"github.com/dnldd/advisor/sentiment"
	"github.com/dnldd/advisor/shared"
)

// MarketFetcher defines the requirements for fetching market data and news.
type MarketFetcher interface {
	// FetchDailyCandles fetches the trailing lookback daily candles for the
	// provided symbol.
	FetchDailyCandles(ctx context.Context, symbol string, lookback int) ([]*shared.Candlestick, error)
	// FetchNews fetches recent news articles for the provided symbol.
	FetchNews(ctx context.Context, symbol string) ([]sentiment.Article, error)
}
