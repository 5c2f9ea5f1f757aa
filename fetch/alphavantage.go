package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/dnldd/advisor/sentiment"
	"github.com/dnldd/advisor/shared"
	"github.com/tidwall/gjson"
)

const (
	// BaseURL is the alpha vantage api endpoint.
	BaseURL = "https://www.alphavantage.co/query"
	// dailySeriesPath is the json path of the daily candle map.
	dailySeriesPath = "Time Series (Daily)"
	// newsFeedPath is the json path of the news feed entries.
	newsFeedPath = "feed"
)

// AlphaVantageConfig represents the configuration for the alpha vantage
// client.
type AlphaVantageConfig struct {
	// APIKey is the alpha vantage api key.
	APIKey string
	// BaseURL is the api endpoint.
	BaseURL string
}

// AlphaVantageClient represents the alpha vantage api client.
type AlphaVantageClient struct {
	cfg   *AlphaVantageConfig
	httpc http.Client
	buf   *bytes.Buffer
}

// Ensure the alpha vantage client implements the MarketFetcher interface.
var _ MarketFetcher = (*AlphaVantageClient)(nil)

// NewAlphaVantageClient instantiates a new alpha vantage client.
func NewAlphaVantageClient(cfg *AlphaVantageConfig) *AlphaVantageClient {
	return &AlphaVantageClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 10},
		buf:   bytes.NewBuffer(make([]byte, 0, 512)),
	}
}

// formURL creates full urls including parameters for the api.
func (c *AlphaVantageClient) formURL(params string) string {
	c.buf.WriteString(c.cfg.BaseURL)
	c.buf.WriteString("?")
	c.buf.WriteString(params)
	url := c.buf.String()
	c.buf.Reset()

	return url
}

// get executes the provided request and returns the response body.
func (c *AlphaVantageClient) get(ctx context.Context, formedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}

// ParseCandlesticks parses daily candlesticks from the provided json data,
// ordered ascending by date.
func (c *AlphaVantageClient) ParseCandlesticks(series gjson.Result, symbol string) ([]*shared.Candlestick, error) {
	entries := series.Map()

	dates := make([]string, 0, len(entries))
	for date := range entries {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	candles := make([]*shared.Candlestick, 0, len(dates))
	for _, date := range dates {
		bar := entries[date]

		dt, err := time.Parse(shared.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date: %w", err)
		}

		candles = append(candles, &shared.Candlestick{
			Open:   bar.Get("1. open").Float(),
			High:   bar.Get("2. high").Float(),
			Low:    bar.Get("3. low").Float(),
			Close:  bar.Get("4. close").Float(),
			Volume: bar.Get("5. volume").Float(),
			Date:   dt,
			Symbol: symbol,
		})
	}

	return candles, nil
}

// FetchDailyCandles fetches the trailing lookback daily candles for the
// provided symbol.
func (c *AlphaVantageClient) FetchDailyCandles(ctx context.Context, symbol string, lookback int) ([]*shared.Candlestick, error) {
	params := url.Values{}
	params.Add("function", "TIME_SERIES_DAILY")
	params.Add("symbol", symbol)
	params.Add("outputsize", "compact")
	params.Add("apikey", c.cfg.APIKey)

	body, err := c.get(ctx, c.formURL(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetching daily candles for %s: %w", symbol, err)
	}

	series := gjson.GetBytes(body, dailySeriesPath)
	if !series.Exists() {
		return nil, fmt.Errorf("no daily series in response for %s", symbol)
	}

	candles, err := c.ParseCandlesticks(series, symbol)
	if err != nil {
		return nil, fmt.Errorf("parsing candlesticks for %s: %w", symbol, err)
	}

	if lookback > 0 && len(candles) > lookback {
		candles = candles[len(candles)-lookback:]
	}

	return candles, nil
}

// FetchNews fetches recent news articles for the provided symbol.
func (c *AlphaVantageClient) FetchNews(ctx context.Context, symbol string) ([]sentiment.Article, error) {
	params := url.Values{}
	params.Add("function", "NEWS_SENTIMENT")
	params.Add("tickers", symbol)
	params.Add("apikey", c.cfg.APIKey)

	body, err := c.get(ctx, c.formURL(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetching news for %s: %w", symbol, err)
	}

	feed := gjson.GetBytes(body, newsFeedPath).Array()

	articles := make([]sentiment.Article, 0, len(feed))
	for idx := range feed {
		articles = append(articles, sentiment.Article{
			Headline: feed[idx].Get("title").String(),
			Content:  feed[idx].Get("summary").String(),
		})
	}

	return articles, nil
}
