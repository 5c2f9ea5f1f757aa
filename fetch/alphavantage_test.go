package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/tidwall/gjson"
)

func TestAlphaVantageClient(t *testing.T) {
	// Ensure the alpha vantage client can be created.
	cfg := &AlphaVantageConfig{
		APIKey:  "key",
		BaseURL: "http://base",
	}

	client := NewAlphaVantageClient(cfg)

	// Ensure urls can be formed accurately, repeatedly.
	params := url.Values{}
	params.Add("function", "TIME_SERIES_DAILY")
	params.Add("symbol", "AAPL")

	formedURL := client.formURL(params.Encode())
	assert.Equal(t, formedURL, "http://base?function=TIME_SERIES_DAILY&symbol=AAPL")

	formedURL = client.formURL(params.Encode())
	assert.Equal(t, formedURL, "http://base?function=TIME_SERIES_DAILY&symbol=AAPL")

	// Ensure candlesticks data can be parsed and ordered ascending by date.
	data := `{
		"2024-03-04": {"1. open":"11","2. high":"16","3. low":"9","4. close":"13","5. volume":"6"},
		"2024-03-01": {"1. open":"10","2. high":"15","3. low":"8","4. close":"12","5. volume":"5"}
	}`
	candles, err := client.ParseCandlesticks(gjson.Parse(data), "AAPL")
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 2)

	assert.Equal(t, candles[0].Open, float64(10))
	assert.Equal(t, candles[0].High, float64(15))
	assert.Equal(t, candles[0].Low, float64(8))
	assert.Equal(t, candles[0].Close, float64(12))
	assert.Equal(t, candles[0].Volume, float64(5))
	assert.Equal(t, candles[0].Date.Day(), 1)
	assert.Equal(t, candles[0].Symbol, "AAPL")

	assert.Equal(t, candles[1].Close, float64(13))
	assert.Equal(t, candles[1].Date.Day(), 4)

	// Ensure malformed dates are rejected.
	malformed := `{"03/01/2024": {"1. open":"10"}}`
	_, err = client.ParseCandlesticks(gjson.Parse(malformed), "AAPL")
	assert.Error(t, err)
}

func TestFetchDailyCandles(t *testing.T) {
	response := `{
		"Time Series (Daily)": {
			"2024-03-01": {"1. open":"10","2. high":"15","3. low":"8","4. close":"12","5. volume":"5"},
			"2024-03-04": {"1. open":"11","2. high":"16","3. low":"9","4. close":"13","5. volume":"6"},
			"2024-03-05": {"1. open":"12","2. high":"17","3. low":"10","4. close":"14","5. volume":"7"}
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Query().Get("function"), "TIME_SERIES_DAILY")
		assert.Equal(t, r.URL.Query().Get("symbol"), "AAPL")
		w.Write([]byte(response))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(&AlphaVantageConfig{APIKey: "key", BaseURL: server.URL})

	// Ensure the response trims to the trailing lookback candles.
	candles, err := client.FetchDailyCandles(context.Background(), "AAPL", 2)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 2)
	assert.Equal(t, candles[0].Date.Day(), 4)
	assert.Equal(t, candles[1].Date.Day(), 5)

	// Ensure a response without the daily series errors.
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note":"rate limited"}`))
	}))
	defer empty.Close()

	client = NewAlphaVantageClient(&AlphaVantageConfig{APIKey: "key", BaseURL: empty.URL})
	_, err = client.FetchDailyCandles(context.Background(), "AAPL", 2)
	assert.Error(t, err)
}

func TestFetchNews(t *testing.T) {
	response := `{
		"feed": [
			{"title": "Shares surge on strong growth", "summary": "A very good quarter."},
			{"title": "Analysts warn of downside", "summary": "Concerns mount."}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Query().Get("function"), "NEWS_SENTIMENT")
		assert.Equal(t, r.URL.Query().Get("tickers"), "AAPL")
		w.Write([]byte(response))
	}))
	defer server.Close()

	client := NewAlphaVantageClient(&AlphaVantageConfig{APIKey: "key", BaseURL: server.URL})

	articles, err := client.FetchNews(context.Background(), "AAPL")
	assert.NoError(t, err)
	assert.Equal(t, len(articles), 2)
	assert.Equal(t, articles[0].Headline, "Shares surge on strong growth")
	assert.Equal(t, articles[0].Content, "A very good quarter.")

	// Ensure a failing endpoint surfaces an error.
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	client = NewAlphaVantageClient(&AlphaVantageConfig{APIKey: "key", BaseURL: failing.URL})
	_, err = client.FetchNews(context.Background(), "AAPL")
	assert.Error(t, err)
}
