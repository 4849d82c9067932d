package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"SGSTrader/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
// Price arrays contain nulls for non-trading days.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(symbol), rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}
	return &chart, nil
}

func chartBars(chart *yahooChart) []model.OHLCV {
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // null bar (holiday, halted session)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

// yahooRange picks the smallest chart range covering days.
func yahooRange(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	default:
		return "10y"
	}
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	chart, err := f.fetchChart(ctx, symbol, yahooRange(days))
	if err != nil {
		return nil, err
	}
	return chartBars(chart), nil
}

// FetchQuote returns the regular market price, or the latest close if Yahoo omits it.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d")
	if err != nil {
		return 0, err
	}
	if p := chart.Chart.Result[0].Meta.RegularMarketPrice; p > 0 {
		return p, nil
	}
	bars := chartBars(chart)
	if len(bars) == 0 {
		return 0, fmt.Errorf("yahoo: no price data for %s", symbol)
	}
	return bars[len(bars)-1].Close, nil
}
