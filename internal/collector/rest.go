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

// RESTFetcher implements Fetcher against a generic JSON bars/quote REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s%s?%s", f.BaseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("rest fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rest fetch %s: status %d, body: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rest decode %s: %w", path, err)
	}
	return nil
}

func (f *RESTFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	var raw []restBar
	q := url.Values{"symbol": {symbol}, "limit": {fmt.Sprint(days)}}
	if err := f.get(ctx, "/api/v1/bars/daily", q, &raw); err != nil {
		return nil, err
	}
	bars := make([]model.OHLCV, len(raw))
	for i, b := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	var result struct {
		Price float64 `json:"price"`
	}
	if err := f.get(ctx, "/api/v1/quote", url.Values{"symbol": {symbol}}, &result); err != nil {
		return 0, err
	}
	return result.Price, nil
}
