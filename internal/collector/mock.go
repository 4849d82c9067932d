package collector

import (
	"context"
	"sync"
	"time"

	"SGSTrader/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Label     string
	Price     float64
	DailyData []model.OHLCV
	// BarsErr and QuoteErr, when set, are returned instead of data.
	BarsErr  error
	QuoteErr error
	// MinDays makes FetchDailyBars return no bars for shorter windows.
	MinDays int

	// Calls records the requested windows, guarded by mu.
	mu    sync.Mutex
	Calls []int
}

func (m *MockFetcher) Name() string {
	if m.Label != "" {
		return m.Label
	}
	return "mock"
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, days)
	m.mu.Unlock()
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	if days < m.MinDays {
		return nil, nil
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, _ string) (float64, error) {
	if m.QuoteErr != nil {
		return 0, m.QuoteErr
	}
	return m.Price, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	end := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
