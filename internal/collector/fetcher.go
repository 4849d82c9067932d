package collector

import (
	"context"

	"SGSTrader/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns up to days of daily bars, oldest first.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	// FetchQuote returns the latest traded price.
	FetchQuote(ctx context.Context, symbol string) (float64, error)
	Name() string
}
