package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"SGSTrader/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
// It only covers US equities; other symbols fail and the collector moves on.
type AlpacaFetcher struct {
	client *marketdata.Client
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		now: time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := f.now()
	bars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     end.AddDate(0, 0, -days),
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars: %w", err)
	}
	out := make([]model.OHLCV, len(bars))
	for i, b := range bars {
		out[i] = model.OHLCV{
			Time:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return out, nil
}

func (f *AlpacaFetcher) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	trade, err := f.client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("alpaca latest trade: %w", err)
	}
	if trade == nil {
		return 0, fmt.Errorf("alpaca: no trade for %s", symbol)
	}
	return trade.Price, nil
}
