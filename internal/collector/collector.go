package collector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"SGSTrader/internal/model"
)

var (
	// ErrNoData is returned when no provider yields a non-empty series.
	ErrNoData = errors.New("no data available")
	// ErrUnknownProvider is returned for an unrecognized provider name.
	ErrUnknownProvider = errors.New("unknown data provider")
)

// DefaultLookbacks are the history windows tried in order, in days.
var DefaultLookbacks = []int{1825, 730, 365}

// Snapshot is the market data one analysis runs on.
type Snapshot struct {
	Series model.PriceSeries
	// LiveQuote is zero when the provider could not supply one.
	LiveQuote float64
	Provider  string
}

// Collector tries an ordered list of providers and lookback windows until one
// yields price history. Failures are never retried.
type Collector struct {
	Fetchers  []Fetcher
	Lookbacks []int
	logger    *zap.Logger
}

// NewCollector creates a new Collector. Empty lookbacks fall back to DefaultLookbacks.
func NewCollector(fetchers []Fetcher, lookbacks []int, logger *zap.Logger) *Collector {
	if len(lookbacks) == 0 {
		lookbacks = DefaultLookbacks
	}
	return &Collector{Fetchers: fetchers, Lookbacks: lookbacks, logger: logger.Named("collector")}
}

// Collect fetches the price history and live quote for symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (*Snapshot, error) {
	var errs []error
	for _, f := range c.Fetchers {
		series, err := c.history(ctx, f, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("provider yielded no history",
				zap.String("provider", f.Name()), zap.String("symbol", symbol), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", f.Name(), err))
			continue
		}

		snap := &Snapshot{Series: series, Provider: f.Name()}
		if q, err := f.FetchQuote(ctx, symbol); err != nil {
			c.logger.Warn("live quote unavailable, using last close",
				zap.String("provider", f.Name()), zap.String("symbol", symbol), zap.Error(err))
		} else {
			snap.LiveQuote = q
		}
		c.logger.Debug("history collected",
			zap.String("provider", f.Name()), zap.String("symbol", symbol),
			zap.Int("observations", series.Len()), zap.Float64("live_quote", snap.LiveQuote))
		return snap, nil
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w for %s: no providers configured", ErrNoData, symbol)
	}
	return nil, fmt.Errorf("%w for %s: %w", ErrNoData, symbol, errors.Join(errs...))
}

// history walks the lookback windows of a single provider.
func (c *Collector) history(ctx context.Context, f Fetcher, symbol string) (model.PriceSeries, error) {
	var lastErr error
	for _, days := range c.Lookbacks {
		bars, err := f.FetchDailyBars(ctx, symbol, days)
		if err != nil {
			if ctx.Err() != nil {
				return model.PriceSeries{}, ctx.Err()
			}
			lastErr = fmt.Errorf("%dd window: %w", days, err)
			continue
		}
		series := model.NewPriceSeries(symbol, f.Name(), bars)
		if series.Len() > 0 {
			return series, nil
		}
		lastErr = fmt.Errorf("%dd window: empty history", days)
	}
	if lastErr == nil {
		lastErr = errors.New("no lookback windows configured")
	}
	return model.PriceSeries{}, lastErr
}
