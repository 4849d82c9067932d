package strategy

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SGSTrader/internal/model"
)

func tenStep() model.PriceSeries {
	return model.SeriesFromCloses("STEP", 10, 20, 30, 40, 50, 60, 70, 80, 90, 100)
}

func TestEvaluate_AscendingSeriesSell(t *testing.T) {
	res, err := Evaluate(model.AnalysisRequest{
		Series:  tenStep(),
		Capital: 1000,
		Market:  model.MarketStocks,
	})
	require.NoError(t, err)

	assert.InDelta(t, 37.0, res.EntryPrice, 1e-9)
	assert.InDelta(t, 91.0, res.ExitPrice, 1e-9)
	assert.Equal(t, 100.0, res.Quote)
	assert.Equal(t, model.QuoteLastClose, res.QuoteSource)
	assert.Equal(t, model.SignalSell, res.Signal)
	assert.Equal(t, "short at 100.00, cover near 37.00", res.Recommendation)
	assert.Equal(t, 27.03, res.LotSize)
	assert.Equal(t, 5, res.Leverage)
	assert.InDelta(t, 1459.62, res.EstimatedProfit, 1e-9)
	// |100-37|/100 = 0.63 is far beyond the 10% threshold.
	assert.Equal(t, model.HoldLong, res.HoldTime)
}

func TestEvaluate_ForexOnlyChangesLeverage(t *testing.T) {
	stocks, err := Evaluate(model.AnalysisRequest{Series: tenStep(), Capital: 1000, Market: model.MarketStocks})
	require.NoError(t, err)
	forex, err := Evaluate(model.AnalysisRequest{Series: tenStep(), Capital: 1000, Market: model.MarketForex})
	require.NoError(t, err)

	assert.Equal(t, 10, forex.Leverage)
	assert.Equal(t, stocks.Signal, forex.Signal)
	assert.Equal(t, stocks.EntryPrice, forex.EntryPrice)
	assert.Equal(t, stocks.ExitPrice, forex.ExitPrice)
	assert.Equal(t, stocks.LotSize, forex.LotSize)
}

func TestLeverage(t *testing.T) {
	assert.Equal(t, 10, Leverage(model.MarketForex))
	for _, k := range []model.MarketKind{model.MarketIndices, model.MarketStocks, model.MarketFutures} {
		assert.Equal(t, 5, Leverage(k), k)
	}
}

func TestEvaluate_BuyWithLiveQuote(t *testing.T) {
	res, err := Evaluate(model.AnalysisRequest{
		Series:    tenStep(),
		LiveQuote: 35,
		Capital:   1000,
		Market:    model.MarketIndices,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SignalBuy, res.Signal)
	assert.Equal(t, model.QuoteLive, res.QuoteSource)
	assert.Equal(t, 35.0, res.Quote)
	assert.Equal(t, "buy at 35.00, exit near 91.00", res.Recommendation)
	// |35-37|/35 ~ 0.057: a coarse heuristic bucket, not a forecast.
	assert.Equal(t, model.HoldShort, res.HoldTime)
}

func TestEvaluate_HoldInsideBand(t *testing.T) {
	res, err := Evaluate(model.AnalysisRequest{
		Series:    tenStep(),
		LiveQuote: 60,
		Capital:   500,
		Market:    model.MarketFutures,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SignalHold, res.Signal)
	assert.Equal(t, "wait for entry zone [37.00, 91.00]", res.Recommendation)
	assert.Equal(t, model.HoldLong, res.HoldTime)
	assert.Equal(t, 13.51, res.LotSize)
}

func TestEvaluate_FlatSeriesHolds(t *testing.T) {
	res, err := Evaluate(model.AnalysisRequest{
		Series:  model.SeriesFromCloses("FLAT", 5, 5, 5, 5),
		Capital: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SignalHold, res.Signal)
	assert.Equal(t, model.HoldShort, res.HoldTime)
	assert.Equal(t, 20.0, res.LotSize)
	assert.Equal(t, 0.0, res.EstimatedProfit)
}

func TestEvaluate_NonPositiveLiveQuoteFallsBack(t *testing.T) {
	for _, q := range []float64{0, -5} {
		res, err := Evaluate(model.AnalysisRequest{Series: tenStep(), LiveQuote: q, Capital: 1000})
		require.NoError(t, err)
		assert.Equal(t, model.QuoteLastClose, res.QuoteSource)
		assert.Equal(t, 100.0, res.Quote)
	}
}

func TestEvaluate_SingleObservation(t *testing.T) {
	res, err := Evaluate(model.AnalysisRequest{
		Series:  model.SeriesFromCloses("ONE", 50),
		Capital: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.EntryPrice)
	assert.Equal(t, 50.0, res.ExitPrice)
	assert.Equal(t, model.SignalHold, res.Signal)
	assert.Equal(t, 0.0, res.EstimatedProfit)

	res, err = Evaluate(model.AnalysisRequest{
		Series:    model.SeriesFromCloses("ONE", 50),
		LiveQuote: 49,
		Capital:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SignalBuy, res.Signal)
}

func TestEvaluate_InvalidCapital(t *testing.T) {
	for _, c := range []float64{0, -1} {
		_, err := Evaluate(model.AnalysisRequest{Series: tenStep(), Capital: c})
		assert.True(t, errors.Is(err, ErrInvalidCapital), "capital %v", c)
	}
	// Capital is checked before the series.
	_, err := Evaluate(model.AnalysisRequest{Series: model.SeriesFromCloses("E"), Capital: 0})
	assert.True(t, errors.Is(err, ErrInvalidCapital))
}

func TestEvaluate_EmptySeries(t *testing.T) {
	_, err := Evaluate(model.AnalysisRequest{Series: model.SeriesFromCloses("E"), Capital: 1000})
	assert.True(t, errors.Is(err, ErrEmptySeries))
}

func TestEvaluate_ZeroQuote(t *testing.T) {
	res, err := Evaluate(model.AnalysisRequest{
		Series:  model.SeriesFromCloses("Z", 0, 0, 0),
		Capital: 1000,
	})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestEvaluate_NonPositiveEntry(t *testing.T) {
	_, err := Evaluate(model.AnalysisRequest{
		Series:    model.SeriesFromCloses("Z", 0, 0, 0, 0),
		LiveQuote: 5,
		Capital:   1000,
	})
	assert.True(t, errors.Is(err, ErrInvalidEntryPrice))
}

func TestEvaluate_DescendingSeriesBuy(t *testing.T) {
	res, err := Evaluate(model.AnalysisRequest{
		Series:  model.SeriesFromCloses("D", 100, 90, 80, 70, 60),
		Capital: 1000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 72.0, res.EntryPrice, 1e-9)
	assert.InDelta(t, 96.0, res.ExitPrice, 1e-9)
	assert.Equal(t, 60.0, res.Quote)
	assert.Equal(t, model.SignalBuy, res.Signal)
	assert.Equal(t, model.HoldLong, res.HoldTime)
	assert.Equal(t, 13.89, res.LotSize)
	assert.InDelta(t, 333.36, res.EstimatedProfit, 1e-9)
}

func TestEvaluate_Idempotent(t *testing.T) {
	req := model.AnalysisRequest{Series: tenStep(), LiveQuote: 42.5, Capital: 1234.56, Market: model.MarketForex}
	a, err := Evaluate(req)
	require.NoError(t, err)
	b, err := Evaluate(req)
	require.NoError(t, err)
	assert.Equal(t, *a, *b)
}

func TestEvaluate_EntryNeverAboveExit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(60)
		closes := make([]float64, n)
		for j := range closes {
			closes[j] = 0.01 + rng.Float64()*1000
		}
		res, err := Evaluate(model.AnalysisRequest{
			Series:  model.SeriesFromCloses("R", closes...),
			Capital: 1 + rng.Float64()*10000,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, res.EntryPrice, res.ExitPrice)
		assert.GreaterOrEqual(t, res.EstimatedProfit, 0.0)
	}
}

func TestValidateCapital_NonFinite(t *testing.T) {
	for _, c := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), 0, -1} {
		assert.ErrorIs(t, ValidateCapital(c), ErrInvalidCapital, "capital=%v", c)
	}
	assert.NoError(t, ValidateCapital(math.MaxFloat64))
}

func TestEvaluate_InfiniteCapital(t *testing.T) {
	_, err := Evaluate(model.AnalysisRequest{
		Series:  model.SeriesFromCloses("X", 0.5, 0.6, 0.7),
		Capital: math.Inf(1),
	})
	assert.ErrorIs(t, err, ErrInvalidCapital)
}

func TestEvaluate_PositionSizeOverflow(t *testing.T) {
	var (
		res *model.SignalResult
		err error
	)
	require.NotPanics(t, func() {
		res, err = Evaluate(model.AnalysisRequest{
			Series:  model.SeriesFromCloses("X", 0.01, 0.02),
			Capital: 1e308,
		})
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCapital)
	assert.Contains(t, err.Error(), "overflows")
}

func TestEvaluate_ProfitOverflow(t *testing.T) {
	// The lot fits in a float64 but lot × band width does not.
	require.NotPanics(t, func() {
		_, err := Evaluate(model.AnalysisRequest{
			Series:  model.SeriesFromCloses("X", 1, 1, 1, 1, 1, 1, 1, 1, 1, 100),
			Capital: 1e308,
		})
		assert.ErrorIs(t, err, ErrInvalidCapital)
	})
}
