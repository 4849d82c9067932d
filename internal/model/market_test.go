package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarketKind(t *testing.T) {
	tests := []struct {
		in   string
		want MarketKind
	}{
		{"forex", MarketForex},
		{"Forex", MarketForex},
		{" FX ", MarketForex},
		{"indices", MarketIndices},
		{"index", MarketIndices},
		{"STOCKS", MarketStocks},
		{"stock", MarketStocks},
		{"futures", MarketFutures},
	}
	for _, tt := range tests {
		got, err := ParseMarketKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMarketKind("bonds")
	assert.True(t, errors.Is(err, ErrUnknownMarket))
}

func TestNewPriceSeries_CleansBars(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	bars := []OHLCV{
		{Time: day(3), Close: 30},
		{Time: day(1), Close: 10},
		{Time: day(2), Close: math.NaN()},
		{Time: day(4), Close: 0},
		{Time: day(5), Close: 50},
		{Time: day(5), Close: 55},
		{Time: day(2), Close: 20},
	}

	s := NewPriceSeries("TEST", "unit", bars)

	assert.Equal(t, []float64{10, 20, 30, 55}, s.Closes())
	assert.Equal(t, "TEST", s.Symbol)
	assert.Equal(t, "unit", s.Source)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, day(5), last.Time)

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, day(1), first.Time)
}

func TestPriceSeries_ClosesIsCopy(t *testing.T) {
	s := SeriesFromCloses("X", 1, 2, 3)
	c := s.Closes()
	c[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, s.Closes())

	p := s.Points()
	p[0].Close = 99
	assert.Equal(t, 1.0, s.Points()[0].Close)
}

func TestPriceSeries_Empty(t *testing.T) {
	s := NewPriceSeries("X", "unit", nil)
	assert.Equal(t, 0, s.Len())
	_, ok := s.Last()
	assert.False(t, ok)
}

func TestHoldTimeLabel(t *testing.T) {
	assert.Equal(t, "1–2 weeks", HoldLong.Label())
	assert.Equal(t, "2–4 days", HoldShort.Label())
}
