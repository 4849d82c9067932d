package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// ErrUnknownMarket is returned when a market kind string cannot be parsed.
var ErrUnknownMarket = errors.New("unknown market kind")

// MarketKind is the category of instrument being analyzed.
type MarketKind string

const (
	MarketForex   MarketKind = "forex"
	MarketIndices MarketKind = "indices"
	MarketStocks  MarketKind = "stocks"
	MarketFutures MarketKind = "futures"
)

// MarketKinds lists every supported market in display order.
var MarketKinds = []MarketKind{MarketForex, MarketIndices, MarketStocks, MarketFutures}

// ParseMarketKind parses a market name case-insensitively. Singular forms are accepted.
func ParseMarketKind(s string) (MarketKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forex", "fx":
		return MarketForex, nil
	case "indices", "index":
		return MarketIndices, nil
	case "stocks", "stock":
		return MarketStocks, nil
	case "futures", "future":
		return MarketFutures, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMarket, s)
}

// DisplayName returns the capitalized market name.
func (k MarketKind) DisplayName() string {
	switch k {
	case MarketForex:
		return "Forex"
	case MarketIndices:
		return "Indices"
	case MarketStocks:
		return "Stocks"
	case MarketFutures:
		return "Futures"
	default:
		return string(k)
	}
}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is one observation of a PriceSeries.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// PriceSeries holds chronologically ascending closes for one symbol.
// Build it with NewPriceSeries; the points slice is not modified afterwards.
type PriceSeries struct {
	Symbol    string
	Source    string
	FetchedAt time.Time
	points    []PricePoint
}

// NewPriceSeries converts provider bars into a PriceSeries. Bars with a missing
// (non-finite or non-positive) close are dropped, the rest are sorted by time,
// and for duplicate timestamps the later bar wins.
func NewPriceSeries(symbol, source string, bars []OHLCV) PriceSeries {
	pts := make([]PricePoint, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			continue
		}
		pts = append(pts, PricePoint{Time: b.Time, Close: b.Close})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })

	deduped := pts[:0]
	for _, p := range pts {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(p.Time) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	return PriceSeries{
		Symbol:    symbol,
		Source:    source,
		FetchedAt: time.Now(),
		points:    deduped,
	}
}

// SeriesFromCloses builds a series from bare closes, one day apart, ending today.
// Values are kept as given (no filtering), which makes it handy for tests and
// for callers that already hold cleaned data.
func SeriesFromCloses(symbol string, closes ...float64) PriceSeries {
	start := time.Now().Truncate(24*time.Hour).AddDate(0, 0, -len(closes))
	pts := make([]PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = PricePoint{Time: start.AddDate(0, 0, i+1), Close: c}
	}
	return PriceSeries{Symbol: symbol, Source: "static", FetchedAt: time.Now(), points: pts}
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.points) }

// Points returns a copy of the observations.
func (s PriceSeries) Points() []PricePoint {
	out := make([]PricePoint, len(s.points))
	copy(out, s.points)
	return out
}

// Closes returns a copy of the closing prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.points))
	for i, p := range s.points {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent observation.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.points) == 0 {
		return PricePoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// First returns the oldest observation.
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s.points) == 0 {
		return PricePoint{}, false
	}
	return s.points[0], true
}
