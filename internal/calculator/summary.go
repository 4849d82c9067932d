package calculator

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"SGSTrader/internal/model"
)

// Summarize computes descriptive statistics over the closes of a series.
func Summarize(series model.PriceSeries) (model.SeriesSummary, error) {
	closes := series.Closes()
	if len(closes) == 0 {
		return model.SeriesSummary{}, ErrNoValues
	}
	first, _ := series.First()
	last, _ := series.Last()

	sum := model.SeriesSummary{
		Observations: len(closes),
		From:         first.Time,
		To:           last.Time,
		Min:          floats.Min(closes),
		Max:          floats.Max(closes),
		Mean:         stat.Mean(closes, nil),
		LastClose:    last.Close,
	}
	// Sample standard deviation is undefined for a single observation.
	if len(closes) > 1 {
		sum.StdDev = stat.StdDev(closes, nil)
	}
	if first.Close != 0 {
		sum.ChangePct = (last.Close - first.Close) / first.Close * 100
	}
	return sum, nil
}

// RangePosition returns where price sits within [low, high] (0.0~1.0).
func RangePosition(price, low, high float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
