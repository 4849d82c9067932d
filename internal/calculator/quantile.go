package calculator

import (
	"errors"
	"math"
	"sort"
)

var (
	// ErrNoValues is returned when a statistic is requested over no data.
	ErrNoValues = errors.New("no values provided")
	// ErrInvalidProbability is returned for quantile levels outside [0, 1].
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
)

// Quantile returns the p-quantile of values using linear interpolation between
// order statistics: with the values sorted ascending and h = (n-1)p, the result
// is x[floor(h)] + (h-floor(h)) * (x[floor(h)+1] - x[floor(h)]).
// The input slice is not modified.
func Quantile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, ErrInvalidProbability
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i]), nil
}
