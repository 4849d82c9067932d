package strategy

import (
	"fmt"
	"math"

	"SGSTrader/internal/calculator"
	"SGSTrader/internal/model"
)

const (
	// EntryQuantile and ExitQuantile bound the historical price band.
	EntryQuantile = 0.30
	ExitQuantile  = 0.90

	// LongHoldGap is the relative quote/entry gap above which the hold time is "long".
	LongHoldGap = 0.10

	forexLeverage   = 10
	defaultLeverage = 5
)

// Leverage returns the suggested leverage for a market.
func Leverage(kind model.MarketKind) int {
	if kind == model.MarketForex {
		return forexLeverage
	}
	return defaultLeverage
}

// ValidateCapital reports ErrInvalidCapital unless capital is a positive number.
func ValidateCapital(capital float64) error {
	if math.IsNaN(capital) || math.IsInf(capital, 0) || capital <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCapital, capital)
	}
	return nil
}

// Evaluate computes the entry/exit band, signal and trade sizing for req.
// It has no side effects and returns the same result for the same input.
func Evaluate(req model.AnalysisRequest) (*model.SignalResult, error) {
	if err := ValidateCapital(req.Capital); err != nil {
		return nil, err
	}
	if req.Series.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySeries, req.Series.Symbol)
	}

	closes := req.Series.Closes()
	entry, err := calculator.Quantile(closes, EntryQuantile)
	if err != nil {
		return nil, fmt.Errorf("entry quantile: %w", err)
	}
	exit, err := calculator.Quantile(closes, ExitQuantile)
	if err != nil {
		return nil, fmt.Errorf("exit quantile: %w", err)
	}

	quote, source := resolveQuote(req)
	if quote == 0 {
		return nil, fmt.Errorf("%w: cannot estimate hold time for %s", ErrDivisionByZero, req.Series.Symbol)
	}

	res := &model.SignalResult{
		EntryPrice:  entry,
		ExitPrice:   exit,
		Quote:       quote,
		QuoteSource: source,
		Leverage:    Leverage(req.Market),
	}

	// BUY is checked before SELL.
	switch {
	case quote < entry:
		res.Signal = model.SignalBuy
		res.Recommendation = fmt.Sprintf("buy at %.2f, exit near %.2f", quote, exit)
	case quote > exit:
		res.Signal = model.SignalSell
		res.Recommendation = fmt.Sprintf("short at %.2f, cover near %.2f", quote, entry)
	default:
		res.Signal = model.SignalHold
		res.Recommendation = fmt.Sprintf("wait for entry zone [%.2f, %.2f]", entry, exit)
	}

	if math.Abs(quote-entry)/quote > LongHoldGap {
		res.HoldTime = model.HoldLong
	} else {
		res.HoldTime = model.HoldShort
	}

	if entry <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidEntryPrice, entry)
	}
	lot := req.Capital / entry
	if !isFinite(lot) {
		return nil, fmt.Errorf("%w: position size overflows (capital %v, entry %v)", ErrInvalidCapital, req.Capital, entry)
	}
	res.LotSize = calculator.Round2(lot)
	profit := (exit - entry) * res.LotSize
	if !isFinite(profit) {
		return nil, fmt.Errorf("%w: estimated profit overflows (lot %v)", ErrInvalidCapital, res.LotSize)
	}
	res.EstimatedProfit = calculator.Round2(profit)

	return res, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// resolveQuote prefers a usable live quote and otherwise falls back to the last close.
func resolveQuote(req model.AnalysisRequest) (float64, model.QuoteSource) {
	if q := req.LiveQuote; q > 0 && isFinite(q) {
		return q, model.QuoteLive
	}
	last, _ := req.Series.Last()
	return last.Close, model.QuoteLastClose
}
