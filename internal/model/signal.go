package model

import "time"

// Signal is the directional suggestion produced by the engine.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// HoldTime is a coarse estimate of how long until the entry/exit zone is reached.
type HoldTime string

const (
	HoldShort HoldTime = "short"
	HoldLong  HoldTime = "long"
)

// Label renders the hold time the way it is shown to users.
func (h HoldTime) Label() string {
	switch h {
	case HoldLong:
		return "1–2 weeks"
	case HoldShort:
		return "2–4 days"
	default:
		return string(h)
	}
}

// QuoteSource tells which price the engine compared against the band.
type QuoteSource string

const (
	QuoteLive      QuoteSource = "live"
	QuoteLastClose QuoteSource = "last_close"
)

// AnalysisRequest is the immutable input of a single engine evaluation.
// LiveQuote is optional; zero means no live quote was available.
type AnalysisRequest struct {
	Series    PriceSeries
	LiveQuote float64
	Capital   float64
	Market    MarketKind
}

// SignalResult is the final output of the strategy engine.
type SignalResult struct {
	EntryPrice      float64     `json:"entry_price"`
	ExitPrice       float64     `json:"exit_price"`
	Quote           float64     `json:"quote"`
	QuoteSource     QuoteSource `json:"quote_source"`
	Signal          Signal      `json:"signal"`
	Recommendation  string      `json:"recommendation"`
	HoldTime        HoldTime    `json:"hold_time"`
	LotSize         float64     `json:"lot_size"`
	Leverage        int         `json:"leverage"`
	EstimatedProfit float64     `json:"estimated_profit"`
}

// SeriesSummary describes the history an analysis was based on.
type SeriesSummary struct {
	Observations int       `json:"observations"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Mean         float64   `json:"mean"`
	StdDev       float64   `json:"std_dev"`
	LastClose    float64   `json:"last_close"`
	ChangePct    float64   `json:"change_pct"`
}

// Analysis is one completed analysis run, as reported and recorded.
type Analysis struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Market    MarketKind    `json:"market"`
	Symbol    string        `json:"symbol"`
	Capital   float64       `json:"capital"`
	Provider  string        `json:"provider"`
	Summary   SeriesSummary `json:"summary"`
	Result    SignalResult  `json:"result"`
}
