package catalog

import "SGSTrader/internal/model"

// Market describes the symbols offered for one market kind.
type Market struct {
	Kind model.MarketKind
	// Presets are the symbols offered for selection. For free-text markets the
	// first preset is only a suggestion.
	Presets  []string
	FreeText bool
	Hint     string
}

var markets = map[model.MarketKind]Market{
	model.MarketForex: {
		Kind:    model.MarketForex,
		Presets: []string{"EURUSD=X", "USDJPY=X", "GBPUSD=X", "XAUUSD=X", "BTC-USD"},
		Hint:    "Select Forex Pair",
	},
	model.MarketIndices: {
		Kind:    model.MarketIndices,
		Presets: []string{"^NSEI", "^BSESN", "^GSPC", "^IXIC", "^DJI"},
		Hint:    "Select Index",
	},
	model.MarketStocks: {
		Kind:     model.MarketStocks,
		Presets:  []string{"RELIANCE.NS"},
		FreeText: true,
		Hint:     "Enter Stock Ticker (e.g., RELIANCE.NS, AAPL)",
	},
	model.MarketFutures: {
		Kind:     model.MarketFutures,
		Presets:  []string{"GC=F"},
		FreeText: true,
		Hint:     "Enter Futures Symbol (e.g., CL=F, GC=F)",
	},
}

// Lookup returns the catalog entry for kind.
func Lookup(kind model.MarketKind) (Market, bool) {
	m, ok := markets[kind]
	return m, ok
}

// All returns every market in display order.
func All() []Market {
	out := make([]Market, 0, len(model.MarketKinds))
	for _, k := range model.MarketKinds {
		out = append(out, markets[k])
	}
	return out
}

// DefaultSymbol returns the symbol preselected for kind, or "" for an unknown kind.
func DefaultSymbol(kind model.MarketKind) string {
	m, ok := markets[kind]
	if !ok || len(m.Presets) == 0 {
		return ""
	}
	return m.Presets[0]
}

// Allowed reports whether symbol may be analyzed under kind. Free-text markets
// accept any non-empty symbol; the others only accept their presets.
func Allowed(kind model.MarketKind, symbol string) bool {
	m, ok := markets[kind]
	if !ok || symbol == "" {
		return false
	}
	if m.FreeText {
		return true
	}
	for _, p := range m.Presets {
		if p == symbol {
			return true
		}
	}
	return false
}
