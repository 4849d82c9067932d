package notifier

import (
	"fmt"
	"regexp"
	"strings"

	"SGSTrader/internal/calculator"
	"SGSTrader/internal/catalog"
	"SGSTrader/internal/model"
)

var tagPattern = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// StripTags removes the HTML markup used for Telegram so the text can be
// printed to a terminal.
func StripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&").Replace(s)
}

// Trend is the short directional forecast shown next to the signal.
func Trend(r model.SignalResult) string {
	if r.Quote > r.EntryPrice {
		return "📉 Likely to Fall"
	}
	return "📈 Likely to Rise"
}

func signalIcon(s model.Signal) string {
	switch s {
	case model.SignalBuy:
		return "🟢"
	case model.SignalSell:
		return "🔴"
	default:
		return "⚪"
	}
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// FormatAnalysis formats one analysis as an HTML message.
func FormatAnalysis(a *model.Analysis) string {
	var b strings.Builder
	r := a.Result

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s | %s\n\n",
		escape(a.Symbol), a.Market.DisplayName(), a.CreatedAt.Format("2006-01-02 15:04")))

	b.WriteString("<b>Result Summary</b>\n")
	b.WriteString(fmt.Sprintf("Current Price: $%.2f", r.Quote))
	if r.QuoteSource == model.QuoteLastClose {
		b.WriteString(" (last close)")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Suggested Entry: $%.2f\n", r.EntryPrice))
	b.WriteString(fmt.Sprintf("Suggested Exit: $%.2f\n", r.ExitPrice))
	b.WriteString(fmt.Sprintf("Trend Forecast: %s\n", Trend(r)))
	b.WriteString(fmt.Sprintf("Signal: %s <b>%s</b>, %s\n", signalIcon(r.Signal), r.Signal, r.Recommendation))
	b.WriteString(fmt.Sprintf("Time to Entry/Exit: %s\n", r.HoldTime.Label()))
	b.WriteString(fmt.Sprintf("Lot Size: %.2f units\n", r.LotSize))
	b.WriteString(fmt.Sprintf("Leverage Suggested: x%d\n", r.Leverage))
	b.WriteString(fmt.Sprintf("Estimated Profit: $%.2f\n", r.EstimatedProfit))

	s := a.Summary
	b.WriteString("\n<b>History</b>\n")
	b.WriteString(fmt.Sprintf("%d closes, %s → %s (%s)\n",
		s.Observations, s.From.Format("2006-01-02"), s.To.Format("2006-01-02"), escape(a.Provider)))
	b.WriteString(fmt.Sprintf("Range: %.2f ~ %.2f | Mean %.2f | σ %.2f\n", s.Min, s.Max, s.Mean, s.StdDev))
	b.WriteString(fmt.Sprintf("Quote at %.0f%% of range | Change %+.1f%%\n",
		calculator.RangePosition(r.Quote, s.Min, s.Max)*100, s.ChangePct))

	return b.String()
}

// FormatHistory formats recent analyses, one per line.
func FormatHistory(items []model.Analysis) string {
	if len(items) == 0 {
		return "No analyses recorded yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>Recent analyses</b> (%d)\n\n", len(items)))
	for _, a := range items {
		r := a.Result
		b.WriteString(fmt.Sprintf("%s %s %-4s %s @ %.2f [%.2f, %.2f] lot %.2f profit $%.2f\n",
			a.CreatedAt.Format("01-02 15:04"), signalIcon(r.Signal), r.Signal,
			escape(a.Symbol), r.Quote, r.EntryPrice, r.ExitPrice, r.LotSize, r.EstimatedProfit))
	}
	return b.String()
}

// FormatMarkets lists the supported markets with their symbol presets.
func FormatMarkets() string {
	var b strings.Builder
	b.WriteString("🌐 <b>Markets</b>\n")
	for _, m := range catalog.All() {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> (%s): %s", m.Kind.DisplayName(), m.Kind, escape(strings.Join(m.Presets, ", "))))
		if m.FreeText {
			b.WriteString(", any symbol")
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s\n", escape(m.Hint)))
	}
	return b.String()
}
