package notifier

import (
	"fmt"
	"strings"

	"CoinSentinel/internal/model"
)

var severityEmoji = map[model.Severity]string{
	model.SeverityGreen:   "🟢",
	model.SeverityYellow:  "🟡",
	model.SeverityOrange:  "🟠",
	model.SeverityRed:     "🔴",
	model.SeverityDarkRed: "⛔",
}

// FormatEvaluation formats a full sell-score evaluation into a Telegram message.
func FormatEvaluation(ev *Evaluation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>CoinSentinel Sell Score</b> | %s\n\n", ev.Signal.FetchedAt.Format("2006-01-02 15:04")))

	// Signals
	b.WriteString(fmt.Sprintf("MVRV Z-Score: %.2f\n", ev.Signal.MVRVZScore))
	b.WriteString(fmt.Sprintf("Weekly RSI: %.1f\n", ev.Signal.WeeklyRSI))
	b.WriteString(fmt.Sprintf("Fear &amp; Greed: %d\n", ev.Signal.FearGreedIndex))
	b.WriteString(fmt.Sprintf("BTC Dominance: %.1f%%\n", ev.Signal.BTCDominancePct))
	if ev.Signal.DollarIndexRising {
		b.WriteString("Dollar Index: rising\n")
	} else {
		b.WriteString("Dollar Index: flat/falling\n")
	}
	if len(ev.Signal.Degraded) > 0 {
		b.WriteString(fmt.Sprintf("⚠️ using defaults for: %s\n", strings.Join(ev.Signal.Degraded, ", ")))
	}

	// Score and reasons
	emoji := severityEmoji[ev.Tier.Severity]
	b.WriteString(fmt.Sprintf("\n%s <b>Score: %d/100</b>\n", emoji, ev.Score.Value))
	for _, r := range ev.Score.Reasons {
		b.WriteString(fmt.Sprintf("  • %s\n", r))
	}

	// Action
	b.WriteString(fmt.Sprintf("\n💰 <b>Action:</b> %s\n", ev.Tier.Label))
	b.WriteString(fmt.Sprintf("   %s\n", ev.Tier.Description))

	if len(ev.Plan) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatPlan(ev.Plan))
	}

	return b.String()
}

// FormatPlan formats a sell schedule as an indented tranche list.
func FormatPlan(plan []model.SellPlanEntry) string {
	var b strings.Builder
	b.WriteString("📅 <b>Sell Schedule:</b>\n")
	for _, e := range plan {
		b.WriteString(fmt.Sprintf("  D+%d (%s): sell %.0f%% → %.6f, %.6f left\n",
			e.DayOffset, e.Date.Format("01-02"), e.Fraction*100, e.QuantityToSell, e.RemainingAfter))
	}
	return b.String()
}

// FormatPortfolio formats holdings with live quotes and KRW valuation.
func FormatPortfolio(holdings []model.Holding, quotes map[string]*model.Quote, usdKRW float64) string {
	if len(holdings) == 0 {
		return "📦 Portfolio is empty."
	}

	var b strings.Builder
	b.WriteString("📦 <b>Portfolio</b>\n\n")

	totalUSD := 0.0
	for _, h := range holdings {
		b.WriteString(fmt.Sprintf("<b>%s</b>: %.6f @ avg %.2f\n", h.Ticker, h.Quantity, h.AvgPrice))
		q, ok := quotes[h.Ticker]
		if !ok || q == nil {
			b.WriteString("  price unavailable\n")
			continue
		}
		value := q.PriceUSD * h.Quantity
		totalUSD += value
		pnl := 0.0
		if h.AvgPrice > 0 {
			pnl = (q.PriceUSD - h.AvgPrice) / h.AvgPrice * 100
		}
		b.WriteString(fmt.Sprintf("  now %.2f (%+.1f%% 24h) | value $%.2f | P/L %+.1f%%\n",
			q.PriceUSD, q.Change24h, value, pnl))
		if h.TargetPrice > 0 {
			b.WriteString(fmt.Sprintf("  target %.2f\n", h.TargetPrice))
		}
	}

	b.WriteString(fmt.Sprintf("\nTotal: $%.2f (₩%.0f @ %.1f)\n", totalUSD, totalUSD*usdKRW, usdKRW))
	return b.String()
}

// FormatVerdict formats an AI council verdict.
func FormatVerdict(v *model.Verdict) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧠 <b>AI Council</b> | %s\n\n", v.Ticker))

	for _, op := range v.Opinions {
		if op.Err != "" {
			b.WriteString(fmt.Sprintf("<b>%s</b>: unavailable (%s)\n\n", op.Member, op.Err))
			continue
		}
		b.WriteString(fmt.Sprintf("<b>%s</b> [%s]:\n%s\n\n", op.Member, op.Vote, op.Text))
	}

	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("Votes: buy %d / sell %d / hold %d\n", v.Buy, v.Sell, v.Hold))
	b.WriteString(fmt.Sprintf("Consensus: <b>%s</b>\n", v.Consensus))
	return b.String()
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 <b>CoinSentinel Commands</b>\n\n")
	b.WriteString("/score - compute the current sell score\n")
	b.WriteString("/plan - show the sell schedule for the tracked symbol\n")
	b.WriteString("/portfolio - show holdings and valuation\n")
	b.WriteString("/mvrv [value] - show or set the manual MVRV Z-Score\n")
	b.WriteString("/add <ticker> <qty> <avg> [target] - add or replace a holding\n")
	b.WriteString("/remove <ticker> - remove a holding\n")
	b.WriteString("/council - ask the AI council for a verdict\n")
	b.WriteString("/help - this message\n")
	return b.String()
}
