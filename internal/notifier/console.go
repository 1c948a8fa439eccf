package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// ConsoleNotifier renders evaluations as plain-text tables on a writer.
// It is used when no Telegram credentials are configured.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier creates a notifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// SendEvaluation prints the evaluation as signal and plan tables.
func (c *ConsoleNotifier) SendEvaluation(_ context.Context, ev *Evaluation) error {
	fmt.Fprintf(c.out, "\n=== %s sell score: %d/100 | %s ===\n", ev.Symbol, ev.Score.Value, ev.Tier.Label)
	fmt.Fprintf(c.out, "%s\n", ev.Tier.Description)

	table := tablewriter.NewWriter(c.out)
	table.Header("Signal", "Value")
	table.Append("MVRV Z-Score", fmt.Sprintf("%.2f", ev.Signal.MVRVZScore))
	table.Append("Weekly RSI", fmt.Sprintf("%.1f", ev.Signal.WeeklyRSI))
	table.Append("Fear & Greed", fmt.Sprintf("%d", ev.Signal.FearGreedIndex))
	table.Append("BTC Dominance", fmt.Sprintf("%.1f%%", ev.Signal.BTCDominancePct))
	table.Append("Dollar rising", fmt.Sprintf("%v", ev.Signal.DollarIndexRising))
	table.Render()

	for _, r := range ev.Score.Reasons {
		fmt.Fprintf(c.out, "  * %s\n", r)
	}
	if len(ev.Signal.Degraded) > 0 {
		fmt.Fprintf(c.out, "  ! defaults used for: %s\n", strings.Join(ev.Signal.Degraded, ", "))
	}

	if len(ev.Plan) > 0 {
		fmt.Fprintln(c.out, "\nSell schedule:")
		plan := tablewriter.NewWriter(c.out)
		plan.Header("Day", "Date", "Fraction", "Sell", "Remaining")
		for _, e := range ev.Plan {
			plan.Append(
				fmt.Sprintf("D+%d", e.DayOffset),
				e.Date.Format("2006-01-02"),
				fmt.Sprintf("%.0f%%", e.Fraction*100),
				fmt.Sprintf("%.6f", e.QuantityToSell),
				fmt.Sprintf("%.6f", e.RemainingAfter),
			)
		}
		plan.Render()
	}

	return nil
}

// SendMessage prints a plain message.
func (c *ConsoleNotifier) SendMessage(_ context.Context, text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return err
}
