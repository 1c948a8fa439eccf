package notifier

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentinel/internal/model"
)

func sampleEvaluation() *Evaluation {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &Evaluation{
		Symbol: "BTC",
		Signal: &model.MarketSignal{
			MVRVZScore:        7.5,
			WeeklyRSI:         88,
			FearGreedIndex:    95,
			BTCDominancePct:   38,
			DollarIndexRising: true,
			Degraded:          []string{"btc_dominance"},
			FetchedAt:         now,
		},
		Score: &model.SellScore{
			Value:   100,
			Reasons: []string{"MVRV historic-high", "RSI extreme overheat"},
		},
		Tier: model.ActionTier{
			Label:       "Full exit",
			Description: "Sell the full remaining position.",
			Severity:    model.SeverityDarkRed,
		},
		Plan: []model.SellPlanEntry{
			{DayOffset: 0, Date: now, Fraction: 0.5, QuantityToSell: 1.0, RemainingAfter: 1.0},
			{DayOffset: 1, Date: now.AddDate(0, 0, 1), Fraction: 0.3, QuantityToSell: 0.6, RemainingAfter: 0.4},
			{DayOffset: 2, Date: now.AddDate(0, 0, 2), Fraction: 0.2, QuantityToSell: 0.4, RemainingAfter: 0.0},
		},
	}
}

func TestFormatEvaluation_ContainsAllSections(t *testing.T) {
	msg := FormatEvaluation(sampleEvaluation())

	assert.Contains(t, msg, "Score: 100/100")
	assert.Contains(t, msg, "MVRV Z-Score: 7.50")
	assert.Contains(t, msg, "Weekly RSI: 88.0")
	assert.Contains(t, msg, "BTC Dominance: 38.0%")
	assert.Contains(t, msg, "Dollar Index: rising")
	assert.Contains(t, msg, "MVRV historic-high")
	assert.Contains(t, msg, "RSI extreme overheat")
	assert.Contains(t, msg, "Full exit")
	assert.Contains(t, msg, "defaults for: btc_dominance")
	assert.Contains(t, msg, "D+0")
	assert.Contains(t, msg, "D+2")
}

func TestFormatEvaluation_NoPlanSection(t *testing.T) {
	ev := sampleEvaluation()
	ev.Plan = nil
	ev.Score = &model.SellScore{Value: 20}
	ev.Tier = model.ActionTier{Label: "Accumulate/Hold", Severity: model.SeverityGreen}

	msg := FormatEvaluation(ev)
	assert.NotContains(t, msg, "Sell Schedule")
	assert.Contains(t, msg, "Accumulate/Hold")
}

func TestFormatPortfolio(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "BTC", Quantity: 0.5, AvgPrice: 40000, TargetPrice: 120000},
		{Ticker: "ETH", Quantity: 2, AvgPrice: 2000},
	}
	quotes := map[string]*model.Quote{
		"BTC": {Ticker: "BTC", PriceUSD: 100000, Change24h: 3.2},
	}

	msg := FormatPortfolio(holdings, quotes, 1450)
	assert.Contains(t, msg, "BTC")
	assert.Contains(t, msg, "value $50000.00")
	assert.Contains(t, msg, "target 120000.00")
	assert.Contains(t, msg, "price unavailable")
	assert.Contains(t, msg, "₩72500000")
}

func TestFormatPortfolio_Empty(t *testing.T) {
	assert.Contains(t, FormatPortfolio(nil, nil, 1450), "empty")
}

func TestFormatVerdict(t *testing.T) {
	v := &model.Verdict{
		Ticker: "BTC",
		Opinions: []model.Opinion{
			{Member: "gpt", Text: "Take profit here.", Vote: model.VoteSell},
			{Member: "claude", Err: "timeout"},
		},
		Sell:      1,
		Hold:      1,
		Consensus: model.VoteHold,
	}

	msg := FormatVerdict(v)
	assert.Contains(t, msg, "gpt")
	assert.Contains(t, msg, "Take profit here.")
	assert.Contains(t, msg, "unavailable (timeout)")
	assert.Contains(t, msg, "buy 0 / sell 1 / hold 1")
	assert.Contains(t, msg, "HOLD")
}

func TestConsoleNotifier_SendEvaluation(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleNotifier(&buf)

	require.NoError(t, c.SendEvaluation(context.Background(), sampleEvaluation()))

	out := buf.String()
	assert.Contains(t, out, "BTC sell score: 100/100")
	assert.Contains(t, out, "MVRV Z-Score")
	assert.Contains(t, out, "Sell schedule:")
	assert.Contains(t, out, "D+2")
	assert.Contains(t, out, "defaults used for: btc_dominance")
}

func TestConsoleNotifier_SendMessage(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleNotifier(&buf)

	require.NoError(t, c.SendMessage(context.Background(), "hello"))
	assert.Equal(t, "hello\n", buf.String())
}
