package strategy

import (
	"fmt"

	"CoinSentinel/internal/model"
)

// Score contributions per category. These are hand-tuned heuristics carried
// over unchanged for behavioral compatibility; they are not derived from
// backtests.
const (
	mvrvHistoricHigh = 7.0
	mvrvOvervalued   = 5.0
	mvrvElevated     = 3.0

	rsiExtremeOverheat = 85.0
	rsiOverheat        = 75.0
	rsiElevated        = 70.0

	fngExtremeGreed = 90
	fngStrongGreed  = 80
	fngGreed        = 70

	dominanceTrough = 40.0

	maxScore = 100
)

// scoreMVRV scores the on-chain valuation category. Up to 25 points.
func scoreMVRV(z float64) (int, string) {
	switch {
	case z >= mvrvHistoricHigh:
		return 25, "MVRV historic-high"
	case z >= mvrvOvervalued:
		return 20, "MVRV overvalued"
	case z >= mvrvElevated:
		return 10, ""
	default:
		return 0, ""
	}
}

// scoreWeeklyRSI scores the momentum category. Up to 25 points.
func scoreWeeklyRSI(rsi float64) (int, string) {
	switch {
	case rsi >= rsiExtremeOverheat:
		return 25, "RSI extreme overheat"
	case rsi >= rsiOverheat:
		return 20, "RSI overheat"
	case rsi >= rsiElevated:
		return 15, ""
	default:
		return 0, ""
	}
}

// scoreFearGreed scores the sentiment category. Up to 20 points.
func scoreFearGreed(fng int) (int, string) {
	switch {
	case fng >= fngExtremeGreed:
		return 20, fmt.Sprintf("extreme greed (%d)", fng)
	case fng >= fngStrongGreed:
		return 15, fmt.Sprintf("strong greed (%d)", fng)
	case fng >= fngGreed:
		return 10, ""
	default:
		return 0, ""
	}
}

// ComputeScore combines the four signal categories into a bounded 0..100
// sell score. Categories are additive; tiers within a category are mutually
// exclusive with inclusive lower bounds. Reasons keep category evaluation
// order and only include tiers that define a text. A NaN input crosses no
// threshold and degrades to that category's neutral contribution.
func ComputeScore(sig *model.MarketSignal) *model.SellScore {
	total := 0
	var reasons []string

	add := func(points int, reason string) {
		total += points
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	add(scoreMVRV(sig.MVRVZScore))
	add(scoreWeeklyRSI(sig.WeeklyRSI))
	add(scoreFearGreed(sig.FearGreedIndex))

	// Structural category: both triggers can fire independently.
	if sig.BTCDominancePct <= dominanceTrough {
		add(15, "dominance trough (altcoin overheat)")
	}
	if sig.DollarIndexRising {
		add(15, "dollar strength (market pressure)")
	}

	if total > maxScore {
		total = maxScore
	}

	return &model.SellScore{Value: total, Reasons: reasons}
}
