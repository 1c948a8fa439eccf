package strategy

import (
	"errors"
	"math"
	"time"

	"CoinSentinel/internal/model"
)

// ErrInvalidQuantity is returned for a negative or NaN holding quantity.
var ErrInvalidQuantity = errors.New("quantity must be a non-negative number")

// sellThreshold is the lowest score that produces a liquidation plan.
const sellThreshold = 50

type tranche struct {
	fraction  float64
	dayOffset int
}

// The three schedule templates. Fractions of each template sum to 1.0.
var (
	// urgent: liquidate within 48 hours.
	urgentPlan = []tranche{{0.5, 0}, {0.3, 1}, {0.2, 2}}
	// active: liquidate within one week.
	activePlan = []tranche{{0.3, 0}, {0.3, 3}, {0.4, 7}}
	// phased: five equal tranches across one month.
	phasedPlan = []tranche{{0.2, 0}, {0.2, 7}, {0.2, 14}, {0.2, 21}, {0.2, 30}}
)

// GenerateSchedule derives a phased liquidation plan from the sell score.
// It returns nil (no plan) for scores below 50, not yet in a sell regime.
// The reference time is caller-supplied so the function stays pure; only the
// tranche dates are derived from it.
func GenerateSchedule(score int, quantity float64, now time.Time) ([]model.SellPlanEntry, error) {
	if quantity < 0 || math.IsNaN(quantity) {
		return nil, ErrInvalidQuantity
	}
	if score < sellThreshold {
		return nil, nil
	}

	var plan []tranche
	switch {
	case score >= 85:
		plan = urgentPlan
	case score >= 70:
		plan = activePlan
	default:
		plan = phasedPlan
	}

	entries := make([]model.SellPlanEntry, 0, len(plan))
	sold := 0.0
	for _, t := range plan {
		qty := quantity * t.fraction
		sold += qty
		entries = append(entries, model.SellPlanEntry{
			DayOffset:      t.dayOffset,
			Date:           now.AddDate(0, 0, t.dayOffset),
			Fraction:       t.fraction,
			QuantityToSell: qty,
			RemainingAfter: quantity - sold,
		})
	}
	return entries, nil
}
