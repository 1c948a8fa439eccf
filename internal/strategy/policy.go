package strategy

import "CoinSentinel/internal/model"

// Tiers defines the 5-level action mapping, highest band first. The bands
// are contiguous and partition [0,100] exactly.
var Tiers = []struct {
	MinScore int
	Tier     model.ActionTier
}{
	{85, model.ActionTier{Label: "Full exit", Description: "Cycle top — exit without hesitation", Severity: model.SeverityDarkRed}},
	{70, model.ActionTier{Label: "Active selling", Description: "Raise cash allocation above 70%", Severity: model.SeverityRed}},
	{50, model.ActionTier{Label: "Begin phased selling", Description: "Take 10–20% profit on each rally", Severity: model.SeverityOrange}},
	{30, model.ActionTier{Label: "Hold/Watch", Description: "Trend intact — ride it", Severity: model.SeverityYellow}},
}

// DefaultTier is the lowest band for scores < 30.
var DefaultTier = model.ActionTier{Label: "Accumulate/Hold", Description: "Low zone — accumulate position", Severity: model.SeverityGreen}

// Classify maps a score to its ActionTier.
func Classify(score int) model.ActionTier {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t.Tier
		}
	}
	return DefaultTier
}
