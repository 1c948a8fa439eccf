package model

import "time"

// MarketSignal is the input snapshot for the sell-score engine. Every field
// has a neutral default so the engine keeps working when upstream sources are
// unreachable; Degraded lists the sources that fell back to their default.
type MarketSignal struct {
	MVRVZScore        float64 // manual override, default 2.2
	WeeklyRSI         float64 // 0..100, default 50 on short history
	FearGreedIndex    int     // 0..100, default 50
	BTCDominancePct   float64 // 0..100, default 50
	DollarIndexRising bool    // day-over-day DXY delta > 0, default false

	Degraded  []string
	FetchedAt time.Time
}

// SellScore is the bounded composite score with its trigger reasons, in
// category evaluation order.
type SellScore struct {
	Value   int
	Reasons []string
}

// Severity is the display color of an action tier.
type Severity string

const (
	SeverityGreen   Severity = "green"
	SeverityYellow  Severity = "yellow"
	SeverityOrange  Severity = "orange"
	SeverityRed     Severity = "red"
	SeverityDarkRed Severity = "darkred"
)

// ActionTier maps a score band to a recommended action.
type ActionTier struct {
	Label       string
	Description string
	Severity    Severity
}

// SellPlanEntry is one tranche of a phased liquidation schedule.
type SellPlanEntry struct {
	DayOffset      int
	Date           time.Time
	Fraction       float64
	QuantityToSell float64
	RemainingAfter float64
}
