package recorder

import "CoinSentinel/internal/model"

// EvaluationSnapshot holds all data for one scoring run.
type EvaluationSnapshot struct {
	Signal       *model.MarketSignal
	Score        *model.SellScore
	Tier         model.ActionTier
	PlanTranches int // 0 when no sell plan was generated
}

// AlertEvent records one alert sent to the user.
type AlertEvent struct {
	Key     string
	Ticker  string
	Kind    string // "MVRV_HIGH", "TARGET_REACHED", "MOVE_24H"
	Message string
}

// Recorder persists evaluation history for later analysis.
type Recorder interface {
	RecordEvaluation(snap *EvaluationSnapshot) error
	RecordAlert(evt *AlertEvent) error
	Close() error
}
