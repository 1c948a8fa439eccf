package notifier

import (
	"context"

	"CoinSentinel/internal/model"
)

// Evaluation bundles one scoring run for delivery.
type Evaluation struct {
	Symbol string
	Signal *model.MarketSignal
	Score  *model.SellScore
	Tier   model.ActionTier
	Plan   []model.SellPlanEntry // nil when below the sell threshold
}

// Notifier delivers evaluations and plain messages to the user.
type Notifier interface {
	SendEvaluation(ctx context.Context, ev *Evaluation) error
	SendMessage(ctx context.Context, text string) error
}
