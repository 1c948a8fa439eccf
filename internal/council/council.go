package council

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"CoinSentinel/internal/model"
)

// Council fans one question out to every configured provider in parallel and
// tallies their votes. The tally is keyword matching on free-text replies,
// a display aid, never an input to the score engine.
type Council struct {
	providers   []ChatProvider
	callTimeout time.Duration
	log         zerolog.Logger
}

// NewCouncil creates a council over the given providers.
func NewCouncil(providers []ChatProvider, log zerolog.Logger) *Council {
	return &Council{
		providers:   providers,
		callTimeout: 30 * time.Second,
		log:         log.With().Str("component", "council").Logger(),
	}
}

// Size returns the number of seated members.
func (c *Council) Size() int { return len(c.providers) }

// buildPrompt prepares the shared question for all members.
func buildPrompt(ticker string, sig *model.MarketSignal, priceUSD float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Market data]\n")
	fmt.Fprintf(&b, "- Asset: %s (current price $%.2f)\n", ticker, priceUSD)
	fmt.Fprintf(&b, "- MVRV Z-Score: %.2f\n", sig.MVRVZScore)
	fmt.Fprintf(&b, "- Weekly RSI: %.0f\n", sig.WeeklyRSI)
	fmt.Fprintf(&b, "- Fear & Greed index: %d\n", sig.FearGreedIndex)
	fmt.Fprintf(&b, "- BTC dominance: %.1f%%\n", sig.BTCDominancePct)
	b.WriteString("\nGive your investment opinion (buy/sell/hold) in character, ")
	b.WriteString("three lines at most, and finish with exactly one line of the form ")
	b.WriteString("[VERDICT: BUY] / [VERDICT: SELL] / [VERDICT: HOLD].")
	return b.String()
}

// ClassifyVote extracts a vote from a member's free-text reply. Matching is
// deliberately simple substring search, buy before sell, hold as fallback.
func ClassifyVote(text string) model.Vote {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "buy"):
		return model.VoteBuy
	case strings.Contains(lower, "sell"):
		return model.VoteSell
	default:
		return model.VoteHold
	}
}

// Convene asks all members in parallel and returns the aggregated verdict.
// A failed member is reported in its opinion and counted as hold.
func (c *Council) Convene(ctx context.Context, ticker string, sig *model.MarketSignal, priceUSD float64) *model.Verdict {
	prompt := buildPrompt(ticker, sig, priceUSD)

	opinions := make([]model.Opinion, len(c.providers))
	var wg sync.WaitGroup
	for i, p := range c.providers {
		wg.Add(1)
		go func(i int, p ChatProvider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
			defer cancel()

			op := model.Opinion{Member: p.Name(), Persona: p.Persona()}
			text, err := p.Ask(callCtx, prompt)
			if err != nil {
				c.log.Warn().Str("member", p.Name()).Err(err).Msg("council member failed")
				op.Err = err.Error()
				op.Vote = model.VoteHold
			} else {
				op.Text = text
				op.Vote = ClassifyVote(text)
			}
			opinions[i] = op
		}(i, p)
	}
	wg.Wait()

	verdict := &model.Verdict{Ticker: ticker, Opinions: opinions}
	for _, op := range opinions {
		switch op.Vote {
		case model.VoteBuy:
			verdict.Buy++
		case model.VoteSell:
			verdict.Sell++
		default:
			verdict.Hold++
		}
	}
	verdict.Consensus = consensus(verdict.Buy, verdict.Sell, verdict.Hold)
	return verdict
}

// consensus picks the majority position; ties resolve to hold.
func consensus(buy, sell, hold int) model.Vote {
	switch {
	case buy > sell && buy > hold:
		return model.VoteBuy
	case sell > buy && sell > hold:
		return model.VoteSell
	default:
		return model.VoteHold
	}
}
