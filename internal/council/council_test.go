package council

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentinel/internal/model"
)

type stubProvider struct {
	name  string
	reply string
	err   error
}

func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Persona() string { return "stub persona" }
func (s *stubProvider) Ask(context.Context, string) (string, error) {
	return s.reply, s.err
}

func TestClassifyVote(t *testing.T) {
	tests := []struct {
		text string
		want model.Vote
	}{
		{"The chart looks strong. [VERDICT: BUY]", model.VoteBuy},
		{"Overheated on every metric. [VERDICT: SELL]", model.VoteSell},
		{"Too uncertain to act. [VERDICT: HOLD]", model.VoteHold},
		{"no verdict marker at all", model.VoteHold},
		{"I would Sell into this rally", model.VoteSell},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyVote(tt.text), "text %q", tt.text)
	}
}

func TestConvene_MajoritySell(t *testing.T) {
	c := NewCouncil([]ChatProvider{
		&stubProvider{name: "a", reply: "[VERDICT: SELL]"},
		&stubProvider{name: "b", reply: "[VERDICT: SELL]"},
		&stubProvider{name: "c", reply: "[VERDICT: BUY]"},
	}, zerolog.Nop())

	v := c.Convene(context.Background(), "BTC", &model.MarketSignal{MVRVZScore: 7.2, WeeklyRSI: 88, FearGreedIndex: 95}, 100000)
	assert.Equal(t, 2, v.Sell)
	assert.Equal(t, 1, v.Buy)
	assert.Equal(t, 0, v.Hold)
	assert.Equal(t, model.VoteSell, v.Consensus)
	require.Len(t, v.Opinions, 3)
	assert.Equal(t, "a", v.Opinions[0].Member) // input order preserved
}

func TestConvene_FailedMemberCountsAsHold(t *testing.T) {
	c := NewCouncil([]ChatProvider{
		&stubProvider{name: "a", reply: "[VERDICT: BUY]"},
		&stubProvider{name: "b", err: errors.New("timeout")},
	}, zerolog.Nop())

	v := c.Convene(context.Background(), "ETH", &model.MarketSignal{}, 3000)
	assert.Equal(t, 1, v.Buy)
	assert.Equal(t, 1, v.Hold)
	assert.Equal(t, model.VoteHold, v.Consensus) // 1-1 tie resolves to hold
	assert.NotEmpty(t, v.Opinions[1].Err)
}

func TestConsensus_Ties(t *testing.T) {
	assert.Equal(t, model.VoteHold, consensus(2, 2, 0))
	assert.Equal(t, model.VoteHold, consensus(0, 0, 0))
	assert.Equal(t, model.VoteBuy, consensus(3, 1, 0))
}
