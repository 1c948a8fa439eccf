package model

// Vote is a council member's position extracted from its free-text reply.
type Vote string

const (
	VoteBuy  Vote = "BUY"
	VoteSell Vote = "SELL"
	VoteHold Vote = "HOLD"
)

// Opinion is one council member's reply.
type Opinion struct {
	Member  string
	Persona string
	Text    string
	Vote    Vote
	Err     string // non-empty when the provider call failed
}

// Verdict is the aggregated council result.
type Verdict struct {
	Ticker    string
	Opinions  []Opinion
	Buy       int
	Sell      int
	Hold      int
	Consensus Vote
}
