package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Quote is a spot price snapshot for one asset.
type Quote struct {
	Ticker    string
	PriceUSD  float64
	Change24h float64 // percent over the last 24h
	FetchedAt time.Time
}
