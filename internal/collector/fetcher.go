package collector

import (
	"context"

	"CoinSentinel/internal/model"
)

// BarFetcher fetches OHLCV history for a symbol.
type BarFetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	FetchWeeklyBars(ctx context.Context, symbol string, weeks int) ([]model.OHLCV, error)
	Name() string
}

// DominanceSource supplies bitcoin's share of total crypto market cap.
type DominanceSource interface {
	FetchBTCDominance(ctx context.Context) (float64, error)
}

// SentimentSource supplies the fear-and-greed index, 0..100.
type SentimentSource interface {
	FetchFearGreed(ctx context.Context) (int, error)
}

// QuoteSource supplies spot prices for portfolio valuation and alerts.
type QuoteSource interface {
	FetchQuote(ctx context.Context, ticker string) (model.Quote, error)
}

// FXSource supplies the USD/KRW rate used for report formatting.
type FXSource interface {
	FetchUSDKRW(ctx context.Context) (float64, error)
}
