package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"CoinSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the closes over the
// specified period.
func CalculateSMA(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sma := talib.Sma(extractCloses(bars), period)
	return sma[len(sma)-1], nil
}

// DayOverDayChange returns the percentage change between the last two closes.
func DayOverDayChange(bars []model.OHLCV) (float64, error) {
	if len(bars) < 2 {
		return 0, errors.New("need at least two bars")
	}
	prev := bars[len(bars)-2].Close
	curr := bars[len(bars)-1].Close
	if prev == 0 {
		return 0, errors.New("previous close is zero")
	}
	return (curr - prev) / prev * 100, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
