package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"CoinSentinel/internal/model"
)

// NeutralRSI is returned when there is not enough history to compute RSI.
const NeutralRSI = 50.0

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 bars; returns the neutral 50 when history is
// too short, so callers degrade instead of failing.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return NeutralRSI, nil
	}

	rsi := talib.Rsi(extractCloses(bars), period)
	last := rsi[len(rsi)-1]
	if math.IsNaN(last) {
		return NeutralRSI, nil
	}
	return last, nil
}
