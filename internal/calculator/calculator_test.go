package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentinel/internal/model"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:  c, High: c, Low: c, Close: c,
		}
	}
	return bars
}

func TestCalculateRSI_InsufficientHistory(t *testing.T) {
	rsi, err := CalculateRSI(barsFromCloses([]float64{1, 2, 3}), 14)
	require.NoError(t, err)
	assert.Equal(t, NeutralRSI, rsi)
}

func TestCalculateRSI_AllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rsi, 1e-6)
}

func TestCalculateRSI_FlatSeriesStaysNeutral(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	require.NoError(t, err)
	// No gains, no losses: a flat series must not read as overheated.
	assert.LessOrEqual(t, rsi, 50.0)
}

func TestCalculateRSI_InvalidPeriod(t *testing.T) {
	_, err := CalculateRSI(barsFromCloses([]float64{1, 2}), 0)
	assert.Error(t, err)
}

func TestCalculateSMA(t *testing.T) {
	sma, err := CalculateSMA(barsFromCloses([]float64{1, 2, 3, 4, 5}), 5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, sma, 1e-9)

	_, err = CalculateSMA(barsFromCloses([]float64{1, 2}), 5)
	assert.Error(t, err)
}

func TestDayOverDayChange(t *testing.T) {
	chg, err := DayOverDayChange(barsFromCloses([]float64{104.5, 105.545}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, chg, 1e-9)

	_, err = DayOverDayChange(barsFromCloses([]float64{104.5}))
	assert.Error(t, err)
}
