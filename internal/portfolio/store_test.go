package portfolio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentinel/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_HoldingCRUD(t *testing.T) {
	s := newTestStore(t)

	h, err := s.Add(model.Holding{Ticker: "BTC", Quantity: 2.0, AvgPrice: 30000, TargetPrice: 120000})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)

	_, err = s.Add(model.Holding{Ticker: "ETH", Quantity: 10, AvgPrice: 1800})
	require.NoError(t, err)

	holdings, err := s.List()
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "BTC", holdings[0].Ticker) // ordered by ticker
	assert.Equal(t, "ETH", holdings[1].Ticker)

	h.Quantity = 1.5
	require.NoError(t, s.Update(h))
	got, ok, err := s.FindByTicker("BTC")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1.5, got.Quantity, 1e-9)

	require.NoError(t, s.Remove(h.ID))
	_, ok, err = s.FindByTicker("BTC")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpdateMissingHolding(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(model.Holding{ID: "nope", Quantity: 1})
	assert.Error(t, err)
}

func TestStore_MVRVOverride(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, DefaultMVRV, s.MVRVOverride())

	require.NoError(t, s.SetMVRVOverride(6.4))
	assert.InDelta(t, 6.4, s.MVRVOverride(), 1e-9)

	require.NoError(t, s.SetMVRVOverride(2.9))
	assert.InDelta(t, 2.9, s.MVRVOverride(), 1e-9)
}

func TestStore_AlertDedup(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.AlertSent("mvrv_high"))
	require.NoError(t, s.MarkAlertSent("mvrv_high"))
	assert.True(t, s.AlertSent("mvrv_high"))

	// Marking twice is a no-op.
	require.NoError(t, s.MarkAlertSent("mvrv_high"))

	// Clearing with a past cutoff keeps recent entries.
	require.NoError(t, s.ClearAlertsBefore(time.Now().Add(-time.Hour)))
	assert.True(t, s.AlertSent("mvrv_high"))

	// Clearing with a future cutoff drops them.
	require.NoError(t, s.ClearAlertsBefore(time.Now().Add(time.Hour)))
	assert.False(t, s.AlertSent("mvrv_high"))
}
