package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentinel/internal/calculator"
)

type fakeDominance struct {
	value float64
	err   error
}

func (f *fakeDominance) FetchBTCDominance(context.Context) (float64, error) { return f.value, f.err }

type fakeSentiment struct {
	value int
	err   error
}

func (f *fakeSentiment) FetchFearGreed(context.Context) (int, error) { return f.value, f.err }

func TestSnapshot_AllSourcesHealthy(t *testing.T) {
	col := NewCollector(
		&MockFetcher{Price: 60000},
		&fakeDominance{value: 62.5},
		&fakeSentiment{value: 81},
		"BTC",
		zerolog.Nop(),
	)
	sig := col.Snapshot(context.Background(), 3.1)

	assert.Equal(t, 3.1, sig.MVRVZScore)
	assert.Equal(t, 81, sig.FearGreedIndex)
	assert.Equal(t, 62.5, sig.BTCDominancePct)
	// Mock bars rise monotonically, so the dollar index reads as rising and
	// the RSI is computed, not defaulted.
	assert.True(t, sig.DollarIndexRising)
	assert.NotEqual(t, calculator.NeutralRSI, sig.WeeklyRSI)
	assert.Empty(t, sig.Degraded)
	assert.False(t, sig.FetchedAt.IsZero())
}

func TestSnapshot_AllSourcesDown(t *testing.T) {
	boom := errors.New("connection refused")
	col := NewCollector(
		&MockFetcher{Err: boom},
		&fakeDominance{err: boom},
		&fakeSentiment{err: boom},
		"BTC",
		zerolog.Nop(),
	)
	sig := col.Snapshot(context.Background(), DefaultMVRV)

	// Every field must land on its documented neutral default.
	assert.Equal(t, DefaultMVRV, sig.MVRVZScore)
	assert.Equal(t, calculator.NeutralRSI, sig.WeeklyRSI)
	assert.Equal(t, DefaultFearGreed, sig.FearGreedIndex)
	assert.Equal(t, DefaultDominance, sig.BTCDominancePct)
	assert.False(t, sig.DollarIndexRising)
	assert.ElementsMatch(t, []string{"weekly_rsi", "fear_greed", "btc_dominance", "dollar_index"}, sig.Degraded)
}

func TestSnapshot_PartialDegradation(t *testing.T) {
	col := NewCollector(
		&MockFetcher{Price: 60000},
		&fakeDominance{err: errors.New("rate limited")},
		&fakeSentiment{value: 77},
		"BTC",
		zerolog.Nop(),
	)
	sig := col.Snapshot(context.Background(), 2.2)

	assert.Equal(t, 77, sig.FearGreedIndex)
	assert.Equal(t, DefaultDominance, sig.BTCDominancePct)
	assert.Equal(t, []string{"btc_dominance"}, sig.Degraded)
}

func TestSnapshot_ShortHistoryDefaultsRSI(t *testing.T) {
	col := NewCollector(
		&MockFetcher{WeeklyData: generateMockBars(60000, 5), DailyData: generateMockBars(104, 5)},
		&fakeDominance{value: 55},
		&fakeSentiment{value: 40},
		"BTC",
		zerolog.Nop(),
	)
	sig := col.Snapshot(context.Background(), 2.2)
	assert.Equal(t, calculator.NeutralRSI, sig.WeeklyRSI)
	assert.Empty(t, sig.Degraded) // short history is not a fetch failure
}

func TestFearGreedClient_ParsesValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"value":"73","value_classification":"Greed"}]}`))
	}))
	defer srv.Close()

	c := NewFearGreedClientWithURL(srv.URL)
	v, err := c.FetchFearGreed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 73, v)
}

func TestCoinGeckoClient_Dominance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/global", r.URL.Path)
		w.Write([]byte(`{"data":{"market_cap_percentage":{"btc":58.3,"eth":12.1}}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClientWithBase(srv.URL)
	dom, err := c.FetchBTCDominance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 58.3, dom, 1e-9)
}

func TestCoinGeckoClient_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"bitcoin":{"usd":64250.12,"usd_24h_change":-3.2}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClientWithBase(srv.URL)
	q, err := c.FetchQuote(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, "BTC", q.Ticker)
	assert.InDelta(t, 64250.12, q.PriceUSD, 1e-9)
	assert.InDelta(t, -3.2, q.Change24h, 1e-9)
}

func TestYahooFetcher_EmptyQuoteArray(t *testing.T) {
	// Timestamps present but no quote series: must error, not panic.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1735689600,1735776000],"indicators":{"quote":[]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcherWithBase(srv.URL)
	_, err := f.FetchDailyBars(context.Background(), "BTC", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestCoinGeckoClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCoinGeckoClientWithBase(srv.URL)
	_, err := c.FetchBTCDominance(context.Background())
	assert.Error(t, err)
}
