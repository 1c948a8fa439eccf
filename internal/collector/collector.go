package collector

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"CoinSentinel/internal/calculator"
	"CoinSentinel/internal/model"
)

// Neutral defaults substituted when an upstream source fails. The engine
// never sees a fetch error; it degrades toward these values.
const (
	DefaultFearGreed = 50
	DefaultDominance = 50.0
	DefaultMVRV      = 2.2

	rsiPeriod   = 14
	weeklyBars  = 60
	dxyBarCount = 5
)

// Collector builds MarketSignal snapshots from the upstream sources. The
// sources are independent; they are queried in a bounded parallel fan-out
// with a per-call timeout, and any failure resolves to the field's neutral
// default.
type Collector struct {
	Bars      BarFetcher
	Dominance DominanceSource
	Sentiment SentimentSource
	Symbol    string

	// MaxConcurrent bounds the fan-out pool; CallTimeout bounds each call.
	MaxConcurrent int
	CallTimeout   time.Duration

	log zerolog.Logger
}

// NewCollector creates a Collector with the default pool size and timeout.
func NewCollector(bars BarFetcher, dom DominanceSource, sent SentimentSource, symbol string, log zerolog.Logger) *Collector {
	return &Collector{
		Bars:          bars,
		Dominance:     dom,
		Sentiment:     sent,
		Symbol:        symbol,
		MaxConcurrent: 4,
		CallTimeout:   15 * time.Second,
		log:           log.With().Str("component", "collector").Logger(),
	}
}

// task fetches one signal field and writes it into the snapshot under mu.
type task struct {
	name string
	run  func(ctx context.Context) error
}

// Snapshot fetches all signal fields and assembles a MarketSignal. The MVRV
// z-score has no automated source and is passed in from the user's manual
// override. Snapshot never fails: fields that could not be fetched keep
// their neutral default and are listed in Degraded.
func (c *Collector) Snapshot(ctx context.Context, mvrvOverride float64) *model.MarketSignal {
	sig := &model.MarketSignal{
		MVRVZScore:        mvrvOverride,
		WeeklyRSI:         calculator.NeutralRSI,
		FearGreedIndex:    DefaultFearGreed,
		BTCDominancePct:   DefaultDominance,
		DollarIndexRising: false,
	}
	var mu sync.Mutex

	tasks := []task{
		{"weekly_rsi", func(ctx context.Context) error {
			bars, err := c.Bars.FetchWeeklyBars(ctx, c.Symbol, weeklyBars)
			if err != nil {
				return err
			}
			rsi, err := calculator.CalculateRSI(bars, rsiPeriod)
			if err != nil {
				return err
			}
			mu.Lock()
			sig.WeeklyRSI = rsi
			mu.Unlock()
			return nil
		}},
		{"fear_greed", func(ctx context.Context) error {
			fng, err := c.Sentiment.FetchFearGreed(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			sig.FearGreedIndex = fng
			mu.Unlock()
			return nil
		}},
		{"btc_dominance", func(ctx context.Context) error {
			dom, err := c.Dominance.FetchBTCDominance(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			sig.BTCDominancePct = dom
			mu.Unlock()
			return nil
		}},
		{"dollar_index", func(ctx context.Context) error {
			bars, err := c.Bars.FetchDailyBars(ctx, DollarIndexSymbol, dxyBarCount)
			if err != nil {
				return err
			}
			chg, err := calculator.DayOverDayChange(bars)
			if err != nil {
				return err
			}
			mu.Lock()
			sig.DollarIndexRising = chg > 0
			mu.Unlock()
			return nil
		}},
	}

	workers := c.MaxConcurrent
	if workers <= 0 {
		workers = 4
	}
	taskCh := make(chan task, len(tasks))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				callCtx, cancel := context.WithTimeout(ctx, c.CallTimeout)
				err := t.run(callCtx)
				cancel()
				if err != nil {
					c.log.Warn().Str("source", t.name).Err(err).Msg("falling back to neutral default")
					mu.Lock()
					sig.Degraded = append(sig.Degraded, t.name)
					mu.Unlock()
				}
			}
		}()
	}
	for _, t := range tasks {
		taskCh <- t
	}
	close(taskCh)
	wg.Wait()

	sig.FetchedAt = time.Now()
	return sig
}
