package scheduler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"CoinSentinel/internal/collector"
	"CoinSentinel/internal/council"
	"CoinSentinel/internal/model"
	"CoinSentinel/internal/notifier"
	"CoinSentinel/internal/portfolio"
	"CoinSentinel/internal/recorder"
	"CoinSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// move24hThreshold is the absolute 24h change, in percent, that triggers
// a price-move alert.
const move24hThreshold = 10.0

// Scheduler manages all cron tasks and bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Quotes    collector.QuoteSource
	FX        collector.FXSource
	Store     *portfolio.Store
	Council   *council.Council
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Symbol    string
	Ctx       context.Context

	log zerolog.Logger
}

// NewScheduler creates a new Scheduler. Council may be nil when no
// providers are configured.
func NewScheduler(ctx context.Context, col *collector.Collector, quotes collector.QuoteSource, fx collector.FXSource,
	store *portfolio.Store, cl *council.Council, n notifier.Notifier, rec recorder.Recorder, symbol string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Quotes:    quotes,
		FX:        fx,
		Store:     store,
		Council:   cl,
		Notifier:  n,
		Recorder:  rec,
		Symbol:    symbol,
		Ctx:       ctx,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the evaluation, alert sweep, and weekly dedup reset tasks.
func (s *Scheduler) RegisterAll(evaluateCron, alertCron, weeklyResetCron string) error {
	if _, err := s.Cron.AddFunc(evaluateCron, s.evaluateTask); err != nil {
		return fmt.Errorf("register evaluate task: %w", err)
	}
	if _, err := s.Cron.AddFunc(alertCron, s.alertTask); err != nil {
		return fmt.Errorf("register alert task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyResetCron, func() {
		if err := s.Store.ClearAlertsBefore(time.Now()); err != nil {
			s.log.Error().Err(err).Msg("clear alert dedup")
			return
		}
		s.log.Info().Msg("alert dedup reset")
	}); err != nil {
		return fmt.Errorf("register weekly reset: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunEvaluationNow executes the scoring task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunEvaluationNow() {
	s.evaluateTask()
}

// evaluate builds the full evaluation: snapshot, score, tier, and
// the sell schedule sized to the tracked holding.
func (s *Scheduler) evaluate() *notifier.Evaluation {
	sig := s.Collector.Snapshot(s.Ctx, s.Store.MVRVOverride())
	score := strategy.ComputeScore(sig)
	tier := strategy.Classify(score.Value)

	quantity := 1.0
	if h, ok, err := s.Store.FindByTicker(s.Symbol); err != nil {
		s.log.Error().Err(err).Msg("load tracked holding")
	} else if ok {
		quantity = h.Quantity
	}

	plan, err := strategy.GenerateSchedule(score.Value, quantity, time.Now())
	if err != nil {
		s.log.Error().Err(err).Float64("quantity", quantity).Msg("generate sell schedule")
	}

	return &notifier.Evaluation{
		Symbol: s.Symbol,
		Signal: sig,
		Score:  score,
		Tier:   tier,
		Plan:   plan,
	}
}

func (s *Scheduler) evaluateTask() {
	s.log.Info().Msg("running evaluation task")
	ev := s.evaluate()

	if err := s.Notifier.SendEvaluation(s.Ctx, ev); err != nil {
		s.log.Error().Err(err).Msg("send evaluation")
	}

	if err := s.Recorder.RecordEvaluation(&recorder.EvaluationSnapshot{
		Signal:       ev.Signal,
		Score:        ev.Score,
		Tier:         ev.Tier,
		PlanTranches: len(ev.Plan),
	}); err != nil {
		s.log.Error().Err(err).Msg("record evaluation")
	}
}

// alertTask sweeps the alert rules: MVRV extreme, per-holding targets,
// and 24h moves. Each alert fires once per dedup key.
func (s *Scheduler) alertTask() {
	s.log.Info().Msg("running alert sweep")

	if mvrv := s.Store.MVRVOverride(); mvrv >= 7 {
		s.fireAlert("mvrv_high", s.Symbol, "MVRV_HIGH",
			fmt.Sprintf("🚨 <b>MVRV Z-Score %.2f</b> reached the historic-high zone. Consider a full exit.", mvrv))
	}

	holdings, err := s.Store.List()
	if err != nil {
		s.log.Error().Err(err).Msg("list holdings")
		return
	}

	for _, h := range holdings {
		q, err := s.Quotes.FetchQuote(s.Ctx, h.Ticker)
		if err != nil {
			s.log.Warn().Str("ticker", h.Ticker).Err(err).Msg("fetch quote")
			continue
		}

		if h.TargetPrice > 0 && q.PriceUSD >= h.TargetPrice {
			key := fmt.Sprintf("target_%s_%.2f", h.Ticker, h.TargetPrice)
			s.fireAlert(key, h.Ticker, "TARGET_REACHED",
				fmt.Sprintf("🎯 <b>%s</b> hit target %.2f (now %.2f).", h.Ticker, h.TargetPrice, q.PriceUSD))
		}

		if math.Abs(q.Change24h) >= move24hThreshold {
			key := fmt.Sprintf("change24h_%s_%s", h.Ticker, time.Now().Format("20060102"))
			direction := "📈"
			if q.Change24h < 0 {
				direction = "📉"
			}
			s.fireAlert(key, h.Ticker, "MOVE_24H",
				fmt.Sprintf("%s <b>%s</b> moved %+.1f%% in 24h (now %.2f).", direction, h.Ticker, q.Change24h, q.PriceUSD))
		}
	}
}

// fireAlert sends an alert unless its dedup key was already used.
func (s *Scheduler) fireAlert(key, ticker, kind, message string) {
	if s.Store.AlertSent(key) {
		return
	}
	s.trySend(message)
	if err := s.Store.MarkAlertSent(key); err != nil {
		s.log.Error().Str("key", key).Err(err).Msg("mark alert sent")
	}
	if err := s.Recorder.RecordAlert(&recorder.AlertEvent{
		Key:     key,
		Ticker:  ticker,
		Kind:    kind,
		Message: message,
	}); err != nil {
		s.log.Error().Err(err).Msg("record alert")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch fields[0] {
	case "/score":
		s.evaluateTask()
		return ""
	case "/plan":
		ev := s.evaluate()
		if len(ev.Plan) == 0 {
			return fmt.Sprintf("Score %d/100 is below the sell threshold. No schedule.", ev.Score.Value)
		}
		return notifier.FormatPlan(ev.Plan)
	case "/portfolio":
		return s.portfolioReport()
	case "/mvrv":
		return s.setMVRV(fields[1:])
	case "/add":
		return s.addHolding(fields[1:])
	case "/remove":
		return s.removeHolding(fields[1:])
	case "/council":
		return s.councilReport()
	case "/help":
		return notifier.FormatHelp()
	default:
		return notifier.FormatHelp()
	}
}

// setMVRV shows or updates the manual MVRV z-score override, the input the
// score engine reads on every evaluation.
func (s *Scheduler) setMVRV(args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("Current MVRV Z-Score override: %.2f", s.Store.MVRVOverride())
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(v) {
		return "Usage: /mvrv <value>, e.g. /mvrv 6.4"
	}
	if err := s.Store.SetMVRVOverride(v); err != nil {
		return fmt.Sprintf("❌ save override: %v", err)
	}
	return fmt.Sprintf("MVRV Z-Score override set to %.2f", v)
}

// addHolding creates or replaces the holding for a ticker.
func (s *Scheduler) addHolding(args []string) string {
	usage := "Usage: /add <ticker> <quantity> <avg price> [target price]"
	if len(args) < 3 {
		return usage
	}
	ticker := strings.ToUpper(args[0])
	qty, errQty := strconv.ParseFloat(args[1], 64)
	avg, errAvg := strconv.ParseFloat(args[2], 64)
	if errQty != nil || errAvg != nil || qty < 0 || avg < 0 {
		return usage
	}
	target := 0.0
	if len(args) > 3 {
		t, err := strconv.ParseFloat(args[3], 64)
		if err != nil || t < 0 {
			return usage
		}
		target = t
	}

	h, ok, err := s.Store.FindByTicker(ticker)
	if err != nil {
		return fmt.Sprintf("❌ load portfolio: %v", err)
	}
	if ok {
		h.Quantity, h.AvgPrice, h.TargetPrice = qty, avg, target
		if err := s.Store.Update(h); err != nil {
			return fmt.Sprintf("❌ update holding: %v", err)
		}
		return fmt.Sprintf("Updated %s: %.6f @ %.2f", ticker, qty, avg)
	}
	if _, err := s.Store.Add(model.Holding{Ticker: ticker, Quantity: qty, AvgPrice: avg, TargetPrice: target}); err != nil {
		return fmt.Sprintf("❌ add holding: %v", err)
	}
	return fmt.Sprintf("Added %s: %.6f @ %.2f", ticker, qty, avg)
}

// removeHolding deletes the holding for a ticker.
func (s *Scheduler) removeHolding(args []string) string {
	if len(args) == 0 {
		return "Usage: /remove <ticker>"
	}
	ticker := strings.ToUpper(args[0])
	h, ok, err := s.Store.FindByTicker(ticker)
	if err != nil {
		return fmt.Sprintf("❌ load portfolio: %v", err)
	}
	if !ok {
		return fmt.Sprintf("No %s holding found.", ticker)
	}
	if err := s.Store.Remove(h.ID); err != nil {
		return fmt.Sprintf("❌ remove holding: %v", err)
	}
	return fmt.Sprintf("Removed %s.", ticker)
}

func (s *Scheduler) portfolioReport() string {
	holdings, err := s.Store.List()
	if err != nil {
		return fmt.Sprintf("❌ load portfolio: %v", err)
	}

	quotes := make(map[string]*model.Quote, len(holdings))
	for _, h := range holdings {
		q, err := s.Quotes.FetchQuote(s.Ctx, h.Ticker)
		if err != nil {
			s.log.Warn().Str("ticker", h.Ticker).Err(err).Msg("fetch quote")
			continue
		}
		quotes[h.Ticker] = &q
	}

	usdKRW := collector.DefaultUSDKRW
	if s.FX != nil {
		if fx, err := s.FX.FetchUSDKRW(s.Ctx); err == nil {
			usdKRW = fx
		}
	}

	return notifier.FormatPortfolio(holdings, quotes, usdKRW)
}

func (s *Scheduler) councilReport() string {
	if s.Council == nil || s.Council.Size() == 0 {
		return "AI council is not configured. Add providers to the council section of the config."
	}

	sig := s.Collector.Snapshot(s.Ctx, s.Store.MVRVOverride())
	priceUSD := 0.0
	if q, err := s.Quotes.FetchQuote(s.Ctx, s.Symbol); err == nil {
		priceUSD = q.PriceUSD
	}

	verdict := s.Council.Convene(s.Ctx, s.Symbol, sig, priceUSD)
	return notifier.FormatVerdict(verdict)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendMessage(s.Ctx, text); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
