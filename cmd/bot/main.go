package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"CoinSentinel/internal/collector"
	"CoinSentinel/internal/config"
	"CoinSentinel/internal/council"
	"CoinSentinel/internal/notifier"
	"CoinSentinel/internal/portfolio"
	"CoinSentinel/internal/recorder"
	"CoinSentinel/internal/scheduler"
)

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	log := newLogger(cfg.Log.Level)
	log.Info().Msg("CoinSentinel starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Market data sources
	yahoo := collector.NewYahooFetcher(cfg.Proxy)
	gecko := collector.NewCoinGeckoClient(cfg.Proxy)
	feargreed := collector.NewFearGreedClient(cfg.Proxy)
	col := collector.NewCollector(yahoo, gecko, feargreed, cfg.DataSource.Symbol, log)
	log.Info().Str("symbol", cfg.DataSource.Symbol).Str("bars", yahoo.Name()).Msg("data sources ready")

	// Portfolio store
	store, err := portfolio.NewStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open portfolio store")
	}
	defer store.Close()

	// Evaluation history recorder, sharing the portfolio database path
	var rec recorder.Recorder
	if sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log); err != nil {
		log.Warn().Err(err).Msg("sqlite recorder unavailable, using noop")
		rec = recorder.NewNoopRecorder()
	} else {
		rec = sr
		defer sr.Close()
	}

	// AI council
	var cl *council.Council
	if len(cfg.Council) > 0 {
		providers := make([]council.ChatProvider, 0, len(cfg.Council))
		for _, pc := range cfg.Council {
			p, err := council.NewProvider(pc)
			if err != nil {
				log.Fatal().Str("provider", pc.Name).Err(err).Msg("init council provider")
			}
			providers = append(providers, p)
		}
		cl = council.NewCouncil(providers, log)
		log.Info().Int("members", cl.Size()).Msg("AI council ready")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Delivery: Telegram when configured, console otherwise
	var n notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		n = tn
	} else {
		n = notifier.NewConsoleNotifier(os.Stdout)
		log.Info().Msg("no telegram credentials, reporting to console")
	}

	sched := scheduler.NewScheduler(ctx, col, gecko, yahoo, store, cl, n, rec, cfg.DataSource.Symbol, log)
	if err := sched.RegisterAll(cfg.Schedule.EvaluateCron, cfg.Schedule.AlertCron, cfg.Schedule.WeeklyResetCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, evaluating now")
		go sched.RunEvaluationNow()
	}

	log.Info().Msg("CoinSentinel is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("CoinSentinel stopped")
}
