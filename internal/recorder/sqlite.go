package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so history readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			mvrv_zscore    REAL,
			weekly_rsi     REAL,
			fear_greed     INTEGER,
			btc_dominance  REAL,
			dollar_rising  INTEGER,
			degraded       TEXT,
			score          INTEGER,
			reasons        TEXT,
			tier_label     TEXT,
			tier_severity  TEXT,
			plan_tranches  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_ts ON evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			key       TEXT,
			ticker    TEXT,
			kind      TEXT,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ts ON alert_events(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(snap *EvaluationSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := snap.Signal
	dollarRising := 0
	if sig.DollarIndexRising {
		dollarRising = 1
	}

	_, err := r.db.Exec(`INSERT INTO evaluations
		(timestamp, mvrv_zscore, weekly_rsi, fear_greed, btc_dominance, dollar_rising,
		 degraded, score, reasons, tier_label, tier_severity, plan_tranches)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), sig.MVRVZScore, sig.WeeklyRSI, sig.FearGreedIndex,
		sig.BTCDominancePct, dollarRising,
		strings.Join(sig.Degraded, ","), snap.Score.Value, strings.Join(snap.Score.Reasons, "; "),
		snap.Tier.Label, string(snap.Tier.Severity), snap.PlanTranches,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_events (timestamp, key, ticker, kind, message)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Key, evt.Ticker, evt.Kind, evt.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
