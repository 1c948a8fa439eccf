package portfolio

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"CoinSentinel/internal/model"
)

// DefaultMVRV is the manual-override default when the user never set one.
const DefaultMVRV = 2.2

const mvrvKey = "mvrv_zscore"

// Store persists the portfolio, user settings, and the sent-alert dedup set
// to SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS holdings (
			id           TEXT PRIMARY KEY,
			ticker       TEXT NOT NULL,
			quantity     REAL NOT NULL,
			avg_price    REAL NOT NULL,
			target_price REAL NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_holdings_ticker ON holdings(ticker)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sent_alerts (
			key     TEXT PRIMARY KEY,
			sent_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Add inserts a new holding and returns it with its generated id.
func (s *Store) Add(h model.Holding) (model.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	h.ID = uuid.NewString()
	h.CreatedAt = now
	h.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO holdings (id, ticker, quantity, avg_price, target_price, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		h.ID, h.Ticker, h.Quantity, h.AvgPrice, h.TargetPrice, now.Unix(), now.Unix(),
	)
	if err != nil {
		return model.Holding{}, fmt.Errorf("insert holding: %w", err)
	}
	return h, nil
}

// Update rewrites a holding's mutable fields.
func (s *Store) Update(h model.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE holdings SET quantity = ?, avg_price = ?, target_price = ?, updated_at = ? WHERE id = ?`,
		h.Quantity, h.AvgPrice, h.TargetPrice, time.Now().Unix(), h.ID,
	)
	if err != nil {
		return fmt.Errorf("update holding: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("holding %s not found", h.ID)
	}
	return nil
}

// Remove deletes a holding by id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM holdings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}

// List returns all holdings ordered by ticker.
func (s *Store) List() ([]model.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, ticker, quantity, avg_price, target_price, created_at, updated_at
		 FROM holdings ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []model.Holding
	for rows.Next() {
		var h model.Holding
		var created, updated int64
		if err := rows.Scan(&h.ID, &h.Ticker, &h.Quantity, &h.AvgPrice, &h.TargetPrice, &created, &updated); err != nil {
			return nil, err
		}
		h.CreatedAt = time.Unix(created, 0)
		h.UpdatedAt = time.Unix(updated, 0)
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// FindByTicker returns the first holding for a ticker, or false.
func (s *Store) FindByTicker(ticker string) (model.Holding, bool, error) {
	holdings, err := s.List()
	if err != nil {
		return model.Holding{}, false, err
	}
	for _, h := range holdings {
		if h.Ticker == ticker {
			return h, true, nil
		}
	}
	return model.Holding{}, false, nil
}

// MVRVOverride returns the user's manually entered MVRV z-score, or the
// default when never set.
func (s *Store) MVRVOverride() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, mvrvKey).Scan(&value)
	if err != nil {
		return DefaultMVRV
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return DefaultMVRV
	}
	return f
}

// SetMVRVOverride stores the manual MVRV z-score.
func (s *Store) SetMVRVOverride(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		mvrvKey, strconv.FormatFloat(v, 'f', -1, 64),
	)
	if err != nil {
		return fmt.Errorf("set mvrv override: %w", err)
	}
	return nil
}

// AlertSent reports whether an alert key was already fired.
func (s *Store) AlertSent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM sent_alerts WHERE key = ?`, key).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// MarkAlertSent records an alert key so it won't fire again.
func (s *Store) MarkAlertSent(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO sent_alerts (key, sent_at) VALUES (?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		key, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("mark alert sent: %w", err)
	}
	return nil
}

// ClearAlertsBefore drops dedup entries older than the cutoff so recurring
// conditions can alert again.
func (s *Store) ClearAlertsBefore(cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM sent_alerts WHERE sent_at < ?`, cutoff.Unix())
	if err != nil {
		return fmt.Errorf("clear alerts: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
