package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"SGSTrader/internal/model"
)

// SQLiteRecorder persists analyses to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.Named("recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id               TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			market           TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			capital          REAL,
			provider         TEXT,
			observations     INTEGER,
			history_from     INTEGER,
			history_to       INTEGER,
			close_min        REAL,
			close_max        REAL,
			close_mean       REAL,
			close_stddev     REAL,
			last_close       REAL,
			change_pct       REAL,
			quote            REAL,
			quote_source     TEXT,
			entry_price      REAL,
			exit_price       REAL,
			signal           TEXT,
			recommendation   TEXT,
			hold_time        TEXT,
			lot_size         REAL,
			leverage         INTEGER,
			estimated_profit REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ts ON analyses(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol ON analyses(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(a *model.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum, res := a.Summary, a.Result
	_, err := r.db.Exec(`INSERT INTO analyses
		(id, timestamp, market, symbol, capital, provider,
		 observations, history_from, history_to,
		 close_min, close_max, close_mean, close_stddev, last_close, change_pct,
		 quote, quote_source, entry_price, exit_price,
		 signal, recommendation, hold_time, lot_size, leverage, estimated_profit)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.ID, a.CreatedAt.UnixMilli(), string(a.Market), a.Symbol, a.Capital, a.Provider,
		sum.Observations, sum.From.Unix(), sum.To.Unix(),
		sum.Min, sum.Max, sum.Mean, sum.StdDev, sum.LastClose, sum.ChangePct,
		res.Quote, string(res.QuoteSource), res.EntryPrice, res.ExitPrice,
		string(res.Signal), res.Recommendation, string(res.HoldTime),
		res.LotSize, res.Leverage, res.EstimatedProfit,
	)
	if err != nil {
		return fmt.Errorf("insert analysis %s: %w", a.ID, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecentAnalyses(limit int) ([]model.Analysis, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT
		id, timestamp, market, symbol, capital, provider,
		observations, history_from, history_to,
		close_min, close_max, close_mean, close_stddev, last_close, change_pct,
		quote, quote_source, entry_price, exit_price,
		signal, recommendation, hold_time, lot_size, leverage, estimated_profit
		FROM analyses ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []model.Analysis
	for rows.Next() {
		var (
			a                model.Analysis
			ts, from, to     int64
			market, source   string
			signal, holdTime string
		)
		if err := rows.Scan(
			&a.ID, &ts, &market, &a.Symbol, &a.Capital, &a.Provider,
			&a.Summary.Observations, &from, &to,
			&a.Summary.Min, &a.Summary.Max, &a.Summary.Mean, &a.Summary.StdDev,
			&a.Summary.LastClose, &a.Summary.ChangePct,
			&a.Result.Quote, &source, &a.Result.EntryPrice, &a.Result.ExitPrice,
			&signal, &a.Result.Recommendation, &holdTime,
			&a.Result.LotSize, &a.Result.Leverage, &a.Result.EstimatedProfit,
		); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		a.CreatedAt = time.UnixMilli(ts)
		a.Market = model.MarketKind(market)
		a.Summary.From = time.Unix(from, 0)
		a.Summary.To = time.Unix(to, 0)
		a.Result.QuoteSource = model.QuoteSource(source)
		a.Result.Signal = model.Signal(signal)
		a.Result.HoldTime = model.HoldTime(holdTime)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
