package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"MarketAnalyst/internal/model"
)

// SQLiteRecorder persists report history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while reports are written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id           TEXT PRIMARY KEY,
			company      TEXT NOT NULL,
			generated_at INTEGER NOT NULL,
			last_date    TEXT,
			last_close   REAL,
			rsi          REAL,
			max_drawdown REAL,
			summary_text TEXT NOT NULL,
			metrics      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_company_ts ON reports(company, generated_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordReport stores r under a new random id. Headline figures are copied
// into their own columns for dashboards; NULL marks unavailable values.
func (r *SQLiteRecorder) RecordReport(ctx context.Context, rep *model.Report) (string, error) {
	metrics := []byte("{}")
	if rep.Metrics != nil {
		var err error
		if metrics, err = json.Marshal(rep.Metrics); err != nil {
			return "", fmt.Errorf("encode metrics: %w", err)
		}
	}

	var lastDate, lastClose, rsi, maxDrawdown any
	if m := rep.Metrics; m != nil {
		lastDate = m.Latest.Date.String()
		lastClose = m.Latest.Close
		maxDrawdown = m.Drawdowns.MaxDrawdown
		if v, ok := m.RSI.Get(); ok {
			rsi = v
		}
	}

	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO reports
		(id, company, generated_at, last_date, last_close, rsi, max_drawdown, summary_text, metrics)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		id, rep.Company, rep.GeneratedAt.UnixMilli(),
		lastDate, lastClose, rsi, maxDrawdown,
		rep.SummaryText, string(metrics),
	)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}

func (r *SQLiteRecorder) LatestReport(ctx context.Context, company string) (*StoredReport, error) {
	reports, err := r.ListReports(ctx, company, 1)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNotFound
	}
	return &reports[0], nil
}

func (r *SQLiteRecorder) ListReports(ctx context.Context, company string, limit int) ([]StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, company, generated_at, summary_text, metrics
		FROM reports WHERE company = ?
		ORDER BY generated_at DESC, rowid DESC LIMIT ?`, company, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []StoredReport
	for rows.Next() {
		var (
			s           StoredReport
			rep         model.Report
			generatedAt int64
			metrics     string
		)
		if err := rows.Scan(&s.ID, &rep.Company, &generatedAt, &rep.SummaryText, &metrics); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		rep.GeneratedAt = time.UnixMilli(generatedAt).UTC()
		if rep.Metrics, err = decodeMetrics(metrics); err != nil {
			return nil, fmt.Errorf("report %s: %w", s.ID, err)
		}
		s.Report = &rep
		out = append(out, s)
	}
	return out, rows.Err()
}

func decodeMetrics(data string) (*model.Metrics, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var m model.Metrics
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	return &m, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
