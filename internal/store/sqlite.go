package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tokensim/internal/errors"
)

// SQLiteStore implements RunStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based run journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Journaled simulation runs
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		token_name TEXT NOT NULL,
		token_symbol TEXT NOT NULL,
		total_supply REAL NOT NULL,
		final_supply REAL NOT NULL,
		total_burned REAL NOT NULL,
		total_volume REAL NOT NULL,
		total_fees REAL NOT NULL,
		final_price REAL NOT NULL,
		users INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		duration_run INTEGER NOT NULL,
		volatility REAL NOT NULL,
		seed INTEGER NOT NULL,
		status TEXT NOT NULL,
		report_json TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(token_symbol);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun journals one simulation run.
func (s *SQLiteStore) SaveRun(ctx context.Context, r *RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, name, token_name, token_symbol,
			total_supply, final_supply, total_burned, total_volume, total_fees, final_price,
			users, duration, duration_run, volatility, seed, status, report_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.TokenName, r.TokenSymbol,
		r.TotalSupply, r.FinalSupply, r.TotalBurned, r.TotalVolume, r.TotalFees, r.FinalPrice,
		r.Users, r.Duration, r.DurationRun, r.Volatility, r.Seed, r.Status, r.ReportJSON, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: saving run: %v", errors.ErrDatabaseError, err)
	}
	return nil
}

// ListRuns returns journaled runs, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]RunRecord, error) {
	query := `SELECT id, name, token_name, token_symbol,
		total_supply, final_supply, total_burned, total_volume, total_fees, final_price,
		users, duration, duration_run, volatility, seed, status, report_json, created_at
		FROM runs`

	var conditions []string
	var args []interface{}
	if filter.TokenSymbol != "" {
		conditions = append(conditions, "token_symbol = ?")
		args = append(args, filter.TokenSymbol)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing runs: %v", errors.ErrDatabaseError, err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := scanRun(rows, &r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetRun returns a single journaled run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, token_name, token_symbol,
		total_supply, final_supply, total_burned, total_volume, total_fees, final_price,
		users, duration, duration_run, volatility, seed, status, report_json, created_at
		FROM runs WHERE id = ?`, id)

	var r RunRecord
	if err := scanRun(row, &r); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrRunNotFound
		}
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner, r *RunRecord) error {
	return row.Scan(
		&r.ID, &r.Name, &r.TokenName, &r.TokenSymbol,
		&r.TotalSupply, &r.FinalSupply, &r.TotalBurned, &r.TotalVolume, &r.TotalFees, &r.FinalPrice,
		&r.Users, &r.Duration, &r.DurationRun, &r.Volatility, &r.Seed, &r.Status, &r.ReportJSON, &r.CreatedAt,
	)
}

// Ensure SQLiteStore implements RunStore
var _ RunStore = (*SQLiteStore)(nil)
