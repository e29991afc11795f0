// Package storage persists inspection runs: a SQLite index for listing
// and lookup, plus per-run artifact files (result JSON, raw HTML
// snapshots, network log).
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sasangkyoo/slap/models"
)

// Index is the SQLite-backed run index.
type Index struct {
	db *sql.DB
}

// NewIndex opens (or creates) the run index database and initializes the
// schema.
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	idx := &Index{db: db}
	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return idx, nil
}

func (i *Index) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status_code INTEGER DEFAULT 0,
		tier TEXT NOT NULL,
		total_score INTEGER NOT NULL,
		strategy_level TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_url ON runs(url);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := i.db.Exec(schema)
	return err
}

// InsertRun records a completed run in the index.
func (i *Index) InsertRun(resp *models.InspectResponse, createdAt time.Time) error {
	_, err := i.db.Exec(`
		INSERT INTO runs (run_id, url, status_code, tier, total_score, strategy_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, resp.RunID, resp.URL, resp.StatusCode, resp.Score.Tier, resp.Score.TotalScore,
		resp.Strategy.Level, createdAt)

	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (i *Index) ListRuns(limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := i.db.Query(`
		SELECT run_id, url, status_code, tier, total_score, strategy_level, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.RunSummary, 0, limit)
	for rows.Next() {
		var s models.RunSummary
		if err := rows.Scan(&s.ID, &s.URL, &s.StatusCode, &s.Tier, &s.TotalScore,
			&s.StrategyLevel, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return summaries, nil
}

// GetRun returns the index row for one run, or nil when not found.
func (i *Index) GetRun(runID string) (*models.RunSummary, error) {
	var s models.RunSummary
	err := i.db.QueryRow(`
		SELECT run_id, url, status_code, tier, total_score, strategy_level, created_at
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(&s.ID, &s.URL, &s.StatusCode, &s.Tier, &s.TotalScore,
		&s.StrategyLevel, &s.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &s, nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}
