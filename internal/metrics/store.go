package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunMetric records metadata for a single planning run.
type RunMetric struct {
	Source           string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	TotalCost        int
	WithinBudget     bool
	Timestamp        time.Time
}

// Store handles persistence of run metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m RunMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_metrics (source, model, prompt_tokens, completion_tokens, latency_ms, total_cost, within_budget, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Source, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS,
		m.TotalCost, boolToInt(m.WithinBudget), ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record run metric: %w", err)
	}
	return nil
}

// ListRecent retrieves the N most recent run metrics, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]RunMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, model, prompt_tokens, completion_tokens, latency_ms, total_cost, within_budget, timestamp
		FROM run_metrics ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run metrics: %w", err)
	}
	defer rows.Close()

	var metrics []RunMetric
	for rows.Next() {
		var m RunMetric
		var within int
		if err := rows.Scan(&m.Source, &m.Model, &m.PromptTokens, &m.CompletionTokens,
			&m.LatencyMS, &m.TotalCost, &within, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		m.WithinBudget = within != 0
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns the number of rows removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM run_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up run metrics: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
