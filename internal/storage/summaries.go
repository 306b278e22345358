package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/costwise/costwise/internal/model"
)

// SaveDailySummary upserts one day of aggregated cost data. The breakdown is
// stored as JSON since it is read back whole, never queried by column.
func (s *SQLiteStorage) SaveDailySummary(ctx context.Context, summary model.DailySummary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSummary(&summary); err != nil {
		return err
	}

	breakdownJSON, err := json.Marshal(summary.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_summaries (
			date, total_cost, total_messages, free_messages, paid_messages,
			breakdown, actual_savings, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			total_cost = excluded.total_cost,
			total_messages = excluded.total_messages,
			free_messages = excluded.free_messages,
			paid_messages = excluded.paid_messages,
			breakdown = excluded.breakdown,
			actual_savings = excluded.actual_savings,
			updated_at = CURRENT_TIMESTAMP
	`,
		summary.Date.UTC().Format(time.DateOnly),
		summary.TotalCost,
		summary.TotalMessages,
		summary.FreeMessages,
		summary.PaidMessages,
		string(breakdownJSON),
		summary.ActualSavings,
	)
	if err != nil {
		return fmt.Errorf("failed to save daily summary: %w", err)
	}
	return nil
}

// GetDailySummaries retrieves summaries between start and end inclusive,
// ordered by date.
func (s *SQLiteStorage) GetDailySummaries(ctx context.Context, start, end time.Time) ([]model.DailySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, total_cost, total_messages, free_messages, paid_messages,
			breakdown, actual_savings
		FROM daily_summaries
		WHERE date >= ? AND date <= ?
		ORDER BY date
	`,
		start.UTC().Format(time.DateOnly),
		end.UTC().Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []model.DailySummary
	for rows.Next() {
		var summary model.DailySummary
		var date string
		var breakdownJSON sql.NullString

		if err := rows.Scan(
			&date,
			&summary.TotalCost,
			&summary.TotalMessages,
			&summary.FreeMessages,
			&summary.PaidMessages,
			&breakdownJSON,
			&summary.ActualSavings,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}

		summary.Date, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse summary date %q: %w", date, err)
		}

		if breakdownJSON.Valid && breakdownJSON.String != "" {
			if err := json.Unmarshal([]byte(breakdownJSON.String), &summary.Breakdown); err != nil {
				return nil, fmt.Errorf("failed to unmarshal breakdown for %s: %w", date, err)
			}
		}

		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily summaries: %w", err)
	}
	return summaries, nil
}
