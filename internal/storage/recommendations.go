package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
)

// SaveRecommendations persists a batch of generated recommendations.
func (s *SQLiteStorage) SaveRecommendations(ctx context.Context, recs []model.Recommendation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO recommendations (
			id, title, description, potential_savings, savings_percentage,
			priority, actionable, steps, category, implemented, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range recs {
		stepsJSON, marshalErr := json.Marshal(rec.Steps)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal steps for %s: %w", rec.ID, marshalErr)
		}

		_, err = stmt.ExecContext(ctx,
			rec.ID,
			rec.Title,
			rec.Description,
			rec.PotentialSavings,
			rec.SavingsPercentage,
			string(rec.Priority),
			rec.Actionable,
			string(stepsJSON),
			string(rec.Category),
			rec.Implemented,
			rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// GetRecommendations retrieves stored recommendations, newest first.
func (s *SQLiteStorage) GetRecommendations(ctx context.Context, includeImplemented bool) ([]model.Recommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, description, potential_savings, savings_percentage,
			priority, actionable, steps, category, implemented, created_at
		FROM recommendations
	`
	if !includeImplemented {
		query += " WHERE implemented = 0"
	}
	query += " ORDER BY created_at DESC, potential_savings DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		var priority, category string
		var stepsJSON sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&rec.Description,
			&rec.PotentialSavings,
			&rec.SavingsPercentage,
			&priority,
			&rec.Actionable,
			&stepsJSON,
			&category,
			&rec.Implemented,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		rec.Priority = model.Priority(priority)
		rec.Category = model.RecommendationCategory(category)
		if stepsJSON.Valid && stepsJSON.String != "" {
			if err := json.Unmarshal([]byte(stepsJSON.String), &rec.Steps); err != nil {
				return nil, fmt.Errorf("failed to unmarshal steps for %s: %w", rec.ID, err)
			}
		}

		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return recs, nil
}

// MarkRecommendationImplemented flips a recommendation's implemented flag.
func (s *SQLiteStorage) MarkRecommendationImplemented(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE recommendations SET implemented = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark recommendation %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recommendation %s: %w", id, common.ErrNotFound)
	}
	return nil
}
