package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/service"
)

const messageColumns = `id, conversation_id, conversation_started_at, direction,
	category, content, template_name, template_category, timestamp,
	is_in_free_window, is_reply, cost`

// SaveMessages saves multiple messages, silently skipping duplicates by hash.
func (s *SQLiteStorage) SaveMessages(ctx context.Context, messages []model.Message) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMessages(messages); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO messages (
			id, hash, conversation_id, conversation_started_at, direction,
			category, content, template_name, template_category, timestamp,
			is_in_free_window, is_reply, cost
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, msg := range messages {
		var startedAt any
		if !msg.ConversationStartedAt.IsZero() {
			startedAt = msg.ConversationStartedAt
		}

		_, err = stmt.ExecContext(ctx,
			msg.ID,
			msg.GenerateHash(),
			msg.ConversationID,
			startedAt,
			string(msg.Direction),
			string(msg.Category),
			msg.Content,
			msg.TemplateName,
			msg.TemplateCategory,
			msg.Timestamp,
			msg.IsInFreeWindow,
			msg.IsReply,
			msg.Cost,
		)
		if err != nil {
			return fmt.Errorf("failed to insert message %s: %w", msg.ID, err)
		}
	}

	return tx.Commit()
}

// GetMessages retrieves messages matching the filter, ordered by timestamp.
func (s *SQLiteStorage) GetMessages(ctx context.Context, filter service.MessageFilter) ([]model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var conditions []string
	var args []any

	if filter.StartDate != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, string(filter.Category))
	}

	query := "SELECT " + messageColumns + " FROM messages"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// GetMessageByID retrieves a single message.
func (s *SQLiteStorage) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id = ?", id)

	msg, err := scanMessage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("message %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// GetUnclassifiedMessages retrieves messages without a category assigned.
func (s *SQLiteStorage) GetUnclassifiedMessages(ctx context.Context) ([]model.Message, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE category IS NULL OR category = '' ORDER BY timestamp")
	if err != nil {
		return nil, fmt.Errorf("failed to query unclassified messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// UpdateMessageClassification sets a message's category and cost.
func (s *SQLiteStorage) UpdateMessageClassification(ctx context.Context, id string, category model.Category, cost float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE messages SET category = ?, cost = ? WHERE id = ?",
		string(category), cost, id)
	if err != nil {
		return fmt.Errorf("failed to update message %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("message %s: %w", id, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var msg model.Message
	var startedAt sql.NullTime
	var category, content, templateName, templateCategory sql.NullString
	var direction string
	var timestamp time.Time

	err := row.Scan(
		&msg.ID,
		&msg.ConversationID,
		&startedAt,
		&direction,
		&category,
		&content,
		&templateName,
		&templateCategory,
		&timestamp,
		&msg.IsInFreeWindow,
		&msg.IsReply,
		&msg.Cost,
	)
	if err != nil {
		return nil, err
	}

	msg.Direction = model.Direction(direction)
	msg.Category = model.Category(category.String)
	msg.Content = content.String
	msg.TemplateName = templateName.String
	msg.TemplateCategory = templateCategory.String
	msg.Timestamp = timestamp
	if startedAt.Valid {
		msg.ConversationStartedAt = startedAt.Time
	}
	return &msg, nil
}

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	var messages []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
