// Package storage provides the SQLite persistence layer for messages,
// daily cost summaries, and recommendations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/costwise/costwise/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidMessage   = errors.New("invalid message")
	ErrInvalidSummary   = errors.New("invalid daily summary")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMessages validates a slice of messages.
func validateMessages(messages []model.Message) error {
	if messages == nil {
		return fmt.Errorf("%w: messages", ErrNilParameter)
	}
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages", ErrEmptySlice)
	}

	for i, msg := range messages {
		if err := validateMessage(&msg); err != nil {
			return fmt.Errorf("message at index %d: %w", i, err)
		}
	}
	return nil
}

// validateMessage validates a single message.
func validateMessage(msg *model.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message", ErrNilParameter)
	}
	if msg.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidMessage)
	}
	if msg.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidMessage)
	}
	switch msg.Direction {
	case model.DirectionInbound, model.DirectionOutbound:
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidMessage, msg.Direction)
	}
	return nil
}

// validateSummary validates a daily summary.
func validateSummary(summary *model.DailySummary) error {
	if summary == nil {
		return fmt.Errorf("%w: summary", ErrNilParameter)
	}
	if summary.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidSummary)
	}
	if summary.TotalMessages < 0 || summary.TotalCost < 0 {
		return fmt.Errorf("%w: negative totals", ErrInvalidSummary)
	}
	return nil
}
