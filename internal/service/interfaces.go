// Package service defines the interfaces between the engine, the
// persistence layer, and the CLI.
package service

import (
	"context"
	"time"

	"github.com/costwise/costwise/internal/model"
)

// MessageFilter defines filtering options for message queries.
type MessageFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  model.Category
	Limit     int
	Offset    int
}

// Storage defines the contract for the persistence layer. The engine itself
// never touches storage; the CLI materializes message and history slices and
// hands them to the engine.
type Storage interface {
	// Message operations
	SaveMessages(ctx context.Context, messages []model.Message) error
	GetMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	UpdateMessageClassification(ctx context.Context, id string, category model.Category, cost float64) error
	GetUnclassifiedMessages(ctx context.Context) ([]model.Message, error)

	// Daily summary operations
	SaveDailySummary(ctx context.Context, summary model.DailySummary) error
	GetDailySummaries(ctx context.Context, start, end time.Time) ([]model.DailySummary, error)

	// Recommendation operations
	SaveRecommendations(ctx context.Context, recs []model.Recommendation) error
	GetRecommendations(ctx context.Context, includeImplemented bool) ([]model.Recommendation, error)
	MarkRecommendationImplemented(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ImportStats shows the results of a message import run.
type ImportStats struct {
	TotalRows  int
	Imported   int
	Duplicates int
	Duration   time.Duration
}

// ClassifyStats shows the results of a classification run.
type ClassifyStats struct {
	TotalMessages int
	Classified    int
	ByCategory    map[model.Category]int
	Duration      time.Duration
}
