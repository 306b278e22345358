package model

import "time"

// Priority ranks how urgent a recommendation is.
type Priority string

// Recommendation priority constants.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RecommendationCategory groups recommendations by the lever they pull.
type RecommendationCategory string

// Recommendation category constants.
const (
	RecommendationTiming         RecommendationCategory = "timing"
	RecommendationClassification RecommendationCategory = "classification"
	RecommendationVolume         RecommendationCategory = "volume"
	RecommendationTemplate       RecommendationCategory = "template"
	RecommendationConversation   RecommendationCategory = "conversation"
)

// Recommendation is one actionable cost-saving suggestion. Created fresh on
// each optimizer run, never mutated in place; Implemented is flipped by the
// consumer, not the optimizer.
type Recommendation struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	PotentialSavings  float64                `json:"potentialSavings"`
	SavingsPercentage float64                `json:"savingsPercentage"`
	Priority          Priority               `json:"priority"`
	Actionable        bool                   `json:"actionable"`
	Steps             []string               `json:"steps"`
	Category          RecommendationCategory `json:"category"`
	Implemented       bool                   `json:"implemented"`
	CreatedAt         time.Time              `json:"createdAt"`
}
