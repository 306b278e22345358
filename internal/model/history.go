package model

import "time"

// DailySummary is one day of historical cost data. Owned by the persistence
// layer; the predictor treats the series as immutable.
type DailySummary struct {
	Date          time.Time           `json:"date"`
	TotalCost     float64             `json:"totalCost"`
	TotalMessages int                 `json:"totalMessages"`
	FreeMessages  int                 `json:"freeMessages"`
	PaidMessages  int                 `json:"paidMessages"`
	Breakdown     []CategoryBreakdown `json:"breakdown"`
	ActualSavings float64             `json:"actualSavings"`
}

// MetricTrend is a fitted trend over one historical metric.
type MetricTrend struct {
	Slope     float64        `json:"slope"`
	Direction TrendDirection `json:"direction"`
}

// PredictionResult is the output of a future-spend prediction.
type PredictionResult struct {
	Days              int         `json:"days"`
	PredictedCost     float64     `json:"predictedCost"`
	PredictedMessages float64     `json:"predictedMessages"`
	PredictedSavings  float64     `json:"predictedSavings"`
	CostTrend         MetricTrend `json:"costTrend"`
	MessageTrend      MetricTrend `json:"messageTrend"`
	SavingsTrend      MetricTrend `json:"savingsTrend"`
	ConfidenceScore   float64     `json:"confidenceScore"`
	Recommendations   []string    `json:"recommendations"`
	BasedOnDays       int         `json:"basedOnDays"`
}

// SavingsTracking compares realized savings against the estimated potential
// over a period.
type SavingsTracking struct {
	PotentialSavings           float64 `json:"potentialSavings"`
	ActualSavings              float64 `json:"actualSavings"`
	SavingsRate                float64 `json:"savingsRate"`
	ImplementedRecommendations int     `json:"implementedRecommendations"`
	DaysTracked                int     `json:"daysTracked"`
}

// RecommendationImpact estimates the monthly effect of implementing one
// class of recommendation.
type RecommendationImpact struct {
	Category                RecommendationCategory `json:"category"`
	EstimatedMonthlySavings float64                `json:"estimatedMonthlySavings"`
	Confidence              float64                `json:"confidence"`
}

// PlanROI captures the return-on-investment estimate of a plan upgrade.
type PlanROI struct {
	CurrentPlan             string  `json:"currentPlan"`
	TargetPlan              string  `json:"targetPlan"`
	PlanCost                float64 `json:"planCost"`
	ProjectedMonthlySavings float64 `json:"projectedMonthlySavings"`
	NetBenefit              float64 `json:"netBenefit"`
	UpgradeRecommended      bool    `json:"upgradeRecommended"`
	BreakEvenDays           int     `json:"breakEvenDays"`
}

// ForecastMonth is one month of the multi-month forecast.
type ForecastMonth struct {
	Month             string  `json:"month"`
	ProjectedCost     float64 `json:"projectedCost"`
	ProjectedSavings  float64 `json:"projectedSavings"`
	CumulativeSavings float64 `json:"cumulativeSavings"`
}
