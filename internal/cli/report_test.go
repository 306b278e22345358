package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/costwise/costwise/internal/model"
)

func TestRenderBreakdown(t *testing.T) {
	b := model.CostBreakdown{
		TotalCost:    4.11,
		MessageCount: 100,
		PaidMessages: 100,
		Currency:     "USD",
		Breakdown: []model.CategoryBreakdown{
			{Category: model.CategoryMarketing, Count: 100, Cost: 4.11, Percentage: 100},
			{Category: model.CategoryUtility, Count: 0},
		},
	}

	out := RenderBreakdown(b)
	assert.Contains(t, out, "MARKETING")
	assert.Contains(t, out, "4.1100 USD")
	assert.Contains(t, out, "100 messages")
	assert.NotContains(t, out, "UTILITY", "empty categories are omitted")
}

func TestRenderComparisonTrendArrows(t *testing.T) {
	c := model.PeriodComparison{
		Current:      model.CostBreakdown{TotalCost: 2, MessageCount: 20, Currency: "USD"},
		Previous:     model.CostBreakdown{TotalCost: 1, MessageCount: 10},
		CostTrend:    model.ChangeTrend{ChangePercent: 100, Direction: model.TrendUp},
		MessageTrend: model.ChangeTrend{ChangePercent: -50, Direction: model.TrendDown},
	}

	out := RenderComparison(c)
	assert.Contains(t, out, "↑ 100.00%")
	assert.Contains(t, out, "↓ -50.00%")
}

func TestRenderRecommendationsEmpty(t *testing.T) {
	out := RenderRecommendations(nil, 95)
	assert.Contains(t, out, "95/100")
	assert.Contains(t, out, "well optimized")
}

func TestRenderRecommendations(t *testing.T) {
	recs := []model.Recommendation{
		{
			Title:             "Send marketing messages inside the free window",
			Description:       "100 marketing messages were billed at the full rate.",
			PotentialSavings:  4.11,
			SavingsPercentage: 100,
			Priority:          model.PriorityHigh,
			Steps:             []string{"Queue follow-ups in open conversations"},
		},
	}

	out := RenderRecommendations(recs, 50)
	assert.Contains(t, out, "1. Send marketing messages inside the free window")
	assert.Contains(t, out, "4.1100")
	assert.Contains(t, out, "Queue follow-ups in open conversations")
}

func TestRenderForecast(t *testing.T) {
	months := []model.ForecastMonth{
		{Month: "2024-07", ProjectedCost: 285, ProjectedSavings: 15.75, CumulativeSavings: 15.75},
		{Month: "2024-08", ProjectedCost: 270.75, ProjectedSavings: 16.5375, CumulativeSavings: 32.2875},
	}

	out := RenderForecast(months)
	assert.Contains(t, out, "2024-07")
	assert.Contains(t, out, "2024-08")
	assert.Contains(t, out, "Cumulative")
}
