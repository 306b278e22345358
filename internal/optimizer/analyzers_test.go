package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/pricing"
)

func TestAnalyzeMarketingTiming(t *testing.T) {
	opt := New(pricing.Default())

	msgs := makeMessages(100, 50, model.CategoryMarketing)
	analysis := analysisFor(t, msgs)

	rec := opt.analyzeMarketingTiming(msgs, analysis, computeConversationStats(msgs))
	require.NotNil(t, rec)

	assert.Equal(t, model.RecommendationTiming, rec.Category)
	assert.InDelta(t, 4.11, rec.PotentialSavings, 1e-9)
	assert.Equal(t, model.PriorityHigh, rec.Priority, "savings equal to the whole spend")

	none := opt.analyzeMarketingTiming(nil, model.CostBreakdown{}, conversationStats{})
	assert.Nil(t, none)
}

func TestAnalyzeReclassification(t *testing.T) {
	opt := New(pricing.Default())

	msgs := makeMessages(100, 50, model.CategoryMarketing)
	analysis := analysisFor(t, msgs)

	rec := opt.analyzeReclassification(msgs, analysis, computeConversationStats(msgs))
	require.NotNil(t, rec)

	// 30% of 100 messages at the marketing-utility rate delta.
	assert.Equal(t, model.RecommendationClassification, rec.Category)
	assert.InDelta(t, 0.633, rec.PotentialSavings, 1e-9)
}

func TestAnalyzeConversationUtilization(t *testing.T) {
	opt := New(pricing.Default())

	// Shallow conversations, nothing in the free window.
	shallow := makeMessages(100, 50, model.CategoryUtility)
	analysis := analysisFor(t, shallow)

	rec := opt.analyzeConversationUtilization(shallow, analysis, computeConversationStats(shallow))
	require.NotNil(t, rec)
	assert.Equal(t, model.RecommendationConversation, rec.Category)
	assert.Equal(t, model.PriorityMedium, rec.Priority)
	assert.InDelta(t, analysis.TotalCost*0.15, rec.PotentialSavings, 0.001)

	// Deep conversations suppress the recommendation.
	deep := makeMessages(100, 10, model.CategoryUtility)
	assert.Nil(t, opt.analyzeConversationUtilization(deep, analysisFor(t, deep), computeConversationStats(deep)))
}

func TestAnalyzeVolumeTierProximity(t *testing.T) {
	opt := New(pricing.Default())

	tests := []struct {
		name          string
		conversations int
		wantRec       bool
	}{
		{name: "below the proximity threshold", conversations: 500, wantRec: false},
		{name: "at the proximity threshold", conversations: 700, wantRec: true},
		{name: "close to the next tier", conversations: 900, wantRec: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := makeMessages(tt.conversations, tt.conversations, model.CategoryMarketing)
			analysis := analysisFor(t, msgs)

			rec := opt.analyzeVolumeTierProximity(msgs, analysis, computeConversationStats(msgs))
			if !tt.wantRec {
				assert.Nil(t, rec)
				return
			}

			require.NotNil(t, rec)
			assert.Equal(t, model.RecommendationVolume, rec.Category)
			assert.Equal(t, model.PriorityHigh, rec.Priority, "a 10 point discount delta is high priority")
			assert.InDelta(t, analysis.TotalCost*0.10, rec.PotentialSavings, 0.001)
		})
	}
}

func TestAnalyzeTemplateUsage(t *testing.T) {
	opt := New(pricing.Default())

	// Marketing at 50% of volume crosses the 40% threshold.
	msgs := append(makeMessages(50, 10, model.CategoryMarketing),
		makeMessages(50, 10, model.CategoryUtility)...)
	analysis := analysisFor(t, msgs)

	rec := opt.analyzeTemplateUsage(msgs, analysis, conversationStats{})
	require.NotNil(t, rec)
	assert.Equal(t, model.RecommendationTemplate, rec.Category)

	// Marketing at 20% stays quiet.
	balanced := append(makeMessages(20, 10, model.CategoryMarketing),
		makeMessages(80, 10, model.CategoryUtility)...)
	assert.Nil(t, opt.analyzeTemplateUsage(balanced, analysisFor(t, balanced), conversationStats{}))
}

func TestAnalyzePeakTimeConcentration(t *testing.T) {
	opt := New(pricing.Default())

	// All messages inside a single hour.
	concentrated := make([]model.Message, 0, 20)
	for i := 0; i < 20; i++ {
		concentrated = append(concentrated, model.Message{
			ConversationID: "c1",
			Category:       model.CategoryUtility,
			Direction:      model.DirectionOutbound,
			Timestamp:      fixedNow.Add(time.Duration(i) * time.Minute),
		})
	}
	analysis := analysisFor(t, concentrated)

	rec := opt.analyzePeakTimeConcentration(concentrated, analysis, conversationStats{})
	require.NotNil(t, rec)
	assert.Equal(t, model.PriorityLow, rec.Priority)
	assert.Equal(t, model.RecommendationTiming, rec.Category)

	// Messages spread evenly across the day stay quiet.
	spread := make([]model.Message, 0, 24)
	for h := 0; h < 24; h++ {
		spread = append(spread, model.Message{
			ConversationID: "c1",
			Category:       model.CategoryUtility,
			Direction:      model.DirectionOutbound,
			Timestamp:      time.Date(2024, 6, 1, h, 0, 0, 0, time.UTC),
		})
	}
	assert.Nil(t, opt.analyzePeakTimeConcentration(spread, analysisFor(t, spread), conversationStats{}))
}
