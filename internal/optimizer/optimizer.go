// Package optimizer turns a message set and its cost breakdown into ranked,
// actionable cost-saving recommendations plus a 0-100 optimization score.
// Each analyzer is an independent pure function over the same input; they
// are composed in a fixed order and the results sorted by savings.
package optimizer

import (
	"fmt"
	"math"
	"time"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/pricing"
)

// minRelevantSavings suppresses recommendations whose savings round to zero.
const minRelevantSavings = 0.01

// Optimizer generates recommendations and optimization scores.
type Optimizer struct {
	cfg *pricing.Config
	now func() time.Time
}

// New creates an optimizer backed by the given pricing configuration.
func New(cfg *pricing.Config) *Optimizer {
	return &Optimizer{cfg: cfg, now: time.Now}
}

// WithClock overrides the time source used for recommendation ids.
func (o *Optimizer) WithClock(now func() time.Time) *Optimizer {
	o.now = now
	return o
}

type analyzer func(msgs []model.Message, analysis model.CostBreakdown, stats conversationStats) *model.Recommendation

// GenerateRecommendations runs every analyzer over the message set and
// returns the surviving recommendations ranked by potential savings.
// Degenerate input (no messages, negligible cost) yields an empty list.
func (o *Optimizer) GenerateRecommendations(msgs []model.Message, analysis model.CostBreakdown) []model.Recommendation {
	if len(msgs) == 0 || analysis.TotalCost < minRelevantSavings {
		return []model.Recommendation{}
	}

	stats := computeConversationStats(msgs)

	analyzers := []analyzer{
		o.analyzeMarketingTiming,
		o.analyzeReclassification,
		o.analyzeConversationUtilization,
		o.analyzeVolumeTierProximity,
		o.analyzeTemplateUsage,
		o.analyzePeakTimeConcentration,
	}

	recs := make([]model.Recommendation, 0, len(analyzers))
	for _, analyze := range analyzers {
		rec := analyze(msgs, analysis, stats)
		if rec == nil || rec.PotentialSavings < minRelevantSavings {
			continue
		}
		recs = append(recs, *rec)
	}

	sortBySavings(recs)

	// Ranked ids are assigned after sorting so rank 1 is always the biggest
	// opportunity.
	timestamp := o.now().UnixMilli()
	for i := range recs {
		recs[i].ID = fmt.Sprintf("rec_%d_%d", i+1, timestamp)
		recs[i].CreatedAt = o.now()
	}

	return recs
}

// Score computes the 0-100 optimization score from the same conversation
// statistics the analyzers use.
func (o *Optimizer) Score(msgs []model.Message, analysis model.CostBreakdown) int {
	if len(msgs) == 0 {
		return 0
	}

	stats := computeConversationStats(msgs)
	score := 100.0

	// Paid marketing volume is the dominant cost driver.
	score -= 30 * float64(paidOutboundMarketing(msgs)) / float64(len(msgs))

	switch {
	case stats.avgMessagesPerConversation < 2:
		score -= 15
	case stats.avgMessagesPerConversation < 3:
		score -= 8
	}

	switch {
	case stats.freeWindowUtilization < 0.3:
		score -= 20
	case stats.freeWindowUtilization < 0.5:
		score -= 10
	}

	// Authentication traffic is free volume; reward a healthy share of it.
	if auth := analysis.CategoryFor(model.CategoryAuthentication); auth != nil {
		if float64(auth.Count) > 0.1*float64(analysis.MessageCount) {
			score += 5
		}
	}

	return int(math.Round(common.Clamp(score, 0, 100)))
}

// sortBySavings orders recommendations descending by potential savings.
func sortBySavings(recs []model.Recommendation) {
	for i := 0; i < len(recs)-1; i++ {
		for j := 0; j < len(recs)-i-1; j++ {
			if recs[j].PotentialSavings < recs[j+1].PotentialSavings {
				recs[j], recs[j+1] = recs[j+1], recs[j]
			}
		}
	}
}

// savingsPercentage expresses savings as a share of the analyzed total.
func savingsPercentage(savings, totalCost float64) float64 {
	if totalCost == 0 {
		return 0
	}
	return common.RoundTo(savings/totalCost*100, 2)
}

// priorityFor derives a priority from the savings share using the given
// thresholds.
func priorityFor(pct, high, medium float64) model.Priority {
	switch {
	case pct > high:
		return model.PriorityHigh
	case pct > medium:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
