package optimizer

import (
	"fmt"
	"math"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/costcalc"
	"github.com/costwise/costwise/internal/model"
)

// analyzeMarketingTiming fires when outbound marketing messages are sent
// outside the free window: each one could ride an open conversation instead.
func (o *Optimizer) analyzeMarketingTiming(msgs []model.Message, analysis model.CostBreakdown, _ conversationStats) *model.Recommendation {
	count := paidOutboundMarketing(msgs)
	if count == 0 {
		return nil
	}

	rate := o.cfg.RateFor(model.CategoryMarketing, o.cfg.DefaultCountry)
	savings := common.RoundTo(float64(count)*rate, 4)
	pct := savingsPercentage(savings, analysis.TotalCost)

	return &model.Recommendation{
		Title: "Send marketing messages inside the free window",
		Description: fmt.Sprintf(
			"%d marketing messages were sent outside the 24-hour service window and billed at the full marketing rate.",
			count),
		PotentialSavings:  savings,
		SavingsPercentage: pct,
		Priority:          priorityFor(pct, 20, 10),
		Actionable:        true,
		Steps: []string{
			"Identify customers with recently opened conversations",
			"Queue marketing follow-ups while the service window is open",
			"Trigger campaigns from inbound events instead of fixed schedules",
		},
		Category: model.RecommendationTiming,
	}
}

// analyzeReclassification estimates the effect of re-templating the
// transactional share of marketing messages at the utility rate.
func (o *Optimizer) analyzeReclassification(msgs []model.Message, analysis model.CostBreakdown, _ conversationStats) *model.Recommendation {
	count := paidOutboundMarketing(msgs)
	if count == 0 {
		return nil
	}

	marketingRate := o.cfg.RateFor(model.CategoryMarketing, o.cfg.DefaultCountry)
	utilityRate := o.cfg.RateFor(model.CategoryUtility, o.cfg.DefaultCountry)
	reclassifiable := math.Round(costcalc.ReclassifiableShare * float64(count))
	savings := common.RoundTo(reclassifiable*(marketingRate-utilityRate), 4)
	pct := savingsPercentage(savings, analysis.TotalCost)

	return &model.Recommendation{
		Title: "Reclassify transactional marketing templates as utility",
		Description: fmt.Sprintf(
			"Roughly %.0f of your marketing messages look transactional and would bill at the lower utility rate.",
			reclassifiable),
		PotentialSavings:  savings,
		SavingsPercentage: pct,
		Priority:          priorityFor(pct, 15, 8),
		Actionable:        true,
		Steps: []string{
			"Audit marketing templates for order, payment, and delivery content",
			"Resubmit qualifying templates under the utility category",
			"Route transactional notifications through the utility templates",
		},
		Category: model.RecommendationClassification,
	}
}

// analyzeConversationUtilization fires on shallow conversations combined
// with mediocre free-window usage.
func (o *Optimizer) analyzeConversationUtilization(_ []model.Message, analysis model.CostBreakdown, stats conversationStats) *model.Recommendation {
	if stats.avgMessagesPerConversation >= 3 || stats.freeWindowUtilization > 0.7 {
		return nil
	}

	savings := common.RoundTo(analysis.TotalCost*0.15, 4)
	pct := savingsPercentage(savings, analysis.TotalCost)

	return &model.Recommendation{
		Title: "Batch messages into open conversations",
		Description: fmt.Sprintf(
			"Conversations average %.1f messages with %.0f%% free-window utilization; consolidating sends into open conversations avoids new paid conversations.",
			stats.avgMessagesPerConversation, stats.freeWindowUtilization*100),
		PotentialSavings:  savings,
		SavingsPercentage: pct,
		Priority:          model.PriorityMedium,
		Actionable:        true,
		Steps: []string{
			"Group pending notifications per customer",
			"Deliver them inside the existing service window",
			"Avoid opening a new conversation for each notification",
		},
		Category: model.RecommendationConversation,
	}
}

// analyzeVolumeTierProximity fires when the account is within reach of the
// next volume-discount tier.
func (o *Optimizer) analyzeVolumeTierProximity(_ []model.Message, analysis model.CostBreakdown, stats conversationStats) *model.Recommendation {
	next, ok := o.cfg.NextTier(stats.uniqueConversations)
	if !ok || next.MinConversations == 0 {
		return nil
	}

	progress := float64(stats.uniqueConversations) / float64(next.MinConversations)
	if progress < costcalc.TierProximityThreshold {
		return nil
	}

	current := o.cfg.TierFor(stats.uniqueConversations)
	savings := common.RoundTo(analysis.TotalCost*(next.Discount-current.Discount), 4)
	pct := savingsPercentage(savings, analysis.TotalCost)

	priority := model.PriorityMedium
	if next.Discount-current.Discount >= 0.1 {
		priority = model.PriorityHigh
	}

	return &model.Recommendation{
		Title: fmt.Sprintf("Reach %s for a %.0f%% volume discount", next.Name, next.Discount*100),
		Description: fmt.Sprintf(
			"You are at %d of the %d conversations needed for the next discount tier (%.0f%% there).",
			stats.uniqueConversations, next.MinConversations, progress*100),
		PotentialSavings:  savings,
		SavingsPercentage: pct,
		Priority:          priority,
		Actionable:        true,
		Steps: []string{
			"Consolidate traffic from secondary accounts into this one",
			"Bring forward planned campaigns to cross the tier threshold",
		},
		Category: model.RecommendationVolume,
	}
}

// analyzeTemplateUsage fires when marketing dominates the message mix.
func (o *Optimizer) analyzeTemplateUsage(_ []model.Message, analysis model.CostBreakdown, _ conversationStats) *model.Recommendation {
	marketing := analysis.CategoryFor(model.CategoryMarketing)
	if marketing == nil || analysis.MessageCount == 0 {
		return nil
	}
	share := float64(marketing.Count) / float64(analysis.MessageCount)
	if share < 0.4 {
		return nil
	}

	savings := common.RoundTo(analysis.TotalCost*0.10, 4)
	pct := savingsPercentage(savings, analysis.TotalCost)

	return &model.Recommendation{
		Title: "Rebalance the template mix away from marketing",
		Description: fmt.Sprintf(
			"Marketing messages are %.0f%% of your volume; moving routine updates to utility templates lowers the blended rate.",
			share*100),
		PotentialSavings:  savings,
		SavingsPercentage: pct,
		Priority:          model.PriorityMedium,
		Actionable:        true,
		Steps: []string{
			"Review which marketing sends carry purely informational content",
			"Create utility templates for order and account updates",
		},
		Category: model.RecommendationTemplate,
	}
}

// analyzePeakTimeConcentration fires when sends bunch into a few hours,
// which correlates with scheduled blasts outside open conversations.
func (o *Optimizer) analyzePeakTimeConcentration(msgs []model.Message, analysis model.CostBreakdown, _ conversationStats) *model.Recommendation {
	if len(msgs) == 0 {
		return nil
	}

	var hours [24]int
	for _, msg := range msgs {
		hours[msg.Timestamp.UTC().Hour()]++
	}

	top3 := 0
	counted := [24]bool{}
	for i := 0; i < 3; i++ {
		best, bestIdx := -1, -1
		for h, n := range hours {
			if !counted[h] && n > best {
				best, bestIdx = n, h
			}
		}
		counted[bestIdx] = true
		top3 += best
	}

	if float64(top3) < 0.5*float64(len(msgs)) {
		return nil
	}

	savings := common.RoundTo(analysis.TotalCost*0.05, 4)
	pct := savingsPercentage(savings, analysis.TotalCost)

	return &model.Recommendation{
		Title: "Spread sends beyond peak hours",
		Description: fmt.Sprintf(
			"Your top 3 busiest hours carry %d of %d messages; spreading sends lets more of them land inside open conversations.",
			top3, len(msgs)),
		PotentialSavings:  savings,
		SavingsPercentage: pct,
		Priority:          model.PriorityLow,
		Actionable:        true,
		Steps: []string{
			"Stagger scheduled campaigns across the day",
			"Align sends with each customer's active hours",
		},
		Category: model.RecommendationTiming,
	}
}
