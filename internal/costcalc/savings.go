package costcalc

import (
	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
)

// Heuristic constants. These are product assumptions, not derived values;
// they are variables so tests and tenants can override them.
var (
	// ReclassifiableShare is the share of marketing messages assumed to be
	// reclassifiable as utility.
	ReclassifiableShare = 0.30

	// TierProximityThreshold is the minimum progress toward the next volume
	// tier before the tier opportunity counts.
	TierProximityThreshold = 0.70
)

// PotentialSavings computes three independent, additive savings estimates:
// send-timing opportunity, reclassification opportunity, and proximity to
// the next volume tier.
func (c *Calculator) PotentialSavings(msgs []model.Message, opts Options) model.PotentialSavings {
	opts = c.normalize(opts)

	marketingRate := c.cfg.RateFor(model.CategoryMarketing, opts.Country)
	utilityRate := c.cfg.RateFor(model.CategoryUtility, opts.Country)

	paidMarketing := 0
	for _, msg := range msgs {
		if msg.Direction == model.DirectionOutbound &&
			msg.Category == model.CategoryMarketing &&
			!msg.IsInFreeWindow {
			paidMarketing++
		}
	}

	var savings model.PotentialSavings

	// (a) Marketing messages sent outside the free window could ride an open
	// conversation instead.
	savings.TimingSavings = float64(paidMarketing) * marketingRate

	// (b) A share of marketing messages is typically transactional in nature
	// and could be re-templated at the utility rate.
	savings.ReclassificationSavings = ReclassifiableShare * float64(paidMarketing) * (marketingRate - utilityRate)

	// (c) Close enough to the next volume tier, the discount delta applies
	// to the whole spend.
	conversations := uniqueConversations(msgs)
	if next, ok := c.cfg.NextTier(conversations); ok && next.MinConversations > 0 {
		progress := float64(conversations) / float64(next.MinConversations)
		if progress >= TierProximityThreshold {
			current := c.cfg.TierFor(conversations)
			total := c.Calculate(msgs, opts).TotalCost
			savings.VolumeTierSavings = total * (next.Discount - current.Discount)
		}
	}

	savings.TimingSavings = common.RoundTo(savings.TimingSavings, 4)
	savings.ReclassificationSavings = common.RoundTo(savings.ReclassificationSavings, 4)
	savings.VolumeTierSavings = common.RoundTo(savings.VolumeTierSavings, 4)
	savings.Total = common.RoundTo(
		savings.TimingSavings+savings.ReclassificationSavings+savings.VolumeTierSavings, 4)

	return savings
}

// ComparePeriods computes independent breakdowns for two message sets and
// wraps percentage-change trends for cost and message count.
func (c *Calculator) ComparePeriods(current, previous []model.Message, opts Options) model.PeriodComparison {
	cur := c.Calculate(current, opts)
	prev := c.Calculate(previous, opts)

	return model.PeriodComparison{
		Current:      cur,
		Previous:     prev,
		CostTrend:    changeTrend(prev.TotalCost, cur.TotalCost),
		MessageTrend: changeTrend(float64(prev.MessageCount), float64(cur.MessageCount)),
	}
}

func changeTrend(previous, current float64) model.ChangeTrend {
	change := common.RoundTo(common.PercentChange(previous, current), 2)

	direction := model.TrendStable
	switch {
	case change > 0:
		direction = model.TrendUp
	case change < 0:
		direction = model.TrendDown
	}

	return model.ChangeTrend{ChangePercent: change, Direction: direction}
}

// EstimateMonthly linearly extrapolates a sample's average daily cost and
// message volume to a 30-day month, including projected savings.
func (c *Calculator) EstimateMonthly(msgs []model.Message, sampleDays int, opts Options) model.MonthlyEstimate {
	if sampleDays <= 0 {
		sampleDays = 1
	}

	breakdown := c.Calculate(msgs, opts)
	savings := c.PotentialSavings(msgs, opts)
	scale := 30.0 / float64(sampleDays)

	return model.MonthlyEstimate{
		EstimatedCost:     common.RoundTo(breakdown.TotalCost*scale, 4),
		EstimatedMessages: common.RoundTo(float64(breakdown.MessageCount)*scale, 0),
		EstimatedSavings:  common.RoundTo(savings.Total*scale, 4),
		BasedOnDays:       sampleDays,
	}
}
