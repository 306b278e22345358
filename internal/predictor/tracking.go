package predictor

import (
	"math"
	"strings"
	"time"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
)

// breakEvenNever is the sentinel returned when the marginal savings delta is
// non-positive and the plan upgrade would never pay for itself.
const breakEvenNever = 999

// plan couples a monthly price with an optimization multiplier: higher plans
// ship more optimization features, so the same spend optimizes further.
type plan struct {
	price      float64
	multiplier float64
}

var plans = map[string]plan{
	"starter":    {price: 29, multiplier: 1.0},
	"growth":     {price: 99, multiplier: 1.25},
	"business":   {price: 299, multiplier: 1.5},
	"enterprise": {price: 999, multiplier: 2.0},
}

func planFor(name string) plan {
	if p, ok := plans[strings.ToLower(name)]; ok {
		return p
	}
	return plans["starter"]
}

// TrackSavings sums per-day potential savings over a period and compares
// them against the savings actually realized.
func (p *Predictor) TrackSavings(history []model.DailySummary, recommendations []model.Recommendation) model.SavingsTracking {
	marketingRate := p.cfg.RateFor(model.CategoryMarketing, p.cfg.DefaultCountry)
	utilityRate := p.cfg.RateFor(model.CategoryUtility, p.cfg.DefaultCountry)

	var potential, actual float64
	for _, day := range history {
		for _, cat := range day.Breakdown {
			if cat.Category != model.CategoryMarketing {
				continue
			}
			// Timing recovery plus reclassification, per day.
			potential += TimingRecoveryShare * cat.Cost
			potential += ReclassificationShare * float64(cat.Count) * (marketingRate - utilityRate)
		}
		actual += day.ActualSavings
	}

	implemented := 0
	for _, rec := range recommendations {
		if rec.Implemented {
			implemented++
		}
	}

	rate := 0.0
	if potential > 0 {
		rate = actual / potential
	}

	return model.SavingsTracking{
		PotentialSavings:           common.RoundTo(potential, 4),
		ActualSavings:              common.RoundTo(actual, 4),
		SavingsRate:                common.RoundTo(rate, 4),
		ImplementedRecommendations: implemented,
		DaysTracked:                len(history),
	}
}

// impactFactors estimate what share of monthly spend each recommendation
// category can recover.
var impactFactors = map[model.RecommendationCategory]float64{
	model.RecommendationTiming:         0.25,
	model.RecommendationClassification: 0.15,
	model.RecommendationConversation:   0.15,
	model.RecommendationVolume:         0.10,
	model.RecommendationTemplate:       0.10,
}

// EstimateRecommendationImpact estimates the monthly savings of implementing
// one class of recommendation against the historical spend level.
func (p *Predictor) EstimateRecommendationImpact(category model.RecommendationCategory, history []model.DailySummary) model.RecommendationImpact {
	factor, ok := impactFactors[category]
	if !ok {
		factor = 0.05
	}

	costs, _, _ := metricSeries(sortByDate(history))
	monthlyCost := average(costs) * 30

	confidence := 0.5
	if len(history) >= 7 {
		confidence = 0.7
	}

	return model.RecommendationImpact{
		Category:                category,
		EstimatedMonthlySavings: common.RoundTo(monthlyCost*factor, 4),
		Confidence:              confidence,
	}
}

// PlanROI estimates whether upgrading from currentPlan to targetPlan pays
// for itself. Unknown plan names fall back to the starter plan rather than
// failing.
func (p *Predictor) PlanROI(history []model.DailySummary, currentPlan, targetPlan string) model.PlanROI {
	current := planFor(currentPlan)
	target := planFor(targetPlan)

	costs, _, _ := metricSeries(sortByDate(history))
	monthlyCost := average(costs) * 30

	// Baseline optimization recovers 30% of spend; plan features multiply it.
	currentSavings := 0.30 * monthlyCost * current.multiplier
	targetSavings := 0.30 * monthlyCost * target.multiplier
	netBenefit := targetSavings - target.price

	breakEven := breakEvenNever
	if delta := (targetSavings - currentSavings) / 30; delta > 0 {
		breakEven = int(math.Ceil(target.price / delta))
		if breakEven > breakEvenNever {
			breakEven = breakEvenNever
		}
	}

	return model.PlanROI{
		CurrentPlan:             strings.ToLower(currentPlan),
		TargetPlan:              strings.ToLower(targetPlan),
		PlanCost:                target.price,
		ProjectedMonthlySavings: common.RoundTo(targetSavings, 4),
		NetBenefit:              common.RoundTo(netBenefit, 4),
		UpgradeRecommended:      netBenefit > 0.5*target.price,
		BreakEvenDays:           breakEven,
	}
}

// Forecast projects the base 30-day prediction over future calendar months,
// compounding a flat monthly improvement: costs shrink and savings grow by
// MonthlyImprovementRate each month.
func (p *Predictor) Forecast(history []model.DailySummary, months int) []model.ForecastMonth {
	if months <= 0 {
		months = 6
	}

	base := p.PredictFuture(history, 30)
	baseSavings := base.PredictedSavings
	if baseSavings == 0 {
		// No realized-savings history yet; seed from the improvement rate.
		baseSavings = base.PredictedCost * MonthlyImprovementRate
	}

	forecast := make([]model.ForecastMonth, 0, months)
	cumulative := 0.0
	for i := 1; i <= months; i++ {
		improvement := math.Pow(1-MonthlyImprovementRate, float64(i))
		growth := math.Pow(1+MonthlyImprovementRate, float64(i))

		savings := common.RoundTo(baseSavings*growth, 4)
		cumulative = common.RoundTo(cumulative+savings, 4)

		forecast = append(forecast, model.ForecastMonth{
			Month:             monthLabel(p.now(), i),
			ProjectedCost:     common.RoundTo(base.PredictedCost*improvement, 4),
			ProjectedSavings:  savings,
			CumulativeSavings: cumulative,
		})
	}

	return forecast
}

func monthLabel(now time.Time, monthsAhead int) string {
	return now.AddDate(0, monthsAhead, 0).Format("2006-01")
}
