// Package predictor extracts trends from historical daily cost summaries and
// forecasts future spend and savings. All predictions are heuristic: a
// dampened linear trend over a recent average, never raw extrapolation.
package predictor

import (
	"math"
	"sort"
	"time"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/pricing"
)

// minDataPoints is the smallest series the trend fit accepts; below it the
// predictor falls back to a conservative default.
const minDataPoints = 3

// insufficientDataAdvice is the literal recommendation returned with the
// fallback prediction.
const insufficientDataAdvice = "Add more historical data for accurate predictions."

// Heuristic constants, overridable for tests and tenant tuning.
var (
	// SlopeDampening scales the fitted slope before extrapolation to avoid
	// naive linear blow-up.
	SlopeDampening = 0.5

	// MonthlyImprovementRate is the assumed month-over-month optimization
	// improvement used by the forecast.
	MonthlyImprovementRate = 0.05

	// TimingRecoveryShare and ReclassificationShare drive the daily
	// potential-savings estimate in TrackSavings.
	TimingRecoveryShare   = 0.30
	ReclassificationShare = 0.20
)

// Predictor forecasts spend from historical daily summaries.
type Predictor struct {
	cfg *pricing.Config
	now func() time.Time
}

// New creates a predictor backed by the given pricing configuration.
func New(cfg *pricing.Config) *Predictor {
	return &Predictor{cfg: cfg, now: time.Now}
}

// WithClock overrides the time source used for forecast month labels.
func (p *Predictor) WithClock(now func() time.Time) *Predictor {
	p.now = now
	return p
}

// PredictFuture forecasts cost, volume, and savings daysToPredict days out.
// Fewer than three data points produce an average-based default prediction
// with low confidence rather than an error.
func (p *Predictor) PredictFuture(history []model.DailySummary, daysToPredict int) model.PredictionResult {
	if daysToPredict <= 0 {
		daysToPredict = 30
	}

	sorted := sortByDate(history)
	costs, messages, savings := metricSeries(sorted)

	if len(history) < minDataPoints {
		return model.PredictionResult{
			Days:              daysToPredict,
			PredictedCost:     common.RoundTo(average(costs)*float64(daysToPredict), 4),
			PredictedMessages: math.Round(average(messages) * float64(daysToPredict)),
			PredictedSavings:  common.RoundTo(average(savings)*float64(daysToPredict), 4),
			ConfidenceScore:   0.3,
			Recommendations:   []string{insufficientDataAdvice},
			BasedOnDays:       len(history),
		}
	}

	costTrend := trendFor(olsSlope(costs))
	messageTrend := trendFor(olsSlope(messages))
	savingsTrend := trendFor(olsSlope(savings))

	result := model.PredictionResult{
		Days:              daysToPredict,
		PredictedCost:     project(costs, costTrend.Slope, daysToPredict),
		PredictedMessages: math.Round(project(messages, messageTrend.Slope, daysToPredict)),
		PredictedSavings:  project(savings, savingsTrend.Slope, daysToPredict),
		CostTrend:         costTrend,
		MessageTrend:      messageTrend,
		SavingsTrend:      savingsTrend,
		ConfidenceScore:   confidenceScore(costs),
		Recommendations:   p.adviceFor(sorted, costTrend),
		BasedOnDays:       len(history),
	}

	return result
}

// project applies a dampened trend to the 30-day-average daily value and
// scales to the prediction horizon. Never negative.
func project(values []float64, slope float64, days int) float64 {
	recent := average(lastN(values, 30))
	projected := (recent + slope*SlopeDampening) * float64(days)
	return common.RoundTo(math.Max(projected, 0), 4)
}

// confidenceScore rewards low variance and longer series: the inverse
// coefficient of variation clamped to [0.3, 0.95], plus up to 0.1 for data
// volume, capped at 0.95.
func confidenceScore(costs []float64) float64 {
	base := common.Clamp(1-coefficientOfVariation(costs), 0.3, 0.95)
	bonus := math.Min(float64(len(costs))*0.01, 0.1)
	return math.Min(base+bonus, 0.95)
}

// adviceFor generates textual recommendations from simple threshold checks
// against the trend and the latest day.
func (p *Predictor) adviceFor(history []model.DailySummary, costTrend model.MetricTrend) []string {
	advice := []string{}

	if costTrend.Direction == model.TrendUp {
		advice = append(advice, "Costs are trending upward. Review marketing send timing and template mix.")
	}

	latest := history[len(history)-1]
	if latest.TotalMessages > 0 {
		for _, cat := range latest.Breakdown {
			if cat.Category == model.CategoryMarketing &&
				float64(cat.Count) > 0.4*float64(latest.TotalMessages) {
				advice = append(advice, "Marketing messages dominate recent volume. Consider utility templates for transactional content.")
			}
		}
		if float64(latest.FreeMessages) < 0.3*float64(latest.TotalMessages) {
			advice = append(advice, "Free-window utilization is low. Batch replies into open conversations.")
		}
	}

	return advice
}

// sortByDate returns a date-ordered copy, leaving the caller's series
// untouched.
func sortByDate(history []model.DailySummary) []model.DailySummary {
	sorted := make([]model.DailySummary, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}

// metricSeries extracts the three metric series from date-ordered history.
func metricSeries(history []model.DailySummary) (costs, messages, savings []float64) {
	costs = make([]float64, len(history))
	messages = make([]float64, len(history))
	savings = make([]float64, len(history))
	for i, day := range history {
		costs[i] = day.TotalCost
		messages[i] = float64(day.TotalMessages)
		savings[i] = day.ActualSavings
	}
	return costs, messages, savings
}
