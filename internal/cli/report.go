package cli

import (
	"fmt"
	"strings"

	"github.com/costwise/costwise/internal/model"
)

// RenderBreakdown formats a cost breakdown as an aligned text table.
func RenderBreakdown(b model.CostBreakdown) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-16s %8s %12s %10s\n", "Category", "Count", "Cost", "Share")
	for _, cat := range b.Breakdown {
		if cat.Count == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%-16s %8d %9.4f %s %9.2f%%\n",
			cat.Category, cat.Count, cat.Cost, b.Currency, cat.Percentage)
	}

	fmt.Fprintf(&sb, "\n%s Total: %.4f %s across %d messages (%d free, %d paid)",
		MoneyIcon, b.TotalCost, b.Currency, b.MessageCount, b.FreeMessages, b.PaidMessages)

	return sb.String()
}

// RenderComparison formats a period comparison with trend arrows.
func RenderComparison(c model.PeriodComparison) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Cost:     %.4f → %.4f %s (%s)\n",
		c.Previous.TotalCost, c.Current.TotalCost, c.Current.Currency,
		trendLabel(c.CostTrend))
	fmt.Fprintf(&sb, "Messages: %d → %d (%s)",
		c.Previous.MessageCount, c.Current.MessageCount,
		trendLabel(c.MessageTrend))

	return sb.String()
}

func trendLabel(t model.ChangeTrend) string {
	arrow := "→"
	switch t.Direction {
	case model.TrendUp:
		arrow = "↑"
	case model.TrendDown:
		arrow = "↓"
	}
	return fmt.Sprintf("%s %.2f%%", arrow, t.ChangePercent)
}

// RenderRecommendations formats ranked recommendations with styled priorities.
func RenderRecommendations(recs []model.Recommendation, score int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Optimization score: %d/100\n\n", score)

	if len(recs) == 0 {
		sb.WriteString(SubtleStyle.Render("No recommendations. Your messaging spend looks well optimized."))
		return sb.String()
	}

	for i, rec := range recs {
		fmt.Fprintf(&sb, "%d. %s [%s]\n", i+1, rec.Title, renderPriority(rec.Priority))
		fmt.Fprintf(&sb, "   %s\n", rec.Description)
		fmt.Fprintf(&sb, "   Potential savings: %.4f (%.1f%% of spend)\n",
			rec.PotentialSavings, rec.SavingsPercentage)
		for _, step := range rec.Steps {
			fmt.Fprintf(&sb, "   - %s\n", step)
		}
		if i < len(recs)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func renderPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return HighPriorityStyle.Render("high")
	case model.PriorityMedium:
		return MediumPriorityStyle.Render("medium")
	default:
		return SubtleStyle.Render("low")
	}
}

// RenderPrediction formats a prediction result.
func RenderPrediction(p model.PredictionResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s Next %d days (based on %d days of history, confidence %.0f%%):\n",
		TrendIcon, p.Days, p.BasedOnDays, p.ConfidenceScore*100)
	fmt.Fprintf(&sb, "  Cost:     %.4f (%s)\n", p.PredictedCost, p.CostTrend.Direction)
	fmt.Fprintf(&sb, "  Messages: %.0f (%s)\n", p.PredictedMessages, p.MessageTrend.Direction)
	fmt.Fprintf(&sb, "  Savings:  %.4f (%s)\n", p.PredictedSavings, p.SavingsTrend.Direction)

	for _, advice := range p.Recommendations {
		fmt.Fprintf(&sb, "  %s %s\n", WarningIcon, advice)
	}

	return sb.String()
}

// RenderForecast formats a multi-month forecast table.
func RenderForecast(months []model.ForecastMonth) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-10s %12s %12s %12s\n", "Month", "Cost", "Savings", "Cumulative")
	for _, m := range months {
		fmt.Fprintf(&sb, "%-10s %12.4f %12.4f %12.4f\n",
			m.Month, m.ProjectedCost, m.ProjectedSavings, m.CumulativeSavings)
	}

	return sb.String()
}
