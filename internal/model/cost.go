package model

// CategoryBreakdown holds per-category aggregates within a CostBreakdown.
type CategoryBreakdown struct {
	Category          Category `json:"category"`
	Count             int      `json:"count"`
	Cost              float64  `json:"cost"`
	AvgCostPerMessage float64  `json:"avgCostPerMessage"`
	Percentage        float64  `json:"percentage"`
}

// CostBreakdown is the result of a cost calculation over a message set.
// Invariants: sum(Breakdown[].Count) == MessageCount and
// sum(Breakdown[].Cost) == TotalCost within rounding.
type CostBreakdown struct {
	TotalCost    float64             `json:"totalCost"`
	MessageCount int                 `json:"messageCount"`
	FreeMessages int                 `json:"freeMessages"`
	PaidMessages int                 `json:"paidMessages"`
	Breakdown    []CategoryBreakdown `json:"breakdown"`
	Currency     string              `json:"currency"`
}

// CategoryFor returns the breakdown entry for a category, or nil when the
// category does not appear in the breakdown.
func (b *CostBreakdown) CategoryFor(cat Category) *CategoryBreakdown {
	for i := range b.Breakdown {
		if b.Breakdown[i].Category == cat {
			return &b.Breakdown[i]
		}
	}
	return nil
}

// DailyCost pairs an ISO date string with the breakdown for that UTC day.
type DailyCost struct {
	Date      string        `json:"date"`
	Breakdown CostBreakdown `json:"breakdown"`
}

// DiscountBreakdown exposes the absolute effect of the volume discount by
// running the calculation with and without it.
type DiscountBreakdown struct {
	WithDiscount    CostBreakdown `json:"withDiscount"`
	WithoutDiscount CostBreakdown `json:"withoutDiscount"`
	DiscountAmount  float64       `json:"discountAmount"`
	DiscountRate    float64       `json:"discountRate"`
	Tier            string        `json:"tier"`
}

// PotentialSavings breaks the savings opportunity into its three independent
// additive estimates.
type PotentialSavings struct {
	TimingSavings           float64 `json:"timingSavings"`
	ReclassificationSavings float64 `json:"reclassificationSavings"`
	VolumeTierSavings       float64 `json:"volumeTierSavings"`
	Total                   float64 `json:"total"`
}

// TrendDirection labels which way a metric is moving between two periods.
type TrendDirection string

// Trend direction constants.
const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// ChangeTrend wraps a percentage change with its direction.
type ChangeTrend struct {
	ChangePercent float64        `json:"changePercent"`
	Direction     TrendDirection `json:"direction"`
}

// PeriodComparison holds two independent breakdowns plus change trends for
// cost and message count.
type PeriodComparison struct {
	Current      CostBreakdown `json:"current"`
	Previous     CostBreakdown `json:"previous"`
	CostTrend    ChangeTrend   `json:"costTrend"`
	MessageTrend ChangeTrend   `json:"messageTrend"`
}

// MonthlyEstimate extrapolates a sample period to a 30-day month.
type MonthlyEstimate struct {
	EstimatedCost     float64 `json:"estimatedCost"`
	EstimatedMessages float64 `json:"estimatedMessages"`
	EstimatedSavings  float64 `json:"estimatedSavings"`
	BasedOnDays       int     `json:"basedOnDays"`
}
