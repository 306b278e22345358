package costcalc

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/pricing"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// makeMessages builds count outbound messages in the given category, spread
// across conversations unique conversation ids.
func makeMessages(count, conversations int, cat model.Category) []model.Message {
	msgs := make([]model.Message, 0, count)
	for i := 0; i < count; i++ {
		msgs = append(msgs, model.Message{
			ID:             fmt.Sprintf("msg_%d", i),
			ConversationID: fmt.Sprintf("conv_%d", i%conversations),
			Category:       cat,
			Direction:      model.DirectionOutbound,
			Timestamp:      baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	return msgs
}

func TestDefaultOptions(t *testing.T) {
	calc := New(pricing.Default())
	opts := calc.DefaultOptions()

	assert.Equal(t, "ID", opts.Country)
	assert.Equal(t, "USD", opts.Currency)
	assert.True(t, opts.ApplyVolumeDiscounts)
	assert.True(t, opts.IncludeFreeTier)
}

func TestIsMessageFree(t *testing.T) {
	calc := New(pricing.Default())

	tests := []struct {
		name string
		msg  model.Message
		want bool
	}{
		{
			name: "inbound is free",
			msg:  model.Message{Direction: model.DirectionInbound, Category: model.CategoryMarketing},
			want: true,
		},
		{
			name: "authentication is free",
			msg:  model.Message{Direction: model.DirectionOutbound, Category: model.CategoryAuthentication},
			want: true,
		},
		{
			name: "free window is free",
			msg:  model.Message{Direction: model.DirectionOutbound, Category: model.CategoryMarketing, IsInFreeWindow: true},
			want: true,
		},
		{
			name: "outbound marketing outside window is paid",
			msg:  model.Message{Direction: model.DirectionOutbound, Category: model.CategoryMarketing},
			want: false,
		},
		{
			name: "outbound utility outside window is paid",
			msg:  model.Message{Direction: model.DirectionOutbound, Category: model.CategoryUtility},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.IsMessageFree(tt.msg))
		})
	}
}

func TestCalculateMarketingBaseline(t *testing.T) {
	calc := New(pricing.Default())

	// 100 paid marketing messages across 50 conversations stay in the base
	// tier: 100 * 0.0411 = 4.11 with no discount.
	msgs := makeMessages(100, 50, model.CategoryMarketing)
	result := calc.Calculate(msgs, calc.DefaultOptions())

	assert.InDelta(t, 4.11, result.TotalCost, 1e-9)
	assert.Equal(t, 100, result.MessageCount)
	assert.Equal(t, 0, result.FreeMessages)
	assert.Equal(t, 100, result.PaidMessages)
	assert.Equal(t, "USD", result.Currency)

	marketing := result.CategoryFor(model.CategoryMarketing)
	require.NotNil(t, marketing)
	assert.Equal(t, 100, marketing.Count)
	assert.InDelta(t, 4.11, marketing.Cost, 1e-9)
	assert.InDelta(t, 0.0411, marketing.AvgCostPerMessage, 1e-9)
	assert.InDelta(t, 100.0, marketing.Percentage, 1e-9)
}

func TestCalculateVolumeDiscount(t *testing.T) {
	calc := New(pricing.Default())

	// 1500 unique conversations cross the 1000-conversation threshold and
	// earn the 10% tier discount.
	msgs := makeMessages(1500, 1500, model.CategoryMarketing)

	discounted := calc.Calculate(msgs, calc.DefaultOptions())
	assert.InDelta(t, 55.485, discounted.TotalCost, 1e-9)

	opts := calc.DefaultOptions()
	opts.ApplyVolumeDiscounts = false
	undiscounted := calc.Calculate(msgs, opts)
	assert.InDelta(t, 61.65, undiscounted.TotalCost, 1e-9)

	assert.LessOrEqual(t, discounted.TotalCost, undiscounted.TotalCost,
		"a discount never increases the total")
}

func TestCalculateFreeMessages(t *testing.T) {
	calc := New(pricing.Default())

	msgs := []model.Message{
		{ID: "1", ConversationID: "c1", Category: model.CategoryService, Direction: model.DirectionInbound},
		{ID: "2", ConversationID: "c1", Category: model.CategoryAuthentication, Direction: model.DirectionOutbound},
		{ID: "3", ConversationID: "c2", Category: model.CategoryUtility, Direction: model.DirectionOutbound, IsInFreeWindow: true},
		{ID: "4", ConversationID: "c2", Category: model.CategoryUtility, Direction: model.DirectionOutbound},
	}

	result := calc.Calculate(msgs, calc.DefaultOptions())

	assert.Equal(t, 4, result.MessageCount)
	assert.Equal(t, 3, result.FreeMessages)
	assert.Equal(t, 1, result.PaidMessages)
	assert.InDelta(t, 0.02, result.TotalCost, 1e-9, "only the paid utility message is billed")
}

func TestCalculateSumInvariants(t *testing.T) {
	calc := New(pricing.Default())

	msgs := append(makeMessages(40, 10, model.CategoryMarketing),
		makeMessages(30, 10, model.CategoryUtility)...)
	msgs = append(msgs, makeMessages(30, 5, model.CategoryAuthentication)...)

	result := calc.Calculate(msgs, calc.DefaultOptions())

	var countSum int
	var costSum float64
	for _, entry := range result.Breakdown {
		countSum += entry.Count
		costSum += entry.Cost
	}

	assert.Equal(t, result.MessageCount, countSum)
	assert.InDelta(t, result.TotalCost, costSum, 0.001)
}

func TestCalculateUnknownCategoryCountsAsService(t *testing.T) {
	calc := New(pricing.Default())

	msgs := []model.Message{
		{ID: "1", ConversationID: "c1", Category: model.Category("WEIRD"), Direction: model.DirectionOutbound},
	}

	result := calc.Calculate(msgs, calc.DefaultOptions())

	service := result.CategoryFor(model.CategoryService)
	require.NotNil(t, service)
	assert.Equal(t, 1, service.Count)
	assert.InDelta(t, 0.0190, result.TotalCost, 1e-9)
}

func TestCalculateCountryRates(t *testing.T) {
	calc := New(pricing.Default())

	msgs := makeMessages(100, 50, model.CategoryMarketing)
	opts := calc.DefaultOptions()
	opts.Country = "US"

	result := calc.Calculate(msgs, opts)
	assert.InDelta(t, 2.50, result.TotalCost, 1e-9)
}

func TestDailyCosts(t *testing.T) {
	calc := New(pricing.Default())

	msgs := []model.Message{
		{ID: "1", ConversationID: "c1", Category: model.CategoryMarketing, Direction: model.DirectionOutbound,
			Timestamp: time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)},
		{ID: "2", ConversationID: "c1", Category: model.CategoryMarketing, Direction: model.DirectionOutbound,
			Timestamp: time.Date(2024, 6, 2, 0, 30, 0, 0, time.UTC)},
		{ID: "3", ConversationID: "c2", Category: model.CategoryUtility, Direction: model.DirectionOutbound,
			Timestamp: time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)},
	}

	daily := calc.DailyCosts(msgs, calc.DefaultOptions())

	require.Len(t, daily, 2)
	assert.Equal(t, "2024-06-01", daily[0].Date)
	assert.Equal(t, "2024-06-02", daily[1].Date)
	assert.Equal(t, 1, daily[0].Breakdown.MessageCount)
	assert.Equal(t, 2, daily[1].Breakdown.MessageCount)
	assert.InDelta(t, 0.0411, daily[0].Breakdown.TotalCost, 1e-9)
	assert.InDelta(t, 0.0611, daily[1].Breakdown.TotalCost, 1e-9)
}

func TestWithDiscountBreakdown(t *testing.T) {
	calc := New(pricing.Default())

	msgs := makeMessages(1500, 1500, model.CategoryMarketing)
	result := calc.WithDiscountBreakdown(msgs, calc.DefaultOptions())

	assert.Equal(t, "TIER_2", result.Tier)
	assert.InDelta(t, 0.10, result.DiscountRate, 1e-9)
	assert.InDelta(t, 61.65, result.WithoutDiscount.TotalCost, 1e-9)
	assert.InDelta(t, 55.485, result.WithDiscount.TotalCost, 1e-9)
	assert.InDelta(t, 6.165, result.DiscountAmount, 1e-9)
}

func TestCalculateEmptyInput(t *testing.T) {
	calc := New(pricing.Default())

	result := calc.Calculate(nil, calc.DefaultOptions())

	assert.Zero(t, result.TotalCost)
	assert.Zero(t, result.MessageCount)
	assert.Len(t, result.Breakdown, 4, "all categories present even when empty")
}
