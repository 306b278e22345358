// Package costcalc computes cost breakdowns over categorized message sets:
// category-aware, free-window-aware, and volume-discount-aware aggregation
// plus the derived period operations built on top of it.
package costcalc

import (
	"sort"
	"time"

	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/pricing"
)

// Options controls a cost calculation. Use DefaultOptions as the base; empty
// country/currency strings are normalized to the configured defaults.
type Options struct {
	Country              string
	Currency             string
	ApplyVolumeDiscounts bool
	IncludeFreeTier      bool
}

// Calculator aggregates message costs against a pricing configuration.
type Calculator struct {
	cfg *pricing.Config
}

// New creates a calculator backed by the given pricing configuration.
func New(cfg *pricing.Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// DefaultOptions returns the standard calculation options: Indonesia rates,
// USD, volume discounts and free tier enabled.
func (c *Calculator) DefaultOptions() Options {
	return Options{
		Country:              c.cfg.DefaultCountry,
		Currency:             c.cfg.DefaultCurrency,
		ApplyVolumeDiscounts: true,
		IncludeFreeTier:      true,
	}
}

func (c *Calculator) normalize(opts Options) Options {
	if opts.Country == "" {
		opts.Country = c.cfg.DefaultCountry
	}
	if opts.Currency == "" {
		opts.Currency = c.cfg.DefaultCurrency
	}
	return opts
}

// IsMessageFree reports whether a message incurs no cost: inbound messages,
// authentication messages, and messages inside the free window.
func (c *Calculator) IsMessageFree(msg model.Message) bool {
	return msg.Direction == model.DirectionInbound ||
		msg.Category == model.CategoryAuthentication ||
		msg.IsInFreeWindow
}

// Calculate computes the full cost breakdown for a message set.
func (c *Calculator) Calculate(msgs []model.Message, opts Options) model.CostBreakdown {
	opts = c.normalize(opts)

	counts := make(map[model.Category]int, len(model.AllCategories))
	costs := make(map[model.Category]float64, len(model.AllCategories))
	for _, cat := range model.AllCategories {
		counts[cat] = 0
		costs[cat] = 0
	}

	conversations := make(map[string]struct{})
	freeMessages := 0

	for _, msg := range msgs {
		cat := msg.Category
		if _, ok := counts[cat]; !ok {
			cat = model.CategoryService
		}
		counts[cat]++

		if msg.ConversationID != "" {
			conversations[msg.ConversationID] = struct{}{}
		}

		if c.IsMessageFree(msg) {
			freeMessages++
			continue
		}
		costs[cat] += c.cfg.RateFor(cat, opts.Country)
	}

	total := 0.0
	for _, cost := range costs {
		total += cost
	}

	// Volume discount scales the total and every category cost identically.
	if opts.ApplyVolumeDiscounts && len(conversations) > 0 {
		tier := c.cfg.TierFor(len(conversations))
		if tier.Discount > 0 {
			factor := 1 - tier.Discount
			total *= factor
			for cat := range costs {
				costs[cat] *= factor
			}
		}
	}

	breakdown := make([]model.CategoryBreakdown, 0, len(model.AllCategories))
	for _, cat := range model.AllCategories {
		entry := model.CategoryBreakdown{
			Category: cat,
			Count:    counts[cat],
			Cost:     common.RoundTo(costs[cat], 4),
		}
		if entry.Count > 0 {
			entry.AvgCostPerMessage = common.RoundTo(costs[cat]/float64(entry.Count), 6)
		}
		if len(msgs) > 0 {
			entry.Percentage = common.RoundTo(float64(entry.Count)/float64(len(msgs))*100, 2)
		}
		breakdown = append(breakdown, entry)
	}

	return model.CostBreakdown{
		TotalCost:    common.RoundTo(total, 4),
		MessageCount: len(msgs),
		FreeMessages: freeMessages,
		PaidMessages: len(msgs) - freeMessages,
		Breakdown:    breakdown,
		Currency:     opts.Currency,
	}
}

// DailyCosts groups messages by UTC calendar day and computes an independent
// breakdown per day, so volume discounts apply per-day rather than globally.
func (c *Calculator) DailyCosts(msgs []model.Message, opts Options) []model.DailyCost {
	byDay := make(map[string][]model.Message)
	for _, msg := range msgs {
		day := msg.Timestamp.UTC().Format(time.DateOnly)
		byDay[day] = append(byDay[day], msg)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	result := make([]model.DailyCost, 0, len(days))
	for _, day := range days {
		result = append(result, model.DailyCost{
			Date:      day,
			Breakdown: c.Calculate(byDay[day], opts),
		})
	}
	return result
}

// WithDiscountBreakdown runs the calculation with and without the volume
// discount to expose the discount's absolute effect.
func (c *Calculator) WithDiscountBreakdown(msgs []model.Message, opts Options) model.DiscountBreakdown {
	opts = c.normalize(opts)

	discounted := opts
	discounted.ApplyVolumeDiscounts = true
	undiscounted := opts
	undiscounted.ApplyVolumeDiscounts = false

	with := c.Calculate(msgs, discounted)
	without := c.Calculate(msgs, undiscounted)

	conversations := uniqueConversations(msgs)
	tier := c.cfg.TierFor(conversations)

	return model.DiscountBreakdown{
		WithDiscount:    with,
		WithoutDiscount: without,
		DiscountAmount:  common.RoundTo(without.TotalCost-with.TotalCost, 4),
		DiscountRate:    tier.Discount,
		Tier:            tier.Name,
	}
}

func uniqueConversations(msgs []model.Message) int {
	seen := make(map[string]struct{})
	for _, msg := range msgs {
		if msg.ConversationID != "" {
			seen[msg.ConversationID] = struct{}{}
		}
	}
	return len(seen)
}
