// Package pricing holds the static pricing configuration: per-category base
// rates, per-country overrides, volume-discount tiers, and free-window
// constants. A Config is built once at process start and injected by
// reference into every engine component; it is never mutated afterwards.
package pricing

import (
	"time"

	"github.com/costwise/costwise/internal/model"
)

// VolumeTier is one volume-discount tier. MinConversations is compared with
// strict > so a tier applies from MinConversations+1 unique conversations.
type VolumeTier struct {
	Name             string  `json:"name" mapstructure:"name"`
	Discount         float64 `json:"discount" mapstructure:"discount"`
	MinConversations int     `json:"minConversations" mapstructure:"min_conversations"`
}

// Config is the full pricing table consumed by the engine.
type Config struct {
	BaseRates             map[model.Category]float64
	CountryRates          map[string]map[model.Category]float64
	Tiers                 []VolumeTier
	FreeWindow            time.Duration
	FreeTierConversations int
	DefaultCountry        string
	DefaultCurrency       string
}

// Default returns the standard pricing table. Base rates are the Indonesia
// ("ID") conversation rates in USD; other countries override per category.
func Default() *Config {
	return &Config{
		BaseRates: map[model.Category]float64{
			model.CategoryMarketing:      0.0411,
			model.CategoryAuthentication: 0.0300,
			model.CategoryUtility:        0.0200,
			model.CategoryService:        0.0190,
		},
		CountryRates: map[string]map[model.Category]float64{
			"ID": {
				model.CategoryMarketing:      0.0411,
				model.CategoryAuthentication: 0.0300,
				model.CategoryUtility:        0.0200,
				model.CategoryService:        0.0190,
			},
			"US": {
				model.CategoryMarketing:      0.0250,
				model.CategoryAuthentication: 0.0135,
				model.CategoryUtility:        0.0040,
				model.CategoryService:        0.0088,
			},
			"IN": {
				model.CategoryMarketing:      0.0107,
				model.CategoryAuthentication: 0.0014,
				model.CategoryUtility:        0.0014,
				model.CategoryService:        0.0040,
			},
		},
		Tiers: []VolumeTier{
			{Name: "TIER_1", Discount: 0, MinConversations: 0},
			{Name: "TIER_2", Discount: 0.10, MinConversations: 1000},
			{Name: "TIER_3", Discount: 0.20, MinConversations: 10000},
			{Name: "TIER_4", Discount: 0.30, MinConversations: 100000},
		},
		FreeWindow:            24 * time.Hour,
		FreeTierConversations: 1000,
		DefaultCountry:        "ID",
		DefaultCurrency:       "USD",
	}
}

// RateFor returns the per-message rate for a category in a country. Unknown
// countries fall back to the base table; unknown categories fall back to the
// SERVICE rate. It never fails.
func (c *Config) RateFor(cat model.Category, country string) float64 {
	table := c.BaseRates
	if override, ok := c.CountryRates[country]; ok {
		table = override
	}
	if rate, ok := table[cat]; ok {
		return rate
	}
	return table[model.CategoryService]
}

// TierFor returns the volume tier for a unique-conversation count. Tiers are
// evaluated highest-first with a strict > comparison, so exactly hitting a
// tier minimum keeps the lower tier.
func (c *Config) TierFor(conversations int) VolumeTier {
	for i := len(c.Tiers) - 1; i > 0; i-- {
		if conversations > c.Tiers[i].MinConversations {
			return c.Tiers[i]
		}
	}
	return c.Tiers[0]
}

// NextTier returns the tier above the one currently matched, if any.
func (c *Config) NextTier(conversations int) (VolumeTier, bool) {
	current := c.TierFor(conversations)
	for i, tier := range c.Tiers {
		if tier.Name == current.Name && i+1 < len(c.Tiers) {
			return c.Tiers[i+1], true
		}
	}
	return VolumeTier{}, false
}

// MaxTier returns the highest volume tier.
func (c *Config) MaxTier() VolumeTier {
	return c.Tiers[len(c.Tiers)-1]
}
