package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/costwise/costwise/internal/config"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/pricing"
	"github.com/costwise/costwise/internal/service"
	"github.com/costwise/costwise/internal/storage"
)

// openStorage opens the SQLite store at the configured path.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	return storage.NewSQLiteStorage(dbPath)
}

// pricingConfig builds the pricing table, applying any overrides from the
// config file on top of the defaults.
func pricingConfig() *pricing.Config {
	cfg := pricing.Default()

	if country := viper.GetString("pricing.country"); country != "" {
		cfg.DefaultCountry = country
	}
	if currency := viper.GetString("pricing.currency"); currency != "" {
		cfg.DefaultCurrency = currency
	}

	// Per-category base rate overrides, e.g. pricing.rates.marketing: 0.04
	for name, rate := range viper.GetStringMap("pricing.rates") {
		cat, ok := model.ParseCategory(name)
		if !ok {
			continue
		}
		if v, ok := rate.(float64); ok && v >= 0 {
			cfg.BaseRates[cat] = v
		}
	}

	return cfg
}

// periodFilter builds a message filter from --from/--to/--days flags.
func periodFilter(from, to string, days int) (service.MessageFilter, error) {
	var filter service.MessageFilter

	if from != "" {
		start, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return filter, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		filter.StartDate = &start
	}
	if to != "" {
		end, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return filter, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		// Make --to inclusive of the whole day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	if filter.StartDate == nil && days > 0 {
		start := time.Now().UTC().AddDate(0, 0, -days)
		filter.StartDate = &start
	}

	return filter, nil
}
