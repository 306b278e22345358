package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/costwise/costwise/internal/classifier"
	"github.com/costwise/costwise/internal/cli"
	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/costcalc"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/service"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Classify imported messages into billing categories",
		Long: `Run the rule-based classifier over every message without a category and
persist the assigned category plus its per-message cost.`,
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	messages, err := store.GetUnclassifiedMessages(ctx)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		fmt.Println(cli.FormatSuccess("All messages are already classified"))
		return nil
	}

	cfg := pricingConfig()
	clf := classifier.New(cfg)
	calc := costcalc.New(cfg)

	stats := service.ClassifyStats{
		TotalMessages: len(messages),
		ByCategory:    make(map[model.Category]int),
	}
	start := time.Now()

	bar := progressbar.Default(int64(len(messages)), "classifying")
	for _, msg := range messages {
		result := clf.Classify(msg)
		msg.Category = result.Category
		common.LogDebug("Classified message", common.Fields{
			"id":         msg.ID,
			"category":   result.Category,
			"confidence": result.Confidence,
			"rule":       result.Reasoning,
		})

		// Per-message cost at the undiscounted rate; volume discounts are a
		// period-level concern applied by the calculator.
		cost := 0.0
		if !calc.IsMessageFree(msg) {
			cost = cfg.RateFor(result.Category, cfg.DefaultCountry)
		}

		if err := store.UpdateMessageClassification(ctx, msg.ID, result.Category, cost); err != nil {
			return err
		}

		stats.Classified++
		stats.ByCategory[result.Category]++
		_ = bar.Add(1)
	}

	stats.Duration = time.Since(start)
	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Classified %d messages in %s", stats.Classified, stats.Duration.Round(time.Millisecond))))
	fmt.Println(cli.FormatTitle("By category"))
	for _, cat := range model.AllCategories {
		if n := stats.ByCategory[cat]; n > 0 {
			fmt.Printf("  %-16s %d\n", cat, n)
		}
	}

	return nil
}
