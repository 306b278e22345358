package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/costwise/costwise/internal/cli"
	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/costcalc"
	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "View cost breakdown reports",
		Long: `Compute the cost breakdown for a period: per-category counts and costs,
free vs paid volume, and the volume discount's effect. Optionally compare
against the preceding period of the same length.`,
		RunE: runReport,
	}

	cmd.Flags().String("from", "", "Start date (format: 2006-01-02)")
	cmd.Flags().String("to", "", "End date (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "Analyze the last N days when --from is not set")
	cmd.Flags().String("country", "", "Country code for rates (default from config)")
	cmd.Flags().Bool("compare", false, "Compare against the preceding period")
	cmd.Flags().Bool("discounts", false, "Show the volume discount breakdown")
	cmd.Flags().Bool("save-summaries", false, "Persist per-day summaries for forecasting")

	_ = viper.BindPFlag("report.days", cmd.Flags().Lookup("days"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	days := viper.GetInt("report.days")
	country, _ := cmd.Flags().GetString("country")
	compare, _ := cmd.Flags().GetBool("compare")
	showDiscounts, _ := cmd.Flags().GetBool("discounts")
	saveSummaries, _ := cmd.Flags().GetBool("save-summaries")

	filter, err := periodFilter(from, to, days)
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	messages, err := store.GetMessages(ctx, filter)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return common.NewUserError(
			"no messages found in the selected period; run 'costwise import' first",
			common.ErrNoMessages)
	}

	cfg := pricingConfig()
	calc := costcalc.New(cfg)
	opts := calc.DefaultOptions()
	if country != "" {
		opts.Country = country
	}

	breakdown := calc.Calculate(messages, opts)
	fmt.Println(cli.RenderBox("Cost Breakdown", cli.RenderBreakdown(breakdown)))

	if showDiscounts {
		discount := calc.WithDiscountBreakdown(messages, opts)
		fmt.Printf("Volume tier %s (%.0f%%): saving %.4f %s\n",
			discount.Tier, discount.DiscountRate*100, discount.DiscountAmount, opts.Currency)
	}

	if compare {
		previous, prevErr := store.GetMessages(ctx, previousPeriod(filter))
		if prevErr != nil {
			return prevErr
		}
		comparison := calc.ComparePeriods(messages, previous, opts)
		fmt.Println(cli.RenderBox("Period Comparison", cli.RenderComparison(comparison)))
	}

	if saveSummaries {
		daily := calc.DailyCosts(messages, opts)
		for _, day := range daily {
			date, parseErr := time.Parse(time.DateOnly, day.Date)
			if parseErr != nil {
				return parseErr
			}
			summary := model.DailySummary{
				Date:          date,
				TotalCost:     day.Breakdown.TotalCost,
				TotalMessages: day.Breakdown.MessageCount,
				FreeMessages:  day.Breakdown.FreeMessages,
				PaidMessages:  day.Breakdown.PaidMessages,
				Breakdown:     day.Breakdown.Breakdown,
			}
			if err := store.SaveDailySummary(ctx, summary); err != nil {
				return err
			}
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %d daily summaries", len(daily))))
	}

	return nil
}

// previousPeriod shifts a filter back by its own length, so a 30-day window
// compares against the 30 days before it.
func previousPeriod(filter service.MessageFilter) service.MessageFilter {
	start := time.Now().UTC().AddDate(0, 0, -30)
	if filter.StartDate != nil {
		start = *filter.StartDate
	}
	end := time.Now().UTC()
	if filter.EndDate != nil {
		end = *filter.EndDate
	}

	length := end.Sub(start)
	prevEnd := start.Add(-time.Nanosecond)
	prevStart := prevEnd.Add(-length)

	previous := filter
	previous.StartDate = &prevStart
	previous.EndDate = &prevEnd
	return previous
}
