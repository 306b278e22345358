package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/costwise/costwise/internal/cli"
	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/predictor"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast future spend and savings",
		Long: `Fit a trend over stored daily summaries and forecast future spend,
savings, and plan-upgrade ROI. Run 'report --save-summaries' first to build
the historical series.`,
		RunE: runForecast,
	}

	cmd.Flags().IntP("history-days", "H", 90, "Days of history to fit against")
	cmd.Flags().IntP("predict-days", "p", 30, "Days ahead to predict")
	cmd.Flags().IntP("months", "m", 6, "Months of forecast to generate")
	cmd.Flags().Bool("track", false, "Show realized vs potential savings")
	cmd.Flags().String("plan", "", "Estimate upgrade ROI to this plan (growth, business, enterprise)")
	cmd.Flags().String("current-plan", "starter", "Current subscription plan")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	historyDays, _ := cmd.Flags().GetInt("history-days")
	predictDays, _ := cmd.Flags().GetInt("predict-days")
	months, _ := cmd.Flags().GetInt("months")
	track, _ := cmd.Flags().GetBool("track")
	targetPlan, _ := cmd.Flags().GetString("plan")
	currentPlan, _ := cmd.Flags().GetString("current-plan")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -historyDays)
	history, err := store.GetDailySummaries(ctx, start, end)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return common.NewUserError(
			"no daily summaries stored; run 'costwise report --save-summaries' first",
			common.ErrInsufficientData)
	}

	pred := predictor.New(pricingConfig())

	prediction := pred.PredictFuture(history, predictDays)
	fmt.Println(cli.RenderBox("Prediction", cli.RenderPrediction(prediction)))

	forecast := pred.Forecast(history, months)
	fmt.Println(cli.RenderBox("Forecast", cli.RenderForecast(forecast)))

	if track {
		recommendations, recErr := store.GetRecommendations(ctx, true)
		if recErr != nil {
			return recErr
		}
		tracking := pred.TrackSavings(history, recommendations)
		fmt.Printf("Savings: %.4f realized of %.4f potential (%.1f%%) over %d days, %d recommendations implemented\n",
			tracking.ActualSavings, tracking.PotentialSavings,
			tracking.SavingsRate*100, tracking.DaysTracked,
			tracking.ImplementedRecommendations)
	}

	if targetPlan != "" {
		roi := pred.PlanROI(history, currentPlan, targetPlan)
		verdict := cli.FormatWarning("Upgrade not recommended yet")
		if roi.UpgradeRecommended {
			verdict = cli.FormatSuccess("Upgrade recommended")
		}
		fmt.Printf("%s: %s plan at %.0f/mo projects %.4f/mo savings (net %.4f, break-even %d days)\n",
			verdict, roi.TargetPlan, roi.PlanCost, roi.ProjectedMonthlySavings,
			roi.NetBenefit, roi.BreakEvenDays)
	}

	return nil
}
