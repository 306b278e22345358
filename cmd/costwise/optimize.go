package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costwise/costwise/internal/cli"
	"github.com/costwise/costwise/internal/common"
	"github.com/costwise/costwise/internal/costcalc"
	"github.com/costwise/costwise/internal/optimizer"
)

func optimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Generate cost-saving recommendations",
		Long: `Run the optimization analyzers over a period's messages and produce
ranked recommendations plus an overall 0-100 optimization score. Generated
recommendations are persisted so implemented ones can be tracked.`,
		RunE: runOptimize,
	}

	cmd.Flags().String("from", "", "Start date (format: 2006-01-02)")
	cmd.Flags().String("to", "", "End date (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "Analyze the last N days when --from is not set")
	cmd.Flags().String("mark-implemented", "", "Mark a stored recommendation as implemented and exit")

	return cmd
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	days, _ := cmd.Flags().GetInt("days")
	markID, _ := cmd.Flags().GetString("mark-implemented")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	if markID != "" {
		if err := store.MarkRecommendationImplemented(ctx, markID); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Marked %s as implemented", markID)))
		return nil
	}

	filter, err := periodFilter(from, to, days)
	if err != nil {
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
	opt := optimizer.New(cfg)

	analysis := calc.Calculate(messages, calc.DefaultOptions())
	recommendations := opt.GenerateRecommendations(messages, analysis)
	score := opt.Score(messages, analysis)

	if len(recommendations) > 0 {
		if err := store.SaveRecommendations(ctx, recommendations); err != nil {
			return err
		}
	}

	fmt.Println(cli.RenderBox("Optimization", cli.RenderRecommendations(recommendations, score)))
	return nil
}
