package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pbaille/kalorien/internal/export"
	"github.com/pbaille/kalorien/internal/nutrition"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

func dashboardCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's calories, the last weight and recent trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sum := a.dashboard().Summary(cmd.Context())
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Today (%s): %.0f kcal in %d entries\n", sum.Date, sum.TodaysCalories, sum.TodaysEntries)
			if sum.LastWeight != nil {
				fmt.Fprintf(out, "Last weight: %.1f kg on %s\n", sum.LastWeight.Weight, sum.LastWeight.Date)
			} else {
				fmt.Fprintln(out, "Last weight: none recorded")
			}

			fmt.Fprintln(out, "\nCalories, last 7 days:")
			maxKcal := 0.0
			for _, d := range sum.Week {
				maxKcal = max(maxKcal, d.Calories)
			}
			for _, d := range sum.Week {
				fmt.Fprintf(out, "  %s  %6.0f  %s\n", d.Date, d.Calories, bar(d.Calories, maxKcal, 30))
			}

			fmt.Fprintln(out, "\nWeight, last 30 days:")
			if len(sum.Month) == 0 {
				fmt.Fprintln(out, "  no entries")
			}
			for _, w := range sum.Month {
				fmt.Fprintf(out, "  %s  %5.1f kg\n", w.Date, w.Weight)
			}
			return nil
		},
	}
}

func bar(v, maxV float64, width int) string {
	if maxV <= 0 || v <= 0 {
		return ""
	}
	n := int(v / maxV * float64(width))
	return strings.Repeat("#", max(n, 1))
}

func scoreCmd() *cobra.Command {
	var protein, carbs, fat float64

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the health score of a macronutrient split",
		RunE: func(cmd *cobra.Command, args []string) error {
			if protein < 0 || carbs < 0 || fat < 0 {
				return fmt.Errorf("macronutrients must not be negative")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f\n", nutrition.HealthScore(protein, carbs, fat))
			return nil
		},
	}

	cmd.Flags().Float64Var(&protein, "protein", 0, "protein in grams")
	cmd.Flags().Float64Var(&carbs, "carbs", 0, "carbohydrates in grams")
	cmd.Flags().Float64Var(&fat, "fat", 0, "fat in grams")
	return cmd
}

func exportCmd(open opener) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:       "export [food|weight|all]",
		Short:     "Export entries to an Excel workbook",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"food", "weight", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			var (
				f    *excelize.File
				name string
			)
			switch args[0] {
			case "food":
				f, err = export.Food(a.store.FoodEntries(ctx))
				name = export.FoodFile
			case "weight":
				f, err = export.Weight(a.store.WeightEntries(ctx))
				name = export.WeightFile
			default:
				f, err = export.All(a.store.FoodEntries(ctx), a.store.WeightEntries(ctx))
				name = export.AllFile
			}
			if err != nil {
				return err
			}
			defer f.Close()

			path := filepath.Join(dir, name)
			if err := f.SaveAs(path); err != nil {
				return fmt.Errorf("save workbook: %w", err)
			}
			a.log.WithField("path", path).Info("export written")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "out", "o", ".", "output directory")
	return cmd
}
