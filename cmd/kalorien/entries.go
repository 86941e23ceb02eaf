package main

import (
	"fmt"
	"strings"

	"github.com/pbaille/kalorien/internal/entries"
	"github.com/spf13/cobra"
)

func foodCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Add, list and delete food entries",
	}
	cmd.AddCommand(foodAddCmd(open), foodListCmd(open), foodDeleteCmd(open))
	return cmd
}

func foodAddCmd(open opener) *cobra.Command {
	var (
		in       entries.FoodInput
		calories float64
		score    float64
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a food entry",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				in.Name = strings.Join(args, " ")
			}
			if cmd.Flags().Changed("calories") {
				in.Calories = &calories
			}
			if cmd.Flags().Changed("score") {
				in.HealthScore = &score
			}

			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := entries.NewFoodEntry(in, a.now())
			if err != nil {
				return err
			}
			if err := a.store.SaveFoodEntry(cmd.Context(), entry); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added food entry: %s\n", shortID(entry.ID))
			fmt.Fprintf(out, "%s  %s  %.0f kcal  score %.1f\n", entry.Date, entry.Name, entry.Calories, entry.HealthScore)
			return nil
		},
	}

	cmd.Flags().Float64Var(&calories, "calories", 0, "calories in kcal (required)")
	cmd.Flags().Float64Var(&in.Protein, "protein", 0, "protein in grams")
	cmd.Flags().Float64Var(&in.Carbs, "carbs", 0, "carbohydrates in grams")
	cmd.Flags().Float64Var(&in.Fat, "fat", 0, "fat in grams")
	cmd.Flags().Float64Var(&score, "score", 0, "health score 0-10 (computed from macros if omitted)")
	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	return cmd
}

func foodListCmd(open opener) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List food entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.store.FoodEntries(cmd.Context())
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No food entries yet. Use 'kalorien food add' to create one.")
				return nil
			}

			for _, e := range list {
				if date != "" && e.Date != date {
					continue
				}
				fmt.Fprintf(out, "%s  %s  %6.0f kcal  P %5.1f  C %5.1f  F %5.1f  score %4.1f  %s\n",
					shortID(e.ID), e.Date, e.Calories, e.Protein, e.Carbs, e.Fat, e.HealthScore, truncate(e.Name, 40))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only show entries of this day (YYYY-MM-DD)")
	return cmd
}

func foodDeleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a food entry by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ids := make([]string, 0)
			for _, e := range a.store.FoodEntries(cmd.Context()) {
				ids = append(ids, e.ID)
			}
			id, err := resolveID(args[0], ids)
			if err != nil {
				return err
			}
			if _, err := a.store.DeleteFoodEntry(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food entry: %s\n", shortID(id))
			return nil
		},
	}
}

func weightCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Add, list and delete weight entries",
	}
	cmd.AddCommand(weightAddCmd(open), weightListCmd(open), weightDeleteCmd(open))
	return cmd
}

func weightAddCmd(open opener) *cobra.Command {
	var in entries.WeightInput

	cmd := &cobra.Command{
		Use:   "add [kg]",
		Short: "Add a weight entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kg, err := parseFloat(args[0])
			if err != nil {
				return fmt.Errorf("weight: %w", err)
			}
			in.Weight = &kg

			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := entries.NewWeightEntry(in, a.now())
			if err != nil {
				return err
			}
			if err := a.store.SaveWeightEntry(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added weight entry: %s  %s  %.1f kg\n", shortID(entry.ID), entry.Date, entry.Weight)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	return cmd
}

func weightListCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List weight entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.store.WeightEntries(cmd.Context())
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No weight entries yet. Use 'kalorien weight add' to create one.")
				return nil
			}
			for _, e := range list {
				fmt.Fprintf(out, "%s  %s  %5.1f kg  %s\n", shortID(e.ID), e.Date, e.Weight, truncate(e.Notes, 40))
			}
			return nil
		},
	}
}

func weightDeleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a weight entry by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ids := make([]string, 0)
			for _, e := range a.store.WeightEntries(cmd.Context()) {
				ids = append(ids, e.ID)
			}
			id, err := resolveID(args[0], ids)
			if err != nil {
				return err
			}
			if _, err := a.store.DeleteWeightEntry(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted weight entry: %s\n", shortID(id))
			return nil
		},
	}
}
