package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pbaille/kalorien/internal/analyzer"
	"github.com/pbaille/kalorien/internal/fetcher"
	"github.com/pbaille/kalorien/internal/photo"
	"github.com/spf13/cobra"
)

func analyzeCmd(open opener) *cobra.Command {
	var (
		save  bool
		notes string
	)

	cmd := &cobra.Command{
		Use:   "analyze [path-or-url]",
		Short: "Estimate the nutrition of a food photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			az, err := a.analyzer()
			if err != nil {
				return err
			}
			session := photo.NewSession(az, fetcher.New(a.cfg.Analyzer.Timeout), a.store, a.now, a.log)

			ctx := cmd.Context()
			if err := capture(ctx, session, args[0]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, "Analyzing... ")
			est, err := session.Analyze(ctx)
			if err != nil {
				fmt.Fprintln(out, "failed")
				return err
			}
			fmt.Fprintln(out, "done")
			fmt.Fprintf(out, "%s: %.0f kcal, protein %.1f g, carbs %.1f g, fat %.1f g\n",
				est.Name, est.Calories, est.Protein, est.Carbs, est.Fat)

			if !save {
				return nil
			}
			entry, err := session.Save(ctx, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved food entry: %s (score %.1f)\n", shortID(entry.ID), entry.HealthScore)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save the estimate as today's food entry")
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the saved entry")
	return cmd
}

func capture(ctx context.Context, session *photo.Session, ref string) error {
	if fetcher.IsURL(ref) {
		_, err := session.CaptureURL(ctx, ref)
		return err
	}

	f, err := os.Open(ref)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, analyzer.MaxImageSize+1))
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	img, err := analyzer.NewImage(data, "")
	if err != nil {
		return err
	}
	session.Capture(img, ref)
	return nil
}
