package main

import (
	"context"
	"fmt"

	"github.com/nao1215/adoperator/internal/model"
	"github.com/spf13/cobra"
)

// maxCompetitorImages is the number of images the backend hashes per request.
const maxCompetitorImages = 10

// NewCompetitorCmd creates the competitor command group.
func NewCompetitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "competitor",
		Short: "Analyze competitor pages and creatives",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "analyze <url-or-text>",
		Short: "Read a competitor page or creative strategically",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			res, err := a.client.AnalyzeCompetitor(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to analyze competitor: %w", err)
			}
			if s := res.Scraping; s != nil && s.BlockRisk.Level != "" {
				fmt.Fprintf(a.errOut, "Risco de bloqueio: %s %v\n", s.BlockRisk.Level, s.BlockRisk.Terms)
			}
			return a.outputValue(res)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List previous competitor analyses",
		Args:    cobra.NoArgs,
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			list, err := a.client.ListCompetitorAnalyses(ctx)
			if err != nil {
				return fmt.Errorf("failed to list competitor analyses: %w", err)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No competitor analyses found.")
				return nil
			}
			for _, c := range list {
				fmt.Fprintf(a.out, "  %s  %-20s  %s\n", c.ID, c.CreatedAt, c.URL)
			}
			return nil
		}),
	})

	images := &cobra.Command{
		Use:   "images <image-url>...",
		Short: "Compare competitor images with each other and with your creatives",
		Args:  cobra.RangeArgs(1, maxCompetitorImages),
		RunE:  runWithApp(runCompetitorImages),
	}
	images.Flags().String("compare-with", "", "Analysis whose creatives are compared with the images")
	cmd.AddCommand(images)

	return cmd
}

func runCompetitorImages(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	compareWith, err := cmd.Flags().GetString("compare-with")
	if err != nil {
		return err
	}
	res, err := a.client.AnalyzeImages(ctx, model.ImageAnalysisRequest{
		ImageURLs:   args,
		CompareWith: compareWith,
	})
	if err != nil {
		return fmt.Errorf("failed to analyze images: %w", err)
	}

	s := res.Summary
	fmt.Fprintf(a.out, "Imagens: %d (%d processadas)\n", s.TotalImages, s.HashedSuccessfully)
	for _, img := range res.Images {
		fmt.Fprintf(a.out, "  [%s] %s %s\n", img.Status, img.PHash, img.URL)
	}
	if len(res.CrossComparisons) > 0 {
		fmt.Fprintf(a.out, "\nSemelhantes entre si: %d\n", s.SimilarCross)
		for _, c := range res.CrossComparisons {
			if c.IsSimilar {
				fmt.Fprintf(a.out, "  %.1f%%  %s ~ %s\n", c.SimilarityPercent, c.ImageA, c.ImageB)
			}
		}
	}
	if len(res.CreativeComparisons) > 0 {
		fmt.Fprintf(a.out, "\nSemelhantes aos seus criativos: %d\n", s.SimilarToCreatives)
		for _, c := range res.CreativeComparisons {
			if c.IsSimilar {
				fmt.Fprintf(a.out, "  %.1f%%  %s ~ criativo %s v%d (%s)\n",
					c.SimilarityPercent, c.CompetitorURL, c.CreativeID, c.CreativeVersion, c.CreativeProvider)
			}
		}
	}
	return nil
}
