package main

import (
	"context"
	"fmt"

	"github.com/nao1215/adoperator/internal/model"
	"github.com/spf13/cobra"
)

// NewRadarCmd creates the radar command.
func NewRadarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "radar",
		Short: "Show the trend radar across your analyses",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runRadar),
	}
	cmd.Flags().BoolP("generate", "g", false, "Build a new radar instead of showing the latest")
	cmd.Flags().BoolP("json", "j", false, "Output the radar as JSON")
	return cmd
}

func runRadar(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	generate, err := cmd.Flags().GetBool("generate")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	var r *model.RadarReport
	if generate {
		r, err = a.client.GenerateRadar(ctx)
	} else {
		r, err = a.client.LatestRadar(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load radar: %w", err)
	}
	if r == nil {
		fmt.Fprintln(a.out, "No radar yet.")
		fmt.Fprintln(a.out, "\nUse 'adoperator radar --generate' to build one.")
		return nil
	}
	if asJSON {
		return a.outputValue(r)
	}

	if r.CreatedAt != "" {
		fmt.Fprintf(a.out, "Radar de tendências (%s)\n\n", r.CreatedAt)
	} else {
		fmt.Fprint(a.out, "Radar de tendências\n\n")
	}
	fmt.Fprintln(a.out, r.Summary)
	for _, section := range []struct {
		title string
		items []model.Text
	}{
		{"Mudanças de mercado", r.MarketChanges},
		{"Recomendações", r.Recommendations},
	} {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "\n%s:\n", section.title)
		for _, item := range section.items {
			fmt.Fprintf(a.out, "  • %s\n", item)
		}
	}
	return nil
}
