package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/adoperator/internal/model"
	"github.com/spf13/cobra"
)

// NewCreativesCmd creates the creatives command group.
func NewCreativesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creatives",
		Short: "Generate images, videos and briefings for an analysis",
	}

	generate := &cobra.Command{
		Use:   "generate <analysis-id>",
		Short: "Generate a creative from the winning ad",
		Long: `Generate asks the backend for a new creative. Video options are only sent for
the video provider; unsupported sizes and durations fall back to the defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: runWithApp(runCreativesGenerate),
	}
	providers := make([]string, 0, len(model.CreativeProviders()))
	for _, p := range model.CreativeProviders() {
		providers = append(providers, string(p))
	}
	generate.Flags().String("provider", string(model.ProviderNanoBanana),
		"Generator: "+strings.Join(providers, ", "))
	generate.Flags().String("prompt", "", "Extra direction for the generator")
	generate.Flags().String("video-size", model.DefaultVideoSize,
		"Video size: "+strings.Join(model.VideoSizes(), ", "))
	generate.Flags().Int("video-duration", model.DefaultVideoDuration, "Video duration in seconds: 4, 8 or 12")
	generate.Flags().String("hook", "", "Hook template: "+strings.Join(model.HookTemplates(), ", "))
	generate.Flags().String("parent", "", "Creative this one is a new version of")
	cmd.AddCommand(generate)

	cmd.AddCommand(&cobra.Command{
		Use:     "list <analysis-id>",
		Aliases: []string{"ls"},
		Short:   "List the creatives of an analysis",
		Args:    cobra.ExactArgs(1),
		RunE:    runWithApp(runCreativesList),
	})

	return cmd
}

func runCreativesGenerate(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	req := model.CreativeRequest{AnalysisID: args[0]}
	var (
		provider string
		err      error
	)
	if provider, err = flags.GetString("provider"); err != nil {
		return err
	}
	req.Provider = model.CreativeProvider(provider)
	if req.Prompt, err = flags.GetString("prompt"); err != nil {
		return err
	}
	if req.VideoSize, err = flags.GetString("video-size"); err != nil {
		return err
	}
	if req.VideoDuration, err = flags.GetInt("video-duration"); err != nil {
		return err
	}
	if req.HookTemplate, err = flags.GetString("hook"); err != nil {
		return err
	}
	if req.ParentCreativeID, err = flags.GetString("parent"); err != nil {
		return err
	}

	fmt.Fprintln(a.errOut, "… Gerando criativo, isso pode levar alguns minutos")
	c, err := a.client.GenerateCreative(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate creative: %w", err)
	}
	printCreative(a, *c)
	return nil
}

func runCreativesList(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	ws, err := a.client.LoadCreativeWorkspace(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load analysis: %w", err)
	}
	fmt.Fprintf(a.out, "%s (%s)\n\n", ws.Analysis.Product.Name, ws.Analysis.ReachableStep())
	if ws.CreativesErr != nil {
		fmt.Fprintf(a.errOut, "⚠ Não foi possível carregar os criativos: %v\n", ws.CreativesErr)
	}
	if len(ws.Creatives) == 0 {
		fmt.Fprintln(a.out, "No creatives yet.")
		fmt.Fprintf(a.out, "\nUse 'adoperator creatives generate %s' to create one.\n", args[0])
		return nil
	}
	for _, c := range ws.Creatives {
		printCreative(a, c)
	}
	return nil
}

func printCreative(a *app, c model.Creative) {
	fmt.Fprintf(a.out, "  %s  v%d  %s\n", c.ID, c.Version, c.Provider)
	for _, line := range []struct{ label, value string }{
		{"image", c.ImageURL},
		{"video", c.VideoURL},
		{"hook", c.HookTemplate},
		{"parent", c.ParentCreativeID},
	} {
		if line.value != "" {
			fmt.Fprintf(a.out, "      %-7s %s\n", line.label+":", line.value)
		}
	}
}
