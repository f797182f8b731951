package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/adoperator/internal/compliance"
	"github.com/nao1215/adoperator/internal/model"
	"github.com/nao1215/adoperator/internal/wizard"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// productFlags maps product flags to the wire field names.
var productFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"name", "nome", "Product name"},
	{"niche", "nicho", "Market niche"},
	{"audience", "publico_alvo", "Target audience"},
	{"promise", "promessa_principal", "Main promise"},
	{"benefits", "beneficios", "Benefits"},
	{"mechanism", "ingredientes_mecanismo", "Ingredients or mechanism"},
	{"tone", "tom", "Copy tone"},
}

// stepNames are the accepted --until values, indexed by step.
var stepNames = [model.StepCount][]string{
	{"product", "produto"},
	{"strategy", "estrategia"},
	{"ads", "anuncios"},
	{"simulation", "simulacao"},
	{"decision", "decisao"},
}

// parseStep parses a step name or index.
func parseStep(s string) (model.Step, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < model.StepCount {
		return model.Step(n), nil
	}
	for i, names := range stepNames {
		if slices.Contains(names, s) {
			return model.Step(i), nil
		}
	}
	return model.StepProduct, fmt.Errorf("unknown step %q: use strategy, ads, simulation or decision", s)
}

// NewAnalysisCmd creates the analysis command group.
func NewAnalysisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analysis",
		Aliases: []string{"a"},
		Short:   "Create, advance and export analyses",
		Long: `Analysis drives a product through the stages product, strategy, ads,
simulation and decision. Every stage is one backend call; a failed stage leaves
the analysis where it was and can be retried.

Examples:
  # Create an analysis and run it to the decision
  adoperator analysis new --name "Sérum X" --niche skincare --promise "pele firme" --until decision

  # Continue an existing analysis from where it stopped
  adoperator analysis resume 3f2a... --until decision

  # Export the completed analysis as Markdown
  adoperator analysis show 3f2a... -m -o report.md`,
	}

	cmd.AddCommand(newAnalysisNewCmd())
	cmd.AddCommand(newAnalysisResumeCmd())
	cmd.AddCommand(newAnalysisStageCmd("generate", "Generate the ad variations", (*wizard.Flow).Generate))
	cmd.AddCommand(newAnalysisStageCmd("simulate", "Simulate the audience reactions", (*wizard.Flow).Simulate))
	cmd.AddCommand(newAnalysisStageCmd("decide", "Compute the final decision", (*wizard.Flow).Decide))
	cmd.AddCommand(newAnalysisRefineCmd())
	cmd.AddCommand(newAnalysisShowCmd())
	cmd.AddCommand(newAnalysisListCmd())
	cmd.AddCommand(newAnalysisDeleteCmd())
	cmd.AddCommand(newAnalysisStrategyTableCmd())
	cmd.AddCommand(newAnalysisShareCmd())
	cmd.AddCommand(newAnalysisImproveCmd())
	cmd.AddCommand(newAnalysisMarketCmd())

	return cmd
}

// newFlow returns a wizard flow reporting to c.
func (a *app) newFlow(c *console) *wizard.Flow {
	return wizard.New(a.client,
		wizard.WithNotifier(c),
		wizard.WithLoadingObserver(c.Loading),
		wizard.WithRotatorOptions(wizard.WithInterval(a.cfg.LoadingInterval)),
		wizard.WithAppURL(a.cfg.AppURL),
		wizard.WithLogger(a.logger),
	)
}

// snapshot stores the flow's analysis locally. Failures are logged only.
func (a *app) snapshot(ctx context.Context, f *wizard.Flow) {
	an := f.Analysis()
	if an == nil || an.ID == "" {
		return
	}
	if err := a.db.SaveAnalysis(ctx, an); err != nil {
		a.logger.Warn("failed to save analysis snapshot", "id", an.ID, "error", err)
	}
}

// advance runs the stages after the flow's current step up to until.
func (a *app) advance(ctx context.Context, f *wizard.Flow, until model.Step) error {
	for f.Step() < until {
		var err error
		switch f.Step() {
		case model.StepProduct:
			err = f.Submit(ctx)
		case model.StepStrategy:
			err = f.Generate(ctx)
		case model.StepAds:
			err = f.Simulate(ctx)
		case model.StepSimulation:
			err = f.Decide(ctx)
		default:
			return nil
		}
		a.snapshot(ctx, f)
		if err != nil {
			return err
		}
	}
	return nil
}

func untilFlag(cmd *cobra.Command) (model.Step, error) {
	until, err := cmd.Flags().GetString("until")
	if err != nil {
		return model.StepProduct, err
	}
	return parseStep(until)
}

// addProductFlags adds one flag per product field.
func addProductFlags(cmd *cobra.Command) {
	for _, f := range productFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with the product record")
}

// productFromFlags reads the product file, if any, then applies the flags.
func productFromFlags(cmd *cobra.Command, base model.Product) (model.Product, error) {
	p := base
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return p, err
	}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // User-provided product path is intentional
		if err != nil {
			return p, fmt.Errorf("failed to read product file: %w", err)
		}
		var fromFile model.Product
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return p, fmt.Errorf("failed to parse product file %s: %w", path, err)
		}
		p = p.Merge(fromFile)
	}
	for _, f := range productFlags {
		v, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return p, err
		}
		if cmd.Flags().Changed(f.flag) {
			p.Set(f.field, v)
		}
	}
	if !p.Tone.Valid() {
		return p, fmt.Errorf("unknown tone %q: use one of %s", p.Tone, joinTones())
	}
	return p, nil
}

func joinTones() string {
	tones := model.Tones()
	names := make([]string, len(tones))
	for i, t := range tones {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// warnCompliance prints the risky terms found in the product copy.
func (a *app) warnCompliance(p model.Product) {
	r := compliance.Assess(p)
	if len(r.Warnings) == 0 {
		return
	}
	fmt.Fprintf(a.errOut, "⚠ Termos de risco para plataformas de anúncio (risco %s, score %d):\n", r.Level, r.Score)
	for _, w := range r.Warnings {
		fmt.Fprintf(a.errOut, "  - %q: %s\n", w.Term, w.Suggestion)
	}
}

func newAnalysisNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an analysis from a product",
		Long: `New submits a product and runs the strategy stage. Use --until to keep going.

Required fields are name, niche and promise. Values from --file are applied
first, then the individual flags. --example starts from a built-in example.`,
		Args: cobra.NoArgs,
		RunE: runWithApp(runAnalysisNew),
	}
	addProductFlags(cmd)
	cmd.Flags().Bool("example", false, "Start from a random built-in example product")
	cmd.Flags().StringP("until", "u", "strategy", "Last stage to run: strategy, ads, simulation or decision")
	addReportFlags(cmd)
	return cmd
}

func runAnalysisNew(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	until, err := untilFlag(cmd)
	if err != nil {
		return err
	}
	if until == model.StepProduct {
		until = model.StepStrategy
	}

	var base model.Product
	example, err := cmd.Flags().GetBool("example")
	if err != nil {
		return err
	}
	if example {
		base = model.RandomExample()
	}
	p, err := productFromFlags(cmd, base)
	if err != nil {
		return err
	}
	a.warnCompliance(p)

	f := a.newFlow(newConsole(a.errOut, cmd.InOrStdin()))
	f.SetProduct(p)
	runErr := a.advance(ctx, f, until)
	if an := f.Analysis(); an != nil && an.ID != "" {
		fmt.Fprintf(a.errOut, "Análise %s em %s\n", an.ID, f.Step())
		if err := a.outputReport(cmd, an); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// resumeFlow opens analysis id on a fresh flow.
func (a *app) resumeFlow(ctx context.Context, cmd *cobra.Command, id string) (*wizard.Flow, error) {
	f := a.newFlow(newConsole(a.errOut, cmd.InOrStdin()))
	if err := f.Resume(ctx, id); err != nil {
		return nil, err
	}
	a.snapshot(ctx, f)
	return f, nil
}

func newAnalysisResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume an analysis at its furthest available stage",
		Args:  cobra.ExactArgs(1),
		RunE:  runWithApp(runAnalysisResume),
	}
	cmd.Flags().StringP("until", "u", "", "Run the remaining stages up to this one")
	addReportFlags(cmd)
	return cmd
}

func runAnalysisResume(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	f, err := a.resumeFlow(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "Análise %s em %s\n", args[0], f.Step())

	var runErr error
	if cmd.Flags().Changed("until") {
		until, err := untilFlag(cmd)
		if err != nil {
			return err
		}
		runErr = a.advance(ctx, f, until)
	}
	if err := a.outputReport(cmd, f.Analysis()); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// newAnalysisStageCmd creates a command that resumes an analysis and runs one
// stage on it. Running a stage again replaces its previous result.
func newAnalysisStageCmd(use, short string, run func(*wizard.Flow, context.Context) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			f, err := a.resumeFlow(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			err = run(f, ctx)
			a.snapshot(ctx, f)
			if err != nil {
				return err
			}
			return a.outputReport(cmd, f.Analysis())
		}),
	}
	addReportFlags(cmd)
	return cmd
}

func newAnalysisRefineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine <id>",
		Short: "Edit the product and regenerate the ads",
		Long: `Refine updates the product fields given as flags and generates a new set of
ad variations. Saving the product is best effort: the ads are regenerated even
when the update is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: runWithApp(runAnalysisRefine),
	}
	addProductFlags(cmd)
	addReportFlags(cmd)
	return cmd
}

func runAnalysisRefine(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	f, err := a.resumeFlow(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	p, err := productFromFlags(cmd, f.Product())
	if err != nil {
		return err
	}
	a.warnCompliance(p)
	err = f.Refine(ctx, p)
	a.snapshot(ctx, f)
	if err != nil {
		return err
	}
	return a.outputReport(cmd, f.Analysis())
}

func newAnalysisShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"export"},
		Short:   "Print or export an analysis",
		Args:    cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			an, err := a.client.GetAnalysis(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", wizard.MsgNotFound, err)
			}
			if err := a.db.SaveAnalysis(ctx, an); err != nil {
				a.logger.Warn("failed to save analysis snapshot", "id", an.ID, "error", err)
			}
			return a.outputReport(cmd, an)
		}),
	}
	addReportFlags(cmd)
	return cmd
}

func newAnalysisListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your analyses",
		Args:    cobra.NoArgs,
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			list, err := a.client.ListAnalyses(ctx)
			if err != nil {
				return fmt.Errorf("failed to list analyses: %w", err)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No analyses found.")
				fmt.Fprintln(a.out, "\nUse 'adoperator analysis new' to create one.")
				return nil
			}
			fmt.Fprintf(a.out, "Analyses (%d):\n\n", len(list))
			fmt.Fprintf(a.out, "  %-36s  %-11s  %-10s  %s\n", "ID", "Status", "Stage", "Product")
			fmt.Fprintln(a.out, "  "+strings.Repeat("-", 78))
			for _, an := range list {
				fmt.Fprintf(a.out, "  %-36s  %-11s  %-10s  %s\n",
					an.ID, an.Status, an.ReachableStep(), an.Product.Name)
			}
			return nil
		}),
	}
}

func newAnalysisDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an analysis",
		Args:    cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			if err := a.client.DeleteAnalysis(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete analysis: %w", err)
			}
			fmt.Fprintf(a.out, "Deleted analysis %s\n", args[0])
			return nil
		}),
	}
}

func newAnalysisStrategyTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy-table <id>",
		Short: "Build the per-profile strategy table",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			f, err := a.resumeFlow(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := f.LoadStrategyTable(ctx); err != nil {
				return err
			}
			a.snapshot(ctx, f)
			return a.outputReport(cmd, f.Analysis())
		}),
	}
	addReportFlags(cmd)
	return cmd
}

func newAnalysisShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Publish the decision and print its public link",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			f, err := a.resumeFlow(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			link, err := f.Share(ctx)
			if err != nil {
				return err
			}
			a.snapshot(ctx, f)
			fmt.Fprintln(a.out, link)
			return nil
		}),
	}
}

func newAnalysisImproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "improve <id>",
		Short: "Create an improved version of a completed analysis",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			f, err := a.resumeFlow(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			next, err := f.Improve(ctx)
			if err != nil {
				return err
			}
			a.snapshot(ctx, f)
			fmt.Fprintf(a.errOut, "Nova análise %s em %s\n", next.ID, f.Step())
			return a.outputReport(cmd, next)
		}),
	}
	addReportFlags(cmd)
	return cmd
}

func newAnalysisMarketCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "market <id>",
		Short: "Compare the strategy with what the niche runs today",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
			m, err := a.client.MarketCompare(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to compare with the market: %w", err)
			}
			return a.outputValue(m)
		}),
	}
}
