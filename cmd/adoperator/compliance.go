package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/adoperator/internal/compliance"
	"github.com/spf13/cobra"
)

// NewComplianceCmd creates the compliance command.
func NewComplianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance [text]",
		Short: "Check copy for terms ad platforms tend to reject",
		Long: `Compliance looks for risky claims such as "cura" or "100%" in the given text,
or in stdin when no text is given. The check runs locally; --remote asks the
backend instead.

Examples:
  adoperator compliance "Resultado garantido em 7 dias"
  cat copy.txt | adoperator compliance --remote`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompliance,
	}
	cmd.Flags().BoolP("remote", "r", false, "Use the backend compliance check")
	cmd.Flags().BoolP("json", "j", false, "Output the result as JSON")
	return cmd
}

func runCompliance(cmd *cobra.Command, args []string) error {
	text, err := complianceText(cmd, args)
	if err != nil {
		return err
	}
	remote, err := cmd.Flags().GetBool("remote")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	if remote {
		return runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			r, err := a.client.CheckCompliance(ctx, text)
			if err != nil {
				return fmt.Errorf("compliance check failed: %w", err)
			}
			if asJSON {
				return a.outputValue(r)
			}
			fmt.Fprintf(a.out, "Score: %d, riscos: %d\n", r.Score, r.TotalRisks)
			for _, risk := range r.Risks {
				fmt.Fprintf(a.out, "  - %s (%s): %s\n", risk.Term, risk.Severity, risk.Suggestion)
			}
			return nil
		})(cmd, args)
	}

	r := compliance.AssessText(text)
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, r)
	}
	if len(r.Warnings) == 0 {
		fmt.Fprintln(out, "Nenhum termo de risco encontrado.")
		return nil
	}
	fmt.Fprintf(out, "Risco %s, score %d\n", r.Level, r.Score)
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "  - %s (%s): %s\n", w.Term, w.Severity, w.Suggestion)
	}
	return nil
}

// complianceText returns the argument, or stdin when there is none.
func complianceText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("no text to check: pass it as an argument or on stdin")
	}
	return text, nil
}
