package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show analyses saved on this machine",
		Long: `History reads the local snapshots written after every stage. It works
offline; the snapshot reflects the analysis as of the last command that touched it.

Examples:
  # List saved snapshots
  adoperator history

  # Print a saved snapshot as Markdown
  adoperator history 3f2a... -m`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWithApp(runHistory),
	}
	addReportFlags(cmd)
	return cmd
}

func runHistory(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		an, err := a.db.GetAnalysis(ctx, args[0])
		if err != nil {
			return err
		}
		if an == nil {
			return fmt.Errorf("no snapshot saved for %s", args[0])
		}
		return a.outputReport(cmd, an)
	}

	list, err := a.db.ListAnalyses(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No saved analyses found.")
		fmt.Fprintln(a.out, "\nSnapshots are saved by 'adoperator analysis' commands.")
		return nil
	}

	fmt.Fprintf(a.out, "Saved analyses (%d):\n\n", len(list))
	fmt.Fprintf(a.out, "  %-36s  %-20s  %-11s  %s\n", "ID", "Saved", "Status", "Product")
	fmt.Fprintln(a.out, "  "+strings.Repeat("-", 88))
	for _, s := range list {
		fmt.Fprintf(a.out, "  %-36s  %-20s  %-11s  %s\n",
			s.ID, s.SavedAt.Format("2006-01-02 15:04:05"), s.Status, s.ProductName)
	}
	fmt.Fprintln(a.out, "\nUse 'adoperator history <id>' to print a snapshot.")
	return nil
}
