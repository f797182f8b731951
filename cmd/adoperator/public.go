package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewPublicCmd creates the public command.
func NewPublicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "public <token>",
		Short: "Open a shared analysis without signing in",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			an, err := a.client.Public(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load public analysis: %w", err)
			}
			return a.outputReport(cmd, an)
		}),
	}
	addReportFlags(cmd)
	return cmd
}
