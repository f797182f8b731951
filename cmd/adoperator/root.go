package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for AdOperator.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adoperator",
		Short: "Marketing copy decisions from the terminal",
		Long: `AdOperator drives a product through the five analysis stages of the
AdOperator service: product, strategy, ads, audience simulation and decision.

Each stage is one backend call. Analyses can be resumed at the furthest stage
whose results are available, exported as text, Markdown or JSON, and shared
through a public link.

Run 'adoperator serve' to start the local offline worker in front of the web app.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("log-json", false, "Write logs as JSON")
	pf.StringP("config", "c", "",
		"Configuration file path (default: .adoperator in current or home directory)")
	pf.StringP("profile", "P", "", "Configuration profile to apply")
	pf.String("api-url", "", "Backend API base URL (overrides the configuration file)")
	pf.String("lang", "", "Response language: pt, en or es")
	pf.String("db-dir", "", "State database directory (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewMeCmd())
	cmd.AddCommand(NewAnalysisCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewPublicCmd())
	cmd.AddCommand(NewCompetitorCmd())
	cmd.AddCommand(NewCreativesCmd())
	cmd.AddCommand(NewRadarCmd())
	cmd.AddCommand(NewMediaCmd())
	cmd.AddCommand(NewComplianceCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPushCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
