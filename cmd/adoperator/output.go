package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/adoperator/internal/model"
	"github.com/nao1215/adoperator/internal/report"
	"github.com/spf13/cobra"
)

// addReportFlags adds the export format flags to cmd.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("show-empty", false, "List stages that have not run yet")
}

// readReportFlags copies the export flags into the configuration.
func (a *app) readReportFlags(cmd *cobra.Command) error {
	var err error
	if a.cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if a.cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if a.cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	return a.cfg.Validate()
}

// openReport returns the report destination: the configured file, or stdout.
func (a *app) openReport() (io.Writer, func() error, error) {
	if a.cfg.ReportFile == "" {
		return a.out, func() error { return nil }, nil
	}
	dir := filepath.Dir(a.cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	// Reports may carry unpublished copy, so only the owner can read them.
	f, err := os.OpenFile(a.cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// outputReport renders an analysis in the requested format.
func (a *app) outputReport(cmd *cobra.Command, an *model.Analysis) error {
	if err := a.readReportFlags(cmd); err != nil {
		return err
	}
	showEmpty, err := cmd.Flags().GetBool("show-empty")
	if err != nil {
		return err
	}

	output, closeFn, err := a.openReport()
	if err != nil {
		return err
	}

	var w report.Writer
	switch {
	case a.cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case a.cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output,
			report.WithShowEmpty(showEmpty),
			report.WithVerbose(a.cfg.Verbose),
		)
	}
	_, err = w.Write(an)
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if a.cfg.ReportFile != "" {
		fmt.Fprintf(a.errOut, "Report written to %s\n", a.cfg.ReportFile)
	}
	return nil
}

// outputValue prints v as indented JSON.
func (a *app) outputValue(v any) error {
	return writeJSON(a.out, v)
}

func writeJSON(w io.Writer, v any) error {
	_, err := report.NewJSONWriter(w, report.WithPrettyPrint()).WriteValue(v)
	return err
}
