package report

import (
	"errors"
	"io"
	"strings"

	"github.com/nao1215/adoperator/internal/compliance"
	"github.com/nao1215/adoperator/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNilAnalysis is returned when a writer is given no analysis.
var ErrNilAnalysis = errors.New("no analysis to write")

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the analysis to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(a *model.Analysis) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the analysis to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(a *model.Analysis) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(a)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

var titleCase = cases.Title(language.BrazilianPortuguese)

// statusText returns the status with the step it resumes at.
func statusText(a *model.Analysis) string {
	if a.Status == "" {
		return "-"
	}
	return string(a.Status) + " (" + a.ReachableStep().String() + ")"
}

func toneText(t model.Tone) string {
	if t == "" {
		return "-"
	}
	return titleCase.String(string(t))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// cell flattens a free-form value into a single table cell.
func cell(t model.Text) string {
	s := strings.Join(strings.Fields(t.String()), " ")
	return strings.ReplaceAll(orDash(s), "|", `\|`)
}

func joinTerms(r compliance.Report) string {
	terms := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		terms[i] = w.Term
	}
	return strings.Join(terms, ", ")
}
