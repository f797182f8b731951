package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/adoperator/internal/compliance"
	"github.com/nao1215/adoperator/internal/model"
)

// JSONWriter outputs analyses in JSON format.
// Stage payloads are written verbatim as the backend returned them.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the analysis in JSON format.
func (w *JSONWriter) Write(a *model.Analysis) (int, error) {
	if a == nil {
		return 0, ErrNilAnalysis
	}
	return w.writeJSON(a)
}

// WriteValue outputs any JSON-encodable value with the writer's formatting.
func (w *JSONWriter) WriteValue(v any) (int, error) {
	return w.writeJSON(v)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps an analysis with client-side metadata.
type JSONReport struct {
	// Version is the adoperator version that wrote the report.
	Version string `json:"version"`

	// Step is the step the analysis resumes at.
	Step string `json:"step"`

	// Analysis is the record as returned by the backend.
	Analysis *model.Analysis `json:"analysis"`

	// Compliance is the local assessment of the product copy.
	Compliance compliance.Report `json:"compliance"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(a *model.Analysis, version string) *JSONReport {
	return &JSONReport{
		Version:    version,
		Step:       a.ReachableStep().String(),
		Analysis:   a,
		Compliance: compliance.Assess(a.Product),
	}
}

// FullJSONWriter outputs analyses wrapped with metadata.
type FullJSONWriter struct {
	*JSONWriter

	// version is the adoperator version string.
	version string
}

// NewFullJSONWriter creates a writer for wrapped analyses.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the analysis wrapped with metadata.
func (w *FullJSONWriter) Write(a *model.Analysis) (int, error) {
	if a == nil {
		return 0, ErrNilAnalysis
	}
	return w.writeJSON(NewJSONReport(a, w.version))
}
