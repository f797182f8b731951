package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/adoperator/internal/compliance"
	"github.com/nao1215/adoperator/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether stages without a payload are listed.
	showEmpty bool

	// verbose adds copies, scripts and inner thoughts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list stages not yet computed.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the analysis in human-readable format.
func (w *SimpleWriter) Write(a *model.Analysis) (int, error) {
	if a == nil {
		return 0, ErrNilAnalysis
	}
	var sb strings.Builder

	w.writeHeader(&sb, a)
	w.writeProduct(&sb, a.Product)

	sections := []struct {
		present bool
		step    model.Step
		write   func(*strings.Builder, *model.Analysis)
	}{
		{a.StrategicAnalysis != nil, model.StepStrategy, w.writeStrategy},
		{a.AdVariations != nil, model.StepAds, w.writeAds},
		{a.AudienceSimulation != nil, model.StepSimulation, w.writeSimulation},
		{a.Decision != nil, model.StepDecision, w.writeDecision},
	}
	for _, s := range sections {
		switch {
		case s.present:
			section(&sb, s.step.String())
			s.write(&sb, a)
		case w.showEmpty:
			section(&sb, s.step.String())
			sb.WriteString("  (pendente)\n\n")
		}
	}

	w.writeFooter(&sb)
	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(strings.ToUpper(title))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func field(sb *strings.Builder, label string, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(sb, "  %-22s %s\n", label+":", value)
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, a *model.Analysis) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                           ADOPERATOR\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Análise: %s\n", orDash(a.ID))
	fmt.Fprintf(sb, "Status:  %s\n", statusText(a))
	if !a.CreatedAt.IsZero() {
		fmt.Fprintf(sb, "Criada:  %s\n", a.CreatedAt.Format("2006-01-02 15:04 MST"))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeProduct(sb *strings.Builder, p model.Product) {
	section(sb, model.StepProduct.String())
	field(sb, "Nome", p.Name)
	field(sb, "Nicho", p.Niche)
	field(sb, "Público-alvo", p.TargetAudience)
	field(sb, "Promessa principal", p.MainPromise)
	field(sb, "Benefícios", p.Benefits)
	field(sb, "Mecanismo", p.Mechanism)
	if p.Tone != "" {
		field(sb, "Tom", toneText(p.Tone))
	}
	sb.WriteString("\n")

	r := compliance.Assess(p)
	if len(r.Warnings) == 0 {
		return
	}
	fmt.Fprintf(sb, "  [!] Compliance: risco %s, score %d\n", r.Level, r.Score)
	for _, warn := range r.Warnings {
		fmt.Fprintf(sb, "      - %s (%s): %s\n", warn.Term, warn.Severity, warn.Suggestion)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeStrategy(sb *strings.Builder, a *model.Analysis) {
	s := a.StrategicAnalysis
	field(sb, "Nível de consciência", s.ConsciousnessLevel.String())
	field(sb, "Dor central", s.CentralPain.String())
	field(sb, "Objeções", s.Objections.String())
	field(sb, "Ângulo de venda", s.SalesAngle.String())
	field(sb, "Big idea", s.BigIdea.String())
	field(sb, "Mecanismo percebido", s.PerceivedMechanism.String())
	sb.WriteString("\n")

	if a.StrategyTable == nil {
		return
	}
	for _, p := range a.StrategyTable.Profiles {
		fmt.Fprintf(sb, "  * %s: %s\n", orDash(p.Name.String()), orDash(p.Approach.String()))
	}
	if len(a.StrategyTable.Profiles) > 0 {
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeAds(sb *strings.Builder, a *model.Analysis) {
	for i, ad := range a.AdVariations.Ads {
		fmt.Fprintf(sb, "  [%d] %s\n", ad.NumberAt(i), orDash(ad.Label().String()))
		fmt.Fprintf(sb, "      Hook: %s\n", orDash(ad.Hook.String()))
		if w.verbose {
			if ad.Copy != "" {
				fmt.Fprintf(sb, "      Copy: %s\n", ad.Copy)
			}
			if ad.UGCScript != "" {
				fmt.Fprintf(sb, "      Roteiro UGC: %s\n", ad.UGCScript)
			}
		}
	}
	if note := a.AdVariations.ExperimentalNote; note != "" {
		fmt.Fprintf(sb, "\n  Nota: %s\n", note)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSimulation(sb *strings.Builder, a *model.Analysis) {
	s := a.AudienceSimulation
	for _, r := range s.Reactions {
		fmt.Fprintf(sb, "  * %s: clique %s, decisão %s\n",
			orDash(r.Profile.String()), orDash(r.ClickProbability.String()), orDash(r.LikelyDecision.String()))
		if w.verbose && r.InnerThought != "" {
			fmt.Fprintf(sb, "      \"%s\"\n", r.InnerThought)
		}
	}
	if len(s.Reactions) > 0 {
		sb.WriteString("\n")
	}
	field(sb, "Tendência geral", s.GeneralTrend.String())
	field(sb, "Conflitos", s.DetectedConflicts.String())
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDecision(sb *strings.Builder, a *model.Analysis) {
	d := a.Decision
	fmt.Fprintf(sb, "  VENCEDOR: anúncio %s (pontuação %s)\n",
		orDash(d.Verdict.AdNumber.String()), orDash(d.Verdict.FinalScore.String()))
	if d.Verdict.MainPhrase != "" {
		fmt.Fprintf(sb, "  %s\n", d.Verdict.MainPhrase)
	}
	if w.verbose && d.Verdict.CausalExplanation != "" && d.Verdict.CausalExplanation != d.Verdict.MainPhrase {
		fmt.Fprintf(sb, "  %s\n", d.Verdict.CausalExplanation)
	}
	sb.WriteString("\n")

	for i, r := range d.Ranking {
		fmt.Fprintf(sb, "  %d. anúncio %s: %s\n", i+1, orDash(r.AdNumber.String()), orDash(r.Score.String()))
	}
	if len(d.Ranking) > 0 {
		sb.WriteString("\n")
	}
	if d.NextStep != nil {
		field(sb, "Próximo passo", d.NextStep.Action.String())
	}
	field(sb, "Investimento", d.InvestmentRecommendation.String())
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
