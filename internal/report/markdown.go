package report

import (
	"io"
	"strconv"

	"github.com/nao1215/adoperator/internal/compliance"
	"github.com/nao1215/adoperator/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs analyses in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs every computed section of the analysis.
func (w *MarkdownWriter) Write(a *model.Analysis) (int, error) {
	if a == nil {
		return 0, ErrNilAnalysis
	}
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, a)
	w.writeProduct(md, a.Product)
	w.writeCompliance(md, a.Product)
	if a.StrategicAnalysis != nil {
		w.writeStrategy(md, a.StrategicAnalysis)
	}
	if a.StrategyTable != nil && len(a.StrategyTable.Profiles) > 0 {
		w.writeStrategyTable(md, a.StrategyTable)
	}
	if a.AdVariations != nil {
		w.writeAds(md, a.AdVariations)
	}
	if a.AudienceSimulation != nil {
		w.writeSimulation(md, a.AudienceSimulation)
	}
	if a.Decision != nil {
		w.writeDecision(md, a)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, a *model.Analysis) {
	md.H1("AdOperator: " + orDash(a.Product.Name))
	md.PlainText("")

	rows := [][]string{
		{"Análise", "`" + orDash(a.ID) + "`"},
		{"Status", statusText(a)},
	}
	if !a.CreatedAt.IsZero() {
		rows = append(rows, []string{"Criada em", a.CreatedAt.Format("2006-01-02 15:04 MST")})
	}
	md.Table(markdown.TableSet{Header: []string{"Propriedade", "Valor"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeProduct(md *markdown.Markdown, p model.Product) {
	md.H2(model.StepProduct.String())
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Campo", "Valor"},
		Rows: [][]string{
			{"Nome", orDash(p.Name)},
			{"Nicho", orDash(p.Niche)},
			{"Público-alvo", orDash(p.TargetAudience)},
			{"Promessa principal", orDash(p.MainPromise)},
			{"Benefícios", orDash(p.Benefits)},
			{"Ingredientes / mecanismo", orDash(p.Mechanism)},
			{"Tom", toneText(p.Tone)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCompliance(md *markdown.Markdown, p model.Product) {
	r := compliance.Assess(p)
	switch {
	case len(r.Warnings) == 0:
		md.Tip("Nenhum termo de risco encontrado.")
	case r.HasHighSeverity():
		md.Cautionf("Termos de alto risco encontrados: %s (score %d, risco %s).", joinTerms(r), r.Score, r.Level)
	default:
		md.Warningf("Termos de risco encontrados: %s (score %d, risco %s).", joinTerms(r), r.Score, r.Level)
	}
	md.PlainText("")
	if len(r.Warnings) == 0 {
		return
	}

	rows := make([][]string, len(r.Warnings))
	for i, warn := range r.Warnings {
		rows[i] = []string{warn.Term, string(warn.Severity), warn.Suggestion}
	}
	md.Table(markdown.TableSet{Header: []string{"Termo", "Severidade", "Sugestão"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStrategy(md *markdown.Markdown, s *model.StrategicAnalysis) {
	md.H2(model.StepStrategy.String())
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Dimensão", "Leitura"},
		Rows: [][]string{
			{"Nível de consciência", cell(s.ConsciousnessLevel)},
			{"Dor central", cell(s.CentralPain)},
			{"Objeções", cell(s.Objections)},
			{"Ângulo de venda", cell(s.SalesAngle)},
			{"Big idea", cell(s.BigIdea)},
			{"Mecanismo percebido", cell(s.PerceivedMechanism)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStrategyTable(md *markdown.Markdown, t *model.StrategyTable) {
	md.H3("Tabela estratégica")
	md.PlainText("")
	rows := make([][]string, len(t.Profiles))
	for i, p := range t.Profiles {
		rows[i] = []string{cell(p.Name), cell(p.Approach), cell(p.Motivation), cell(p.Strengths), cell(p.Weaknesses)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Perfil", "Abordagem", "Motivação", "Pontos fortes", "Pontos fracos"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAds(md *markdown.Markdown, v *model.AdVariations) {
	md.H2(model.StepAds.String())
	md.PlainText("")
	if len(v.Ads) == 0 {
		md.PlainText("Nenhum anúncio gerado.")
		md.PlainText("")
		return
	}

	for i, ad := range v.Ads {
		md.H3("Anúncio " + strconv.Itoa(ad.NumberAt(i)) + ": " + orDash(ad.Label().String()))
		md.PlainText("")
		md.PlainTextf("**Hook:** %s", orDash(ad.Hook.String()))
		md.PlainText("")
		if ad.Copy != "" {
			md.PlainText(ad.Copy.String())
			md.PlainText("")
		}
		items := []string{
			"Estrutura: " + orDash(ad.Structure().String()),
			"Público indicado: " + orDash(ad.IndicatedAudience.String()),
			"Pontos fortes: " + orDash(ad.Strengths.String()),
			"Pontos fracos: " + orDash(ad.Weaknesses.String()),
		}
		md.BulletList(items...)
		md.PlainText("")
		if ad.UGCScript != "" {
			md.Details("Roteiro UGC", ad.UGCScript.String())
			md.PlainText("")
		}
	}
	if v.ExperimentalNote != "" {
		md.Note(v.ExperimentalNote.String())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSimulation(md *markdown.Markdown, s *model.AudienceSimulation) {
	md.H2(model.StepSimulation.String())
	md.PlainText("")

	if len(s.Reactions) > 0 {
		rows := make([][]string, len(s.Reactions))
		for i, r := range s.Reactions {
			rows[i] = []string{
				cell(r.Profile),
				cell(r.Interest),
				cell(r.Clarity),
				cell(r.Trust),
				cell(r.ClickProbability),
				cell(r.LikelyDecision),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Perfil", "Interesse", "Clareza", "Confiança", "Prob. clique", "Decisão provável"},
			Rows:   rows,
		})
		md.PlainText("")
	}
	if s.GeneralTrend != "" {
		md.PlainTextf("**Tendência geral:** %s", s.GeneralTrend)
		md.PlainText("")
	}
	if s.DetectedConflicts != "" {
		md.Importantf("Conflitos detectados: %s", s.DetectedConflicts)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeDecision(md *markdown.Markdown, a *model.Analysis) {
	d := a.Decision
	md.H2(model.StepDecision.String())
	md.PlainText("")

	v := d.Verdict
	md.PlainTextf("**Vencedor:** anúncio %s (pontuação %s)", orDash(v.AdNumber.String()), orDash(v.FinalScore.String()))
	md.PlainText("")
	if v.MainPhrase != "" {
		md.PlainTextf("> %s", v.MainPhrase)
		md.PlainText("")
	}
	if v.CausalExplanation != "" && v.CausalExplanation != v.MainPhrase {
		md.PlainText(v.CausalExplanation.String())
		md.PlainText("")
	}
	if ad, ok := d.WinnerAd(a.AdVariations); ok {
		md.PlainTextf("**Hook vencedor:** %s", orDash(ad.Hook.String()))
		md.PlainText("")
	}

	if len(d.Ranking) > 0 {
		w.writeRanking(md, d.Ranking)
	}

	if len(d.OtherConsequences) > 0 {
		md.H3("Consequências das outras escolhas")
		md.PlainText("")
		items := make([]string, len(d.OtherConsequences))
		for i, c := range d.OtherConsequences {
			items[i] = "Anúncio " + orDash(c.AdNumber.String()) + ": " + orDash(c.Consequence.String())
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if d.NextStep != nil && d.NextStep.Action != "" {
		md.H3("Próximo passo")
		md.PlainText("")
		md.PlainText(d.NextStep.Action.String())
		if d.NextStep.Reason != "" {
			md.PlainText("")
			md.PlainText(d.NextStep.Reason.String())
		}
		md.PlainText("")
	}
	if d.InvestmentRecommendation != "" {
		md.Tip(d.InvestmentRecommendation.String())
		md.PlainText("")
	}
	if d.LandingPage != nil && d.LandingPage.Headline != "" {
		md.Details("Estrutura de landing page", d.LandingPage.Headline.String()+"\n\n"+d.LandingPage.Subheadline.String())
		md.PlainText("")
	}
	if d.Legacy {
		md.Note("Decisão gerada no formato antigo.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeRanking(md *markdown.Markdown, ranking []model.RankEntry) {
	md.H3("Ranking")
	md.PlainText("")

	rows := make([][]string, len(ranking))
	for i, r := range ranking {
		rows[i] = []string{strconv.Itoa(i + 1), cell(r.AdNumber), cell(r.Score), cell(r.Reason)}
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Anúncio", "Pontuação", "Motivo"}, Rows: rows})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pontuação por anúncio"),
		piechart.WithShowData(true),
	)
	plotted := 0
	for _, r := range ranking {
		score, ok := r.Score.Int()
		if !ok || score <= 0 {
			continue
		}
		chart.LabelAndIntValue("Anúncio "+r.AdNumber.String(), uint64(score))
		plotted++
	}
	if plotted == 0 {
		return
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Relatório gerado pelo AdOperator*")
}
