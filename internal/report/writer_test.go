package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/adoperator/internal/model"
)

const completedAnalysis = `{
  "id": "a1",
  "status": "completed",
  "product": {
    "nome": "Sérum Firmeza",
    "nicho": "beleza",
    "publico_alvo": "mulheres 35+",
    "promessa_principal": "pele firme garantido em 30 dias",
    "beneficios": "hidratação",
    "ingredientes_mecanismo": "colágeno",
    "tom": "emocional"
  },
  "strategic_analysis": {
    "nivel_consciencia": "consciente do problema",
    "dor_central": "flacidez",
    "objecoes": ["preço", "eficácia"],
    "angulo_venda": "antes e depois",
    "big_idea": "firmeza sem agulhas",
    "mecanismo_percebido": "colágeno ativo"
  },
  "ad_variations": {
    "anuncios": [
      {"numero": 1, "hipotese": "Prova social", "hook": "Ela parou de esconder o rosto", "copy": "Copy A", "roteiro_ugc": "Cena 1"},
      {"numero": 2, "abordagem": "Autoridade", "hook": "Dermatologistas explicam", "copy": "Copy B"}
    ],
    "nota_experimental": "Teste A/B por 7 dias"
  },
  "audience_simulation": {
    "simulacao": [
      {"perfil": "Cética", "interesse": 6, "clareza": 8, "confianca": 5, "probabilidade_clique": "32%", "decisao_provavel": "ignora", "pensamento_interno": "Mais um creme"}
    ],
    "tendencia_geral": "positiva",
    "conflitos_detectados": "Cética x Impulsiva"
  },
  "decision": {
    "veredito": {"anuncio_numero": 2, "pontuacao_final": 87, "frase_principal": "Autoridade vence ceticismo"},
    "ranking": [
      {"anuncio_numero": 2, "pontuacao": 87, "motivo": "confiança"},
      {"anuncio_numero": 1, "pontuacao": 64, "motivo": "clareza"}
    ],
    "consequencias_outras": [{"anuncio_numero": 1, "consequencia": "CPC alto"}],
    "proximo_passo": {"acao": "Escalar anúncio 2", "motivo": "menor resistência"},
    "investimento_recomendacao": "R$ 50/dia"
  }
}`

// createTestAnalysis decodes a completed analysis fixture.
func createTestAnalysis(t *testing.T) *model.Analysis {
	t.Helper()

	var a model.Analysis
	if err := json.Unmarshal([]byte(completedAnalysis), &a); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return &a
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected output to contain %q", w)
		}
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes every computed stage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, buf.String(),
			"ADOPERATOR",
			"completed (Decisão)",
			"Sérum Firmeza",
			"Tom:",
			"Emocional",
			"ESTRATÉGIA",
			"preço, eficácia",
			"[1] Prova social",
			"[2] Autoridade",
			"Cética: clique 32%, decisão ignora",
			"VENCEDOR: anúncio 2 (pontuação 87)",
			"Autoridade vence ceticismo",
			"Escalar anúncio 2",
		)
	})

	t.Run("flags risky product copy", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAnalysis(t)); err != nil {
			t.Fatal(err)
		}
		assertContains(t, buf.String(), "[!] Compliance: risco medio, score 85", "garantido (media)")
	})

	t.Run("verbose mode includes copies and thoughts", func(t *testing.T) {
		t.Parallel()

		var quiet, verbose bytes.Buffer
		a := createTestAnalysis(t)
		if _, err := NewSimpleWriter(&quiet).Write(a); err != nil {
			t.Fatal(err)
		}
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(a); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(quiet.String(), "Copy A") {
			t.Error("copy should be hidden without verbose")
		}
		assertContains(t, verbose.String(), "Copy: Copy A", "Roteiro UGC: Cena 1", `"Mais um creme"`)
	})

	t.Run("pending stages are listed with showEmpty", func(t *testing.T) {
		t.Parallel()

		a := &model.Analysis{ID: "a2", Status: model.StatusCreated, Product: model.Product{Name: "X"}}

		var hidden, shown bytes.Buffer
		if _, err := NewSimpleWriter(&hidden).Write(a); err != nil {
			t.Fatal(err)
		}
		if _, err := NewSimpleWriter(&shown, WithShowEmpty(true)).Write(a); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(hidden.String(), "(pendente)") {
			t.Error("pending stages should be hidden by default")
		}
		if got := strings.Count(shown.String(), "(pendente)"); got != 4 {
			t.Errorf("pending sections = %d, want 4", got)
		}
	})

	t.Run("nil analysis is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := NewSimpleWriter(&bytes.Buffer{}).Write(nil); !errors.Is(err, ErrNilAnalysis) {
			t.Errorf("error = %v, want ErrNilAnalysis", err)
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, a *model.Analysis) string {
		t.Helper()
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return buf.String()
	}

	t.Run("writes header and product table", func(t *testing.T) {
		t.Parallel()

		assertContains(t, write(t, createTestAnalysis(t)),
			"# AdOperator: Sérum Firmeza",
			"`a1`",
			"| Nicho",
			"mulheres 35+",
		)
	})

	t.Run("writes stage sections", func(t *testing.T) {
		t.Parallel()

		assertContains(t, write(t, createTestAnalysis(t)),
			"## Estratégia",
			"## Anúncios",
			"### Anúncio 1: Prova social",
			"**Hook:** Dermatologistas explicam",
			"## Simulação",
			"## Decisão",
			"**Vencedor:** anúncio 2 (pontuação 87)",
			"> Autoridade vence ceticismo",
			"**Hook vencedor:** Dermatologistas explicam",
			"### Próximo passo",
		)
	})

	t.Run("includes ranking table and pie chart", func(t *testing.T) {
		t.Parallel()

		output := write(t, createTestAnalysis(t))
		assertContains(t, output, "### Ranking", "```mermaid", "pie", "Pontuação por anúncio", "Anúncio 2")
	})

	t.Run("pie chart is skipped without numeric scores", func(t *testing.T) {
		t.Parallel()

		a := createTestAnalysis(t)
		a.Decision.Ranking = []model.RankEntry{{AdNumber: "1", Score: "alta"}}
		if strings.Contains(write(t, a), "```mermaid") {
			t.Error("chart written without numeric scores")
		}
	})

	t.Run("includes compliance alert", func(t *testing.T) {
		t.Parallel()

		assertContains(t, write(t, createTestAnalysis(t)), "[!WARNING]", "garantido")

		a := createTestAnalysis(t)
		a.Product.MainPromise = "cura definitiva"
		assertContains(t, write(t, a), "[!CAUTION]")

		a.Product = model.Product{Name: "Chá", Niche: "bem-estar", MainPromise: "rotina leve"}
		assertContains(t, write(t, a), "[!TIP]", "Nenhum termo de risco encontrado.")
	})

	t.Run("table cells stay on one line", func(t *testing.T) {
		t.Parallel()

		a := createTestAnalysis(t)
		a.StrategicAnalysis.CentralPain = "linha 1\n  linha 2"
		assertContains(t, write(t, a), "linha 1 linha 2")
	})

	t.Run("stages not computed are omitted", func(t *testing.T) {
		t.Parallel()

		a := &model.Analysis{ID: "a2", Status: model.StatusCreated, Product: model.Product{Name: "X"}}
		output := write(t, a)
		for _, h := range []string{"## Estratégia", "## Anúncios", "## Simulação", "## Decisão"} {
			if strings.Contains(output, h) {
				t.Errorf("unexpected section %q", h)
			}
		}
		assertContains(t, output, "## Produto", "*Relatório gerado pelo AdOperator*")
	})

	t.Run("legacy decisions are noted", func(t *testing.T) {
		t.Parallel()

		var d model.Decision
		if err := json.Unmarshal([]byte(`{"vencedor":{"anuncio_numero":1},"motivo":"clareza"}`), &d); err != nil {
			t.Fatal(err)
		}
		a := createTestAnalysis(t)
		a.Decision = &d
		assertContains(t, write(t, a), "Decisão gerada no formato antigo.", "> clareza")
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs the payloads verbatim", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAnalysis(t)); err != nil {
			t.Fatal(err)
		}
		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		strategy, ok := got["strategic_analysis"].(map[string]any)
		if !ok {
			t.Fatal("strategic_analysis missing")
		}
		if _, ok := strategy["objecoes"].([]any); !ok {
			t.Errorf("objecoes = %T, want the original list", strategy["objecoes"])
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAnalysis(t)); err != nil {
			t.Fatal(err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected a single line")
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestAnalysis(t)); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n  \"id\": \"a1\"") {
			t.Error("expected two-space indentation")
		}
	})

	t.Run("uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent(">", "\t")).WriteValue(map[string]int{"n": 1}); err != nil {
			t.Fatal(err)
		}
		if got, want := buf.String(), "{\n>\t\"n\": 1\n>}\n"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

// TestFullJSONWriter tests the wrapped JSON writer.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewFullJSONWriter(&buf, "v1.2.3").Write(createTestAnalysis(t)); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Version    string         `json:"version"`
		Step       string         `json:"step"`
		Analysis   map[string]any `json:"analysis"`
		Compliance struct {
			Level string `json:"nivel"`
			Score int    `json:"score"`
		} `json:"compliance"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Version != "v1.2.3" || got.Step != "Decisão" {
		t.Errorf("metadata = %q %q", got.Version, got.Step)
	}
	if got.Analysis["id"] != "a1" {
		t.Errorf("analysis id = %v", got.Analysis["id"])
	}
	if got.Compliance.Level != "medio" || got.Compliance.Score != 85 {
		t.Errorf("compliance = %+v", got.Compliance)
	}
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, md bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewMarkdownWriter(&md))
		n, err := mw.Write(createTestAnalysis(t))
		if err != nil {
			t.Fatal(err)
		}
		if text.Len() == 0 || md.Len() == 0 {
			t.Error("expected output in every writer")
		}
		if n < text.Len() {
			t.Errorf("total %d smaller than text output %d", n, text.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&buf), NewJSONWriter(&buf))
		if _, err := mw.Write(nil); !errors.Is(err, ErrNilAnalysis) {
			t.Errorf("error = %v, want ErrNilAnalysis", err)
		}
		if buf.Len() != 0 {
			t.Error("no writer should have written")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		n, err := NewMultiWriter().Write(createTestAnalysis(t))
		if err != nil || n != 0 {
			t.Errorf("got %d, %v", n, err)
		}
	})
}
