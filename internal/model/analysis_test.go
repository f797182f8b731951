package model

import (
	"encoding/json"
	"testing"
)

const fullAnalysisJSON = `{
	"id": "a1",
	"status": "completed",
	"product": {"nome": "X", "nicho": "Y", "promessa_principal": "cura total"},
	"strategic_analysis": {
		"nivel_consciencia": "consciente do problema",
		"dor_central": "queda",
		"objecoes": ["preco", "tempo"],
		"angulo_venda": "autoridade",
		"big_idea": "raiz",
		"mecanismo_percebido": {"nome": "bloqueio"},
		"compliance": {"riscos": [{"termo": "cura", "sugestao": "s", "severidade": "alta"}], "score": 85, "total_riscos": 1},
		"extra": 42
	},
	"ad_variations": {"anuncios": [{"numero": 1, "hipotese": "A", "hook": "h1"}, {"abordagem": "B"}]},
	"audience_simulation": {"simulacao": [{"perfil": "Cetico", "interesse": 7}], "tendencia_geral": "positiva"},
	"decision": {"veredito": {"anuncio_numero": 1, "hook": "h1"}, "motivo": "melhor"}
}`

// TestAnalysisDecode tests lenient decoding of a full analysis record.
func TestAnalysisDecode(t *testing.T) {
	t.Parallel()

	var a Analysis
	if err := json.Unmarshal([]byte(fullAnalysisJSON), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("decodes list values as joined text", func(t *testing.T) {
		t.Parallel()
		if got := a.StrategicAnalysis.Objections; got != "preco, tempo" {
			t.Errorf("got %q, expected %q", got, "preco, tempo")
		}
	})

	t.Run("decodes object values as compact JSON", func(t *testing.T) {
		t.Parallel()
		if got := a.StrategicAnalysis.PerceivedMechanism; got != `{"nome":"bloqueio"}` {
			t.Errorf("got %q", got)
		}
	})

	t.Run("decodes numbers as text", func(t *testing.T) {
		t.Parallel()
		if got := a.AudienceSimulation.Reactions[0].Interest; got != "7" {
			t.Errorf("got %q, expected %q", got, "7")
		}
	})

	t.Run("keeps the backend compliance block", func(t *testing.T) {
		t.Parallel()
		c := a.StrategicAnalysis.Compliance
		if c == nil || c.TotalRisks != 1 || c.Risks[0].Term != "cura" {
			t.Errorf("unexpected compliance: %+v", c)
		}
	})

	t.Run("preserves the verbatim payload", func(t *testing.T) {
		t.Parallel()
		out, err := json.Marshal(a.StrategicAnalysis)
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]any
		if err := json.Unmarshal(out, &m); err != nil {
			t.Fatal(err)
		}
		if m["extra"] != float64(42) {
			t.Errorf("unknown field lost on re-encode: %s", out)
		}
	})

	t.Run("numbers ads by position when absent", func(t *testing.T) {
		t.Parallel()
		ads := a.AdVariations.Ads
		if ads[0].NumberAt(0) != 1 || ads[1].NumberAt(1) != 2 {
			t.Errorf("unexpected numbering")
		}
		if ads[1].Label() != "B" {
			t.Errorf("got label %q, expected approach fallback", ads[1].Label())
		}
	})
}

// TestAnalysisDriftedField tests that a field of the wrong shape does not drop the payload.
func TestAnalysisDriftedField(t *testing.T) {
	t.Parallel()

	var s AudienceSimulation
	data := `{"simulacao": "not a list", "tendencia_geral": "neutra"}`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.GeneralTrend != "neutra" {
		t.Errorf("got %q, expected %q", s.GeneralTrend, "neutra")
	}
	if len(s.Reactions) != 0 {
		t.Errorf("expected no reactions, got %d", len(s.Reactions))
	}
}

// TestAnalysisNullPayloads tests that null payloads mean "not yet computed".
func TestAnalysisNullPayloads(t *testing.T) {
	t.Parallel()

	data := `{"id": "a2", "status": "created", "product": {"nome": "X"},
		"strategic_analysis": null, "ad_variations": null, "audience_simulation": null, "decision": null}`
	var a Analysis
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for step := StepStrategy; step <= StepDecision; step++ {
		if a.Has(step) {
			t.Errorf("step %s should not be available", step)
		}
	}
	if !a.Has(StepProduct) {
		t.Error("product step is always available")
	}
}

// TestAnalysisReachableStep tests that resume never lands on a step without its payload.
func TestAnalysisReachableStep(t *testing.T) {
	t.Parallel()

	strategy := &StrategicAnalysis{}
	ads := &AdVariations{}
	sim := &AudienceSimulation{}
	dec := &Decision{}

	testCases := []struct {
		name     string
		analysis *Analysis
		expected Step
	}{
		{"nil analysis", nil, StepProduct},
		{"created", &Analysis{Status: StatusCreated}, StepProduct},
		{"parsed with strategy", &Analysis{Status: StatusParsed, StrategicAnalysis: strategy}, StepStrategy},
		{"parsed without strategy", &Analysis{Status: StatusParsed}, StepProduct},
		{"completed with all payloads", &Analysis{
			Status: StatusCompleted, StrategicAnalysis: strategy, AdVariations: ads,
			AudienceSimulation: sim, Decision: dec,
		}, StepDecision},
		{"completed missing simulation", &Analysis{
			Status: StatusCompleted, StrategicAnalysis: strategy, AdVariations: ads, Decision: dec,
		}, StepAds},
		{"unknown status with payloads", &Analysis{Status: "weird", StrategicAnalysis: strategy}, StepProduct},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.analysis.ReachableStep()
			if got != tc.expected {
				t.Errorf("got %s, expected %s", got, tc.expected)
			}
			if !tc.analysis.Has(got) {
				t.Errorf("reachable step %s has no payload", got)
			}
		})
	}
}
