package model

import (
	"encoding/json"
	"time"
)

// Analysis is a single product's end-to-end pass through the five-stage pipeline.
// The backend owns it; the client holds a copy and merges stage payloads into it
// as each stage call succeeds.
//
// Invariant: Status determines which payloads are guaranteed present. A nil
// payload means "not yet computed", never an error.
type Analysis struct {
	ID                 string              `json:"id"`
	Status             Status              `json:"status"`
	Product            Product             `json:"product"`
	StrategicAnalysis  *StrategicAnalysis  `json:"strategic_analysis,omitempty"`
	AdVariations       *AdVariations       `json:"ad_variations,omitempty"`
	AudienceSimulation *AudienceSimulation `json:"audience_simulation,omitempty"`
	Decision           *Decision           `json:"decision,omitempty"`
	StrategyTable      *StrategyTable      `json:"strategy_table,omitempty"`
	MarketComparison   *MarketComparison   `json:"market_comparison,omitempty"`
	PublicToken        string              `json:"public_token,omitempty"`
	CreatedAt          time.Time           `json:"created_at,omitzero"`
}

// Has reports whether the payload required to render step is present.
// StepProduct only needs the product record and is always renderable.
func (a *Analysis) Has(step Step) bool {
	if a == nil {
		return step == StepProduct
	}
	switch step {
	case StepProduct:
		return true
	case StepStrategy:
		return a.StrategicAnalysis != nil
	case StepAds:
		return a.AdVariations != nil
	case StepSimulation:
		return a.AudienceSimulation != nil
	case StepDecision:
		return a.Decision != nil
	default:
		return false
	}
}

// ReachableStep returns the step the analysis resumes at: the status lookup,
// lowered to the highest step whose payloads are all present. A record whose
// status runs ahead of its payloads therefore never opens an empty view.
func (a *Analysis) ReachableStep() Step {
	if a == nil {
		return StepProduct
	}
	target := StepForStatus(a.Status)
	reached := StepProduct
	for step := StepStrategy; step <= target; step++ {
		if !a.Has(step) {
			break
		}
		reached = step
	}
	return reached
}

// StrategicAnalysis is the payload of the parse stage.
type StrategicAnalysis struct {
	ConsciousnessLevel Text              `json:"nivel_consciencia"`
	CentralPain        Text              `json:"dor_central"`
	Objections         Text              `json:"objecoes"`
	SalesAngle         Text              `json:"angulo_venda"`
	BigIdea            Text              `json:"big_idea"`
	PerceivedMechanism Text              `json:"mecanismo_percebido"`
	Compliance         *ComplianceReport `json:"compliance,omitempty"`

	// Raw is the verbatim payload returned by the backend.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StrategicAnalysis) UnmarshalJSON(data []byte) error {
	*s = StrategicAnalysis{Raw: verbatim(data)}
	decodeFields(data, map[string]any{
		"nivel_consciencia":   &s.ConsciousnessLevel,
		"dor_central":         &s.CentralPain,
		"objecoes":            &s.Objections,
		"angulo_venda":        &s.SalesAngle,
		"big_idea":            &s.BigIdea,
		"mecanismo_percebido": &s.PerceivedMechanism,
		"compliance":          &s.Compliance,
	})
	return nil
}

// MarshalJSON implements json.Marshaler and returns the verbatim payload when known.
func (s StrategicAnalysis) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	type alias StrategicAnalysis
	return json.Marshal(alias(s))
}

// ComplianceReport is the backend compliance check attached to the strategy.
type ComplianceReport struct {
	Risks      []ComplianceRisk `json:"riscos"`
	Score      int              `json:"score"`
	TotalRisks int              `json:"total_riscos"`
}

// ComplianceRisk is one risky term found by the backend.
type ComplianceRisk struct {
	Term       string `json:"termo"`
	Suggestion string `json:"sugestao"`
	Severity   string `json:"severidade"`
}

// AdVariations is the payload of the generate stage.
type AdVariations struct {
	Ads              []Ad `json:"anuncios"`
	ExperimentalNote Text `json:"nota_experimental"`

	// Raw is the verbatim payload returned by the backend.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *AdVariations) UnmarshalJSON(data []byte) error {
	*v = AdVariations{Raw: verbatim(data)}
	decodeFields(data, map[string]any{
		"anuncios":          &v.Ads,
		"nota_experimental": &v.ExperimentalNote,
	})
	return nil
}

// MarshalJSON implements json.Marshaler and returns the verbatim payload when known.
func (v AdVariations) MarshalJSON() ([]byte, error) {
	if len(v.Raw) > 0 {
		return v.Raw, nil
	}
	type alias AdVariations
	return json.Marshal(alias(v))
}

// Ad is one generated ad hypothesis.
type Ad struct {
	Number             Text    `json:"numero"`
	Hypothesis         Text    `json:"hipotese"`
	Approach           Text    `json:"abordagem"`
	StructuralApproach Text    `json:"abordagem_estrutural"`
	IndicatedAudience  Text    `json:"publico_indicado"`
	Hook               Text    `json:"hook"`
	Copy               Text    `json:"copy"`
	UGCScript          Text    `json:"roteiro_ugc"`
	Strengths          Text    `json:"pontos_fortes"`
	Weaknesses         Text    `json:"pontos_fracos"`
	PredictiveMetrics  Payload `json:"metricas_preditivas,omitempty"`
}

// Label returns the hypothesis label, falling back to the approach.
func (a Ad) Label() Text {
	return a.Hypothesis.Or(a.Approach)
}

// Structure returns the structural approach, falling back to the approach.
func (a Ad) Structure() Text {
	return a.StructuralApproach.Or(a.Approach)
}

// NumberAt returns the ad number, or the 1-based position when absent.
func (a Ad) NumberAt(index int) int {
	if n, ok := a.Number.Int(); ok {
		return n
	}
	return index + 1
}

// AudienceSimulation is the payload of the simulate stage.
type AudienceSimulation struct {
	Reactions         []ProfileReaction `json:"simulacao"`
	GeneralTrend      Text              `json:"tendencia_geral"`
	DetectedConflicts Text              `json:"conflitos_detectados"`

	// Raw is the verbatim payload returned by the backend.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *AudienceSimulation) UnmarshalJSON(data []byte) error {
	*s = AudienceSimulation{Raw: verbatim(data)}
	decodeFields(data, map[string]any{
		"simulacao":            &s.Reactions,
		"tendencia_geral":      &s.GeneralTrend,
		"conflitos_detectados": &s.DetectedConflicts,
	})
	return nil
}

// MarshalJSON implements json.Marshaler and returns the verbatim payload when known.
func (s AudienceSimulation) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	type alias AudienceSimulation
	return json.Marshal(alias(s))
}

// ProfileReaction is one simulated audience profile reacting to the ads.
type ProfileReaction struct {
	Profile          Text `json:"perfil"`
	InnerThought     Text `json:"pensamento_interno"`
	EmotionalResp    Text `json:"reacao_emocional"`
	Interest         Text `json:"interesse"`
	Clarity          Text `json:"clareza"`
	Trust            Text `json:"confianca"`
	ClickProbability Text `json:"probabilidade_clique"`
	LikelyDecision   Text `json:"decisao_provavel"`
	WouldClickIf     Text `json:"o_que_faria_clicar"`
}
