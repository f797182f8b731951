package model

import "encoding/json"

// Decision is the payload of the decide stage, normalized to a single shape.
//
// Two verdict shapes exist in the wild: the canonical "veredito" object and the
// deprecated "vencedor" object emitted by older prompts. Both carry the same
// fields. UnmarshalJSON reads either one into Verdict and sets Legacy when the
// deprecated key was used. MarshalJSON always writes the canonical shape.
type Decision struct {
	Verdict                  Verdict       `json:"veredito"`
	Reason                   Text          `json:"motivo,omitempty"`
	OtherConsequences        []Consequence `json:"consequencias_outras,omitempty"`
	InvestmentRecommendation Text          `json:"investimento_recomendacao,omitempty"`
	NextStep                 *NextStep     `json:"proximo_passo,omitempty"`
	ImprovementSuggestion    Text          `json:"sugestao_melhoria,omitempty"`
	LandingPage              *LandingPage  `json:"estrutura_lp,omitempty"`
	CompatibleAudience       Text          `json:"publico_compativel,omitempty"`
	Ranking                  []RankEntry   `json:"ranking,omitempty"`
	PossibleImprovements     []Text        `json:"melhorias_possiveis,omitempty"`

	// Legacy is true when the verdict was read from the deprecated "vencedor" key.
	Legacy bool `json:"-"`
}

// Verdict is the winning ad and the reasoning behind it.
type Verdict struct {
	AdNumber          Text `json:"anuncio_numero,omitempty"`
	Hook              Text `json:"hook,omitempty"`
	Copy              Text `json:"copy,omitempty"`
	UGCScript         Text `json:"roteiro_ugc,omitempty"`
	FinalScore        Text `json:"pontuacao_final,omitempty"`
	MainPhrase        Text `json:"frase_principal,omitempty"`
	CausalExplanation Text `json:"explicacao_causal,omitempty"`
}

// IsZero reports whether no verdict field is set.
func (v Verdict) IsZero() bool {
	return v == Verdict{}
}

// Consequence describes what would happen if a losing ad were chosen.
type Consequence struct {
	AdNumber    Text `json:"anuncio_numero"`
	Consequence Text `json:"consequencia"`
}

// NextStep is the recommended follow-up action.
type NextStep struct {
	Action Text `json:"acao"`
	Reason Text `json:"motivo"`
}

// LandingPage is the suggested landing page structure.
type LandingPage struct {
	Headline    Text `json:"headline"`
	Subheadline Text `json:"subheadline"`
}

// RankEntry is one ad's position in the final ranking.
type RankEntry struct {
	AdNumber Text `json:"anuncio_numero"`
	Score    Text `json:"pontuacao"`
	Reason   Text `json:"motivo,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decision) UnmarshalJSON(data []byte) error {
	var canonical, legacy *Verdict
	*d = Decision{}
	decodeFields(data, map[string]any{
		"veredito":                  &canonical,
		"vencedor":                  &legacy,
		"motivo":                    &d.Reason,
		"consequencias_outras":      &d.OtherConsequences,
		"investimento_recomendacao": &d.InvestmentRecommendation,
		"proximo_passo":             &d.NextStep,
		"sugestao_melhoria":         &d.ImprovementSuggestion,
		"estrutura_lp":              &d.LandingPage,
		"publico_compativel":        &d.CompatibleAudience,
		"ranking":                   &d.Ranking,
		"melhorias_possiveis":       &d.PossibleImprovements,
	})

	switch {
	case canonical != nil:
		d.Verdict = *canonical
	case legacy != nil:
		d.Verdict = *legacy
		d.Legacy = true
	}

	d.Verdict.MainPhrase = d.Verdict.MainPhrase.Or(d.Reason)
	d.Verdict.CausalExplanation = d.Verdict.CausalExplanation.Or(d.Reason)
	return nil
}

// MarshalJSON implements json.Marshaler and always writes the canonical shape.
func (d Decision) MarshalJSON() ([]byte, error) {
	type alias Decision
	return json.Marshal(alias(d))
}

// WinnerAd returns the ad the verdict points at, if the number matches one.
func (d *Decision) WinnerAd(ads *AdVariations) (Ad, bool) {
	if d == nil || ads == nil {
		return Ad{}, false
	}
	n, ok := d.Verdict.AdNumber.Int()
	if !ok {
		return Ad{}, false
	}
	for i, ad := range ads.Ads {
		if ad.NumberAt(i) == n {
			return ad, true
		}
	}
	return Ad{}, false
}
