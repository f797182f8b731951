package compliance

// Severity is the risk weight of a flagged term.
type Severity string

const (
	// SeverityHigh marks absolute health or efficacy claims.
	SeverityHigh Severity = "alta"
	// SeverityMedium marks softer overpromises.
	SeverityMedium Severity = "media"
)

// TermInfo describes a risky term.
type TermInfo struct {
	Term       string
	Severity   Severity
	Suggestion string
}

// riskyTerms is the fixed term list in display order.
var riskyTerms = []TermInfo{
	{Term: "cura", Severity: SeverityHigh, Suggestion: "Use 'auxilia no tratamento' ou 'contribui para melhora'"},
	{Term: "curar", Severity: SeverityHigh, Suggestion: "Use 'auxiliar no tratamento'"},
	{Term: "100%", Severity: SeverityHigh, Suggestion: "Evite porcentagens absolutas. Use 'alta eficácia'"},
	{Term: "garantido", Severity: SeverityMedium, Suggestion: "Use 'resultados variam' / 'compromisso com qualidade'"},
	{Term: "milagroso", Severity: SeverityHigh, Suggestion: "Evite. Use termos mais moderados"},
	{Term: "elimina", Severity: SeverityMedium, Suggestion: "Use 'ajuda a reduzir' ou 'contribui para diminuir'"},
	{Term: "remove", Severity: SeverityMedium, Suggestion: "Use 'auxilia na redução' ou 'contribui para minimizar'"},
	{Term: "definitivo", Severity: SeverityMedium, Suggestion: "Evite promessa absoluta"},
	{Term: "nunca mais", Severity: SeverityHigh, Suggestion: "Evite promessa absoluta"},
	{Term: "para sempre", Severity: SeverityHigh, Suggestion: "Evite promessa absoluta"},
	{Term: "sem efeitos colaterais", Severity: SeverityHigh, Suggestion: "Use 'bem tolerado' / 'perfil favorável'"},
}

// Terms returns the risky-term list in display order.
func Terms() []string {
	out := make([]string, len(riskyTerms))
	for i, info := range riskyTerms {
		out[i] = info.Term
	}
	return out
}

// Info returns the metadata for a term. Unknown terms report false.
func Info(term string) (TermInfo, bool) {
	for _, info := range riskyTerms {
		if info.Term == term {
			return info, true
		}
	}
	return TermInfo{}, false
}
