package compliance

import (
	"strings"

	"github.com/nao1215/adoperator/internal/model"
	"golang.org/x/text/cases"
)

// Level summarizes how many risky terms were found.
type Level string

const (
	// LevelLow means no risky term was found.
	LevelLow Level = "baixo"
	// LevelMedium means one or two risky terms were found.
	LevelMedium Level = "medio"
	// LevelHigh means three or more risky terms were found.
	LevelHigh Level = "alto"
)

// scorePenalty is subtracted from 100 for each flagged term.
const scorePenalty = 15

// Warning is one flagged term with its rewording suggestion.
type Warning struct {
	Term       string   `json:"termo"`
	Suggestion string   `json:"sugestao"`
	Severity   Severity `json:"severidade"`
}

// Report is the full assessment of a product.
type Report struct {
	Warnings []Warning `json:"riscos"`
	Score    int       `json:"score"`
	Level    Level     `json:"nivel"`
}

// HasHighSeverity reports whether any warning is of high severity.
func (r Report) HasHighSeverity() bool {
	for _, w := range r.Warnings {
		if w.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// Text concatenates the product fields that are checked.
func Text(p model.Product) string {
	return strings.Join([]string{p.Name, p.MainPromise, p.Benefits, p.Mechanism}, " ")
}

// Check returns the risky terms present in the product copy, in list order.
// Each term appears at most once.
func Check(p model.Product) []string {
	return CheckText(Text(p))
}

// CheckText returns the risky terms present in text, in list order.
func CheckText(text string) []string {
	folded := cases.Fold().String(text)
	var found []string
	for _, info := range riskyTerms {
		if strings.Contains(folded, cases.Fold().String(info.Term)) {
			found = append(found, info.Term)
		}
	}
	return found
}

// Assess checks the product and attaches suggestions, severity, score and level.
func Assess(p model.Product) Report {
	return AssessText(Text(p))
}

// AssessText is Assess over free text.
func AssessText(text string) Report {
	terms := CheckText(text)
	report := Report{
		Warnings: make([]Warning, 0, len(terms)),
		Score:    Score(terms),
		Level:    LevelFor(terms),
	}
	for _, term := range terms {
		info, _ := Info(term)
		report.Warnings = append(report.Warnings, Warning{
			Term:       info.Term,
			Suggestion: info.Suggestion,
			Severity:   info.Severity,
		})
	}
	return report
}

// LevelFor maps the number of flagged terms to a level.
func LevelFor(terms []string) Level {
	switch n := len(terms); {
	case n == 0:
		return LevelLow
	case n < 3:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Score is the backend's display score: 100 minus 15 per term, floored at zero.
func Score(terms []string) int {
	return max(0, 100-scorePenalty*len(terms))
}
