package model

import "fmt"

// Status is the backend-owned marker of the furthest completed stage of an analysis.
// Statuses are strictly ordered and only move forward.
type Status string

const (
	// StatusCreated is assigned when the product record is submitted.
	StatusCreated Status = "created"
	// StatusParsed is assigned after the strategic interpretation.
	StatusParsed Status = "parsed"
	// StatusGenerated is assigned after the ad variants are generated.
	StatusGenerated Status = "generated"
	// StatusSimulated is assigned after the audience simulation.
	StatusSimulated Status = "simulated"
	// StatusCompleted is the terminal status, assigned after the decision.
	StatusCompleted Status = "completed"
)

// statusSteps is the fixed lookup table used to resume a wizard.
var statusSteps = map[Status]Step{
	StatusCreated:   StepProduct,
	StatusParsed:    StepStrategy,
	StatusGenerated: StepAds,
	StatusSimulated: StepSimulation,
	StatusCompleted: StepDecision,
}

// StepForStatus maps a status to the wizard step index it resumes at.
// The function is total: an unknown or empty status resumes at StepProduct.
func StepForStatus(s Status) Step {
	if step, ok := statusSteps[s]; ok {
		return step
	}
	return StepProduct
}

// Step returns the wizard step for the status. See StepForStatus.
func (s Status) Step() Step {
	return StepForStatus(s)
}

// Known reports whether s is one of the five defined statuses.
func (s Status) Known() bool {
	_, ok := statusSteps[s]
	return ok
}

// Step is a wizard step index in the range 0-4.
type Step int

const (
	// StepProduct collects the product record.
	StepProduct Step = iota
	// StepStrategy shows the strategic analysis.
	StepStrategy
	// StepAds shows the generated ad variants.
	StepAds
	// StepSimulation shows the audience simulation.
	StepSimulation
	// StepDecision shows the final decision.
	StepDecision
)

// StepCount is the number of wizard steps.
const StepCount = 5

var stepLabels = [StepCount]string{"Produto", "Estratégia", "Anúncios", "Simulação", "Decisão"}

// String returns the step label shown in the stepper.
func (s Step) String() string {
	if s < StepProduct || s > StepDecision {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepLabels[s]
}

// Status returns the status an analysis holds once the step has been reached.
func (s Step) Status() Status {
	switch s {
	case StepStrategy:
		return StatusParsed
	case StepAds:
		return StatusGenerated
	case StepSimulation:
		return StatusSimulated
	case StepDecision:
		return StatusCompleted
	default:
		return StatusCreated
	}
}

// Labels returns the labels of all steps in order.
func Labels() []string {
	out := make([]string, StepCount)
	copy(out, stepLabels[:])
	return out
}
