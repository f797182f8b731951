package model

import "testing"

// TestStepForStatus tests the status to step lookup used on resume.
func TestStepForStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status   Status
		expected Step
	}{
		{StatusCreated, StepProduct},
		{StatusParsed, StepStrategy},
		{StatusGenerated, StepAds},
		{StatusSimulated, StepSimulation},
		{StatusCompleted, StepDecision},
		{"", StepProduct},
		{"archived", StepProduct},
		{"COMPLETED", StepProduct},
	}

	for _, tc := range testCases {
		t.Run("status "+string(tc.status), func(t *testing.T) {
			t.Parallel()
			if got := StepForStatus(tc.status); got != tc.expected {
				t.Errorf("got %d, expected %d", got, tc.expected)
			}
			if got := tc.status.Step(); got != tc.expected {
				t.Errorf("Status.Step() got %d, expected %d", got, tc.expected)
			}
		})
	}
}

// TestStepIndexes tests that step indexes match the wizard positions 0 to 4.
func TestStepIndexes(t *testing.T) {
	t.Parallel()

	if StepProduct != 0 || StepStrategy != 1 || StepAds != 2 || StepSimulation != 3 || StepDecision != 4 {
		t.Fatal("step constants must index 0 to 4 in pipeline order")
	}
	if StepCount != 5 {
		t.Errorf("got StepCount %d, expected 5", StepCount)
	}
}

// TestStepStatusRoundTrip tests that every step maps back to the status that opens it.
func TestStepStatusRoundTrip(t *testing.T) {
	t.Parallel()

	for step := StepProduct; step <= StepDecision; step++ {
		st := step.Status()
		if !st.Known() {
			t.Errorf("step %d maps to unknown status %q", step, st)
		}
		if got := StepForStatus(st); got != step {
			t.Errorf("step %d -> status %q -> step %d", step, st, got)
		}
	}
}

// TestStepString tests the step labels.
func TestStepString(t *testing.T) {
	t.Parallel()

	expected := []string{"Produto", "Estratégia", "Anúncios", "Simulação", "Decisão"}
	labels := Labels()
	if len(labels) != len(expected) {
		t.Fatalf("got %d labels, expected %d", len(labels), len(expected))
	}
	for i, want := range expected {
		if labels[i] != want {
			t.Errorf("label %d: got %q, expected %q", i, labels[i], want)
		}
		if got := Step(i).String(); got != want {
			t.Errorf("Step(%d).String() got %q, expected %q", i, got, want)
		}
	}
}
