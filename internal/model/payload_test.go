package model

import (
	"encoding/json"
	"testing"
)

// TestTextUnmarshal tests the tolerant text decoding.
func TestTextUnmarshal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected Text
	}{
		{"string", `"ola"`, "ola"},
		{"number", `7.5`, "7.5"},
		{"boolean", `true`, "true"},
		{"null", `null`, ""},
		{"list of strings", `["a", "b", "c"]`, "a, b, c"},
		{"list skips empty entries", `["a", null, ""]`, "a"},
		{"mixed list", `["a", 2]`, "a, 2"},
		{"object", `{"k": "v", "n": 1}`, `{"k":"v","n":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got Text
			if err := json.Unmarshal([]byte(tc.input), &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestTextInt tests numeric parsing of text values.
func TestTextInt(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    Text
		expected int
		ok       bool
	}{
		{"3", 3, true},
		{" 4 ", 4, true},
		{"2.0", 2, true},
		{"Anuncio 1", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		got, ok := tc.input.Int()
		if got != tc.expected || ok != tc.ok {
			t.Errorf("Int(%q) = %d, %v; expected %d, %v", tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}

// TestPayload tests the opaque payload wrapper.
func TestPayload(t *testing.T) {
	t.Parallel()

	t.Run("null is not present", func(t *testing.T) {
		t.Parallel()
		var p Payload
		if err := json.Unmarshal([]byte("null"), &p); err != nil {
			t.Fatal(err)
		}
		if p.Present() {
			t.Error("expected empty payload")
		}
		out, err := json.Marshal(p)
		if err != nil || string(out) != "null" {
			t.Errorf("got %s, %v", out, err)
		}
	})

	t.Run("object keeps its bytes and exposes fields", func(t *testing.T) {
		t.Parallel()
		var p Payload
		if err := json.Unmarshal([]byte(`{"a": 1, "b": "x"}`), &p); err != nil {
			t.Fatal(err)
		}
		var b string
		if !p.Field("b", &b) || b != "x" {
			t.Errorf("got %q", b)
		}
		if p.Field("missing", &b) {
			t.Error("expected missing key to report false")
		}
		var wrong int
		if p.Field("b", &wrong) {
			t.Error("expected type mismatch to report false")
		}
	})
}
