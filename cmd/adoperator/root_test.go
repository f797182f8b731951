package main

import (
	"slices"
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "adoperator" {
			t.Errorf("expected use 'adoperator', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has global override flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"log-json", "config", "profile", "api-url", "lang", "db-dir"} {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("expected persistent flag %q", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := []string{
			"init", "version", "login", "register", "logout", "me", "analysis", "history",
			"public", "competitor", "creatives", "radar", "media", "compliance", "serve", "push",
		}
		names := make(map[string]bool)
		for _, sub := range cmd.Commands() {
			names[sub.Name()] = true
		}
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestNewAnalysisCmd tests the analysis command group.
func TestNewAnalysisCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAnalysisCmd()
	want := []string{
		"new", "resume", "generate", "simulate", "decide", "refine", "show",
		"list", "delete", "strategy-table", "share", "improve", "market",
	}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub == cmd {
			t.Errorf("expected %s subcommand", name)
		}
	}

	t.Run("new accepts every product field", func(t *testing.T) {
		t.Parallel()
		newCmd, _, err := cmd.Find([]string{"new"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, f := range productFlags {
			if newCmd.Flags().Lookup(f.flag) == nil {
				t.Errorf("expected %s flag", f.flag)
			}
		}
		if flag := newCmd.Flags().Lookup("until"); flag == nil || flag.DefValue != "strategy" {
			t.Error("expected until flag defaulting to strategy")
		}
	})
}

// TestParseStep tests step names and indexes.
func TestParseStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "english name", input: "ads", want: "ads"},
		{name: "portuguese name", input: "decisao", want: "decision"},
		{name: "mixed case with spaces", input: "  Simulation ", want: "simulation"},
		{name: "index", input: "1", want: "strategy"},
		{name: "index out of range", input: "5", wantErr: true},
		{name: "unknown name", input: "launch", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseStep(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !strings.Contains(err.Error(), "unknown step") {
					t.Errorf("expected 'unknown step' error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Contains(stepNames[got], tt.want) {
				t.Errorf("parseStep(%q) = %v, want %s", tt.input, got, tt.want)
			}
		})
	}
}
