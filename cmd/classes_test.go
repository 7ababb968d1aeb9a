package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/eykd/stringgen-go/internal/config"
	"github.com/eykd/stringgen-go/internal/report"
)

func runClasses(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LC_ALL", "en_US.UTF-8")
	cmd := NewClassesCmd(staticConfig(cfg))
	cmd.SetArgs(args)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	err := cmd.Execute()
	return out.String(), err
}

func TestClassesCmd_DefaultsToAllClasses(t *testing.T) {
	out, err := runClasses(t, config.Default())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"numbers", "lowercase", "uppercase", "special", "Size:      93 characters"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClassesCmd_JSONSelection(t *testing.T) {
	out, err := runClasses(t, config.Default(), "-d", "-n", "4", "--json")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s report.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if s.Alphabet != "0123456789" || s.Length != 4 {
		t.Errorf("summary = %+v", s)
	}
	if s.Favored != "012345" {
		t.Errorf("Favored = %q, want %q", s.Favored, "012345")
	}
}

func TestClassesCmd_UsesConfiguredClasses(t *testing.T) {
	cfg := config.Default()
	cfg.Classes = []string{"uppercase"}

	out, err := runClasses(t, cfg, "--json")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"alphabet":"ABCDEFGHIJKLMNOPQRSTUVWXYZ"`) {
		t.Errorf("output = %s", out)
	}
}

func TestClassesCmd_InvalidLength(t *testing.T) {
	_, err := runClasses(t, config.Default(), "-n", "300")

	if ExitCodeFromError(err) != ExitUsage {
		t.Errorf("error = %v, want usage error", err)
	}
}

func TestPosixToBCP47(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"de_DE.UTF-8", "de-DE"},
		{"en_US", "en-US"},
		{"fr_FR@euro", "fr-FR"},
		{"C", "C"},
	}

	for _, tt := range tests {
		if got := posixToBCP47(tt.in); got != tt.want {
			t.Errorf("posixToBCP47(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
