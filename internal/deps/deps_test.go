package deps_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/flock"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tevino/abool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// TestYAMLDependencyAvailable verifies that gopkg.in/yaml.v3 is importable
// and decodes config documents.
func TestYAMLDependencyAvailable(t *testing.T) {
	var out struct {
		Length int `yaml:"length"`
	}
	if err := yaml.Unmarshal([]byte("length: 12"), &out); err != nil {
		t.Fatalf("yaml.Unmarshal() returned error: %v", err)
	}
	if out.Length != 12 {
		t.Errorf("Length = %d, want 12", out.Length)
	}
}

// TestFlockDependencyAvailable verifies that github.com/gofrs/flock is
// importable and can construct a lock handle.
func TestFlockDependencyAvailable(t *testing.T) {
	fl := flock.New(t.TempDir() + "/test.lock")
	if fl == nil {
		t.Fatal("flock.New() returned nil")
	}
	if fl.Path() == "" {
		t.Error("flock.Path() returned empty string")
	}
}

// TestMessagePrinterDependencyAvailable verifies that golang.org/x/text
// groups digits for report output.
func TestMessagePrinterDependencyAvailable(t *testing.T) {
	p := message.NewPrinter(language.English)
	if got := p.Sprintf("%d", 1234567); got != "1,234,567" {
		t.Errorf("Sprintf = %q, want %q", got, "1,234,567")
	}
}

// TestGodotenvDependencyAvailable verifies .env parsing without touching the
// process environment.
func TestGodotenvDependencyAvailable(t *testing.T) {
	env, err := godotenv.Unmarshal("SGEN_LENGTH=16\n# comment\nSGEN_CLASSES=\"numbers,special\"\n")
	if err != nil {
		t.Fatalf("godotenv.Unmarshal() returned error: %v", err)
	}
	if env["SGEN_LENGTH"] != "16" || env["SGEN_CLASSES"] != "numbers,special" {
		t.Errorf("env = %v", env)
	}
}

// TestMultierrorDependencyAvailable verifies error aggregation keeps every
// cause reachable.
func TestMultierrorDependencyAvailable(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	var result *multierror.Error
	result = multierror.Append(result, errA, errB)

	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(result.Errors))
	}
	if !errors.Is(result.ErrorOrNil(), errB) {
		t.Error("aggregated error should match each cause")
	}
}

// TestAboolDependencyAvailable verifies the compare-and-set used for the
// motion guard.
func TestAboolDependencyAvailable(t *testing.T) {
	b := abool.New()
	if !b.SetToIf(false, true) {
		t.Fatal("first SetToIf should succeed")
	}
	if b.SetToIf(false, true) {
		t.Error("second SetToIf should fail while set")
	}
}

// TestLogrusDependencyAvailable verifies leveled text logging.
func TestLogrusDependencyAvailable(t *testing.T) {
	var buf strings.Builder
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.WarnLevel)

	l.Debug("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}
}

// TestLipglossDependencyAvailable verifies styles render their content.
func TestLipglossDependencyAvailable(t *testing.T) {
	if got := lipgloss.NewStyle().Bold(true).Render("bar"); !strings.Contains(got, "bar") {
		t.Errorf("Render = %q", got)
	}
}
