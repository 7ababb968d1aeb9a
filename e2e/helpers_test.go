package e2e_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// sandbox is an isolated working directory, config home and temp dir.
type sandbox struct {
	dir       string
	configDir string
	env       []string
}

func newSandbox(t *testing.T) *sandbox {
	t.Helper()
	root := t.TempDir()
	s := &sandbox{
		dir:       filepath.Join(root, "work"),
		configDir: filepath.Join(root, "config"),
	}
	tmp := filepath.Join(root, "tmp")
	for _, d := range []string{s.dir, s.configDir, tmp} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", d, err)
		}
	}

	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "SGEN_") || strings.HasPrefix(kv, "DISPLAY=") ||
			strings.HasPrefix(kv, "XDG_CONFIG_HOME=") || strings.HasPrefix(kv, "TMPDIR=") {
			continue
		}
		s.env = append(s.env, kv)
	}
	s.env = append(s.env, "XDG_CONFIG_HOME="+s.configDir, "TMPDIR="+tmp)
	return s
}

// configPath is where sgen looks for its config inside the sandbox.
func (s *sandbox) configPath() string {
	return filepath.Join(s.configDir, "sgen", "config.yaml")
}

// run executes the sgen binary and returns stdout, stderr, and exit code.
func (s *sandbox) run(t *testing.T, extraEnv []string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(sgenBinary, args...)
	cmd.Dir = s.dir
	cmd.Env = append(append([]string{}, s.env...), extraEnv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run sgen: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runSuccess runs sgen expecting exit code 0 and returns stdout.
func (s *sandbox) runSuccess(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := s.run(t, nil, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// runJSON runs sgen expecting success and decodes stdout.
func (s *sandbox) runJSON(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()
	stdout := s.runSuccess(t, args...)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, stdout)
	}
	return result
}

// writeFile creates a file in the working directory.
func (s *sandbox) writeFile(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// onlyFrom reports whether every rune of value occurs in alphabet.
func onlyFrom(value, alphabet string) bool {
	for _, r := range value {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}
