package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eykd/stringgen-go/internal/config"
)

func TestBuildCommandTree_RegistersSubcommands(t *testing.T) {
	root := BuildCommandTree(Deps{})

	wantCommands := []string{"classes", "doctor", "generate", "init"}
	for _, name := range wantCommands {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestBuildCommandTree_NilRunners(t *testing.T) {
	commands := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"generate", "-d"}, "no runner configured"},
		{[]string{"doctor"}, "no runner configured"},
		{[]string{"classes"}, ""},
	}
	for _, tt := range commands {
		t.Run(tt.args[0], func(t *testing.T) {
			cmd := BuildCommandTree(Deps{})
			cmd.SetArgs(tt.args)
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			err := cmd.Execute()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildCommandTree_ConfigFlagSelectsFile(t *testing.T) {
	t.Cleanup(func() { configPath = "" })
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("length: 5\nclasses: [numbers]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var loadedFrom string
	runner := &mockGenerateRunner{}
	root := BuildCommandTree(Deps{
		Generate: runner,
		LoadConfig: func(p string, _ ...string) (config.Config, error) {
			loadedFrom = p
			return config.LoadFile(p)
		},
		DefaultPath: func() (string, error) { return filepath.Join(dir, "default.yaml"), nil },
	})
	root.SetArgs([]string{"--config", path, "generate"})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loadedFrom != path {
		t.Errorf("loaded %q, want %q", loadedFrom, path)
	}
	if runner.got.Length != 5 || !runner.got.Classes.Numbers {
		t.Errorf("options = %+v", runner.got)
	}
}

func TestBuildCommandTree_ConfigErrorHasContext(t *testing.T) {
	root := BuildCommandTree(Deps{
		Generate: &mockGenerateRunner{},
		LoadConfig: func(string, ...string) (config.Config, error) {
			return config.Config{}, config.ErrInvalidConfig
		},
		DefaultPath: func() (string, error) { return "/nonexistent/config.yaml", nil },
	})
	root.SetArgs([]string{"generate", "-d"})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))

	err := root.Execute()

	if err == nil || !strings.HasPrefix(err.Error(), "loading config: ") {
		t.Errorf("error = %v, want loading config context", err)
	}
}

func TestBuildCommandTree_FlagsOverrideBrokenDefaults(t *testing.T) {
	t.Cleanup(func() { configPath = "" })
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("length: 0\nclasses: [emoji]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := config.Loader{LookupEnv: func(key string) (string, bool) {
		if key == "SGEN_LENGTH" {
			return "abc", true
		}
		return "", false
	}}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"flags replace every broken field", []string{"generate", "-n", "8", "-d"}, false},
		{"length still broken without -n", []string{"generate", "-d"}, true},
		{"classes still broken without class flags", []string{"generate", "-n", "8"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockGenerateRunner{}
			root := BuildCommandTree(Deps{
				Generate:    runner,
				LoadConfig:  loader.Load,
				DefaultPath: func() (string, error) { return path, nil },
			})
			root.SetArgs(tt.args)
			root.SetOut(new(bytes.Buffer))
			root.SetErr(new(bytes.Buffer))

			err := root.Execute()

			if tt.wantErr {
				if !errors.Is(err, config.ErrInvalidConfig) {
					t.Errorf("error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if runner.got.Length != 8 || !runner.got.Classes.Numbers {
				t.Errorf("options = %+v", runner.got)
			}
		})
	}
}
