// Package cmd contains the CLI commands for the sgen application.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eykd/stringgen-go/internal/config"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// configPath holds the global --config flag; empty means config.DefaultPath.
var configPath string

// logger is shared by every command. Its level and output are set before
// each command runs.
var logger = newLogger(nil)

func init() {
	rootCmd = BuildCommandTree(DefaultDeps())
}

// GetVerbose returns the current verbose flag state.
func GetVerbose() bool {
	return verbose
}

// newLogger returns a text logger at warn level writing to w (stderr if nil).
func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if w != nil {
		l.SetOutput(w)
	}
	return l
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sgen",
		Short:         "Generate random strings from selected character classes",
		Long:          "sgen generates random strings from the OS random source, optionally mixed with pointer motion.",
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.SetLevel(logrus.WarnLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	return cmd
}

// Deps holds the runners and loaders the command tree is built from.
type Deps struct {
	Generate    GenerateRunner
	Doctor      DoctorRunner
	LoadConfig  func(path string, overridden ...string) (config.Config, error)
	DefaultPath func() (string, error)
}

// BuildCommandTree creates the root command with every subcommand attached.
func BuildCommandTree(deps Deps) *cobra.Command {
	if deps.LoadConfig == nil {
		deps.LoadConfig = func(string, ...string) (config.Config, error) { return config.Default(), nil }
	}
	if deps.DefaultPath == nil {
		deps.DefaultPath = config.DefaultPath
	}

	resolvePath := func() (string, error) {
		if configPath != "" {
			return configPath, nil
		}
		return deps.DefaultPath()
	}
	load := func(overridden ...string) (config.Config, error) {
		path, err := resolvePath()
		if err != nil {
			return config.Config{}, err
		}
		cfg, err := deps.LoadConfig(path, overridden...)
		if err != nil {
			return config.Config{}, &ContextError{Op: "loading config", Err: err}
		}
		return cfg, nil
	}

	root := NewRootCmd()
	root.AddCommand(NewGenerateCmd(deps.Generate, load))
	root.AddCommand(NewClassesCmd(load))
	root.AddCommand(NewDoctorCmd(deps.Doctor, load))
	root.AddCommand(NewInitCmd(resolvePath))
	return root
}

// Execute runs the root command and returns any error.
// Deprecated: Use ExecuteContext instead for proper signal handling.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// writeJSON encodes v as JSON to w, handling I/O errors at the boundary.
// HTML escaping is off so special characters in values print as themselves.
func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
	}
}
