package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/stringgen-go/internal/generator"
)

// Process exit codes.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitUsage             = 2
	ExitMotionUnavailable = 3
	ExitFindings          = 4
)

// Usage messages shown for invalid input.
const (
	msgInvalidLength = "specify a valid length (from 1 to 255)"
	msgNoClasses     = "specify at least one character class"
)

// ContextError adds operation and path context to an underlying error.
type ContextError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the formatted error string with context.
func (e *ContextError) Error() string {
	if e.Op != "" && e.Path != "" {
		return e.Op + ": " + e.Path + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + e.Err.Error()
	}
	if e.Path != "" {
		return e.Path + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ContextError) Unwrap() error {
	return e.Err
}

// UsageError reports invalid command-line input.
type UsageError struct {
	Msg string
	Err error
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

// Unwrap returns the underlying error, if any.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCode returns ExitUsage.
func (e *UsageError) ExitCode() int {
	return ExitUsage
}

// ExitCoder is implemented by errors that carry a specific process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCodeFromError returns the appropriate exit code for an error.
// nil returns 0, ExitCoder errors return their code, motion failures return
// ExitMotionUnavailable, all others return 1.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitOK
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	if errors.Is(err, generator.ErrMotionUnavailable) {
		return ExitMotionUnavailable
	}
	return ExitFailure
}

// FormatError formats an error with the "sgen: " prefix and trailing newline.
func FormatError(err error) string {
	return fmt.Sprintf("sgen: %s\n", err.Error())
}

// RunCLI executes the command with the given args, writing output to stdout
// and errors to stderr. It returns the appropriate exit code.
func RunCLI(cmd *cobra.Command, args []string, stdout io.Writer, stderr io.Writer) int {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprint(stderr, FormatError(err))
		return ExitCodeFromError(err)
	}
	return ExitOK
}
