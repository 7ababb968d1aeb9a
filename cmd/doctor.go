package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// CheckName identifies one doctor check.
type CheckName string

const (
	// CheckOSRandom reads a few bytes from the OS random source.
	CheckOSRandom CheckName = "os_random"
	// CheckPointer probes the pointer backend motion sampling would use.
	CheckPointer CheckName = "pointer"
	// CheckClipboard looks for a clipboard utility.
	CheckClipboard CheckName = "clipboard"
	// CheckLock verifies the motion lock can be taken.
	CheckLock CheckName = "lock"
	// CheckConfig loads and validates the configuration.
	CheckConfig CheckName = "config"
)

// Severity represents the severity level of a check result.
type Severity string

const (
	// SeverityOK marks a passing check.
	SeverityOK Severity = "ok"
	// SeverityError represents an error-level finding.
	SeverityError Severity = "error"
	// SeverityWarning represents a warning-level finding.
	SeverityWarning Severity = "warning"
)

// CheckFinding represents the result of a single doctor check.
type CheckFinding struct {
	Check    CheckName `json:"check"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
}

// DoctorResult holds every check result from a doctor run.
type DoctorResult struct {
	Findings []CheckFinding `json:"findings"`
}

// DoctorRunner defines the interface for running environment checks.
type DoctorRunner interface {
	Doctor(ctx context.Context) (*DoctorResult, error)
}

// FindingsDetectedError is returned when doctor reports warnings or errors.
type FindingsDetectedError struct {
	Errors   int
	Warnings int
}

// Error implements the error interface.
func (e *FindingsDetectedError) Error() string {
	return fmt.Sprintf("doctor found %d errors, %d warnings", e.Errors, e.Warnings)
}

// ExitCode returns ExitFindings.
func (e *FindingsDetectedError) ExitCode() int {
	return ExitFindings
}

// doctorJSONResponse is the JSON output structure for the doctor command.
type doctorJSONResponse struct {
	Findings []CheckFinding `json:"findings"`
	Summary  struct {
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	} `json:"summary"`
}

// countBySeverity counts errors and warnings in a slice of findings.
func countBySeverity(findings []CheckFinding) (errCount, warnCount int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			errCount++
		case SeverityWarning:
			warnCount++
		}
	}
	return
}

// formatDoctorJSON writes findings as JSON to w.
func formatDoctorJSON(w io.Writer, findings []CheckFinding, errCount, warnCount int) {
	if findings == nil {
		findings = []CheckFinding{}
	}
	out := doctorJSONResponse{Findings: findings}
	out.Summary.Errors = errCount
	out.Summary.Warnings = warnCount
	writeJSON(w, out)
}

// formatDoctorHuman writes findings as aligned text to w.
func formatDoctorHuman(w io.Writer, findings []CheckFinding, errCount, warnCount int) {
	for _, f := range findings {
		fmt.Fprintf(w, "%-9s [%s] %s\n", f.Check, f.Severity, f.Message)
	}
	if errCount > 0 || warnCount > 0 {
		fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", errCount, warnCount)
	}
}

// configFinding reports whether the configuration loads and validates.
func configFinding(load ConfigLoader) CheckFinding {
	if _, err := load(); err != nil {
		return CheckFinding{Check: CheckConfig, Severity: SeverityError, Message: err.Error()}
	}
	return CheckFinding{Check: CheckConfig, Severity: SeverityOK, Message: "configuration is valid"}
}

// NewDoctorCmd creates the doctor command with the given runner. The config
// check runs here so it sees the same --config path as the other commands.
func NewDoctorCmd(runner DoctorRunner, load ConfigLoader) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "doctor",
		Short:        "Check entropy sources, pointer backends and the clipboard",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runner == nil {
				return fmt.Errorf("doctor: no runner configured")
			}
			result, err := runner.Doctor(cmd.Context())
			if err != nil {
				return err
			}

			findings := append([]CheckFinding{configFinding(load)}, result.Findings...)
			errCount, warnCount := countBySeverity(findings)

			if jsonOutput {
				formatDoctorJSON(cmd.OutOrStdout(), findings, errCount, warnCount)
			} else {
				formatDoctorHuman(cmd.OutOrStdout(), findings, errCount, warnCount)
			}

			if errCount > 0 || warnCount > 0 {
				return &FindingsDetectedError{Errors: errCount, Warnings: warnCount}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
