package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/stringgen-go/internal/config"
	"github.com/eykd/stringgen-go/internal/domain"
)

// GenerateOptions is the fully resolved request for one generation.
type GenerateOptions struct {
	Length        int
	Classes       domain.ClassSelection
	Motion        bool
	MotionSeconds int
	Pointer       string
	OSRandom      bool
	Copy          bool
}

// GenerateResult holds the outcome of a generate operation.
type GenerateResult struct {
	Value           string `json:"value"`
	Length          int    `json:"length"`
	AlphabetSize    int    `json:"alphabet_size"`
	Fallback        bool   `json:"fallback"`
	MotionSamples   int    `json:"motion_samples"`
	MotionTruncated bool   `json:"motion_truncated"`
	Copied          bool   `json:"-"`
}

// GenerateRunner defines the interface for running the generate operation.
type GenerateRunner interface {
	Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)
}

// ConfigLoader returns the resolved user configuration. Fields named in
// overridden come from flags and are neither read from the environment nor
// validated.
type ConfigLoader func(overridden ...string) (config.Config, error)

// flagFields maps each flag to the config field it replaces.
var flagFields = []struct{ flag, field string }{
	{"length", config.FieldLength},
	{"digits", config.FieldClasses},
	{"lower", config.FieldClasses},
	{"upper", config.FieldClasses},
	{"special", config.FieldClasses},
	{"motion", config.FieldMotion},
	{"mouse-seconds", config.FieldMotionSeconds},
	{"pointer", config.FieldPointer},
	{"no-os-random", config.FieldOSRandom},
	{"copy", config.FieldCopy},
}

// overriddenFields lists the config fields set by flags on cmd.
func overriddenFields(cmd *cobra.Command) []string {
	var fields []string
	for _, ff := range flagFields {
		if cmd.Flags().Changed(ff.flag) {
			fields = append(fields, ff.field)
		}
	}
	return fields
}

// classFlags binds the four character-class switches shared by generate and
// classes.
type classFlags struct {
	numbers, lowercase, uppercase, special bool
}

func (f *classFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.numbers, "digits", "d", false, "Include numbers 0-9")
	cmd.Flags().BoolVarP(&f.lowercase, "lower", "l", false, "Include lowercase letters a-z")
	cmd.Flags().BoolVarP(&f.uppercase, "upper", "u", false, "Include uppercase letters A-Z")
	cmd.Flags().BoolVarP(&f.special, "special", "s", false, "Include special characters")
}

// resolve returns the flag selection when any class flag was given, and the
// configured classes otherwise.
func (f *classFlags) resolve(cmd *cobra.Command, cfg config.Config) (domain.ClassSelection, error) {
	for _, name := range []string{"digits", "lower", "upper", "special"} {
		if cmd.Flags().Changed(name) {
			return domain.ClassSelection{
				Numbers:   f.numbers,
				Lowercase: f.lowercase,
				Uppercase: f.uppercase,
				Special:   f.special,
			}, nil
		}
	}
	return cfg.Selection()
}

// resolveLength parses the --length flag when given, else uses the config.
func resolveLength(cmd *cobra.Command, raw string, cfg config.Config) (int, error) {
	n := cfg.Length
	if cmd.Flags().Changed("length") {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, &UsageError{Msg: msgInvalidLength, Err: domain.ErrInvalidLength}
		}
		n = v
	}
	if err := domain.ValidateLength(n); err != nil {
		return 0, &UsageError{Msg: msgInvalidLength, Err: err}
	}
	return n, nil
}

// NewGenerateCmd creates the generate command with the given runner.
func NewGenerateCmd(runner GenerateRunner, load ConfigLoader) *cobra.Command {
	var (
		classes       classFlags
		length        string
		motion        bool
		motionSeconds int
		pointer       string
		noOSRandom    bool
		copyOut       bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:          "generate",
		Aliases:      []string{"gen", "g"},
		Short:        "Generate a random string",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(overriddenFields(cmd)...)
			if err != nil {
				return err
			}

			opts := GenerateOptions{
				Motion:        cfg.Motion,
				MotionSeconds: cfg.MotionSeconds,
				Pointer:       cfg.Pointer,
				OSRandom:      cfg.OSRandom,
				Copy:          cfg.Copy,
			}
			if opts.Length, err = resolveLength(cmd, length, cfg); err != nil {
				return err
			}
			if opts.Classes, err = classes.resolve(cmd, cfg); err != nil {
				return &UsageError{Err: err}
			}
			if opts.Classes.Empty() {
				return &UsageError{Msg: msgNoClasses, Err: domain.ErrEmptyAlphabet}
			}

			flags := cmd.Flags()
			if flags.Changed("motion") {
				opts.Motion = motion
			}
			if flags.Changed("mouse-seconds") {
				if motionSeconds < config.MinMotionSeconds || motionSeconds > config.MaxMotionSeconds {
					return &UsageError{Msg: fmt.Sprintf("mouse seconds must be between %d and %d", config.MinMotionSeconds, config.MaxMotionSeconds)}
				}
				opts.MotionSeconds = motionSeconds
			}
			if flags.Changed("pointer") {
				switch pointer {
				case config.PointerAuto, config.PointerX11, config.PointerTerminal, config.PointerNone:
					opts.Pointer = pointer
				default:
					return &UsageError{Msg: fmt.Sprintf("unknown pointer backend %q (want auto, x11, terminal or none)", pointer)}
				}
			}
			if flags.Changed("no-os-random") {
				opts.OSRandom = !noOSRandom
			}
			if flags.Changed("copy") {
				opts.Copy = copyOut
			}

			if runner == nil {
				return fmt.Errorf("generate: no runner configured")
			}
			result, err := runner.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				writeJSON(cmd.OutOrStdout(), result)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), result.Value)
			}
			if result.Copied {
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
			}
			return nil
		},
	}

	classes.register(cmd)
	cmd.Flags().StringVarP(&length, "length", "n", "", "Number of characters (1-255)")
	cmd.Flags().BoolVarP(&motion, "motion", "m", false, "Mix in pointer motion even when the OS source works")
	cmd.Flags().IntVar(&motionSeconds, "mouse-seconds", 0, "Seconds of pointer motion to sample (1-300)")
	cmd.Flags().StringVar(&pointer, "pointer", "", "Pointer backend: auto, x11, terminal or none")
	cmd.Flags().BoolVar(&noOSRandom, "no-os-random", false, "Do not read the OS random source; motion becomes mandatory")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}
