package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eykd/stringgen-go/internal/domain"
	"github.com/eykd/stringgen-go/internal/report"
)

// NewClassesCmd creates the classes command. It lists the character classes
// and describes the alphabet a selection produces.
func NewClassesCmd(load ConfigLoader) *cobra.Command {
	var (
		classes    classFlags
		length     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:          "classes",
		Short:        "Describe character classes and alphabet bias",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(overriddenFields(cmd)...)
			if err != nil {
				return err
			}
			n, err := resolveLength(cmd, length, cfg)
			if err != nil {
				return err
			}
			sel, err := classes.resolve(cmd, cfg)
			if err != nil {
				return &UsageError{Err: err}
			}
			if sel.Empty() {
				sel = domain.SelectionOf(domain.AllClasses...)
			}

			summary, err := report.Summarize(sel, n)
			if err != nil {
				return err
			}

			if jsonOutput {
				writeJSON(cmd.OutOrStdout(), summary)
				return nil
			}
			w := report.NewWriter(locale())
			w.WriteClasses(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout())
			w.WriteSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	classes.register(cmd)
	cmd.Flags().StringVarP(&length, "length", "n", "", "Length used for total entropy (1-255)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the summary as JSON")

	return cmd
}

// locale returns the user's language tag from the POSIX locale variables.
func locale() string {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return posixToBCP47(v)
		}
	}
	return "en"
}

// posixToBCP47 turns "de_DE.UTF-8" into "de-DE".
func posixToBCP47(v string) string {
	out := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '.', '@':
			return string(out)
		case '_':
			out = append(out, '-')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
