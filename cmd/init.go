package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/stringgen-go/internal/config"
	"github.com/eykd/stringgen-go/internal/domain"
)

// NewInitCmd creates the init command. The path function returns the config
// file location to write.
func NewInitCmd(path func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:          "init",
		Short:        "Write a starter config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := path()
			if err != nil {
				return err
			}

			if _, statErr := os.Stat(target); statErr == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", target)
				return nil
			} else if !errors.Is(statErr, os.ErrNotExist) {
				return &ContextError{Op: "checking config", Path: target, Err: statErr}
			}

			cfg := config.Default()
			cfg.Classes = domain.SelectionOf(domain.AllClasses...).Names()
			data, err := config.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return &ContextError{Op: "creating config directory", Path: filepath.Dir(target), Err: err}
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return &ContextError{Op: "writing config", Path: target, Err: err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}
}
