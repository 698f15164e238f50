package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/textdiff"
)

func newFmtCmd() *cobra.Command {
	var (
		write     bool
		diff      bool
		omitEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Reprint the descriptor in canonical form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			if omitEmpty {
				p.Writer.OmitEmptyValues = true
			}
			formatted := p.Marshal()
			switch {
			case diff:
				raw, err := os.ReadFile(p.Path)
				if err != nil {
					return fmt.Errorf("fmt: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), textdiff.Unified(p.Path, raw, formatted))
			case write:
				if err := saveProject(cmd, p, cfg); err != nil {
					return fmt.Errorf("fmt: %w", err)
				}
			default:
				if _, err := cmd.OutOrStdout().Write(formatted); err != nil {
					return fmt.Errorf("fmt: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the descriptor in place")
	cmd.Flags().BoolVarP(&diff, "diff", "d", false, "print a unified diff against the stored form")
	cmd.Flags().BoolVar(&omitEmpty, "omit-empty", false, "drop fields holding an empty value")

	return cmd
}
