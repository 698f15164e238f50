package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openProject(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range p.Targets() {
				fmt.Fprintf(out, "%s  %-9s  %s", t.ID, t.Kind, unquote(t.Name))
				if t.ProductType != "" {
					fmt.Fprintf(out, "  (%s)", unquote(t.ProductType))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
