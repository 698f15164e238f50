package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRmPhaseCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "rm-phase [name]",
		Short: "Delete a build phase from a target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			isa, err := phaseISA(kind)
			if err != nil {
				return fmt.Errorf("rm-phase: %w", err)
			}
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			removed, err := p.RemoveBuildPhase(isa, targetFlag(cmd, cfg), name)
			if err != nil {
				return fmt.Errorf("rm-phase: %w", err)
			}
			if !removed {
				loggerFromContext(cmd.Context()).Warn("no such phase", "kind", kind, "name", name)
				return nil
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("rm-phase: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "script", "phase flavor: sources, resources, frameworks, headers, copy, script")
	cmd.Flags().StringP("target", "t", "", "target name or identifier")

	return cmd
}
