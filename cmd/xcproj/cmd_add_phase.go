package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/pbx"
	"github.com/jquillard/xcproj/pkg/project"
)

// phaseISAs maps the CLI phase names onto record types.
var phaseISAs = map[string]string{
	"sources":    pbx.SourcesBuildPhase,
	"resources":  pbx.ResourcesBuildPhase,
	"frameworks": pbx.FrameworksBuildPhase,
	"headers":    pbx.HeadersBuildPhase,
	"copy":       pbx.CopyFilesBuildPhase,
	"script":     pbx.ShellScriptBuildPhase,
}

func phaseISA(kind string) (string, error) {
	isa, ok := phaseISAs[kind]
	if !ok {
		return "", fmt.Errorf("unknown phase kind %q (one of sources, resources, frameworks, headers, copy, script)", kind)
	}
	return isa, nil
}

func newAddPhaseCmd() *cobra.Command {
	var (
		kind        string
		destination string
		dstPath     string
		shell       string
		script      string
		inputs      []string
		outputs     []string
	)

	cmd := &cobra.Command{
		Use:   "add-phase <name> [file...]",
		Short: "Create a build phase on a target",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			isa, err := phaseISA(kind)
			if err != nil {
				return fmt.Errorf("add-phase: %w", err)
			}
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			id, _, err := p.AddBuildPhase(args[1:], isa, args[0], targetFlag(cmd, cfg), project.PhaseOptions{
				Destination: destination,
				DstPath:     dstPath,
				ShellPath:   shell,
				ShellScript: script,
				InputPaths:  inputs,
				OutputPaths: outputs,
			})
			if err != nil {
				return fmt.Errorf("add-phase: %w", err)
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("add-phase: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", id, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "script", "phase flavor: sources, resources, frameworks, headers, copy, script")
	cmd.Flags().StringVar(&destination, "destination", "", "copy-files destination (frameworks, plugins, resources, ...)")
	cmd.Flags().StringVar(&dstPath, "dst-path", "", "copy-files destination subpath")
	cmd.Flags().StringVar(&shell, "shell", "", "script interpreter; defaults to /bin/sh")
	cmd.Flags().StringVar(&script, "script", "", "script body")
	cmd.Flags().StringSliceVar(&inputs, "input", nil, "script input path (repeatable)")
	cmd.Flags().StringSliceVar(&outputs, "output", nil, "script output path (repeatable)")
	cmd.Flags().StringP("target", "t", "", "target name or identifier")

	return cmd
}
