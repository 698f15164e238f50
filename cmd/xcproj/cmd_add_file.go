package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/pbx"
	"github.com/jquillard/xcproj/pkg/project"
)

func newAddFileCmd() *cobra.Command {
	var (
		kind          string
		group         string
		compilerFlags string
		weak          bool
	)

	cmd := &cobra.Command{
		Use:   "add-file <path>",
		Short: "Track a file and wire its build membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			opt := project.FileOptions{
				Target:        targetFlag(cmd, cfg),
				Group:         group,
				CompilerFlags: compilerFlags,
				Weak:          weak,
			}
			var f *pbx.FileRef
			switch kind {
			case "source":
				f, err = p.AddSourceFile(args[0], opt)
			case "header":
				f, err = p.AddHeaderFile(args[0], opt)
			case "resource":
				f, err = p.AddResourceFile(args[0], opt)
			case "plugin":
				f, err = p.AddPluginFile(args[0], opt)
			case "datamodel":
				f, err = p.AddDataModelDocument(args[0], group, opt)
			default:
				return fmt.Errorf("add-file: unknown kind %q", kind)
			}
			if err != nil {
				return fmt.Errorf("add-file: %w", err)
			}
			if f == nil {
				loggerFromContext(cmd.Context()).Warn("already tracked", "path", args[0])
				return nil
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("add-file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", f.ID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "source", "file role: source, header, resource, plugin, datamodel")
	cmd.Flags().StringVar(&group, "group", "", "tree group receiving the reference")
	cmd.Flags().StringP("target", "t", "", "target name or identifier")
	cmd.Flags().StringVar(&compilerFlags, "compiler-flags", "", "per-file COMPILER_FLAGS")
	cmd.Flags().BoolVar(&weak, "weak", false, "mark the build file as weak-linked")

	return cmd
}
