package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/pbx"
	"github.com/jquillard/xcproj/pkg/project"
)

func newRmFileCmd() *cobra.Command {
	var (
		kind  string
		group string
	)

	cmd := &cobra.Command{
		Use:   "rm-file <path>",
		Short: "Untrack a file and splice out its build membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			opt := project.FileOptions{
				Target: targetFlag(cmd, cfg),
				Group:  group,
			}
			var f *pbx.FileRef
			switch kind {
			case "source":
				f, err = p.RemoveSourceFile(args[0], opt)
			case "header":
				f, err = p.RemoveHeaderFile(args[0], opt)
			case "resource":
				f, err = p.RemoveResourceFile(args[0], opt)
			case "plugin":
				f, err = p.RemovePluginFile(args[0], opt)
			default:
				return fmt.Errorf("rm-file: unknown kind %q", kind)
			}
			if err != nil {
				return fmt.Errorf("rm-file: %w", err)
			}
			if f == nil {
				loggerFromContext(cmd.Context()).Warn("not tracked", "path", args[0])
				return nil
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("rm-file: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "source", "file role: source, header, resource, plugin")
	cmd.Flags().StringVar(&group, "group", "", "tree group holding the reference")
	cmd.Flags().StringP("target", "t", "", "target name or identifier")

	return cmd
}
