package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/pbx"
	"github.com/jquillard/xcproj/pkg/project"
)

func newRmFrameworkCmd() *cobra.Command {
	var (
		custom bool
		static bool
	)

	cmd := &cobra.Command{
		Use:   "rm-framework <path>",
		Short: "Unlink a framework or static library from a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			var f *pbx.FileRef
			if static {
				f, err = p.RemoveStaticLibrary(args[0], project.FileOptions{
					Target: targetFlag(cmd, cfg),
				})
			} else {
				f, err = p.RemoveFramework(args[0], project.FrameworkOptions{
					Target:          targetFlag(cmd, cfg),
					CustomFramework: custom,
				})
			}
			if err != nil {
				return fmt.Errorf("rm-framework: %w", err)
			}
			if f == nil {
				loggerFromContext(cmd.Context()).Warn("not linked", "path", args[0])
				return nil
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("rm-framework: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&custom, "custom", false, "framework ships inside the tree, not the SDK")
	cmd.Flags().BoolVar(&static, "static", false, "treat the path as a static library archive")
	cmd.Flags().StringP("target", "t", "", "target name or identifier")

	return cmd
}
