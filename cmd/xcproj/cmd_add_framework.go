package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/pbx"
	"github.com/jquillard/xcproj/pkg/project"
)

func newAddFrameworkCmd() *cobra.Command {
	var (
		custom bool
		embed  bool
		sign   bool
		weak   bool
		noLink bool
		static bool
	)

	cmd := &cobra.Command{
		Use:   "add-framework <path>",
		Short: "Link a framework or static library into a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			var f *pbx.FileRef
			if static {
				f, err = p.AddStaticLibrary(args[0], project.FileOptions{
					Target: targetFlag(cmd, cfg),
				})
			} else {
				f, err = p.AddFramework(args[0], project.FrameworkOptions{
					Target:          targetFlag(cmd, cfg),
					CustomFramework: custom,
					Embed:           embed,
					Sign:            sign,
					Weak:            weak,
					NoLink:          noLink,
				})
			}
			if err != nil {
				return fmt.Errorf("add-framework: %w", err)
			}
			if f == nil {
				loggerFromContext(cmd.Context()).Warn("already linked", "path", args[0])
				return nil
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("add-framework: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", f.ID, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&custom, "custom", false, "framework ships inside the tree, not the SDK")
	cmd.Flags().BoolVar(&embed, "embed", false, "copy into the Embed Frameworks phase")
	cmd.Flags().BoolVar(&sign, "sign", false, "code-sign on copy when embedding")
	cmd.Flags().BoolVar(&weak, "weak", false, "weak-link the framework")
	cmd.Flags().BoolVar(&noLink, "no-link", false, "track without joining the frameworks phase")
	cmd.Flags().BoolVar(&static, "static", false, "treat the path as a static library archive")
	cmd.Flags().StringP("target", "t", "", "target name or identifier")

	return cmd
}
