package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/project"
)

func newGraphCmd() *cobra.Command {
	var (
		format string
		outArg string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the target dependency graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Graph.Format
			}
			if format == "" {
				format = "dot"
			}
			dot := p.DependencyDOT()

			var rendered []byte
			switch format {
			case "dot":
				if outArg == "" {
					fmt.Fprint(cmd.OutOrStdout(), dot)
					return nil
				}
				rendered = []byte(dot)
			case "svg":
				rendered, err = project.RenderSVG(dot)
			case "png":
				rendered, err = project.RenderPNG(dot)
			default:
				return fmt.Errorf("graph: unknown format %q", format)
			}
			if err != nil {
				return fmt.Errorf("graph: %w", err)
			}
			if outArg == "" {
				return fmt.Errorf("graph: %s output needs --out", format)
			}
			if err := os.WriteFile(outArg, rendered, 0o644); err != nil {
				return fmt.Errorf("graph: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("rendered", "format", format, "path", outArg)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&outArg, "out", "o", "", "write the rendering to a file")

	return cmd
}
