package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List tracked file references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openProject(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sec := p.Graph.Section(pbx.FileReference)
			if sec == nil {
				return nil
			}
			for _, f := range sec.Fields() {
				rec, ok := f.Value.(*openstep.Dict)
				if !ok {
					continue
				}
				path, _ := rec.GetString("path")
				tree, _ := rec.GetString("sourceTree")
				fmt.Fprintf(out, "%s  %-14s  %s\n", f.Key, unquote(tree), unquote(path))
			}
			return nil
		},
	}
}
