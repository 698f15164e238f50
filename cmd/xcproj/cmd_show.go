package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/openstep"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openProject(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			root := p.Graph.Root()
			archiveVersion, _ := root.GetString("archiveVersion")
			objectVersion, _ := root.GetString("objectVersion")
			fmt.Fprintf(out, "descriptor      %s\n", p.Path)
			fmt.Fprintf(out, "archiveVersion  %s\n", archiveVersion)
			fmt.Fprintf(out, "objectVersion   %s\n", objectVersion)
			fmt.Fprintf(out, "rootObject      %s\n", p.Graph.RootObjectID())
			fmt.Fprintln(out)
			for _, sec := range p.Graph.Objects().Fields() {
				bucket, ok := sec.Value.(*openstep.Dict)
				if !ok {
					continue
				}
				fmt.Fprintf(out, "%5d  %s\n", len(bucket.Fields()), sec.Key)
			}
			return nil
		},
	}
}
