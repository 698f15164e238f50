package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddTargetCmd() *cobra.Command {
	var (
		targetType string
		subfolder  string
		bundleID   string
	)

	cmd := &cobra.Command{
		Use:   "add-target <name>",
		Short: "Create a native target with its product and configurations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			t, err := p.AddTarget(args[0], targetType, subfolder, bundleID)
			if err != nil {
				return fmt.Errorf("add-target: %w", err)
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("add-target: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", t.ID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&targetType, "type", "application", "target role: application, app_extension, command_line_tool, watch2_app, ...")
	cmd.Flags().StringVar(&subfolder, "subfolder", "", "source subfolder; defaults to the target name")
	cmd.Flags().StringVar(&bundleID, "bundle-id", "", "PRODUCT_BUNDLE_IDENTIFIER for the new configurations")

	return cmd
}
