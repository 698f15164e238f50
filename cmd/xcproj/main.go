package main

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	var (
		projectPath string
		verbose     bool
	)

	root := &cobra.Command{
		Use:          "xcproj",
		Short:        "Inspect and rewrite Xcode project descriptors",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.PersistentFlags().StringVarP(&projectPath, "project", "p", "", "project.pbxproj path or .xcodeproj bundle")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newTargetsCmd())
	root.AddCommand(newFilesCmd())
	root.AddCommand(newAddFileCmd())
	root.AddCommand(newRmFileCmd())
	root.AddCommand(newAddFrameworkCmd())
	root.AddCommand(newRmFrameworkCmd())
	root.AddCommand(newAddTargetCmd())
	root.AddCommand(newAddPhaseCmd())
	root.AddCommand(newRmPhaseCmd())
	root.AddCommand(newSettingsCmd())
	root.AddCommand(newFmtCmd())
	root.AddCommand(newGraphCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("xcproj 0.1.0-dev")
		},
	}
}
