package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/project"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and edit build settings",
	}
	cmd.PersistentFlags().StringP("configuration", "c", "", "limit to a configuration name (Debug, Release)")
	cmd.PersistentFlags().StringP("target", "t", "", "limit to a target; empty hits project and target configurations alike")

	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())
	cmd.AddCommand(newSettingsUnsetCmd())
	return cmd
}

// settingsFilter builds the property filter from the shared flags. A
// --target value may be a name or an identifier.
func settingsFilter(cmd *cobra.Command, p *project.Project) project.PropertyFilter {
	configuration, _ := cmd.Flags().GetString("configuration")
	target, _ := cmd.Flags().GetString("target")
	f := project.PropertyFilter{Configuration: configuration}
	if target == "" {
		return f
	}
	if _, ok := p.NativeTargetByKey(target); ok {
		f.TargetKey = target
	} else {
		f.TargetName = target
	}
	return f
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a build setting from the first matching configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openProject(cmd)
			if err != nil {
				return err
			}
			v, ok, err := p.BuildProperty(args[0], settingsFilter(cmd, p))
			if err != nil {
				return fmt.Errorf("settings get: %w", err)
			}
			if !ok {
				return fmt.Errorf("settings get: %s is not set", args[0])
			}
			out := cmd.OutOrStdout()
			switch v := v.(type) {
			case openstep.String:
				fmt.Fprintln(out, unquote(string(v)))
			case *openstep.Array:
				for _, e := range v.Elems {
					if s, ok := e.Value.(openstep.String); ok {
						fmt.Fprintln(out, unquote(string(s)))
					}
				}
			default:
				loggerFromContext(cmd.Context()).Warn("setting holds a nested value", "key", args[0])
			}
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var appendList bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a build setting across the matching configurations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			f := settingsFilter(cmd, p)
			var n int
			if appendList {
				n, err = p.AppendToBuildList(args[0], args[1], f)
			} else {
				n, err = p.UpdateBuildProperty(args[0], openstep.String(args[1]), f)
			}
			if err != nil {
				return fmt.Errorf("settings set: %w", err)
			}
			if n == 0 {
				loggerFromContext(cmd.Context()).Warn("no matching configurations")
				return nil
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("settings set: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("updated", "configurations", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&appendList, "append", false, "append to a list-valued setting instead of replacing")
	return cmd
}

func newSettingsUnsetCmd() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Drop a build setting from the matching configurations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openProject(cmd)
			if err != nil {
				return err
			}
			f := settingsFilter(cmd, p)
			var n int
			if value != "" {
				n, err = p.RemoveFromBuildList(args[0], value, f)
			} else {
				n, err = p.RemoveBuildProperty(args[0], f)
			}
			if err != nil {
				return fmt.Errorf("settings unset: %w", err)
			}
			if n == 0 {
				loggerFromContext(cmd.Context()).Warn("nothing removed", "key", args[0])
				return nil
			}
			if err := saveProject(cmd, p, cfg); err != nil {
				return fmt.Errorf("settings unset: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("removed", "configurations", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "splice one entry out of a list-valued setting")
	return cmd
}
