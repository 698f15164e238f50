package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jquillard/xcproj/internal/config"
	"github.com/jquillard/xcproj/pkg/project"
)

// discoverDescriptor resolves which descriptor a command works on: an
// explicit --project value (either the project.pbxproj itself or its
// .xcodeproj bundle), or the single *.xcodeproj in the working
// directory.
func discoverDescriptor(explicit string) (string, error) {
	if explicit != "" {
		if strings.HasSuffix(explicit, ".xcodeproj") {
			return filepath.Join(explicit, "project.pbxproj"), nil
		}
		return explicit, nil
	}
	matches, err := filepath.Glob("*.xcodeproj/project.pbxproj")
	if err != nil {
		return "", fmt.Errorf("discover project: %w", err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no .xcodeproj found here; pass --project")
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("several projects found (%s); pass --project", strings.Join(matches, ", "))
	}
}

// openProject loads the descriptor selected by --project together with
// the tool settings found near it.
func openProject(cmd *cobra.Command) (*project.Project, *config.Config, error) {
	explicit, _ := cmd.Flags().GetString("project")
	path, err := discoverDescriptor(explicit)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Near(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := project.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Output.OmitEmptyValues {
		p.Writer.OmitEmptyValues = true
	}
	loggerFromContext(cmd.Context()).Debug("loaded descriptor", "path", path)
	return p, cfg, nil
}

// saveProject writes the descriptor back, honoring the backup
// settings.
func saveProject(cmd *cobra.Command, p *project.Project, cfg *config.Config) error {
	err := p.SaveWith(project.SaveOptions{
		Backup:     cfg.Backup.Enabled,
		BackupDir:  cfg.Backup.Dir,
		GuardStale: true,
	})
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())
	logger.Info("saved", "path", p.Path)
	if cfg.Backup.Enabled && cfg.Backup.Keep > 0 {
		dir := project.BackupDirFor(p.Path, cfg.Backup.Dir)
		n, err := project.PruneBackups(dir, cfg.Backup.Keep)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Debug("pruned snapshots", "removed", n)
		}
	}
	return nil
}

// targetFlag reads the command's --target value, falling back to the
// configured default target.
func targetFlag(cmd *cobra.Command, cfg *config.Config) string {
	t, _ := cmd.Flags().GetString("target")
	if t == "" {
		t = cfg.DefaultTarget
	}
	return t
}

// unquote strips OpenStep quoting from a stored scalar for display.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
