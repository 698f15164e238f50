package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// ErrStaleWrite reports that the descriptor on disk changed after it
// was loaded, so saving over it would discard someone else's edit.
var ErrStaleWrite = errors.New("descriptor changed on disk since load")

// Project is an opened descriptor: the parsed object graph plus the
// file it came from. Operations mutate the graph in place; nothing is
// persisted until Save. A Project is not safe for concurrent use.
type Project struct {
	Path   string
	Graph  *pbx.Graph
	Writer pbx.Writer

	loadDigest string
}

// Load reads and parses the descriptor at path. Grammar errors come
// back as *openstep.SyntaxError, untouched.
func Load(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	g, err := pbx.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Project{Path: path, Graph: g, loadDigest: digest(raw)}, nil
}

// LoadFrom parses a descriptor from a stream. The result has no file
// path; set Path before calling Save.
func LoadFrom(r io.Reader) (*Project, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	g, err := pbx.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Project{Graph: g, loadDigest: digest(raw)}, nil
}

// New returns an empty in-memory project.
func New() *Project {
	return &Project{Graph: pbx.NewGraph()}
}

// Marshal renders the descriptor text.
func (p *Project) Marshal() []byte {
	return p.Writer.Marshal(p.Graph)
}

// WriteTo serializes the descriptor to w.
func (p *Project) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Marshal())
	if err != nil {
		return int64(n), fmt.Errorf("write descriptor: %w", err)
	}
	return int64(n), nil
}

// SaveOptions controls persistence side effects.
type SaveOptions struct {
	// Backup stores a compressed snapshot of the previous file
	// contents before overwriting.
	Backup bool
	// BackupDir overrides the default <dir>/.xcproj-backups location.
	BackupDir string
	// GuardStale refuses to overwrite a file whose bytes no longer
	// match what was loaded, returning ErrStaleWrite.
	GuardStale bool
}

// Save writes the descriptor back to its path atomically.
func (p *Project) Save() error {
	return p.SaveWith(SaveOptions{})
}

// SaveWith writes the descriptor back to its path atomically, applying
// the given persistence options.
func (p *Project) SaveWith(opt SaveOptions) error {
	if p.Path == "" {
		return fmt.Errorf("save: project has no file path")
	}

	prev, err := os.ReadFile(p.Path)
	switch {
	case err == nil:
		if opt.GuardStale && p.loadDigest != "" && digest(prev) != p.loadDigest {
			return fmt.Errorf("save %s: %w", p.Path, ErrStaleWrite)
		}
		if opt.Backup {
			if err := writeBackup(backupDir(p.Path, opt.BackupDir), p.Path, prev); err != nil {
				return err
			}
		}
	case os.IsNotExist(err):
		// First save of an in-memory project.
	default:
		return fmt.Errorf("save %s: %w", p.Path, err)
	}

	out := p.Marshal()

	// Atomic write via temp + rename.
	dir := filepath.Dir(p.Path)
	tmp, err := os.CreateTemp(dir, ".tmp-pbxproj-*")
	if err != nil {
		return fmt.Errorf("save tmpfile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save close: %w", err)
	}
	if err := os.Rename(tmpName, p.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save rename: %w", err)
	}

	p.loadDigest = digest(out)
	return nil
}

// FirstProject returns the project record the root points at.
func (p *Project) FirstProject() (*openstep.Dict, error) {
	return p.Graph.ProjectObject()
}

// FirstTarget returns the first target listed in the project record.
func (p *Project) FirstTarget() (string, *openstep.Dict, error) {
	proj, err := p.Graph.ProjectObject()
	if err != nil {
		return "", nil, err
	}
	targets, ok := proj.GetArray("targets")
	if !ok || targets.Len() == 0 {
		return "", nil, fmt.Errorf("project has no targets")
	}
	id, ok := targets.Elems[0].Value.(openstep.String)
	if !ok {
		return "", nil, fmt.Errorf("project target list is malformed")
	}
	obj, _ := p.Graph.Object(string(id))
	if obj == nil {
		return "", nil, fmt.Errorf("first target %s not found", id)
	}
	return string(id), obj, nil
}

// NativeTargetByKey looks a target up by identifier in the native
// bucket.
func (p *Project) NativeTargetByKey(id string) (*openstep.Dict, bool) {
	sec := p.Graph.Section(pbx.NativeTarget)
	if sec == nil {
		return nil, false
	}
	return sec.GetDict(id)
}

// TargetByName resolves a native target by its label, falling back to
// the record's name field.
func (p *Project) TargetByName(name string) (string, *openstep.Dict, bool) {
	if id, obj, ok := p.Graph.FindByComment(pbx.NativeTarget, name); ok {
		return id, obj, true
	}
	sec := p.Graph.Section(pbx.NativeTarget)
	if sec == nil {
		return "", nil, false
	}
	for _, f := range sec.Fields() {
		obj, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if n, _ := obj.GetString("name"); n == name {
			return f.Key, obj, true
		}
	}
	return "", nil, false
}

// resolveTarget maps an options-level target value to a native-target
// identifier: empty selects the first target, otherwise the value must
// be a known identifier.
func (p *Project) resolveTarget(target string) (string, error) {
	if target == "" {
		id, _, err := p.FirstTarget()
		return id, err
	}
	if _, ok := p.NativeTargetByKey(target); !ok {
		return "", fmt.Errorf("invalid target: %s", target)
	}
	return target, nil
}

// normalizePath puts a stored or user-supplied path into the form used
// for duplicate detection: forward slashes, no surrounding quotes, no
// leading "./".
func normalizePath(s string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for strings.HasPrefix(s, "./") {
		s = s[2:]
	}
	return s
}
