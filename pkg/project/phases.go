package project

import (
	"fmt"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// Build-phase record types, in scan order.
var phaseISAs = []string{
	pbx.SourcesBuildPhase,
	pbx.ResourcesBuildPhase,
	pbx.FrameworksBuildPhase,
	pbx.HeadersBuildPhase,
	pbx.CopyFilesBuildPhase,
	pbx.ShellScriptBuildPhase,
}

func validPhaseISA(isa string) bool {
	for _, known := range phaseISAs {
		if isa == known {
			return true
		}
	}
	return false
}

// PhaseOptions carries the flavor-specific fields of AddBuildPhase.
type PhaseOptions struct {
	// Destination names a copy-files subfolder from the destination
	// table (wrapper, frameworks, plugins, resources, ...).
	Destination string
	DstPath     string

	ShellPath   string
	ShellScript string
	InputPaths  []string
	OutputPaths []string
}

// BuildPhase finds the target's phase of the given flavor. Phases are
// addressed by the (flavor, target) pair; a target owns at most one
// phase of each flavor apart from copy-files phases, for which the
// first one wins.
func (p *Project) BuildPhase(isa, targetID string) (string, *openstep.Dict, bool) {
	target, ok := p.NativeTargetByKey(targetID)
	if !ok {
		return "", nil, false
	}
	sec := p.Graph.Section(isa)
	if sec == nil {
		return "", nil, false
	}
	for _, f := range sec.Fields() {
		phase, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if phaseInTarget(target, f.Key) {
			return f.Key, phase, true
		}
	}
	return "", nil, false
}

// BuildPhaseNamed finds a phase of the given flavor by its label
// within one target. Used to tell copy-files phases apart.
func (p *Project) BuildPhaseNamed(isa, targetID, name string) (string, *openstep.Dict, bool) {
	target, ok := p.NativeTargetByKey(targetID)
	if !ok {
		return "", nil, false
	}
	sec := p.Graph.Section(isa)
	if sec == nil {
		return "", nil, false
	}
	for _, f := range sec.Fields() {
		phase, ok := f.Value.(*openstep.Dict)
		if !ok || f.Comment != name {
			continue
		}
		if phaseInTarget(target, f.Key) {
			return f.Key, phase, true
		}
	}
	return "", nil, false
}

func phaseInTarget(target *openstep.Dict, phaseID string) bool {
	phases, ok := target.GetArray("buildPhases")
	if !ok {
		return false
	}
	for _, e := range phases.Elems {
		if s, ok := e.Value.(openstep.String); ok && string(s) == phaseID {
			return true
		}
	}
	return false
}

// EnsureBuildPhase returns the target's phase of the given flavor,
// creating an empty one when absent. Add-file operations lean on this:
// a target that has never compiled anything gets its sources phase the
// first time a source file lands in it. Copy-files phases are not
// ensured here; they need a destination.
func (p *Project) EnsureBuildPhase(isa, targetID, name string) (string, *openstep.Dict, error) {
	if isa == pbx.CopyFilesBuildPhase {
		return "", nil, fmt.Errorf("copy-files phases need a destination; use AddBuildPhase")
	}
	if !validPhaseISA(isa) {
		return "", nil, fmt.Errorf("invalid build phase type: %s", isa)
	}
	if id, phase, ok := p.BuildPhase(isa, targetID); ok {
		return id, phase, nil
	}
	target, ok := p.NativeTargetByKey(targetID)
	if !ok {
		return "", nil, fmt.Errorf("invalid target: %s", targetID)
	}
	id := p.Graph.NewID()
	phase := pbx.NewBuildPhaseRecord(isa)
	p.Graph.Add(isa, id, phase, name)
	attachPhase(target, id, name)
	return id, phase, nil
}

// ensureCopyPhase returns the named copy-files phase of a target,
// creating it with the given destination when absent.
func (p *Project) ensureCopyPhase(targetID, name, destination, dstPath string) (string, *openstep.Dict, error) {
	if id, phase, ok := p.BuildPhaseNamed(pbx.CopyFilesBuildPhase, targetID, name); ok {
		return id, phase, nil
	}
	target, ok := p.NativeTargetByKey(targetID)
	if !ok {
		return "", nil, fmt.Errorf("invalid target: %s", targetID)
	}
	spec, ok := pbx.SubfolderSpec(destination)
	if !ok {
		return "", nil, fmt.Errorf("invalid copy destination: %s", destination)
	}
	id := p.Graph.NewID()
	phase := pbx.NewCopyFilesPhaseRecord(name, dstPath, spec)
	p.Graph.Add(pbx.CopyFilesBuildPhase, id, phase, name)
	attachPhase(target, id, name)
	return id, phase, nil
}

func attachPhase(target *openstep.Dict, phaseID, name string) {
	phases, ok := target.GetArray("buildPhases")
	if !ok {
		phases = &openstep.Array{}
		target.Set("buildPhases", phases)
	}
	phases.Append(openstep.String(phaseID), name)
}

// AddBuildPhase creates a phase of the given flavor on a target and
// fills it with the given file paths. Paths already tracked reuse
// their build-file records; new paths get file-reference and
// build-file records. Returns the new phase and its identifier.
func (p *Project) AddBuildPhase(filePaths []string, isa, name, target string, opt PhaseOptions) (string, *openstep.Dict, error) {
	if !validPhaseISA(isa) {
		return "", nil, fmt.Errorf("invalid build phase type: %s", isa)
	}
	targetID, err := p.resolveTarget(target)
	if err != nil {
		return "", nil, err
	}
	targetObj, _ := p.NativeTargetByKey(targetID)

	var phase *openstep.Dict
	switch isa {
	case pbx.CopyFilesBuildPhase:
		spec, ok := pbx.SubfolderSpec(opt.Destination)
		if !ok {
			return "", nil, fmt.Errorf("invalid copy destination: %s", opt.Destination)
		}
		phase = pbx.NewCopyFilesPhaseRecord(name, opt.DstPath, spec)
	case pbx.ShellScriptBuildPhase:
		phase = pbx.NewShellScriptPhaseRecord(name, opt.ShellPath, opt.ShellScript, opt.InputPaths, opt.OutputPaths)
	default:
		phase = pbx.NewBuildPhaseRecord(isa)
	}

	id := p.Graph.NewID()
	p.Graph.Add(isa, id, phase, name)
	attachPhase(targetObj, id, name)

	for _, fp := range filePaths {
		if buildID, label, ok := p.buildFileForPath(fp); ok {
			appendPhaseFile(phase, buildID, label)
			continue
		}
		f := pbx.NewFileRef(fp, pbx.FileOptions{})
		f.ID = p.Graph.NewID()
		p.addFileReference(f)
		p.addBuildFile(f)
		appendPhaseFile(phase, f.BuildID, f.BuildLabel())
	}
	return id, phase, nil
}

// RemoveBuildPhase deletes a phase from a target: the target's phase
// reference, the phase record, and any member build files no other
// phase shares. Name selects among copy-files phases; empty takes the
// first phase of the flavor.
func (p *Project) RemoveBuildPhase(isa, target, name string) (bool, error) {
	targetID, err := p.resolveTarget(target)
	if err != nil {
		return false, err
	}

	var (
		id    string
		phase *openstep.Dict
		ok    bool
	)
	if name == "" {
		id, phase, ok = p.BuildPhase(isa, targetID)
	} else {
		id, phase, ok = p.BuildPhaseNamed(isa, targetID, name)
	}
	if !ok {
		return false, nil
	}

	if targetObj, ok := p.NativeTargetByKey(targetID); ok {
		if phases, ok := targetObj.GetArray("buildPhases"); ok {
			phases.RemoveFirst(func(e openstep.Element) bool {
				s, ok := e.Value.(openstep.String)
				return ok && string(s) == id
			})
		}
	}

	if files, ok := phase.GetArray("files"); ok {
		for _, e := range files.Elems {
			buildID, ok := e.Value.(openstep.String)
			if !ok {
				continue
			}
			if !p.buildFileInAnyPhase(string(buildID), id) {
				p.Graph.Remove(string(buildID))
			}
		}
	}
	p.Graph.Remove(id)
	return true, nil
}

// AddToCopyFilesPhase appends the descriptor's build file to the named
// copy-files phase of a target, creating the phase with the given
// destination when absent. The descriptor's BuildID must be set.
func (p *Project) AddToCopyFilesPhase(f *pbx.FileRef, target, name, destination string) error {
	targetID, err := p.resolveTarget(target)
	if err != nil {
		return err
	}
	_, phase, err := p.ensureCopyPhase(targetID, name, destination, "")
	if err != nil {
		return err
	}
	appendPhaseFile(phase, f.BuildID, f.BuildLabel())
	return nil
}

// RemoveFromCopyFilesPhase splices the descriptor's build file out of
// the named copy-files phase. Reports whether an entry was removed.
func (p *Project) RemoveFromCopyFilesPhase(f *pbx.FileRef, target, name string) bool {
	targetID, err := p.resolveTarget(target)
	if err != nil {
		return false
	}
	_, phase, ok := p.BuildPhaseNamed(pbx.CopyFilesBuildPhase, targetID, name)
	if !ok {
		return false
	}
	return removePhaseFile(phase, f.BuildID, f.BuildLabel())
}

func appendPhaseFile(phase *openstep.Dict, buildID, label string) {
	files, ok := phase.GetArray("files")
	if !ok {
		files = &openstep.Array{}
		phase.Set("files", files)
	}
	files.Append(openstep.String(buildID), label)
}

func removePhaseFile(phase *openstep.Dict, buildID, label string) bool {
	files, ok := phase.GetArray("files")
	if !ok {
		return false
	}
	return files.RemoveFirst(func(e openstep.Element) bool {
		s, ok := e.Value.(openstep.String)
		if !ok || string(s) != buildID {
			return false
		}
		return label == "" || e.Comment == label
	})
}

// splicePhaseRefs removes the (buildID, label) membership entry from
// every phase list that carries one. Matching recomputes the label;
// only the first structural match per phase is spliced.
func (p *Project) splicePhaseRefs(buildID, label string) {
	for _, isa := range phaseISAs {
		sec := p.Graph.Section(isa)
		if sec == nil {
			continue
		}
		for _, f := range sec.Fields() {
			phase, ok := f.Value.(*openstep.Dict)
			if !ok {
				continue
			}
			removePhaseFile(phase, buildID, label)
		}
	}
}

// buildFileInAnyPhase reports whether a build file is a member of any
// phase other than the excluded one.
func (p *Project) buildFileInAnyPhase(buildID, excludePhaseID string) bool {
	for _, isa := range phaseISAs {
		sec := p.Graph.Section(isa)
		if sec == nil {
			continue
		}
		for _, f := range sec.Fields() {
			if f.Key == excludePhaseID {
				continue
			}
			phase, ok := f.Value.(*openstep.Dict)
			if !ok {
				continue
			}
			files, ok := phase.GetArray("files")
			if !ok {
				continue
			}
			for _, e := range files.Elems {
				if s, ok := e.Value.(openstep.String); ok && string(s) == buildID {
					return true
				}
			}
		}
	}
	return false
}
