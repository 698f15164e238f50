package project

import (
	"fmt"
	"path"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// FileOptions configures the file-level operations. Target selects the
// native target whose phases receive the file (empty means the first
// target); Group places the file in the tree (empty falls back to the
// operation's conventional group). The remaining fields configure the
// descriptor factory.
type FileOptions struct {
	Target string
	Group  string

	ExplicitType    string
	LastKnownType   string
	SourceTree      string
	CustomFramework bool
	Embed           bool
	Weak            bool
	Sign            bool
	CompilerFlags   string
	Encoding        string

	// VariantGroup marks a resource destined for a localization
	// variant group: the file is tracked and placed in the tree but
	// gets no build-file or phase membership of its own.
	VariantGroup bool
}

func (o FileOptions) descriptor() pbx.FileOptions {
	return pbx.FileOptions{
		ExplicitType:    o.ExplicitType,
		LastKnownType:   o.LastKnownType,
		SourceTree:      o.SourceTree,
		CustomFramework: o.CustomFramework,
		Embed:           o.Embed,
		Weak:            o.Weak,
		Sign:            o.Sign,
		CompilerFlags:   o.CompilerFlags,
		Encoding:        o.Encoding,
	}
}

// HasFile reports whether a path is already tracked, returning the
// matching file-reference record. Comparison is quote-tolerant and
// ignores a leading "./".
func (p *Project) HasFile(pathArg string) (string, *openstep.Dict, bool) {
	want := normalizePath(pathArg)
	sec := p.Graph.Section(pbx.FileReference)
	if sec == nil {
		return "", nil, false
	}
	for _, f := range sec.Fields() {
		rec, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		got, ok := rec.GetString("path")
		if !ok {
			continue
		}
		if normalizePath(got) == want {
			return f.Key, rec, true
		}
	}
	return "", nil, false
}

func (p *Project) addFileReference(f *pbx.FileRef) {
	p.Graph.Add(pbx.FileReference, f.ID, f.Record(), f.Basename)
}

func (p *Project) addBuildFile(f *pbx.FileRef) {
	if f.BuildID == "" {
		f.BuildID = p.Graph.NewID()
	}
	p.Graph.Add(pbx.BuildFile, f.BuildID, f.BuildFileRecord(), f.BuildLabel())
}

// buildFileForPath finds the build file whose reference tracks a path.
func (p *Project) buildFileForPath(pathArg string) (string, string, bool) {
	refID, _, ok := p.HasFile(pathArg)
	if !ok {
		return "", "", false
	}
	sec := p.Graph.Section(pbx.BuildFile)
	if sec == nil {
		return "", "", false
	}
	for _, f := range sec.Fields() {
		rec, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if ref, _ := rec.GetString("fileRef"); ref == refID {
			return f.Key, f.Comment, true
		}
	}
	return "", "", false
}

// correctForGroupPath prefixes a path-backed container's path to the
// descriptor, the way the tree resolves its children on disk.
func (p *Project) correctForGroupPath(f *pbx.FileRef, group string) {
	_, g, ok := p.resolveGroup(group)
	if !ok {
		return
	}
	gp, ok := g.GetString("path")
	if !ok || gp == "" {
		return
	}
	f.Path = path.Join(normalizePath(gp), f.Path)
}

// addTreeFile creates the file-reference record and its tree
// placement. defaultGroup applies when the options name none;
// correctAgainst names a container whose path prefixes the file's.
// Returns (nil, nil) when the path is already tracked.
func (p *Project) addTreeFile(pathArg string, opt FileOptions, defaultGroup, correctAgainst string) (*pbx.FileRef, error) {
	group := opt.Group
	if group == "" {
		group = defaultGroup
	}
	if _, _, ok := p.resolveGroup(group); !ok && !knownGroups[group] {
		return nil, fmt.Errorf("group %s not found", group)
	}

	f := pbx.NewFileRef(pathArg, opt.descriptor())
	if correctAgainst != "" {
		p.correctForGroupPath(f, correctAgainst)
	}
	if _, _, ok := p.HasFile(f.Path); ok {
		return nil, nil
	}

	f.ID = p.Graph.NewID()
	p.addFileReference(f)
	if err := p.AddToGroup(f.ID, f.Basename, group); err != nil {
		return nil, err
	}
	return f, nil
}

// AddFile tracks a file and places it in the given group, with no
// build-phase participation. Returns (nil, nil) when the path is
// already tracked.
func (p *Project) AddFile(pathArg, group string, opt FileOptions) (*pbx.FileRef, error) {
	opt.Group = group
	return p.addTreeFile(pathArg, opt, "Plugins", "")
}

// AddSourceFile tracks a source file and registers it with the
// resolved target's sources phase, creating the phase on first use.
// Returns (nil, nil) when the path is already tracked.
func (p *Project) AddSourceFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	targetID, err := p.resolveTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	var f *pbx.FileRef
	if opt.Group == "" {
		f, err = p.addTreeFile(pathArg, opt, "Plugins", "Plugins")
	} else {
		f, err = p.addTreeFile(pathArg, opt, "", "")
	}
	if err != nil || f == nil {
		return nil, err
	}

	p.addBuildFile(f)
	_, phase, err := p.EnsureBuildPhase(pbx.SourcesBuildPhase, targetID, "Sources")
	if err != nil {
		return nil, err
	}
	appendPhaseFile(phase, f.BuildID, f.BuildLabel())
	return f, nil
}

// RemoveSourceFile untracks a source file: its reference, its build
// files, and every phase and group membership. Returns (nil, nil) when
// the path was not tracked.
func (p *Project) RemoveSourceFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	correct := ""
	if opt.Group == "" {
		correct = "Plugins"
	}
	return p.removeTrackedFile(pathArg, opt, correct), nil
}

// AddHeaderFile tracks a header. Headers get no build-phase
// membership. Returns (nil, nil) when the path is already tracked.
func (p *Project) AddHeaderFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	if opt.Group == "" {
		return p.addTreeFile(pathArg, opt, "Plugins", "Plugins")
	}
	return p.addTreeFile(pathArg, opt, "", "")
}

// RemoveHeaderFile untracks a header. Returns (nil, nil) when the path
// was not tracked.
func (p *Project) RemoveHeaderFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	correct := ""
	if opt.Group == "" {
		correct = "Plugins"
	}
	return p.removeTrackedFile(pathArg, opt, correct), nil
}

// AddResourceFile tracks a resource and registers it with the resolved
// target's resources phase. The path is resolved against the Resources
// container when that container is path-backed. With VariantGroup set
// the file is only tracked and placed; the variant group owns the
// phase membership. Returns (nil, nil) when the path is already
// tracked.
func (p *Project) AddResourceFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	targetID := ""
	if !opt.VariantGroup {
		var err error
		targetID, err = p.resolveTarget(opt.Target)
		if err != nil {
			return nil, err
		}
	}

	f, err := p.addTreeFile(pathArg, opt, "Resources", "Resources")
	if err != nil || f == nil {
		return nil, err
	}
	if opt.VariantGroup {
		return f, nil
	}

	p.addBuildFile(f)
	_, phase, err := p.EnsureBuildPhase(pbx.ResourcesBuildPhase, targetID, "Resources")
	if err != nil {
		return nil, err
	}
	appendPhaseFile(phase, f.BuildID, f.BuildLabel())
	return f, nil
}

// RemoveResourceFile untracks a resource. Returns (nil, nil) when the
// path was not tracked.
func (p *Project) RemoveResourceFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	return p.removeTrackedFile(pathArg, opt, "Resources"), nil
}

// AddPluginFile tracks a file under the Plugins container with no
// build-phase membership. Returns (nil, nil) when the path is already
// tracked.
func (p *Project) AddPluginFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	return p.addTreeFile(pathArg, opt, "Plugins", "Plugins")
}

// RemovePluginFile untracks a plugin file. Returns (nil, nil) when the
// path was not tracked.
func (p *Project) RemovePluginFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	return p.removeTrackedFile(pathArg, opt, "Plugins"), nil
}

// AddProductFile registers a build product: an explicit-type reference
// in the Products container. opt.Group names the build-label grouping
// carried by descriptors of the product, not a tree container. No
// duplicate check applies; products are keyed by their target.
func (p *Project) AddProductFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	pbxOpt := opt.descriptor()
	pbxOpt.Group = opt.Group
	f := pbx.NewFileRef(pathArg, pbxOpt)
	f.ID = p.Graph.NewID()
	p.addFileReference(f)
	if err := p.AddToGroup(f.ID, f.Basename, "Products"); err != nil {
		return nil, err
	}
	return f, nil
}

// RemoveProductFile unregisters a build product and scrubs its build
// files and memberships. Returns (nil, nil) when the path was not
// tracked.
func (p *Project) RemoveProductFile(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	pbxOpt := opt.descriptor()
	pbxOpt.Group = opt.Group
	f := pbx.NewFileRef(pathArg, pbxOpt)
	refID, _, ok := p.HasFile(f.Basename)
	if !ok {
		return nil, nil
	}
	f.ID = refID
	p.scrubFileRecords(f)
	return f, nil
}

type removedBuildFile struct {
	id    string
	label string
}

// removeBuildFilesFor deletes every build file referencing refID,
// returning their identifiers and labels for membership splicing.
func (p *Project) removeBuildFilesFor(refID string) []removedBuildFile {
	sec := p.Graph.Section(pbx.BuildFile)
	if sec == nil {
		return nil
	}
	var removed []removedBuildFile
	for _, f := range sec.Fields() {
		rec, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if ref, _ := rec.GetString("fileRef"); ref == refID {
			removed = append(removed, removedBuildFile{f.Key, f.Comment})
		}
	}
	for _, r := range removed {
		sec.Delete(r.id)
	}
	return removed
}

// removeTrackedFile rebuilds the descriptor for a path, locates its
// reference record and undoes every insertion the add operations
// perform. Returns nil when the path was not tracked.
func (p *Project) removeTrackedFile(pathArg string, opt FileOptions, correctAgainst string) *pbx.FileRef {
	f := pbx.NewFileRef(pathArg, opt.descriptor())
	if correctAgainst != "" {
		p.correctForGroupPath(f, correctAgainst)
	}
	refID, _, ok := p.HasFile(f.Path)
	if !ok {
		return nil
	}
	f.ID = refID
	p.scrubFileRecords(f)
	return f
}

// scrubFileRecords removes the reference record at f.ID together with
// its build files and every phase and group membership entry.
func (p *Project) scrubFileRecords(f *pbx.FileRef) {
	for _, bf := range p.removeBuildFilesFor(f.ID) {
		if f.BuildID == "" {
			f.BuildID = bf.id
		}
		p.splicePhaseRefs(bf.id, bf.label)
	}
	p.spliceGroupRefs(f.ID, "")
	p.Graph.Remove(f.ID)
}
