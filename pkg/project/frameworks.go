package project

import (
	"path"

	"github.com/jquillard/xcproj/pkg/pbx"
)

// FrameworkOptions configures AddFramework and RemoveFramework.
type FrameworkOptions struct {
	Target string

	// CustomFramework marks a framework shipped inside the tree
	// rather than an SDK one; it keeps its own path and feeds the
	// framework search paths.
	CustomFramework bool
	// NoLink skips membership in the frameworks phase. The build-file
	// record is still created.
	NoLink bool
	// Embed adds a second build file for a custom framework in the
	// "Embed Frameworks" copy phase; Sign additionally requests
	// code-signing on copy.
	Embed bool
	Sign  bool
	Weak  bool

	LastKnownType string
	SourceTree    string
}

func (o FrameworkOptions) linkDescriptor() pbx.FileOptions {
	return pbx.FileOptions{
		CustomFramework: o.CustomFramework,
		Weak:            o.Weak,
		LastKnownType:   o.LastKnownType,
		SourceTree:      o.SourceTree,
	}
}

func (o FrameworkOptions) embedDescriptor() pbx.FileOptions {
	d := o.linkDescriptor()
	d.Embed = true
	d.Sign = o.Sign
	return d
}

// frameworkSearchPath derives the search-path entry a descriptor
// contributes. Custom frameworks contribute their directory wrapped in
// literal quotes; everything else resolves relative to the source
// root.
func frameworkSearchPath(f *pbx.FileRef) string {
	if f.CustomFramework && f.Dirname != "" {
		return `"` + f.Dirname + `"`
	}
	dir := path.Dir(f.Path)
	if dir == "." {
		return "$(SRCROOT)"
	}
	return "$(SRCROOT)/" + dir
}

// AddFramework links a framework into the resolved target: reference
// record, Frameworks group membership, build file, and frameworks
// phase membership unless NoLink. Custom frameworks additionally feed
// the target's framework search paths, and with Embed gain a second
// build file in the "Embed Frameworks" copy phase. Returns the embed
// descriptor when one was created, the link descriptor otherwise, and
// (nil, nil) when the path is already tracked.
func (p *Project) AddFramework(pathArg string, opt FrameworkOptions) (*pbx.FileRef, error) {
	targetID, err := p.resolveTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	f := pbx.NewFileRef(pathArg, opt.linkDescriptor())
	if _, _, ok := p.HasFile(f.Path); ok {
		return nil, nil
	}
	f.ID = p.Graph.NewID()
	p.addFileReference(f)
	if err := p.AddToGroup(f.ID, f.Basename, "Frameworks"); err != nil {
		return nil, err
	}

	p.addBuildFile(f)
	if !opt.NoLink {
		_, phase, err := p.EnsureBuildPhase(pbx.FrameworksBuildPhase, targetID, "Frameworks")
		if err != nil {
			return nil, err
		}
		appendPhaseFile(phase, f.BuildID, f.BuildLabel())
	}

	if !opt.CustomFramework {
		return f, nil
	}

	if _, err := p.AddFrameworkSearchPath(frameworkSearchPath(f), PropertyFilter{TargetKey: targetID}); err != nil {
		return nil, err
	}
	if !opt.Embed {
		return f, nil
	}

	embed := pbx.NewFileRef(pathArg, opt.embedDescriptor())
	embed.ID = f.ID
	p.addBuildFile(embed)
	_, phase, err := p.ensureCopyPhase(targetID, pbx.EmbedFrameworks, "frameworks", "")
	if err != nil {
		return nil, err
	}
	appendPhaseFile(phase, embed.BuildID, embed.BuildLabel())
	return embed, nil
}

// RemoveFramework unlinks a framework: the reference record, every
// build file referencing it (link and embed alike), and all phase and
// group memberships. Custom frameworks also drop their search-path
// entry. Returns (nil, nil) when the path was not tracked.
func (p *Project) RemoveFramework(pathArg string, opt FrameworkOptions) (*pbx.FileRef, error) {
	targetID, err := p.resolveTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	f := pbx.NewFileRef(pathArg, opt.linkDescriptor())
	refID, _, ok := p.HasFile(f.Path)
	if !ok {
		return nil, nil
	}
	f.ID = refID
	p.scrubFileRecords(f)

	if opt.CustomFramework {
		if _, err := p.RemoveFrameworkSearchPath(frameworkSearchPath(f), PropertyFilter{TargetKey: targetID}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddStaticLibrary links a static library: reference record, build
// file, frameworks phase membership, and a library search-path entry
// for its directory. The library joins no tree group. Returns
// (nil, nil) when the path is already tracked.
func (p *Project) AddStaticLibrary(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	targetID, err := p.resolveTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	f := pbx.NewFileRef(pathArg, opt.descriptor())
	if _, _, ok := p.HasFile(f.Path); ok {
		return nil, nil
	}
	f.ID = p.Graph.NewID()
	p.addFileReference(f)

	p.addBuildFile(f)
	_, phase, err := p.EnsureBuildPhase(pbx.FrameworksBuildPhase, targetID, "Frameworks")
	if err != nil {
		return nil, err
	}
	appendPhaseFile(phase, f.BuildID, f.BuildLabel())

	if _, err := p.AddLibrarySearchPath(librarySearchPath(f), PropertyFilter{TargetKey: targetID}); err != nil {
		return nil, err
	}
	return f, nil
}

// RemoveStaticLibrary unlinks a static library and drops its
// search-path entry. Returns (nil, nil) when the path was not tracked.
func (p *Project) RemoveStaticLibrary(pathArg string, opt FileOptions) (*pbx.FileRef, error) {
	targetID, err := p.resolveTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	f := pbx.NewFileRef(pathArg, opt.descriptor())
	refID, _, ok := p.HasFile(f.Path)
	if !ok {
		return nil, nil
	}
	f.ID = refID
	p.scrubFileRecords(f)

	if _, err := p.RemoveLibrarySearchPath(librarySearchPath(f), PropertyFilter{TargetKey: targetID}); err != nil {
		return nil, err
	}
	return f, nil
}

func librarySearchPath(f *pbx.FileRef) string {
	dir := path.Dir(f.Path)
	if dir == "." {
		return "$(SRCROOT)"
	}
	return "$(SRCROOT)/" + dir
}
