package project

import (
	"fmt"
	"os"
	"path"
	"strings"

	"howett.net/plist"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// currentVersionSidecar is the plist the IDE drops inside a versioned
// data model naming the active version.
const currentVersionSidecar = ".xccurrentversion"

type currentVersion struct {
	Name string `plist:"_XCCurrentVersionName"`
}

// AddDataModelDocument tracks a versioned data model bundle: the
// container joins the group and the resolved target's sources phase
// like any compiled source, each .xcdatamodel version inside gets its
// own file reference, and the container's record is a version group
// pointing at the active version (read from the .xccurrentversion
// sidecar, defaulting to the first version found). group defaults to
// Resources. Returns (nil, nil) when the path is already tracked.
func (p *Project) AddDataModelDocument(filePath, group string, opt FileOptions) (*pbx.FileRef, error) {
	if group == "" {
		group = "Resources"
	}
	targetID, err := p.resolveTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	f := pbx.NewFileRef(filePath, opt.descriptor())
	if _, _, ok := p.HasFile(f.Path); ok {
		return nil, nil
	}
	f.ID = p.Graph.NewID()
	if err := p.AddToGroup(f.ID, f.Basename, group); err != nil {
		return nil, err
	}

	p.addBuildFile(f)
	_, phase, err := p.EnsureBuildPhase(pbx.SourcesBuildPhase, targetID, "Sources")
	if err != nil {
		return nil, err
	}
	appendPhaseFile(phase, f.BuildID, f.BuildLabel())

	entries, err := os.ReadDir(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read data model %s: %w", f.Path, err)
	}

	versionName := ""
	var modelNames []string
	for _, e := range entries {
		if e.Name() == currentVersionSidecar {
			raw, err := os.ReadFile(path.Join(f.Path, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("read data model %s: %w", f.Path, err)
			}
			var cv currentVersion
			if _, err := plist.Unmarshal(raw, &cv); err != nil {
				return nil, fmt.Errorf("parse %s: %w", currentVersionSidecar, err)
			}
			versionName = cv.Name
			continue
		}
		if strings.HasSuffix(e.Name(), ".xcdatamodel") {
			modelNames = append(modelNames, e.Name())
		}
	}
	if len(modelNames) == 0 {
		return nil, fmt.Errorf("%s holds no data model versions", f.Path)
	}
	current := modelNames[0]
	for _, n := range modelNames {
		if n == versionName {
			current = n
		}
	}

	children := &openstep.Array{}
	currentID, currentLabel := "", ""
	for _, n := range modelNames {
		model := pbx.NewFileRef(path.Join(f.Path, n), pbx.FileOptions{})
		model.ID = p.Graph.NewID()
		p.addFileReference(model)
		children.Append(openstep.String(model.ID), model.Basename)
		if n == current {
			currentID, currentLabel = model.ID, model.Basename
		}
	}

	vg := openstep.NewDict()
	vg.Set("isa", openstep.String(pbx.VersionGroup))
	vg.Set("children", children)
	vg.SetWithComment("currentVersion", openstep.String(currentID), currentLabel)
	vg.Set("name", openstep.String(f.Basename))
	vg.Set("path", openstep.String(f.Path))
	vg.Set("sourceTree", openstep.String(pbx.SourceTreeGroup))
	vg.Set("versionGroupType", openstep.String("wrapper.xcdatamodel"))
	p.Graph.Add(pbx.VersionGroup, f.ID, vg, f.Basename)

	return f, nil
}
