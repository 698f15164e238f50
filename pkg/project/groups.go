package project

import (
	"fmt"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// Container record types, in scan order.
var groupISAs = []string{pbx.Group, pbx.VariantGroup, pbx.VersionGroup}

// Tree groups created on first use when referenced by name.
var knownGroups = map[string]bool{
	"Plugins":    true,
	"Resources":  true,
	"Frameworks": true,
	"Products":   true,
}

// GroupByKey looks a container record up by identifier.
func (p *Project) GroupByKey(id string) (*openstep.Dict, bool) {
	for _, isa := range groupISAs {
		sec := p.Graph.Section(isa)
		if sec == nil {
			continue
		}
		if g, ok := sec.GetDict(id); ok {
			return g, true
		}
	}
	return nil, false
}

// GroupByName resolves a generic group by its label, falling back to
// the record's name field.
func (p *Project) GroupByName(name string) (string, *openstep.Dict, bool) {
	if id, g, ok := p.Graph.FindByComment(pbx.Group, name); ok {
		return id, g, true
	}
	sec := p.Graph.Section(pbx.Group)
	if sec == nil {
		return "", nil, false
	}
	for _, f := range sec.Fields() {
		g, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if n, _ := g.GetString("name"); n == name {
			return f.Key, g, true
		}
	}
	return "", nil, false
}

// MainGroup returns the project's root group.
func (p *Project) MainGroup() (string, *openstep.Dict, error) {
	proj, err := p.Graph.ProjectObject()
	if err != nil {
		return "", nil, err
	}
	id, ok := proj.GetString("mainGroup")
	if !ok {
		return "", nil, fmt.Errorf("project has no main group")
	}
	g, ok := p.GroupByKey(id)
	if !ok {
		return "", nil, fmt.Errorf("main group %s not found", id)
	}
	return id, g, nil
}

// resolveGroup maps an identifier-or-name argument to a container
// record. Identifiers win when the argument could be either.
func (p *Project) resolveGroup(group string) (string, *openstep.Dict, bool) {
	if pbx.ValidID(group) {
		if g, ok := p.GroupByKey(group); ok {
			return group, g, true
		}
	}
	return p.GroupByName(group)
}

// EnsureGroup returns the group with the given name, creating it under
// the main group when absent.
func (p *Project) EnsureGroup(name string) (string, *openstep.Dict) {
	if id, g, ok := p.GroupByName(name); ok {
		return id, g
	}
	id := p.Graph.NewID()
	g := pbx.NewGroupRecord(pbx.Group, name, "")
	p.Graph.Add(pbx.Group, id, g, name)
	if mainID, main, err := p.MainGroup(); err == nil && mainID != "" {
		if children, ok := main.GetArray("children"); ok {
			children.Append(openstep.String(id), name)
		}
	}
	return id, g
}

// AddGroup creates a group holding the given file paths and attaches
// it to the main group. Paths already tracked are referenced; new ones
// get file-reference records.
func (p *Project) AddGroup(name, path string, filePaths []string) (string, *openstep.Dict, error) {
	id := p.Graph.NewID()
	g := pbx.NewGroupRecord(pbx.Group, name, path)
	children, _ := g.GetArray("children")

	for _, fp := range filePaths {
		if refID, _, ok := p.HasFile(fp); ok {
			children.Append(openstep.String(refID), p.Graph.Comment(refID))
			continue
		}
		f := pbx.NewFileRef(fp, pbx.FileOptions{})
		f.ID = p.Graph.NewID()
		p.addFileReference(f)
		children.Append(openstep.String(f.ID), f.Basename)
	}

	p.Graph.Add(pbx.Group, id, g, name)
	if mainID, main, err := p.MainGroup(); err == nil && mainID != "" {
		if mc, ok := main.GetArray("children"); ok {
			mc.Append(openstep.String(id), name)
		}
	}
	return id, g, nil
}

// AddToGroup appends a child reference to a container resolved by
// identifier or name. Well-known group names are created on demand;
// any other unknown group is an error.
func (p *Project) AddToGroup(childID, label, group string) error {
	_, g, ok := p.resolveGroup(group)
	if !ok {
		if !knownGroups[group] {
			return fmt.Errorf("group %s not found", group)
		}
		_, g = p.EnsureGroup(group)
	}
	children, ok := g.GetArray("children")
	if !ok {
		children = &openstep.Array{}
		g.Set("children", children)
	}
	children.Append(openstep.String(childID), label)
	return nil
}

// RemoveFromGroup splices the first child reference matching childID
// out of the named container. Reports whether a reference was removed.
func (p *Project) RemoveFromGroup(childID, group string) bool {
	_, g, ok := p.resolveGroup(group)
	if !ok {
		return false
	}
	children, ok := g.GetArray("children")
	if !ok {
		return false
	}
	return children.RemoveFirst(func(e openstep.Element) bool {
		s, ok := e.Value.(openstep.String)
		return ok && string(s) == childID
	})
}

// RemoveGroup deletes a container and every nested container beneath
// it, detaching it from any parent first. File references that were
// children stay tracked; removing them is the file operations' job.
func (p *Project) RemoveGroup(group string) error {
	id, g, ok := p.resolveGroup(group)
	if !ok {
		return fmt.Errorf("group %s not found", group)
	}
	p.spliceGroupRefs(id, "")
	p.removeGroupTree(id, g)
	return nil
}

func (p *Project) removeGroupTree(id string, g *openstep.Dict) {
	if children, ok := g.GetArray("children"); ok {
		for _, e := range children.Elems {
			cid, ok := e.Value.(openstep.String)
			if !ok {
				continue
			}
			child, isa := p.Graph.Object(string(cid))
			if child == nil {
				continue
			}
			for _, gisa := range groupISAs {
				if isa == gisa {
					p.removeGroupTree(string(cid), child)
					break
				}
			}
		}
	}
	// A container can sit in a build phase too (variant groups do);
	// its build files must not outlive it.
	for _, bf := range p.removeBuildFilesFor(id) {
		p.splicePhaseRefs(bf.id, bf.label)
	}
	p.Graph.Remove(id)
}

// spliceGroupRefs removes references to id from every container's
// child list. A non-empty label restricts matching to entries whose
// annotation equals it.
func (p *Project) spliceGroupRefs(id, label string) {
	for _, isa := range groupISAs {
		sec := p.Graph.Section(isa)
		if sec == nil {
			continue
		}
		for _, f := range sec.Fields() {
			g, ok := f.Value.(*openstep.Dict)
			if !ok {
				continue
			}
			children, ok := g.GetArray("children")
			if !ok {
				continue
			}
			children.RemoveFirst(func(e openstep.Element) bool {
				s, ok := e.Value.(openstep.String)
				if !ok || string(s) != id {
					return false
				}
				return label == "" || e.Comment == label
			})
		}
	}
}

// VariantGroupRef identifies a localization variant group and the
// build-file record that places it in a resources phase.
type VariantGroupRef struct {
	ID      string
	BuildID string
	Name    string
}

// AddLocalizationVariantGroup creates a variant group under the
// Resources tree group and registers it with the resolved target's
// resources phase. Localized files join it via AddToGroup.
func (p *Project) AddLocalizationVariantGroup(name string, opt FileOptions) (*VariantGroupRef, error) {
	targetID, err := p.resolveTarget(opt.Target)
	if err != nil {
		return nil, err
	}

	id := p.Graph.NewID()
	g := pbx.NewGroupRecord(pbx.VariantGroup, name, "")
	p.Graph.Add(pbx.VariantGroup, id, g, name)
	if err := p.AddToGroup(id, name, "Resources"); err != nil {
		return nil, err
	}

	ref := &VariantGroupRef{ID: id, BuildID: p.Graph.NewID(), Name: name}
	label := name + " in Resources"
	bf := openstep.NewDict()
	bf.Set("isa", openstep.String(pbx.BuildFile))
	bf.SetWithComment("fileRef", openstep.String(id), name)
	p.Graph.Add(pbx.BuildFile, ref.BuildID, bf, label)

	_, phase, err := p.EnsureBuildPhase(pbx.ResourcesBuildPhase, targetID, "Resources")
	if err != nil {
		return nil, err
	}
	appendPhaseFile(phase, ref.BuildID, label)
	return ref, nil
}
