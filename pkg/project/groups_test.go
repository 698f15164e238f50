package project

import (
	"testing"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

func TestGroupLookup(t *testing.T) {
	p := loadFixture(t)

	if _, ok := p.GroupByKey(appGroupID); !ok {
		t.Error("GroupByKey missed the App group")
	}
	id, _, ok := p.GroupByName("Products")
	if !ok || id != productsGroupID {
		t.Errorf("GroupByName(Products) = %s, %v", id, ok)
	}
	// The main group has no label; lookup falls back to the name field
	// for named groups only.
	if _, _, ok := p.GroupByName("Ghost"); ok {
		t.Error("GroupByName matched a missing group")
	}
}

func TestMainGroup(t *testing.T) {
	p := loadFixture(t)
	id, _, err := p.MainGroup()
	if err != nil {
		t.Fatalf("MainGroup: %v", err)
	}
	if id != appMainGroupID {
		t.Errorf("main group = %s, want %s", id, appMainGroupID)
	}
}

func TestAddGroup(t *testing.T) {
	p := loadFixture(t)

	id, g, err := p.AddGroup("Vendor", "Vendor", []string{"Vendor/libz.tbd", "App/main.m"})
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if !pbx.ValidID(id) {
		t.Fatalf("group id = %q", id)
	}
	if name, _ := g.GetString("name"); name != "Vendor" {
		t.Errorf("name = %q", name)
	}
	if path, _ := g.GetString("path"); path != "Vendor" {
		t.Errorf("path = %q", path)
	}

	children, _ := g.GetArray("children")
	if children.Len() != 2 {
		t.Fatalf("children = %d, want 2", children.Len())
	}
	// Existing references are reused, not duplicated.
	if s, _ := children.Elems[1].Value.(openstep.String); string(s) != mainMRefID {
		t.Errorf("tracked file not reused: %v", children.Elems[1].Value)
	}
	refs := p.Graph.Section(pbx.FileReference)
	if refs.Len() != 5 {
		t.Errorf("file references = %d, want 5", refs.Len())
	}

	// New group joins the main group.
	if n := childCount(t, p, appMainGroupID); n != 3 {
		t.Errorf("main group children = %d, want 3", n)
	}
}

func TestAddToGroup_CreatesKnownGroupsOnly(t *testing.T) {
	p := loadFixture(t)

	if err := p.AddToGroup(mainMRefID, "main.m", "Frameworks"); err != nil {
		t.Fatalf("AddToGroup(Frameworks): %v", err)
	}
	if _, _, ok := p.GroupByName("Frameworks"); !ok {
		t.Error("Frameworks group not created on demand")
	}

	if err := p.AddToGroup(mainMRefID, "main.m", "Ghost"); err == nil {
		t.Fatal("AddToGroup with an unknown group should fail")
	}
}

func TestRemoveFromGroup(t *testing.T) {
	p := loadFixture(t)

	if !p.RemoveFromGroup(mainMRefID, "App") {
		t.Fatal("RemoveFromGroup did not find the child")
	}
	if n := childCount(t, p, appGroupID); n != 1 {
		t.Errorf("App group children = %d, want 1", n)
	}
	if p.RemoveFromGroup(mainMRefID, "App") {
		t.Error("second removal should report false")
	}
	// The reference record itself stays tracked.
	if rec, _ := p.Graph.Object(mainMRefID); rec == nil {
		t.Error("file reference removed by group splice")
	}
}

func TestEnsureGroup_Idempotent(t *testing.T) {
	p := loadFixture(t)

	id1, _ := p.EnsureGroup("Resources")
	id2, _ := p.EnsureGroup("Resources")
	if id1 != id2 {
		t.Errorf("EnsureGroup allocated twice: %s, %s", id1, id2)
	}
	if n := childCount(t, p, appMainGroupID); n != 3 {
		t.Errorf("main group children = %d, want 3", n)
	}
}

func TestAddLocalizationVariantGroup(t *testing.T) {
	p := loadFixture(t)

	ref, err := p.AddLocalizationVariantGroup("InfoPlist.strings", FileOptions{})
	if err != nil {
		t.Fatalf("AddLocalizationVariantGroup: %v", err)
	}
	if !pbx.ValidID(ref.ID) || !pbx.ValidID(ref.BuildID) {
		t.Fatalf("identifiers not allocated: %+v", ref)
	}

	vg, isa := p.Graph.Object(ref.ID)
	if isa != pbx.VariantGroup {
		t.Fatalf("record isa = %q", isa)
	}
	if name, _ := vg.GetString("name"); name != "InfoPlist.strings" {
		t.Errorf("name = %q", name)
	}

	// Registered under Resources and in the resources phase.
	_, rg, ok := p.GroupByName("Resources")
	if !ok {
		t.Fatal("Resources group not created")
	}
	children, _ := rg.GetArray("children")
	if children.Len() != 1 {
		t.Errorf("Resources children = %d, want 1", children.Len())
	}
	if n := phaseFileCount(t, p, resourcesPhID); n != 1 {
		t.Errorf("resources phase files = %d, want 1", n)
	}
	if got := p.Graph.Comment(ref.BuildID); got != "InfoPlist.strings in Resources" {
		t.Errorf("build label = %q", got)
	}
}

func TestRemoveGroup_RecursesAndScrubsBuildFiles(t *testing.T) {
	p := loadFixture(t)

	ref, err := p.AddLocalizationVariantGroup("InfoPlist.strings", FileOptions{})
	if err != nil {
		t.Fatalf("AddLocalizationVariantGroup: %v", err)
	}
	if _, err := p.AddResourceFile("en.lproj/InfoPlist.strings", FileOptions{VariantGroup: true, Group: ref.ID}); err != nil {
		t.Fatalf("AddResourceFile: %v", err)
	}

	if err := p.RemoveGroup("Resources"); err != nil {
		t.Fatalf("RemoveGroup: %v", err)
	}

	if _, _, ok := p.GroupByName("Resources"); ok {
		t.Error("Resources group still present")
	}
	if rec, _ := p.Graph.Object(ref.ID); rec != nil {
		t.Error("nested variant group still present")
	}
	if rec, _ := p.Graph.Object(ref.BuildID); rec != nil {
		t.Error("variant group build file still present")
	}
	if n := phaseFileCount(t, p, resourcesPhID); n != 0 {
		t.Errorf("resources phase files = %d, want 0", n)
	}
	// Member file references survive; their lifecycle belongs to the
	// file operations.
	if _, _, ok := p.HasFile("en.lproj/InfoPlist.strings"); !ok {
		t.Error("member file reference was removed with the group")
	}
	// Main group no longer points at the removed container.
	if n := childCount(t, p, appMainGroupID); n != 2 {
		t.Errorf("main group children = %d, want 2", n)
	}
}

func TestRemoveGroup_Unknown(t *testing.T) {
	p := loadFixture(t)
	if err := p.RemoveGroup("Ghost"); err == nil {
		t.Fatal("RemoveGroup of a missing group should fail")
	}
}
