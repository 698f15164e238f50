package project

import (
	"testing"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

func childCount(t *testing.T, p *Project, groupID string) int {
	t.Helper()
	g, ok := p.GroupByKey(groupID)
	if !ok {
		t.Fatalf("group %s not found", groupID)
	}
	children, _ := g.GetArray("children")
	return children.Len()
}

func phaseFileCount(t *testing.T, p *Project, phaseID string) int {
	t.Helper()
	phase, _ := p.Graph.Object(phaseID)
	if phase == nil {
		t.Fatalf("phase %s not found", phaseID)
	}
	files, _ := phase.GetArray("files")
	return files.Len()
}

func TestAddSourceFile_Transaction(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddSourceFile("App/Networking.m", FileOptions{Group: "App"})
	if err != nil {
		t.Fatalf("AddSourceFile: %v", err)
	}
	if f == nil {
		t.Fatal("AddSourceFile returned nil for a new path")
	}
	if !pbx.ValidID(f.ID) || !pbx.ValidID(f.BuildID) {
		t.Fatalf("identifiers not allocated: %q %q", f.ID, f.BuildID)
	}
	if f.LastKnownType != "sourcecode.c.objc" {
		t.Errorf("type = %q, want sourcecode.c.objc", f.LastKnownType)
	}
	if f.Group != "Sources" {
		t.Errorf("group = %q, want Sources", f.Group)
	}

	rec, isa := p.Graph.Object(f.ID)
	if isa != pbx.FileReference {
		t.Fatalf("reference record isa = %q", isa)
	}
	if ft, _ := rec.GetString("lastKnownFileType"); ft != "sourcecode.c.objc" {
		t.Errorf("record type = %q", ft)
	}
	if p.Graph.Comment(f.ID) != "Networking.m" {
		t.Errorf("reference label = %q, want Networking.m", p.Graph.Comment(f.ID))
	}

	bf, isa := p.Graph.Object(f.BuildID)
	if isa != pbx.BuildFile {
		t.Fatalf("build record isa = %q", isa)
	}
	if ref, _ := bf.GetString("fileRef"); ref != f.ID {
		t.Errorf("build record fileRef = %q, want %q", ref, f.ID)
	}
	if p.Graph.Comment(f.BuildID) != "Networking.m in Sources" {
		t.Errorf("build label = %q", p.Graph.Comment(f.BuildID))
	}

	if n := phaseFileCount(t, p, sourcesPhaseID); n != 2 {
		t.Errorf("sources phase has %d files, want 2", n)
	}
	if n := childCount(t, p, appGroupID); n != 3 {
		t.Errorf("App group has %d children, want 3", n)
	}
}

func TestAddSourceFile_DuplicateIsNoOp(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddSourceFile("App/main.m", FileOptions{Group: "App"})
	if err != nil {
		t.Fatalf("AddSourceFile: %v", err)
	}
	if f != nil {
		t.Fatalf("duplicate add returned %+v, want nil", f)
	}
	if n := phaseFileCount(t, p, sourcesPhaseID); n != 1 {
		t.Errorf("sources phase has %d files after no-op, want 1", n)
	}
}

func TestAddSourceFile_InvalidTarget(t *testing.T) {
	p := loadFixture(t)

	_, err := p.AddSourceFile("App/Networking.m", FileOptions{
		Group:  "App",
		Target: "0123456789ABCDEF01234567",
	})
	if err == nil {
		t.Fatal("AddSourceFile with an unknown target should fail")
	}
	if got := err.Error(); got != "invalid target: 0123456789ABCDEF01234567" {
		t.Errorf("error = %q", got)
	}
}

func TestAddSourceFile_UnknownGroup(t *testing.T) {
	p := loadFixture(t)
	if _, err := p.AddSourceFile("App/Networking.m", FileOptions{Group: "Ghost"}); err == nil {
		t.Fatal("AddSourceFile with an unknown group should fail")
	}
}

func TestRemoveSourceFile_UndoesEverySideEffect(t *testing.T) {
	p := loadFixture(t)

	if _, err := p.AddSourceFile("App/Networking.m", FileOptions{Group: "App"}); err != nil {
		t.Fatalf("AddSourceFile: %v", err)
	}
	f, err := p.RemoveSourceFile("App/Networking.m", FileOptions{Group: "App"})
	if err != nil {
		t.Fatalf("RemoveSourceFile: %v", err)
	}
	if f == nil {
		t.Fatal("RemoveSourceFile returned nil for a tracked path")
	}

	if rec, _ := p.Graph.Object(f.ID); rec != nil {
		t.Error("file reference still present after removal")
	}
	if _, _, ok := p.buildFileForPath("App/Networking.m"); ok {
		t.Error("build file still present after removal")
	}
	if n := phaseFileCount(t, p, sourcesPhaseID); n != 1 {
		t.Errorf("sources phase has %d files, want 1", n)
	}
	if n := childCount(t, p, appGroupID); n != 2 {
		t.Errorf("App group has %d children, want 2", n)
	}
}

func TestRemoveSourceFile_Untracked(t *testing.T) {
	p := loadFixture(t)
	f, err := p.RemoveSourceFile("App/Ghost.m", FileOptions{Group: "App"})
	if err != nil {
		t.Fatalf("RemoveSourceFile: %v", err)
	}
	if f != nil {
		t.Fatalf("untracked removal returned %+v, want nil", f)
	}
}

func TestHasFile_PathNormalization(t *testing.T) {
	p := loadFixture(t)

	for _, probe := range []string{"App/main.m", "./App/main.m", `App\main.m`} {
		id, _, ok := p.HasFile(probe)
		if !ok || id != mainMRefID {
			t.Errorf("HasFile(%q) = %s, %v", probe, id, ok)
		}
	}
	if _, _, ok := p.HasFile("App/ghost.m"); ok {
		t.Error("HasFile matched an untracked path")
	}
}

func TestAddResourceFile_CreatesGroupAndPhaseEntry(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddResourceFile("icon.png", FileOptions{})
	if err != nil {
		t.Fatalf("AddResourceFile: %v", err)
	}
	if f == nil {
		t.Fatal("AddResourceFile returned nil")
	}
	if f.LastKnownType != "image.png" {
		t.Errorf("type = %q, want image.png", f.LastKnownType)
	}

	// The Resources container did not exist; it is created on demand
	// and attached to the main group.
	gid, g, ok := p.GroupByName("Resources")
	if !ok {
		t.Fatal("Resources group not created")
	}
	children, _ := g.GetArray("children")
	if children.Len() != 1 {
		t.Fatalf("Resources group has %d children, want 1", children.Len())
	}
	found := false
	main, _ := p.GroupByKey(appMainGroupID)
	mainChildren, _ := main.GetArray("children")
	for _, e := range mainChildren.Elems {
		if s, ok := e.Value.(openstep.String); ok && string(s) == gid {
			found = true
		}
	}
	if !found {
		t.Error("Resources group not attached to the main group")
	}

	if n := phaseFileCount(t, p, resourcesPhID); n != 1 {
		t.Errorf("resources phase has %d files, want 1", n)
	}

	if _, err := p.RemoveResourceFile("icon.png", FileOptions{}); err != nil {
		t.Fatalf("RemoveResourceFile: %v", err)
	}
	if n := phaseFileCount(t, p, resourcesPhID); n != 0 {
		t.Errorf("resources phase has %d files after removal, want 0", n)
	}
	if n := childCount(t, p, gid); n != 0 {
		t.Errorf("Resources group has %d children after removal, want 0", n)
	}
}

func TestAddResourceFile_VariantGroupSkipsPhase(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddResourceFile("en.lproj/Localizable.strings", FileOptions{VariantGroup: true})
	if err != nil {
		t.Fatalf("AddResourceFile: %v", err)
	}
	if f == nil {
		t.Fatal("AddResourceFile returned nil")
	}
	if f.BuildID != "" {
		t.Error("variant-group member should not get its own build file")
	}
	if n := phaseFileCount(t, p, resourcesPhID); n != 0 {
		t.Errorf("resources phase has %d files, want 0", n)
	}
}

func TestAddHeaderFile_NoBuildFile(t *testing.T) {
	p := loadFixture(t)

	before := p.Graph.Section(pbx.BuildFile).Len()
	f, err := p.AddHeaderFile("App/Networking.h", FileOptions{Group: "App"})
	if err != nil {
		t.Fatalf("AddHeaderFile: %v", err)
	}
	if f == nil {
		t.Fatal("AddHeaderFile returned nil")
	}
	if after := p.Graph.Section(pbx.BuildFile).Len(); after != before {
		t.Errorf("build-file records went from %d to %d, want unchanged", before, after)
	}
	if n := childCount(t, p, appGroupID); n != 3 {
		t.Errorf("App group has %d children, want 3", n)
	}
}

func TestAddProductFile(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddProductFile("Widget", FileOptions{
		Group:        "Copy Files",
		ExplicitType: "wrapper.app-extension",
	})
	if err != nil {
		t.Fatalf("AddProductFile: %v", err)
	}
	if f.Basename != "Widget.appex" {
		t.Errorf("basename = %q, want Widget.appex", f.Basename)
	}

	rec, _ := p.Graph.Object(f.ID)
	if rec == nil {
		t.Fatal("product reference record missing")
	}
	if et, _ := rec.GetString("explicitFileType"); et != "wrapper.app-extension" {
		t.Errorf("explicitFileType = %q", et)
	}
	if st, _ := rec.GetString("sourceTree"); st != pbx.SourceTreeProducts {
		t.Errorf("sourceTree = %q, want %q", st, pbx.SourceTreeProducts)
	}
	if n := childCount(t, p, productsGroupID); n != 2 {
		t.Errorf("Products group has %d children, want 2", n)
	}

	got, err := p.RemoveProductFile("Widget.appex", FileOptions{})
	if err != nil {
		t.Fatalf("RemoveProductFile: %v", err)
	}
	if got == nil {
		t.Fatal("RemoveProductFile returned nil")
	}
	if n := childCount(t, p, productsGroupID); n != 1 {
		t.Errorf("Products group has %d children after removal, want 1", n)
	}
}

func TestAddFile_TreeOnly(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddFile("README.md", "App", FileOptions{})
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if f == nil {
		t.Fatal("AddFile returned nil")
	}
	if n := childCount(t, p, appGroupID); n != 3 {
		t.Errorf("App group has %d children, want 3", n)
	}
	if _, _, ok := p.buildFileForPath("README.md"); ok {
		t.Error("AddFile should not create a build file")
	}
}
