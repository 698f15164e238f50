package project

import (
	"testing"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

func targetPhaseCount(t *testing.T, p *Project, targetID string) int {
	t.Helper()
	target, ok := p.NativeTargetByKey(targetID)
	if !ok {
		t.Fatalf("target %s not found", targetID)
	}
	phases, _ := target.GetArray("buildPhases")
	return phases.Len()
}

func TestBuildPhase_CompoundLookup(t *testing.T) {
	p := loadFixture(t)

	id, _, ok := p.BuildPhase(pbx.SourcesBuildPhase, appTargetID)
	if !ok || id != sourcesPhaseID {
		t.Errorf("BuildPhase(Sources) = %s, %v", id, ok)
	}
	if _, _, ok := p.BuildPhase(pbx.HeadersBuildPhase, appTargetID); ok {
		t.Error("BuildPhase found a headers phase the target does not have")
	}
}

func TestEnsureBuildPhase_CreatesOnFirstUse(t *testing.T) {
	p := loadFixture(t)

	id, phase, err := p.EnsureBuildPhase(pbx.HeadersBuildPhase, appTargetID, "Headers")
	if err != nil {
		t.Fatalf("EnsureBuildPhase: %v", err)
	}
	if mask, _ := phase.GetString("buildActionMask"); mask != "2147483647" {
		t.Errorf("buildActionMask = %q", mask)
	}
	if files, ok := phase.GetArray("files"); !ok || files.Len() != 0 {
		t.Error("new phase should carry an empty files list")
	}
	if n := targetPhaseCount(t, p, appTargetID); n != 4 {
		t.Errorf("target phases = %d, want 4", n)
	}

	again, _, err := p.EnsureBuildPhase(pbx.HeadersBuildPhase, appTargetID, "Headers")
	if err != nil {
		t.Fatalf("second EnsureBuildPhase: %v", err)
	}
	if again != id {
		t.Errorf("EnsureBuildPhase allocated twice: %s, %s", id, again)
	}
}

func TestEnsureBuildPhase_RejectsCopyFlavor(t *testing.T) {
	p := loadFixture(t)
	if _, _, err := p.EnsureBuildPhase(pbx.CopyFilesBuildPhase, appTargetID, "Copy Files"); err == nil {
		t.Fatal("EnsureBuildPhase should reject copy-files phases")
	}
}

func TestAddBuildPhase_Script(t *testing.T) {
	p := loadFixture(t)

	id, phase, err := p.AddBuildPhase(nil, pbx.ShellScriptBuildPhase, "Run Lint", "", PhaseOptions{
		ShellScript: "swiftlint --strict",
		InputPaths:  []string{"$(SRCROOT)/App"},
	})
	if err != nil {
		t.Fatalf("AddBuildPhase: %v", err)
	}
	if !pbx.ValidID(id) {
		t.Fatalf("phase id = %q", id)
	}
	if sp, _ := phase.GetString("shellPath"); sp != "/bin/sh" {
		t.Errorf("shellPath = %q, want /bin/sh", sp)
	}
	if script, _ := phase.GetString("shellScript"); script != "swiftlint --strict" {
		t.Errorf("shellScript = %q", script)
	}
	inputs, _ := phase.GetArray("inputPaths")
	if inputs.Len() != 1 {
		t.Errorf("inputPaths = %d, want 1", inputs.Len())
	}
	if n := targetPhaseCount(t, p, appTargetID); n != 4 {
		t.Errorf("target phases = %d, want 4", n)
	}
}

func TestAddBuildPhase_CopyReusesTrackedFiles(t *testing.T) {
	p := loadFixture(t)

	_, phase, err := p.AddBuildPhase([]string{"App/main.m", "Assets/logo.png"},
		pbx.CopyFilesBuildPhase, "Copy Extras", "", PhaseOptions{Destination: "resources"})
	if err != nil {
		t.Fatalf("AddBuildPhase: %v", err)
	}
	if spec, _ := phase.GetString("dstSubfolderSpec"); spec != "7" {
		t.Errorf("dstSubfolderSpec = %q, want 7", spec)
	}
	if name, _ := phase.GetString("name"); name != "Copy Extras" {
		t.Errorf("name = %q", name)
	}

	files, _ := phase.GetArray("files")
	if files.Len() != 2 {
		t.Fatalf("phase files = %d, want 2", files.Len())
	}
	// main.m already has a build file; it is reused with its label.
	if s, _ := files.Elems[0].Value.(openstep.String); string(s) != mainMBuildID {
		t.Errorf("first entry = %v, want reused build file", files.Elems[0].Value)
	}
	if files.Elems[0].Comment != "main.m in Sources" {
		t.Errorf("first entry label = %q", files.Elems[0].Comment)
	}
	// logo.png is new: reference plus build file.
	if _, _, ok := p.HasFile("Assets/logo.png"); !ok {
		t.Error("new file not tracked")
	}
}

func TestAddBuildPhase_Validation(t *testing.T) {
	p := loadFixture(t)

	if _, _, err := p.AddBuildPhase(nil, "PBXBogusPhase", "X", "", PhaseOptions{}); err == nil {
		t.Error("unknown flavor should fail")
	}
	if _, _, err := p.AddBuildPhase(nil, pbx.CopyFilesBuildPhase, "X", "", PhaseOptions{Destination: "attic"}); err == nil {
		t.Error("unknown destination should fail")
	}
	if _, _, err := p.AddBuildPhase(nil, pbx.SourcesBuildPhase, "X", "0123456789ABCDEF01234567", PhaseOptions{}); err == nil {
		t.Error("unknown target should fail")
	}
}

func TestRemoveBuildPhase_KeepsSharedBuildFiles(t *testing.T) {
	p := loadFixture(t)

	_, _, err := p.AddBuildPhase([]string{"App/main.m", "Assets/logo.png"},
		pbx.CopyFilesBuildPhase, "Copy Extras", "", PhaseOptions{Destination: "resources"})
	if err != nil {
		t.Fatalf("AddBuildPhase: %v", err)
	}
	logoBuildID, _, ok := p.buildFileForPath("Assets/logo.png")
	if !ok {
		t.Fatal("logo.png build file missing")
	}

	removed, err := p.RemoveBuildPhase(pbx.CopyFilesBuildPhase, "", "Copy Extras")
	if err != nil {
		t.Fatalf("RemoveBuildPhase: %v", err)
	}
	if !removed {
		t.Fatal("RemoveBuildPhase found nothing")
	}

	// main.m is still in the sources phase; its build file survives.
	if rec, _ := p.Graph.Object(mainMBuildID); rec == nil {
		t.Error("shared build file removed")
	}
	// logo.png was only in the removed phase; its build file goes.
	if rec, _ := p.Graph.Object(logoBuildID); rec != nil {
		t.Error("exclusive build file kept")
	}
	if n := targetPhaseCount(t, p, appTargetID); n != 3 {
		t.Errorf("target phases = %d, want 3", n)
	}
	if _, _, ok := p.BuildPhaseNamed(pbx.CopyFilesBuildPhase, appTargetID, "Copy Extras"); ok {
		t.Error("phase record still present")
	}
}

func TestRemoveBuildPhase_Missing(t *testing.T) {
	p := loadFixture(t)
	removed, err := p.RemoveBuildPhase(pbx.CopyFilesBuildPhase, "", "Ghost Phase")
	if err != nil {
		t.Fatalf("RemoveBuildPhase: %v", err)
	}
	if removed {
		t.Error("RemoveBuildPhase reported success for a missing phase")
	}
}

func TestCopyFilesPhaseMembership(t *testing.T) {
	p := loadFixture(t)

	f, err := p.AddProductFile("Widget", FileOptions{Group: "Copy Files", ExplicitType: "wrapper.app-extension"})
	if err != nil {
		t.Fatalf("AddProductFile: %v", err)
	}
	p.addBuildFile(f)

	if err := p.AddToCopyFilesPhase(f, "", "Embed App Extensions", "plugins"); err != nil {
		t.Fatalf("AddToCopyFilesPhase: %v", err)
	}
	_, phase, ok := p.BuildPhaseNamed(pbx.CopyFilesBuildPhase, appTargetID, "Embed App Extensions")
	if !ok {
		t.Fatal("copy phase not created")
	}
	if spec, _ := phase.GetString("dstSubfolderSpec"); spec != "13" {
		t.Errorf("dstSubfolderSpec = %q, want 13", spec)
	}
	files, _ := phase.GetArray("files")
	if files.Len() != 1 {
		t.Fatalf("phase files = %d, want 1", files.Len())
	}

	if !p.RemoveFromCopyFilesPhase(f, "", "Embed App Extensions") {
		t.Fatal("RemoveFromCopyFilesPhase found nothing")
	}
	_, phase, _ = p.BuildPhaseNamed(pbx.CopyFilesBuildPhase, appTargetID, "Embed App Extensions")
	files, _ = phase.GetArray("files")
	if files.Len() != 0 {
		t.Errorf("phase files = %d after removal, want 0", files.Len())
	}
}
