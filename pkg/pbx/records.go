package pbx

import (
	"strconv"

	"github.com/jquillard/xcproj/pkg/openstep"
)

// Field order in these constructors mirrors the host tool: isa first,
// the rest alphabetical.

// NewGroupRecord builds an empty child-list record. isa selects the
// grouping flavor: Group, VariantGroup or VersionGroup. name and path
// are omitted when empty.
func NewGroupRecord(isa, name, path string) *openstep.Dict {
	d := openstep.NewDict()
	d.Set("isa", openstep.String(isa))
	d.Set("children", &openstep.Array{})
	if name != "" {
		d.Set("name", openstep.String(name))
	}
	if path != "" {
		d.Set("path", openstep.String(path))
	}
	d.Set("sourceTree", openstep.String(SourceTreeGroup))
	return d
}

// NewBuildPhaseRecord builds a plain build phase (sources, resources,
// frameworks, headers) with an empty file list.
func NewBuildPhaseRecord(isa string) *openstep.Dict {
	d := openstep.NewDict()
	d.Set("isa", openstep.String(isa))
	d.Set("buildActionMask", openstep.String("2147483647"))
	d.Set("files", &openstep.Array{})
	d.Set("runOnlyForDeploymentPostprocessing", openstep.String("0"))
	return d
}

// NewCopyFilesPhaseRecord builds a copy-files phase targeting the
// given destination path and subfolder code.
func NewCopyFilesPhaseRecord(name, dstPath string, subfolderSpec int) *openstep.Dict {
	d := openstep.NewDict()
	d.Set("isa", openstep.String(CopyFilesBuildPhase))
	d.Set("buildActionMask", openstep.String("2147483647"))
	d.Set("dstPath", openstep.String(dstPath))
	d.Set("dstSubfolderSpec", openstep.String(strconv.Itoa(subfolderSpec)))
	d.Set("files", &openstep.Array{})
	d.Set("name", openstep.String(name))
	d.Set("runOnlyForDeploymentPostprocessing", openstep.String("0"))
	return d
}

// NewShellScriptPhaseRecord builds a script phase. shellPath falls
// back to /bin/sh when empty.
func NewShellScriptPhaseRecord(name, shellPath, script string, inputPaths, outputPaths []string) *openstep.Dict {
	if shellPath == "" {
		shellPath = "/bin/sh"
	}
	d := openstep.NewDict()
	d.Set("isa", openstep.String(ShellScriptBuildPhase))
	d.Set("buildActionMask", openstep.String("2147483647"))
	d.Set("files", &openstep.Array{})
	d.Set("inputPaths", stringArray(inputPaths))
	d.Set("name", openstep.String(name))
	d.Set("outputPaths", stringArray(outputPaths))
	d.Set("runOnlyForDeploymentPostprocessing", openstep.String("0"))
	d.Set("shellPath", openstep.String(shellPath))
	d.Set("shellScript", openstep.String(script))
	return d
}

func stringArray(ss []string) *openstep.Array {
	a := &openstep.Array{}
	for _, s := range ss {
		a.Append(openstep.String(s), "")
	}
	return a
}
