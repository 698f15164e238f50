package pbx

// Record discriminator (isa) values.
const (
	BuildFile             = "PBXBuildFile"
	FileReference         = "PBXFileReference"
	Group                 = "PBXGroup"
	VariantGroup          = "PBXVariantGroup"
	VersionGroup          = "XCVersionGroup"
	Project               = "PBXProject"
	NativeTarget          = "PBXNativeTarget"
	AggregateTarget       = "PBXAggregateTarget"
	LegacyTarget          = "PBXLegacyTarget"
	SourcesBuildPhase     = "PBXSourcesBuildPhase"
	ResourcesBuildPhase   = "PBXResourcesBuildPhase"
	FrameworksBuildPhase  = "PBXFrameworksBuildPhase"
	HeadersBuildPhase     = "PBXHeadersBuildPhase"
	CopyFilesBuildPhase   = "PBXCopyFilesBuildPhase"
	ShellScriptBuildPhase = "PBXShellScriptBuildPhase"
	ContainerItemProxy    = "PBXContainerItemProxy"
	TargetDependency      = "PBXTargetDependency"
	BuildConfiguration    = "XCBuildConfiguration"
	ConfigurationList     = "XCConfigurationList"
)

// Base-path modes for file references.
const (
	SourceTreeGroup    = "<group>"
	SourceTreeAbsolute = "<absolute>"
	SourceTreeRoot     = "SOURCE_ROOT"
	SourceTreeProducts = "BUILT_PRODUCTS_DIR"
	SourceTreeSDKRoot  = "SDKROOT"
)

// Default comment labels for the build-phase record types.
var phaseComments = map[string]string{
	SourcesBuildPhase:     "Sources",
	ResourcesBuildPhase:   "Resources",
	FrameworksBuildPhase:  "Frameworks",
	HeadersBuildPhase:     "Headers",
	CopyFilesBuildPhase:   "CopyFiles",
	ShellScriptBuildPhase: "ShellScript",
}

// PhaseComment returns the conventional label for a build-phase isa,
// or the isa itself when it has none.
func PhaseComment(isa string) string {
	if c, ok := phaseComments[isa]; ok {
		return c
	}
	return isa
}

// Destination subfolder codes for copy-files build phases.
var subfolderSpecs = map[string]int{
	"absolute_path":      0,
	"wrapper":            1,
	"executables":        6,
	"resources":          7,
	"frameworks":         10,
	"shared_frameworks":  11,
	"shared_support":     12,
	"plugins":            13,
	"java_resources":     15,
	"products_directory": 16,
}

// SubfolderSpec resolves a copy-files destination name to its
// numeric subfolder code.
func SubfolderSpec(destination string) (int, bool) {
	code, ok := subfolderSpecs[destination]
	return code, ok
}

// Copy-files destination conventions per created target role.
var destinationByTargetType = map[string]string{
	"application":       "wrapper",
	"app_extension":     "plugins",
	"bundle":            "wrapper",
	"command_line_tool": "wrapper",
	"dynamic_library":   "products_directory",
	"framework":         "shared_frameworks",
	"static_library":    "products_directory",
	"unit_test_bundle":  "wrapper",
	"watch_app":         "wrapper",
	"watch2_app":        "products_directory",
	"watch_extension":   "plugins",
	"watch2_extension":  "plugins",
}

// DestinationForTargetType returns the copy-files destination name
// used when embedding the product of a target of the given role.
func DestinationForTargetType(targetType string) (string, bool) {
	d, ok := destinationByTargetType[targetType]
	return d, ok
}
