package pbx

import (
	"path"
	"strings"
)

// Defaults applied when the lookup tables have no entry.
const (
	DefaultFileType = "unknown"
	DefaultGroup    = "Resources"
	DefaultEncoding = "4"
	EmbedFrameworks = "Embed Frameworks"
)

var fileTypeByExtension = map[string]string{
	"a":           "archive.ar",
	"app":         "wrapper.application",
	"appex":       "wrapper.app-extension",
	"bundle":      "wrapper.plug-in",
	"c":           "sourcecode.c.c",
	"cc":          "sourcecode.cpp.cpp",
	"cpp":         "sourcecode.cpp.cpp",
	"cxx":         "sourcecode.cpp.cpp",
	"c++":         "sourcecode.cpp.cpp",
	"dylib":       "compiled.mach-o.dylib",
	"framework":   "wrapper.framework",
	"h":           "sourcecode.c.h",
	"hh":          "sourcecode.cpp.h",
	"hpp":         "sourcecode.cpp.h",
	"hxx":         "sourcecode.cpp.h",
	"h++":         "sourcecode.cpp.h",
	"m":           "sourcecode.c.objc",
	"markdown":    "text",
	"mdimporter":  "wrapper.cfbundle",
	"mm":          "sourcecode.cpp.objcpp",
	"octest":      "wrapper.cfbundle",
	"pch":         "sourcecode.c.h",
	"plist":       "text.plist.xml",
	"png":         "image.png",
	"sh":          "text.script.sh",
	"storyboard":  "file.storyboard",
	"strings":     "text.plist.strings",
	"swift":       "sourcecode.swift",
	"tbd":         "sourcecode.text-based-dylib-definition",
	"xcassets":    "folder.assetcatalog",
	"xcconfig":    "text.xcconfig",
	"xcdatamodel": "wrapper.xcdatamodel",
	"xcodeproj":   "wrapper.pb-project",
	"xctest":      "wrapper.cfbundle",
	"xib":         "file.xib",
}

var groupByFileType = map[string]string{
	"archive.ar":                             "Frameworks",
	"compiled.mach-o.dylib":                  "Frameworks",
	"sourcecode.text-based-dylib-definition": "Frameworks",
	"wrapper.framework":                      "Frameworks",
	"sourcecode.c.c":                         "Sources",
	"sourcecode.c.objc":                      "Sources",
	"sourcecode.cpp.cpp":                     "Sources",
	"sourcecode.cpp.objcpp":                  "Sources",
	"sourcecode.swift":                       "Sources",
}

// Conventional system-relative install locations.
var installPathByFileType = map[string]string{
	"compiled.mach-o.dylib":                  "usr/lib/",
	"sourcecode.text-based-dylib-definition": "usr/lib/",
	"wrapper.framework":                      "System/Library/Frameworks/",
}

var sourceTreeByFileType = map[string]string{
	"compiled.mach-o.dylib":                  SourceTreeSDKRoot,
	"sourcecode.text-based-dylib-definition": SourceTreeSDKRoot,
	"wrapper.framework":                      SourceTreeSDKRoot,
}

var encodingByFileType = map[string]string{
	"sourcecode.c.c":        "4",
	"sourcecode.c.h":        "4",
	"sourcecode.c.objc":     "4",
	"sourcecode.cpp.cpp":    "4",
	"sourcecode.cpp.h":      "4",
	"sourcecode.cpp.objcpp": "4",
	"sourcecode.swift":      "4",
	"text":                  "4",
	"text.plist.strings":    "4",
	"text.script.sh":        "4",
	"text.xcconfig":         "4",
}

var productTypeByTargetType = map[string]string{
	"application":       "com.apple.product-type.application",
	"app_extension":     "com.apple.product-type.app-extension",
	"bundle":            "com.apple.product-type.bundle",
	"command_line_tool": "com.apple.product-type.tool",
	"dynamic_library":   "com.apple.product-type.library.dynamic",
	"framework":         "com.apple.product-type.framework",
	"static_library":    "com.apple.product-type.library.static",
	"unit_test_bundle":  "com.apple.product-type.bundle.unit-test",
	"watch_app":         "com.apple.product-type.application.watchapp",
	"watch2_app":        "com.apple.product-type.application.watchapp2",
	"watch_extension":   "com.apple.product-type.watchkit-extension",
	"watch2_extension":  "com.apple.product-type.watchkit2-extension",
}

var fileTypeByProductType = map[string]string{
	"com.apple.product-type.application":           "wrapper.application",
	"com.apple.product-type.app-extension":         "wrapper.app-extension",
	"com.apple.product-type.bundle":                "wrapper.plug-in",
	"com.apple.product-type.tool":                  "compiled.mach-o.executable",
	"com.apple.product-type.library.dynamic":       "compiled.mach-o.dylib",
	"com.apple.product-type.framework":             "wrapper.framework",
	"com.apple.product-type.library.static":        "archive.ar",
	"com.apple.product-type.bundle.unit-test":      "wrapper.cfbundle",
	"com.apple.product-type.application.watchapp":  "wrapper.application",
	"com.apple.product-type.application.watchapp2": "wrapper.application",
	"com.apple.product-type.watchkit-extension":    "wrapper.app-extension",
	"com.apple.product-type.watchkit2-extension":   "wrapper.app-extension",
}

// Conventional product extensions. Types absent here (command-line
// executables) produce extensionless products.
var extensionByFileType = map[string]string{
	"archive.ar":            "a",
	"compiled.mach-o.dylib": "dylib",
	"wrapper.application":   "app",
	"wrapper.app-extension": "appex",
	"wrapper.cfbundle":      "xctest",
	"wrapper.framework":     "framework",
	"wrapper.plug-in":       "bundle",
}

// InferFileType derives a content-type identifier from the path's
// extension, falling back to the generic unknown type.
func InferFileType(p string) string {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if t, ok := fileTypeByExtension[stripQuotes(ext)]; ok {
		return t
	}
	return DefaultFileType
}

// DefaultExtension returns the conventional extension for a content
// type, when one exists.
func DefaultExtension(fileType string) (string, bool) {
	ext, ok := extensionByFileType[stripQuotes(fileType)]
	return ext, ok
}

// ProductType maps a target role name to its product-type identifier.
// The lookup failing means the role is outside the recognized set.
func ProductType(targetType string) (string, bool) {
	pt, ok := productTypeByTargetType[targetType]
	return pt, ok
}

// ProductFileType maps a product-type identifier to the content type
// of the artifact it produces.
func ProductFileType(productType string) (string, bool) {
	ft, ok := fileTypeByProductType[stripQuotes(productType)]
	return ft, ok
}

// stripQuotes drops one pair of surrounding double quotes. Values
// built by hand sometimes arrive pre-quoted for the wire format.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
