package pbx

import (
	"path"
	"strings"

	"github.com/jquillard/xcproj/pkg/openstep"
)

// FileKind distinguishes the two descriptor variants.
type FileKind int

const (
	// FileInferred describes an on-disk file: content type derived
	// from the extension (or seeded via LastKnownType), storage path,
	// placement group and encoding all populated.
	FileInferred FileKind = iota
	// FileExplicit describes a build product: the type is given
	// outright and the path-derived fields stay empty.
	FileExplicit
)

// FileOptions configures NewFileRef. ExplicitType and LastKnownType
// are mutually exclusive; ExplicitType wins and switches the
// descriptor to the product variant.
type FileOptions struct {
	ExplicitType    string
	LastKnownType   string
	SourceTree      string // overrides the derived base-path mode
	CustomFramework bool   // third-party framework shipped with the tree
	Group           string // overrides the derived placement group
	Embed           bool
	Weak            bool
	Sign            bool
	CompilerFlags   string
	Encoding        string // overrides the derived text encoding
}

// FileRef is a normalized file descriptor plus the identifiers it
// occupies once inserted: one for its file-reference record, one for
// its build-file record. Fields below the Kind split are only
// meaningful for the variant named in their comment.
type FileRef struct {
	Kind     FileKind
	Basename string

	// FileInferred
	Path          string
	LastKnownType string
	Group         string
	Encoding      string // empty when the type carries no encoding

	// FileExplicit
	ExplicitType string

	SourceTree      string
	CustomFramework bool
	Dirname         string // set for custom frameworks

	Weak          bool
	Embed         bool
	Sign          bool
	CompilerFlags string

	ID      string // file-reference slot
	BuildID string // build-file slot
}

// NewFileRef derives a descriptor for the file at p. Separators are
// normalized to forward slashes first.
func NewFileRef(p string, opt FileOptions) *FileRef {
	p = strings.ReplaceAll(p, "\\", "/")
	f := &FileRef{
		Basename:      path.Base(p),
		Weak:          opt.Weak,
		Embed:         opt.Embed,
		Sign:          opt.Sign,
		CompilerFlags: opt.CompilerFlags,
	}

	if opt.ExplicitType != "" {
		f.Kind = FileExplicit
		f.ExplicitType = opt.ExplicitType
		if ext, ok := DefaultExtension(opt.ExplicitType); ok {
			f.Basename += "." + ext
		}
		f.Group = opt.Group
		f.SourceTree = SourceTreeProducts
		if opt.SourceTree != "" {
			f.SourceTree = opt.SourceTree
		}
		return f
	}

	f.Kind = FileInferred
	f.LastKnownType = opt.LastKnownType
	if f.LastKnownType == "" {
		f.LastKnownType = InferFileType(p)
	}
	if opt.CustomFramework {
		f.CustomFramework = true
		f.Dirname = path.Dir(p)
	}
	f.Group = deriveGroup(f, opt)
	f.Path = derivePath(f, p)
	f.Encoding = opt.Encoding
	if f.Encoding == "" {
		f.Encoding = encodingByFileType[f.LastKnownType]
	}
	f.SourceTree = opt.SourceTree
	if f.SourceTree == "" {
		f.SourceTree = deriveSourceTree(f)
	}
	return f
}

func deriveGroup(f *FileRef, opt FileOptions) string {
	if opt.Group != "" {
		return opt.Group
	}
	// Core Data model bundles compile, whatever the type table says.
	if strings.HasSuffix(f.Basename, ".xcdatamodeld") {
		return "Sources"
	}
	if f.CustomFramework && opt.Embed {
		return EmbedFrameworks
	}
	if g, ok := groupByFileType[f.LastKnownType]; ok {
		return g
	}
	return DefaultGroup
}

func derivePath(f *FileRef, given string) string {
	if f.CustomFramework {
		return given
	}
	if prefix, ok := installPathByFileType[f.LastKnownType]; ok {
		return prefix + f.Basename
	}
	return given
}

func deriveSourceTree(f *FileRef) string {
	if f.CustomFramework {
		return SourceTreeGroup
	}
	if st, ok := sourceTreeByFileType[f.LastKnownType]; ok {
		return st
	}
	return SourceTreeGroup
}

// BuildLabel is the conventional build-file label, "<name> in <group>".
func (f *FileRef) BuildLabel() string {
	return f.Basename + " in " + f.Group
}

// Record renders the file-reference record for the descriptor.
// Product records carry explicitFileType, are excluded from indexing
// and have path fixed to their basename; inferred records carry the
// derived type, encoding and storage path, plus a display name when
// it differs from the path.
func (f *FileRef) Record() *openstep.Dict {
	d := openstep.NewDict()
	d.Set("isa", openstep.String(FileReference))
	switch f.Kind {
	case FileExplicit:
		d.Set("explicitFileType", openstep.String(f.ExplicitType))
		d.Set("includeInIndex", openstep.String("0"))
		d.Set("path", openstep.String(f.Basename))
	case FileInferred:
		if f.Encoding != "" {
			d.Set("fileEncoding", openstep.String(f.Encoding))
		}
		d.Set("lastKnownFileType", openstep.String(f.LastKnownType))
		if f.Basename != f.Path {
			d.Set("name", openstep.String(f.Basename))
		}
		d.Set("path", openstep.String(f.Path))
	}
	d.Set("sourceTree", openstep.String(f.SourceTree))
	return d
}

// BuildFileRecord renders the build-file record referencing the
// descriptor's file-reference slot, carrying any per-file settings.
func (f *FileRef) BuildFileRecord() *openstep.Dict {
	d := openstep.NewDict()
	d.Set("isa", openstep.String(BuildFile))
	d.SetWithComment("fileRef", openstep.String(f.ID), f.Basename)
	if s := f.buildSettings(); s != nil {
		d.Set("settings", s)
	}
	return d
}

func (f *FileRef) buildSettings() *openstep.Dict {
	attrs := &openstep.Array{}
	if f.Weak {
		attrs.Append(openstep.String("Weak"), "")
	}
	if f.Embed && f.Sign {
		attrs.Append(openstep.String("CodeSignOnCopy"), "")
		attrs.Append(openstep.String("RemoveHeadersOnCopy"), "")
	}
	var d *openstep.Dict
	if attrs.Len() > 0 {
		d = openstep.NewDict()
		d.Set("ATTRIBUTES", attrs)
	}
	if f.CompilerFlags != "" {
		if d == nil {
			d = openstep.NewDict()
		}
		d.Set("COMPILER_FLAGS", openstep.String(f.CompilerFlags))
	}
	return d
}
