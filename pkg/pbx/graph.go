package pbx

import (
	"fmt"

	"github.com/jquillard/xcproj/pkg/openstep"
)

// Graph is the in-memory object graph of a project descriptor. The
// root document's objects dictionary is regrouped by record type:
// each key of the objects dict is an isa name whose value is the
// bucket of identifier-keyed records of that type. Bucket order is
// first-encounter order; record order within a bucket is insertion
// order. Both survive serialization untouched.
type Graph struct {
	doc     *openstep.Document
	objects *openstep.Dict
}

// Parse reads descriptor source text into a Graph. Grammar errors
// come back as *openstep.SyntaxError, untouched.
func Parse(src []byte) (*Graph, error) {
	doc, err := openstep.Parse(src)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// FromDocument regroups a freshly parsed document into a Graph. The
// document is taken over and must not be mutated by the caller
// afterwards.
func FromDocument(doc *openstep.Document) (*Graph, error) {
	flat, ok := doc.Root.GetDict("objects")
	if !ok {
		return nil, fmt.Errorf("root has no objects dictionary")
	}
	grouped := openstep.NewDict()
	for _, f := range flat.Fields() {
		obj, ok := f.Value.(*openstep.Dict)
		if !ok {
			return nil, fmt.Errorf("object %s: not a record", f.Key)
		}
		isa, ok := obj.GetString("isa")
		if !ok {
			return nil, fmt.Errorf("object %s: missing isa", f.Key)
		}
		bucket, ok := grouped.GetDict(isa)
		if !ok {
			bucket = openstep.NewDict()
			grouped.Set(isa, bucket)
		}
		bucket.SetWithComment(f.Key, obj, f.Comment)
	}
	doc.Root.Set("objects", grouped)
	return &Graph{doc: doc, objects: grouped}, nil
}

// NewGraph builds the minimal empty graph: version fields, an empty
// object set and a root-object reference (dangling until a project
// record is added).
func NewGraph() *Graph {
	root := openstep.NewDict()
	root.Set("archiveVersion", openstep.String("1"))
	root.Set("classes", openstep.NewDict())
	root.Set("objectVersion", openstep.String("46"))
	objects := openstep.NewDict()
	root.Set("objects", objects)
	doc := &openstep.Document{HeadComment: "!$*UTF8*$!", Root: root}
	return &Graph{doc: doc, objects: objects}
}

// Document exposes the underlying document, objects regrouped.
func (g *Graph) Document() *openstep.Document { return g.doc }

// Root exposes the top-level dictionary.
func (g *Graph) Root() *openstep.Dict { return g.doc.Root }

// Objects exposes the regrouped objects dictionary.
func (g *Graph) Objects() *openstep.Dict { return g.objects }

// Section returns the bucket for an isa, or nil when no record of
// that type exists.
func (g *Graph) Section(isa string) *openstep.Dict {
	if b, ok := g.objects.GetDict(isa); ok {
		return b
	}
	return nil
}

// EnsureSection returns the bucket for an isa, creating it when
// absent. New buckets serialize after all existing sections.
func (g *Graph) EnsureSection(isa string) *openstep.Dict {
	if b, ok := g.objects.GetDict(isa); ok {
		return b
	}
	b := openstep.NewDict()
	g.objects.Set(isa, b)
	return b
}

// Has reports whether an identifier is present in any bucket.
func (g *Graph) Has(id string) bool {
	obj, _ := g.Object(id)
	return obj != nil
}

// Object finds a record by identifier across all buckets, returning
// the record and its isa. Returns nil, "" when absent.
func (g *Graph) Object(id string) (*openstep.Dict, string) {
	for _, f := range g.objects.Fields() {
		bucket, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if obj, ok := bucket.GetDict(id); ok {
			return obj, f.Key
		}
	}
	return nil, ""
}

// Comment returns the label attached to a record, or "".
func (g *Graph) Comment(id string) string {
	for _, f := range g.objects.Fields() {
		bucket, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if bucket.Has(id) {
			return bucket.Comment(id)
		}
	}
	return ""
}

// Add inserts a record with its label into the bucket for isa. The
// record's isa field is set if not already present.
func (g *Graph) Add(isa, id string, obj *openstep.Dict, comment string) {
	if !obj.Has("isa") {
		obj.Set("isa", openstep.String(isa))
	}
	g.EnsureSection(isa).SetWithComment(id, obj, comment)
}

// Remove deletes a record from whichever bucket holds it. Emptied
// buckets are kept; the serializer skips them.
func (g *Graph) Remove(id string) bool {
	for _, f := range g.objects.Fields() {
		bucket, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if bucket.Delete(id) {
			return true
		}
	}
	return false
}

// NewID draws random identifiers until one is unused across every
// bucket.
func (g *Graph) NewID() string {
	for {
		id := RandomID()
		if !g.Has(id) {
			return id
		}
	}
}

// RootObjectID returns the identifier the root dictionary points at.
func (g *Graph) RootObjectID() string {
	id, _ := g.doc.Root.GetString("rootObject")
	return id
}

// ProjectObject returns the project record referenced by rootObject.
func (g *Graph) ProjectObject() (*openstep.Dict, error) {
	id := g.RootObjectID()
	if id == "" {
		return nil, fmt.Errorf("root has no rootObject reference")
	}
	sec := g.Section(Project)
	if sec != nil {
		if obj, ok := sec.GetDict(id); ok {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("project object %s not found", id)
}

// FindByComment scans a bucket for the first record labeled with the
// given text. Linear in bucket size.
func (g *Graph) FindByComment(isa, label string) (string, *openstep.Dict, bool) {
	sec := g.Section(isa)
	if sec == nil {
		return "", nil, false
	}
	for _, f := range sec.Fields() {
		if f.Comment != label {
			continue
		}
		if obj, ok := f.Value.(*openstep.Dict); ok {
			return f.Key, obj, true
		}
	}
	return "", nil, false
}
