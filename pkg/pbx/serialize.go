package pbx

import (
	"bytes"

	"github.com/jquillard/xcproj/pkg/openstep"
)

// Record types rendered on a single line. Fixed rule keyed on the
// discriminator, not a formatting option.
var inlineSections = map[string]bool{
	BuildFile:     true,
	FileReference: true,
}

// Writer renders a Graph in the exact grammar the host tool emits:
// tab indentation, per-type labeled sections inside objects, comment
// annotations after keys (container values) or values (scalars), and
// single-line form for build-file and file-reference records.
type Writer struct {
	// OmitEmptyValues drops fields whose value is absent instead of
	// writing them with an empty string.
	OmitEmptyValues bool
}

// Marshal renders the graph. Output always ends with a newline.
func (w Writer) Marshal(g *Graph) []byte {
	m := &marshaler{omitEmpty: w.OmitEmptyValues, objects: g.objects}
	if hc := g.doc.HeadComment; hc != "" {
		m.buf.WriteString("// ")
		m.buf.WriteString(hc)
		m.buf.WriteByte('\n')
	}
	m.dict(g.doc.Root, 0)
	m.buf.WriteByte('\n')
	return m.buf.Bytes()
}

// Marshal renders the graph with default writer settings.
func Marshal(g *Graph) []byte {
	return Writer{}.Marshal(g)
}

type marshaler struct {
	buf       bytes.Buffer
	omitEmpty bool
	objects   *openstep.Dict
}

func (m *marshaler) tabs(n int) {
	for i := 0; i < n; i++ {
		m.buf.WriteByte('\t')
	}
}

func (m *marshaler) comment(c string) {
	m.buf.WriteString(" /* ")
	m.buf.WriteString(c)
	m.buf.WriteString(" */")
}

func (m *marshaler) scalar(v openstep.Value) {
	s := ""
	if str, ok := v.(openstep.String); ok {
		s = string(str)
	}
	m.buf.WriteString(openstep.Quote(s))
}

// dict renders block form: open brace, one field per line, closing
// brace at the parent's indent. The caller writes the trailing
// semicolon.
func (m *marshaler) dict(d *openstep.Dict, indent int) {
	m.buf.WriteString("{\n")
	for _, f := range d.Fields() {
		m.field(f, indent+1)
	}
	m.tabs(indent)
	m.buf.WriteByte('}')
}

func (m *marshaler) field(f openstep.Field, indent int) {
	if f.Value == nil && m.omitEmpty {
		return
	}
	m.tabs(indent)
	m.buf.WriteString(openstep.Quote(f.Key))
	switch v := f.Value.(type) {
	case *openstep.Dict:
		if f.Comment != "" {
			m.comment(f.Comment)
		}
		m.buf.WriteString(" = ")
		if v == m.objects {
			m.sections(v, indent)
		} else {
			m.dict(v, indent)
		}
	case *openstep.Array:
		if f.Comment != "" {
			m.comment(f.Comment)
		}
		m.buf.WriteString(" = ")
		m.array(v, indent)
	default:
		m.buf.WriteString(" = ")
		m.scalar(f.Value)
		if f.Comment != "" {
			m.comment(f.Comment)
		}
	}
	m.buf.WriteString(";\n")
}

func (m *marshaler) array(a *openstep.Array, indent int) {
	m.buf.WriteString("(\n")
	for _, e := range a.Elems {
		m.tabs(indent + 1)
		switch v := e.Value.(type) {
		case *openstep.Dict:
			m.dict(v, indent+1)
		case *openstep.Array:
			m.array(v, indent+1)
		default:
			m.scalar(e.Value)
		}
		if e.Comment != "" {
			m.comment(e.Comment)
		}
		m.buf.WriteString(",\n")
	}
	m.tabs(indent)
	m.buf.WriteByte(')')
}

// sections renders the objects dictionary: every non-empty bucket
// becomes a labeled section with Begin/End comments flushed to
// column 0, a blank line before each section, entries in insertion
// order.
func (m *marshaler) sections(objects *openstep.Dict, indent int) {
	m.buf.WriteString("{\n")
	for _, sec := range objects.Fields() {
		bucket, ok := sec.Value.(*openstep.Dict)
		if !ok || bucket.Len() == 0 {
			continue
		}
		m.buf.WriteString("\n/* Begin ")
		m.buf.WriteString(sec.Key)
		m.buf.WriteString(" section */\n")
		inline := inlineSections[sec.Key]
		for _, f := range bucket.Fields() {
			obj, ok := f.Value.(*openstep.Dict)
			if !ok {
				continue
			}
			m.tabs(indent + 1)
			m.buf.WriteString(openstep.Quote(f.Key))
			if f.Comment != "" {
				m.comment(f.Comment)
			}
			m.buf.WriteString(" = ")
			if inline {
				m.inlineDict(obj)
			} else {
				m.dict(obj, indent+1)
			}
			m.buf.WriteString(";\n")
		}
		m.buf.WriteString("/* End ")
		m.buf.WriteString(sec.Key)
		m.buf.WriteString(" section */\n")
	}
	m.tabs(indent)
	m.buf.WriteByte('}')
}

func (m *marshaler) inlineDict(d *openstep.Dict) {
	m.buf.WriteByte('{')
	for _, f := range d.Fields() {
		if f.Value == nil && m.omitEmpty {
			continue
		}
		m.buf.WriteString(openstep.Quote(f.Key))
		switch v := f.Value.(type) {
		case *openstep.Dict:
			if f.Comment != "" {
				m.comment(f.Comment)
			}
			m.buf.WriteString(" = ")
			m.inlineDict(v)
		case *openstep.Array:
			if f.Comment != "" {
				m.comment(f.Comment)
			}
			m.buf.WriteString(" = ")
			m.inlineArray(v)
		default:
			m.buf.WriteString(" = ")
			m.scalar(f.Value)
			if f.Comment != "" {
				m.comment(f.Comment)
			}
		}
		m.buf.WriteString("; ")
	}
	m.buf.WriteByte('}')
}

func (m *marshaler) inlineArray(a *openstep.Array) {
	m.buf.WriteByte('(')
	for _, e := range a.Elems {
		switch v := e.Value.(type) {
		case *openstep.Dict:
			m.inlineDict(v)
		case *openstep.Array:
			m.inlineArray(v)
		default:
			m.scalar(e.Value)
		}
		if e.Comment != "" {
			m.comment(e.Comment)
		}
		m.buf.WriteString(", ")
	}
	m.buf.WriteByte(')')
}
