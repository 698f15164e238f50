package openstep

// Value is one node of a property-list document. Exactly three
// implementations exist: String, *Array, and *Dict.
type Value interface {
	value()
}

// String holds a decoded string value. Quote characters and escape
// sequences present in the source are removed during parsing; the
// serializer re-quotes per the grammar's rules.
type String string

func (String) value() {}

// Element is one entry of an Array, optionally annotated with a
// trailing block comment.
type Element struct {
	Value   Value
	Comment string
}

// Array is an ordered list of annotated elements.
type Array struct {
	Elems []Element
}

func (*Array) value() {}

// Append adds a value with an optional comment to the end of the array.
func (a *Array) Append(v Value, comment string) {
	a.Elems = append(a.Elems, Element{Value: v, Comment: comment})
}

// RemoveFirst removes the first element matching the predicate and
// reports whether one was removed. Later duplicates are left in place.
func (a *Array) RemoveFirst(match func(Element) bool) bool {
	for i, e := range a.Elems {
		if match(e) {
			a.Elems = append(a.Elems[:i], a.Elems[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Elems)
}

// Field is one entry of a Dict. Comment holds the single annotation
// slot for the entry: rendered after the key when Value is a container,
// after the value when it is a scalar. A nil Value marks a field that
// is present but empty; the serializer decides whether to skip it.
type Field struct {
	Key     string
	Value   Value
	Comment string
}

// Dict is an ordered dictionary. Field order is insertion order and is
// preserved across mutation; serialization must never re-sort it.
type Dict struct {
	fields []Field
	index  map[string]int
}

func (*Dict) value() {}

// NewDict returns an empty ordered dictionary.
func NewDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// Len returns the number of fields.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

// Fields returns the underlying field slice in insertion order. The
// slice is a live view; callers must not grow or reorder it directly.
func (d *Dict) Fields() []Field {
	if d == nil {
		return nil
	}
	return d.fields
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[key]
	return ok
}

// Get returns the value stored at key.
func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.fields[i].Value, true
}

// GetString returns the field at key when it holds a String.
func (d *Dict) GetString(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// GetDict returns the field at key when it holds a Dict.
func (d *Dict) GetDict(key string) (*Dict, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Dict)
	return sub, ok
}

// GetArray returns the field at key when it holds an Array.
func (d *Dict) GetArray(key string) (*Array, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.(*Array)
	return arr, ok
}

// Set stores a value at key, keeping the field's position when the key
// already exists and appending otherwise. An existing comment is kept.
func (d *Dict) Set(key string, v Value) {
	if i, ok := d.index[key]; ok {
		d.fields[i].Value = v
		return
	}
	d.append(Field{Key: key, Value: v})
}

// SetWithComment stores a value and its annotation at key.
func (d *Dict) SetWithComment(key string, v Value, comment string) {
	if i, ok := d.index[key]; ok {
		d.fields[i].Value = v
		d.fields[i].Comment = comment
		return
	}
	d.append(Field{Key: key, Value: v, Comment: comment})
}

// SetComment updates the annotation of an existing field and reports
// whether the key was present.
func (d *Dict) SetComment(key, comment string) bool {
	i, ok := d.index[key]
	if !ok {
		return false
	}
	d.fields[i].Comment = comment
	return true
}

// Comment returns the annotation of the field at key, if any.
func (d *Dict) Comment(key string) string {
	if d == nil {
		return ""
	}
	i, ok := d.index[key]
	if !ok {
		return ""
	}
	return d.fields[i].Comment
}

// Delete removes the field at key, preserving the order of the
// remaining fields, and reports whether the key was present.
func (d *Dict) Delete(key string) bool {
	i, ok := d.index[key]
	if !ok {
		return false
	}
	d.fields = append(d.fields[:i], d.fields[i+1:]...)
	delete(d.index, key)
	for k, j := range d.index {
		if j > i {
			d.index[k] = j - 1
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.Key
	}
	return keys
}

func (d *Dict) append(f Field) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[f.Key] = len(d.fields)
	d.fields = append(d.fields, f)
}

// Document is a parsed property list: the head marker comment (the
// host tool writes "// !$*UTF8*$!") plus the root dictionary.
type Document struct {
	HeadComment string
	Root        *Dict
}
