package attr

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dAttr/lib/codec"
)

// Selectable is implemented by all subject types that can be described by a Schema
type Selectable interface {
	Selection() *Selection
}

// Schema is the ordered slot layout of a subject type S. It is built once per type
// and then used as dispatch table for all per-slot operations.
type Schema[S Selectable] struct {
	typeName string
	fields   []Field[S]
	byName   map[string]int
}

// NewSchema creates the schema for a subject type. The index of a field is its
// position in the argument list. Use Embed to place the fields of a composed
// subject in front of the own fields.
//
// NewSchema panics if a field has no name, no Write or Read function, or if a
// name is used twice. Schemas are built at package initialization, so this
// surfaces layout mistakes immediately.
func NewSchema[S Selectable](typeName string, fields ...Field[S]) *Schema[S] {
	s := &Schema[S]{
		typeName: typeName,
		fields:   fields,
		byName:   make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" || f.Write == nil || f.Read == nil {
			panic(fmt.Sprintf("attr: field %d of %s is incomplete", i, typeName))
		}
		if _, dup := s.byName[f.Name]; dup {
			panic(fmt.Sprintf("attr: field %q of %s declared twice", f.Name, typeName))
		}
		s.byName[f.Name] = i
	}
	return s
}

// Embed returns the fields of a composed subject type B projected onto S.
// The returned fields have to be passed first to NewSchema so that the slots of B
// keep their indices. S and B must share the same Selection.
func Embed[S Selectable, B Selectable](base *Schema[B], project func(s S) B) []Field[S] {
	fields := make([]Field[S], len(base.fields))
	for i, bf := range base.fields {
		f := Field[S]{
			Name:  bf.Name,
			Type:  bf.Type,
			Write: func(s S, buf *codec.Buffer) { bf.Write(project(s), buf) },
			Read:  func(s S, buf *codec.Buffer) error { return bf.Read(project(s), buf) },
		}
		if bf.Equal != nil {
			f.Equal = func(a, b S) bool { return bf.Equal(project(a), project(b)) }
		}
		if bf.Format != nil {
			f.Format = func(s S, indent string) string { return bf.Format(project(s), indent) }
		}
		fields[i] = f
	}
	return fields
}

// --------------------------------------------------------------------------
// Introspection
// --------------------------------------------------------------------------

// TypeName returns the name of the subject type
func (s *Schema[S]) TypeName() string {
	return s.typeName
}

// NumFields returns the total number of slots (including embedded slots)
func (s *Schema[S]) NumFields() int {
	return len(s.fields)
}

// FieldName returns the name of the field at index or "invalid index"
func (s *Schema[S]) FieldName(index int) string {
	if index < 0 || index >= len(s.fields) {
		return "invalid index"
	}
	return s.fields[index].Name
}

// FieldType returns the type of the field at index
func (s *Schema[S]) FieldType(index int) FieldType {
	if index < 0 || index >= len(s.fields) {
		return FieldTypeUnknown
	}
	return s.fields[index].Type
}

// FieldTypeName returns the type name of the field at index
func (s *Schema[S]) FieldTypeName(index int) string {
	if index < 0 || index >= len(s.fields) {
		return "invalid index"
	}
	return s.fields[index].Type.String()
}

// FieldIndex returns the index of the field with the given name
func (s *Schema[S]) FieldIndex(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// --------------------------------------------------------------------------
// Dispatch
// --------------------------------------------------------------------------

// Write encodes the value of the field at index. Unknown indices are ignored.
func (s *Schema[S]) Write(index int, subject S, buf *codec.Buffer) {
	if index < 0 || index >= len(s.fields) {
		return
	}
	s.fields[index].Write(subject, buf)
}

// Read decodes the value of the field at index and marks the slot as changed
func (s *Schema[S]) Read(index int, subject S, buf *codec.Buffer) error {
	if index < 0 || index >= len(s.fields) {
		return fmt.Errorf("%w: %s has no field %d", ErrProtocolMismatch, s.typeName, index)
	}
	f := s.fields[index]
	if err := f.Read(subject, buf); err != nil {
		return fmt.Errorf("%s.%s: %w", s.typeName, f.Name, err)
	}
	subject.Selection().Select(index)
	return nil
}

// FieldsEqual compares the field at index of two subjects.
// Fields without an equality function compare by their encoding.
func (s *Schema[S]) FieldsEqual(index int, a, b S) bool {
	if index < 0 || index >= len(s.fields) {
		return false
	}
	f := s.fields[index]
	if f.Equal != nil {
		return f.Equal(a, b)
	}
	ba, bb := codec.NewBuffer(64), codec.NewBuffer(64)
	f.Write(a, ba)
	f.Write(b, bb)
	return string(ba.Bytes()) == string(bb.Bytes())
}

// Equal compares all fields of two subjects
func (s *Schema[S]) Equal(a, b S) bool {
	for i := range s.fields {
		if !s.FieldsEqual(i, a, b) {
			return false
		}
	}
	return true
}

// Dump renders all fields of a subject, one field per line
func (s *Schema[S]) Dump(subject S, indent string) string {
	var sb strings.Builder
	for _, f := range s.fields {
		if f.Format != nil {
			sb.WriteString(f.Format(subject, indent))
		} else {
			sb.WriteString(indent + f.Name + " = <" + f.Type.String() + ">")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
