package keyed

import (
	"fmt"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
)

// Selector references the active entry of a collection by name
type Selector struct {
	sel      *attr.Selection
	slot     int
	name     string
	pending  bool
	contains func(name string) bool
}

// Name returns the selected name ("" if nothing is selected)
func (s *Selector) Name() string {
	return s.name
}

// Slot returns the field slot of the selector
func (s *Selector) Slot() int {
	return s.slot
}

// Pending reports whether the selector holds a default name that has not been added
// to the collection yet
func (s *Selector) Pending() bool {
	return s.pending
}

// Set selects the entry with the given name. An empty name clears the selection.
// Selecting a name that is not part of the collection fails with ErrNotFound.
func (s *Selector) Set(name string) error {
	if name != "" && !s.contains(name) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.assign(name)
	return nil
}

// assign sets the name, binds the selector and marks its slot
func (s *Selector) assign(name string) {
	s.name = name
	s.pending = false
	s.sel.Select(s.slot)
}

// bind resolves a pending selector once its name exists
func (s *Selector) bind(name string) {
	if s.pending && s.name == name {
		s.pending = false
	}
}

func (s *Selector) write(buf *codec.Buffer) {
	buf.WriteString(s.name)
}

// read replaces the name with a decoded one. A decoded name that is not (yet) part of
// the collection leaves the selector pending, the collection slots of the same message
// may arrive in a later pass.
func (s *Selector) read(buf *codec.Buffer) error {
	name, err := buf.ReadString()
	if err != nil {
		return err
	}
	s.name = name
	s.pending = name != "" && !s.contains(name)
	return nil
}

// --------------------------------------------------------------------------
// Field Descriptor
// --------------------------------------------------------------------------

// SelectorField returns the descriptor of a selector slot
func SelectorField[S attr.Selectable](name string, selector func(s S) *Selector) attr.Field[S] {
	return attr.Field[S]{
		Name:   name,
		Type:   attr.FieldTypeString,
		Write:  func(s S, buf *codec.Buffer) { selector(s).write(buf) },
		Read:   func(s S, buf *codec.Buffer) error { return selector(s).read(buf) },
		Equal:  func(a, b S) bool { return selector(a).name == selector(b).name },
		Format: func(s S, indent string) string { return attr.FormatString(name, selector(s).name, indent) },
	}
}
