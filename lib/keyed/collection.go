package keyed

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("keyed")

var (
	// ErrDuplicateKey is returned by Add if the name is already part of the collection
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrEmptyKey is returned by Add for the empty name, which selectors use as "no entry"
	ErrEmptyKey = errors.New("empty key")
	// ErrNotFound is returned by lookups of names that are not part of the collection
	ErrNotFound = errors.New("not found")
	// ErrIndex is returned by positional access out of range
	ErrIndex = errors.New("index out of range")
	// ErrInvariant is returned by Validate if the collection is inconsistent
	ErrInvariant = errors.New("collection invariant violated")
)

// Collection holds the parallel names and payloads of a keyed collection.
// T is the payload type, usually a pointer to a nested attribute subject.
type Collection[T attr.Entity[T]] struct {
	sel          *attr.Selection
	namesSlot    int
	payloadsSlot int
	newPayload   func() T

	names     []string
	payloads  []T
	selectors []*Selector
}

// New creates an empty collection. The names and payloads are tracked in the given slots
// of sel, newPayload creates empty payloads for decoding.
func New[T attr.Entity[T]](sel *attr.Selection, namesSlot, payloadsSlot int, newPayload func() T) *Collection[T] {
	return &Collection[T]{
		sel:          sel,
		namesSlot:    namesSlot,
		payloadsSlot: payloadsSlot,
		newPayload:   newPayload,
	}
}

// NewSelector creates a selector stored in slot. If def is not empty it is used as default
// name and the selector stays pending until an entry with this name is added.
func (c *Collection[T]) NewSelector(slot int, def string) *Selector {
	s := &Selector{
		sel:      c.sel,
		slot:     slot,
		name:     def,
		pending:  def != "",
		contains: c.Contains,
	}
	c.selectors = append(c.selectors, s)
	return s
}

// --------------------------------------------------------------------------
// Mutation
// --------------------------------------------------------------------------

// Add appends a copy of payload under name.
// It fails with ErrEmptyKey for "" and with ErrDuplicateKey if the name already exists,
// the collection is not modified in either case.
func (c *Collection[T]) Add(name string, payload T) error {
	if name == "" {
		return ErrEmptyKey
	}
	if c.Contains(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, name)
	}
	c.names = append(c.names, name)
	c.payloads = append(c.payloads, payload.Copy())
	c.sel.Select(c.namesSlot)
	c.sel.Select(c.payloadsSlot)

	for _, s := range c.selectors {
		s.bind(name)
	}
	return nil
}

// Update replaces the payload stored under name with a copy of payload
func (c *Collection[T]) Update(name string, payload T) error {
	i, err := c.Lookup(name)
	if err != nil {
		return err
	}
	c.payloads[i] = payload.Copy()
	c.sel.Select(c.payloadsSlot)
	return nil
}

// RemoveByName removes the entry with the given name and reports whether it existed
func (c *Collection[T]) RemoveByName(name string) bool {
	i, err := c.Lookup(name)
	if err != nil {
		return false
	}
	return c.RemoveByIndex(i)
}

// RemoveByIndex removes the entry at index i. Indices out of range are ignored.
// Selectors that referenced the removed entry are moved to the new first entry.
func (c *Collection[T]) RemoveByIndex(i int) bool {
	if i < 0 || i >= len(c.names) {
		return false
	}
	removed := c.names[i]
	c.names = slices.Delete(c.names, i, i+1)
	c.payloads = slices.Delete(c.payloads, i, i+1)
	c.sel.Select(c.namesSlot)
	c.sel.Select(c.payloadsSlot)

	for _, s := range c.selectors {
		switch {
		case s.name == removed:
			next := ""
			if len(c.names) > 0 {
				next = c.names[0]
			}
			Logger.Debugf("removed active entry %q, selector in slot %d moves to %q", removed, s.slot, next)
			s.assign(next)
		case len(c.names) == 0 && s.name != "":
			// pending defaults do not survive an empty collection
			s.assign("")
		}
	}
	return true
}

// Clear removes all entries and resets all selectors to ""
func (c *Collection[T]) Clear() {
	c.names = nil
	c.payloads = nil
	c.sel.Select(c.namesSlot)
	c.sel.Select(c.payloadsSlot)
	for _, s := range c.selectors {
		if s.name != "" {
			s.assign("")
		}
	}
}

// CopyFrom replaces the state of c with a deep copy of src (including selector values).
// Both collections must belong to the same subject type.
func (c *Collection[T]) CopyFrom(src *Collection[T]) {
	c.names = slices.Clone(src.names)
	c.payloads = make([]T, len(src.payloads))
	for i, p := range src.payloads {
		c.payloads[i] = p.Copy()
	}
	for i, s := range c.selectors {
		if i < len(src.selectors) {
			s.name = src.selectors[i].name
			s.pending = src.selectors[i].pending
		}
	}
}

// --------------------------------------------------------------------------
// Access
// --------------------------------------------------------------------------

// Lookup returns the index of the first entry with the given name
func (c *Collection[T]) Lookup(name string) (int, error) {
	if i := slices.Index(c.names, name); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Contains reports whether an entry with the given name exists
func (c *Collection[T]) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// Get returns a copy of the payload stored under name.
// Changes to the copy are not tracked, use Update to store them.
func (c *Collection[T]) Get(name string) (T, error) {
	i, err := c.Lookup(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.payloads[i].Copy(), nil
}

// GetAt returns a copy of the payload at index i
func (c *Collection[T]) GetAt(i int) (T, error) {
	if i < 0 || i >= len(c.payloads) {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrIndex, i, len(c.payloads))
	}
	return c.payloads[i].Copy(), nil
}

// ActivePayload returns a copy of the payload the selector points to.
// An empty selector yields ErrNotFound.
func (c *Collection[T]) ActivePayload(s *Selector) (T, error) {
	if s.name == "" {
		var zero T
		return zero, fmt.Errorf("%w: no active entry", ErrNotFound)
	}
	return c.Get(s.name)
}

// Names returns a copy of the names in insertion order
func (c *Collection[T]) Names() []string {
	return slices.Clone(c.names)
}

// Payloads returns copies of the payloads in insertion order
func (c *Collection[T]) Payloads() []T {
	out := make([]T, len(c.payloads))
	for i, p := range c.payloads {
		out[i] = p.Copy()
	}
	return out
}

// Len returns the number of entries
func (c *Collection[T]) Len() int {
	return len(c.names)
}

// Equal compares names and payloads of two collections (order sensitive)
func (c *Collection[T]) Equal(other *Collection[T]) bool {
	return slices.Equal(c.names, other.names) && c.payloadsEqual(other)
}

func (c *Collection[T]) payloadsEqual(other *Collection[T]) bool {
	return slices.EqualFunc(c.payloads, other.payloads, func(a, b T) bool { return a.Equal(b) })
}

// Validate checks that names and payloads have the same length, that names are unique and
// that every selector is empty, pending or references an existing entry
func (c *Collection[T]) Validate() error {
	if len(c.names) != len(c.payloads) {
		return fmt.Errorf("%w: %d names but %d payloads", ErrInvariant, len(c.names), len(c.payloads))
	}
	seen := make(map[string]struct{}, len(c.names))
	for _, n := range c.names {
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%w: name %q is not unique", ErrInvariant, n)
		}
		seen[n] = struct{}{}
	}
	for _, s := range c.selectors {
		if s.name == "" || s.pending {
			continue
		}
		if _, ok := seen[s.name]; !ok {
			return fmt.Errorf("%w: selector in slot %d references missing entry %q", ErrInvariant, s.slot, s.name)
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Wire Encoding
// --------------------------------------------------------------------------

func (c *Collection[T]) writeNames(buf *codec.Buffer) {
	buf.WriteStringVector(c.names)
}

func (c *Collection[T]) readNames(buf *codec.Buffer) error {
	names, err := buf.ReadStringVector()
	if err != nil {
		return err
	}
	c.names = names
	for _, s := range c.selectors {
		if s.pending && c.Contains(s.name) {
			s.pending = false
		}
	}
	return nil
}

func (c *Collection[T]) writePayloads(buf *codec.Buffer) {
	buf.WriteInt(len(c.payloads))
	for _, p := range c.payloads {
		p.Write(buf)
	}
}

// readPayloads decodes into a fresh slice, the current payloads are kept on failure
func (c *Collection[T]) readPayloads(buf *codec.Buffer) error {
	n, err := buf.ReadCount()
	if err != nil {
		return err
	}
	payloads := make([]T, 0, min(n, buf.Remaining()))
	for j := 0; j < n; j++ {
		p := c.newPayload()
		if err := p.Read(buf); err != nil {
			return fmt.Errorf("payload %d: %w", j, err)
		}
		payloads = append(payloads, p)
	}
	c.payloads = payloads
	return nil
}

// NamesField returns the descriptor of the names slot of a collection
func NamesField[S attr.Selectable, T attr.Entity[T]](name string, collection func(s S) *Collection[T]) attr.Field[S] {
	return attr.Field[S]{
		Name:   name,
		Type:   attr.FieldTypeStringVector,
		Write:  func(s S, buf *codec.Buffer) { collection(s).writeNames(buf) },
		Read:   func(s S, buf *codec.Buffer) error { return collection(s).readNames(buf) },
		Equal:  func(a, b S) bool { return slices.Equal(collection(a).names, collection(b).names) },
		Format: func(s S, indent string) string { return attr.FormatStringVector(name, collection(s).names, indent) },
	}
}

// PayloadsField returns the descriptor of the payloads slot of a collection.
// A changed payloads slot always carries every payload.
func PayloadsField[S attr.Selectable, T attr.Entity[T]](name string, collection func(s S) *Collection[T]) attr.Field[S] {
	return attr.Field[S]{
		Name:   name,
		Type:   attr.FieldTypeAttVector,
		Write:  func(s S, buf *codec.Buffer) { collection(s).writePayloads(buf) },
		Read:   func(s S, buf *codec.Buffer) error { return collection(s).readPayloads(buf) },
		Equal:  func(a, b S) bool { return collection(a).payloadsEqual(collection(b)) },
		Format: func(s S, indent string) string { return attr.FormatEntities(name, collection(s).payloads, indent) },
	}
}
