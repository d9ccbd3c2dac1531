package attr

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/dAttr/lib/codec"
)

// ErrProtocolMismatch is returned if a decoded slot index is unknown to the receiving
// subject. It signals that both replicas disagree on the schema of the subject type.
var ErrProtocolMismatch = errors.New("protocol mismatch")

// --------------------------------------------------------------------------
// Interface Definitions
// --------------------------------------------------------------------------

// Subject is the interface implemented by all attribute subjects
type Subject interface {
	Selectable
	// TypeName returns the name of the subject type (must be identical on all replicas)
	TypeName() string
	// NumFields returns the number of field slots of the subject
	NumFields() int
	// WriteField encodes the value of the field at index
	WriteField(index int, buf *codec.Buffer)
	// ReadField decodes the value of the field at index and marks it as changed
	ReadField(index int, buf *codec.Buffer) error
}

// Validator can be implemented by subjects that check their invariants after
// a synchronization pass has been applied
type Validator interface {
	Validate() error
}

// Entity is the contract for values that are embedded in attribute subjects
// (e.g. the entries of a keyed collection). T is the concrete entity type.
type Entity[T any] interface {
	// Write appends the complete, self-contained encoding of the entity
	Write(buf *codec.Buffer)
	// Read replaces the state of the entity with the next encoded entity in buf
	Read(buf *codec.Buffer) error
	// Equal reports whether both entities have the same value
	Equal(other T) bool
	// Copy returns a deep copy that shares no mutable state with the original
	Copy() T
	// Dump renders the entity for debug output, each line prefixed with indent
	Dump(indent string) string
}

// --------------------------------------------------------------------------
// Selective Synchronization
// --------------------------------------------------------------------------

// WriteChanges appends all changed fields of the subject to buf in ascending slot order.
// Each field is written as its slot index followed by its value, unchanged fields are
// skipped entirely. The flags of all written slots are cleared.
// It returns the number of written fields.
func WriteChanges(s Subject, buf *codec.Buffer) int {
	sel := s.Selection()
	written := 0
	for i := 0; i < s.NumFields(); i++ {
		if !sel.IsSelected(i) {
			continue
		}
		buf.WriteInt(i)
		s.WriteField(i, buf)
		sel.Unselect(i)
		written++
	}
	return written
}

// ReadChanges applies all (index, value) pairs remaining in buf to the subject.
// The message is expected to end with the buffer, framing is done by the transport.
// If the subject implements Validator, its invariants are checked after all pairs
// have been applied.
func ReadChanges(s Subject, buf *codec.Buffer) error {
	applied := 0
	for buf.Remaining() > 0 {
		index, err := buf.ReadInt()
		if err != nil {
			return fmt.Errorf("%s slot index: %w", s.TypeName(), err)
		}
		if err := readField(s, index, buf); err != nil {
			return err
		}
		applied++
	}
	Logger.Debugf("applied %d changed fields to %s", applied, s.TypeName())

	if v, ok := s.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// Sync is a helper that encodes the changes of src and applies them to dst.
// It is mainly used for in-process relays and tests.
func Sync(dst, src Subject) error {
	buf := codec.NewBuffer(256)
	WriteChanges(src, buf)
	return ReadChanges(dst, buf)
}

// --------------------------------------------------------------------------
// Full Encoding (used for nested subjects)
// --------------------------------------------------------------------------

// WriteState appends all (index, value) pairs of the subject without modifying its dirty
// flags. The result is a change message that ReadChanges can apply.
func WriteState(s Subject, buf *codec.Buffer) {
	for i := 0; i < s.NumFields(); i++ {
		buf.WriteInt(i)
		s.WriteField(i, buf)
	}
}

// WriteAll appends the complete state of the subject: the number of fields followed by
// all (index, value) pairs. The dirty flags of the subject are not modified.
func WriteAll(s Subject, buf *codec.Buffer) {
	buf.WriteInt(s.NumFields())
	WriteState(s, buf)
}

// ReadAll reads a state written by WriteAll into the subject
func ReadAll(s Subject, buf *codec.Buffer) error {
	n, err := buf.ReadCount()
	if err != nil {
		return fmt.Errorf("%s field count: %w", s.TypeName(), err)
	}
	for j := 0; j < n; j++ {
		index, err := buf.ReadInt()
		if err != nil {
			return fmt.Errorf("%s slot index: %w", s.TypeName(), err)
		}
		if err := readField(s, index, buf); err != nil {
			return err
		}
	}
	return nil
}

// readField checks the index against the declared range before anything is decoded
func readField(s Subject, index int, buf *codec.Buffer) error {
	if index < 0 || index >= s.NumFields() {
		return fmt.Errorf("%w: %s has %d fields, received index %d",
			ErrProtocolMismatch, s.TypeName(), s.NumFields(), index)
	}
	return s.ReadField(index, buf)
}
