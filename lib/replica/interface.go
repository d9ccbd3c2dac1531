package replica

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// SubjectFactory is a function type that creates the subject hosted by a replica.
// It must return a default constructed subject of always the same type.
type SubjectFactory func() attr.Subject

// FactoryFor returns a SubjectFactory that creates subjects via the attr.DefaultRegistry
func FactoryFor(typeName string) (SubjectFactory, error) {
	if _, err := attr.Create(typeName); err != nil {
		return nil, err
	}
	return func() attr.Subject {
		s, _ := attr.Create(typeName)
		return s
	}, nil
}

// IReplica is the interface for interacting with a replicated attribute subject.
// All messages are change messages as written by attr.WriteChanges.
type IReplica interface {
	// TypeName returns the type name of the hosted subject.
	TypeName() string
	// Push applies a change message to the hosted subject. The message is applied completely or not at all.
	// Applied fields are marked as changed and are part of the next Drain.
	Push(changes []byte) (err error)
	// Pull returns the complete state of the hosted subject as a change message.
	// Pull does not modify the pending changes.
	Pull() (state []byte, err error)
	// Drain returns all changes since the last Drain and marks them as sent.
	Drain() (changes []byte, err error)
	// Info returns metadata about the hosted subject.
	Info() (info Info, err error)
}

// Info contains metadata about the subject of a replica
type Info struct {
	TypeName string
	// NumFields is the number of slots of the subject
	NumFields int
	// Pending holds the slot indices that will be part of the next Drain
	Pending []int
	// Applied is the number of change messages applied since the replica was created
	Applied uint64
}

func (i Info) String() string {
	return fmt.Sprintf("%s: %d fields, pending %v, %d messages applied", i.TypeName, i.NumFields, i.Pending, i.Applied)
}

// MarshalInfo encodes info with the codec encoding (used by the rpc layer)
func MarshalInfo(info Info) []byte {
	buf := codec.NewBuffer(32 + 4*len(info.Pending))
	buf.WriteString(info.TypeName)
	buf.WriteInt(info.NumFields)
	buf.WriteIntVector(info.Pending)
	buf.WriteInt(int(int32(info.Applied >> 32)))
	buf.WriteInt(int(int32(uint32(info.Applied))))
	return buf.Bytes()
}

// UnmarshalInfo decodes an Info written by MarshalInfo
func UnmarshalInfo(data []byte) (Info, error) {
	var info Info
	var err error
	buf := codec.FromBytes(data)
	if info.TypeName, err = buf.ReadString(); err != nil {
		return Info{}, err
	}
	if info.NumFields, err = buf.ReadInt(); err != nil {
		return Info{}, err
	}
	if info.Pending, err = buf.ReadIntVector(); err != nil {
		return Info{}, err
	}
	hi, err := buf.ReadInt()
	if err != nil {
		return Info{}, err
	}
	lo, err := buf.ReadInt()
	if err != nil {
		return Info{}, err
	}
	info.Applied = uint64(uint32(hi))<<32 | uint64(uint32(lo))
	return info, nil
}

// --------------------------------------------------------------------------
// Message Handling (shared by all implementations)
// --------------------------------------------------------------------------

// Apply applies a change message to subject. The message is first replayed on a scratch
// subject created by factory and restored from the current state, so subject is only
// modified if the whole message decodes and validates.
func Apply(subject attr.Subject, factory SubjectFactory, changes []byte) error {
	scratch := factory()
	state := codec.NewBuffer(256)
	attr.WriteState(subject, state)
	if err := attr.ReadChanges(scratch, state); err != nil {
		return NewError(RetCInternalError, fmt.Sprintf("restore scratch %s: %v", subject.TypeName(), err))
	}
	if err := attr.ReadChanges(scratch, codec.FromBytes(changes)); err != nil {
		return ErrorFrom(err)
	}
	if err := attr.ReadChanges(subject, codec.FromBytes(changes)); err != nil {
		return ErrorFrom(err)
	}
	return nil
}

// State returns the full state of subject as change message
func State(subject attr.Subject) []byte {
	buf := codec.NewBuffer(256)
	attr.WriteState(subject, buf)
	return buf.Bytes()
}

// Changes returns the pending changes of subject as change message and clears them
func Changes(subject attr.Subject) []byte {
	buf := codec.NewBuffer(64)
	attr.WriteChanges(subject, buf)
	return buf.Bytes()
}

// InfoOf collects the metadata of subject
func InfoOf(subject attr.Subject, applied uint64) Info {
	return Info{
		TypeName:  subject.TypeName(),
		NumFields: subject.NumFields(),
		Pending:   subject.Selection().SelectedIndices(),
		Applied:   applied,
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message. It is used to carry errors through the raft log and the rpc layer.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ReplicaError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the sentinel error of the protocol layer that matches the code,
// so errors.Is(err, attr.ErrProtocolMismatch) also holds for errors of remote replicas.
func (e *Error) Unwrap() error {
	switch e.Code {
	case RetCDecodeError:
		return codec.ErrDecode
	case RetCProtocolMismatch:
		return attr.ErrProtocolMismatch
	case RetCUnknownType:
		return attr.ErrUnknownType
	default:
		return nil
	}
}

// NewError creates a new replica error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ErrorFrom converts an error of the protocol layer into a *Error with a matching code.
// A nil error is returned as nil, a *Error is returned unchanged.
func ErrorFrom(err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	switch {
	case errors.As(err, &re):
		return re
	case errors.Is(err, codec.ErrDecode):
		return NewError(RetCDecodeError, err.Error())
	case errors.Is(err, attr.ErrProtocolMismatch):
		return NewError(RetCProtocolMismatch, err.Error())
	case errors.Is(err, attr.ErrUnknownType):
		return NewError(RetCUnknownType, err.Error())
	default:
		return NewError(RetCRejected, err.Error())
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation.
	RetCDecodeError                     // 3: The change message is malformed.
	RetCProtocolMismatch                // 4: The change message addresses an unknown slot.
	RetCRejected                        // 5: The change message violates an invariant of the subject.
	RetCUnknownType                     // 6: The subject type is not registered.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCDecodeError:
		return "DecodeError"
	case RetCProtocolMismatch:
		return "ProtocolMismatch"
	case RetCRejected:
		return "Rejected"
	case RetCUnknownType:
		return "UnknownType"
	default:
		return "Unknown"
	}
}
