package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dAttr/lib/replica"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Subject string `json:"subject,omitempty"` // Used for: all requests (expected subject type), all responses (hosted subject type)
	Value   []byte `json:"value,omitempty"`   // Used for: Push (request), Pull, Drain and Info (response)

	// Response only fields
	Ok   bool   `json:"ok,omitempty"`   // Used for: all responses, true if the operation succeeded
	Code uint64 `json:"code,omitempty"` // replica.RetCode of a failed operation
	Err  string `json:"err,omitempty"`  // Empty if no error, otherwise contains the error message
}

// Failure converts the error fields of a response into a *replica.Error.
// It returns nil if the response reports success.
func (m *Message) Failure() error {
	if m.MsgType != MsgTError && m.Ok {
		return nil
	}
	code := replica.RetCode(m.Code)
	if code == replica.RetCSuccess {
		code = replica.RetCInternalError
	}
	return replica.NewError(code, m.Err)
}

// setError fills the error fields of a response
func (m *Message) setError(err error) *Message {
	if err == nil {
		m.Ok = true
		return m
	}
	m.Ok = false
	m.Code = uint64(replica.RetCInternalError)
	m.Err = err.Error()
	var re *replica.Error
	if errors.As(replica.ErrorFrom(err), &re) {
		m.Code = uint64(re.Code)
		m.Err = re.Msg
	}
	return m
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewPushRequest creates a new Push request carrying a change message
func NewPushRequest(subject string, changes []byte) *Message {
	return &Message{
		MsgType: MsgTPush,
		Subject: subject,
		Value:   changes,
	}
}

// NewPushResponse creates a new Push response
func NewPushResponse(subject string, err error) *Message {
	msg := &Message{
		MsgType: MsgTPush,
		Subject: subject,
	}
	return msg.setError(err)
}

// NewPullRequest creates a new Pull request
func NewPullRequest(subject string) *Message {
	return &Message{
		MsgType: MsgTPull,
		Subject: subject,
	}
}

// NewPullResponse creates a new Pull response carrying the full state
func NewPullResponse(subject string, state []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTPull,
		Subject: subject,
		Value:   state,
	}
	return msg.setError(err)
}

// NewDrainRequest creates a new Drain request
func NewDrainRequest(subject string) *Message {
	return &Message{
		MsgType: MsgTDrain,
		Subject: subject,
	}
}

// NewDrainResponse creates a new Drain response carrying the drained changes
func NewDrainResponse(subject string, changes []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTDrain,
		Subject: subject,
		Value:   changes,
	}
	return msg.setError(err)
}

// NewInfoRequest creates a new Info request
func NewInfoRequest(subject string) *Message {
	return &Message{
		MsgType: MsgTInfo,
		Subject: subject,
	}
}

// NewInfoResponse creates a new Info response, the info is encoded with replica.MarshalInfo
func NewInfoResponse(subject string, info replica.Info, err error) *Message {
	msg := &Message{
		MsgType: MsgTInfo,
		Subject: subject,
	}
	if err == nil {
		msg.Value = replica.MarshalInfo(info)
	}
	return msg.setError(err)
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(code replica.RetCode, err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Code:    uint64(code),
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTPush:
		return "push"
	case MsgTPull:
		return "pull"
	case MsgTDrain:
		return "drain"
	case MsgTInfo:
		return "info"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "push":
		*t = MsgTPush
	case "pull":
		*t = MsgTPull
	case "drain":
		*t = MsgTDrain
	case "info":
		*t = MsgTInfo
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IReplica operations

	MsgTPush  // Apply a change message
	MsgTPull  // Read the full state
	MsgTDrain // Read and clear the pending changes
	MsgTInfo  // Read the replica metadata
)
