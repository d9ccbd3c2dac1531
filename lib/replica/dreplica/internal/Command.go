package internal

import (
	"fmt"
)

// CommandType defines the possible operations for the state machine.
type CommandType uint8

const (
	CommandTPush  CommandType = iota // Apply a change message to the subject.
	CommandTDrain                    // Collect and clear the pending changes of the subject.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTPush:
		return "Push"
	case CommandTDrain:
		return "Drain"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// Command represents a command to be executed by the state machine (a single entry in the raft log)
type Command struct {
	Type  CommandType
	Value []byte
}

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	return 1 + len(command.Value) // Type + Value
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// N bytes for value data (optional, the change message of a push)
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())
	result[0] = byte(command.Type)
	copy(result[1:], command.Value)
	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("data too short for command")
	}

	command.Type = CommandType(data[0])

	if len(data) > 1 {
		valueLen := len(data) - 1
		// Reuse existing buffer if possible to reduce allocations
		if command.Value == nil || cap(command.Value) < valueLen {
			command.Value = make([]byte, valueLen)
		} else {
			command.Value = command.Value[:valueLen]
		}
		copy(command.Value, data[1:])
	} else {
		command.Value = nil
	}
	return nil
}
