package internal

import (
	"bytes"
	"testing"
)

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{
			name:    "Push with change message",
			command: Command{Type: CommandTPush, Value: []byte{0, 0, 0, 3, 0, 0, 0, 4, 'g', 'r', 'a', 'y'}},
		},
		{
			name:    "Push with empty message",
			command: Command{Type: CommandTPush, Value: []byte{}},
		},
		{
			name:    "Drain without value",
			command: Command{Type: CommandTDrain},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.command.Serialize()

			var newCommand Command
			if err := newCommand.Deserialize(data); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if newCommand.Type != tt.command.Type {
				t.Errorf("Type mismatch: got %v, want %v", newCommand.Type, tt.command.Type)
			}

			// Value comparison handling nil case
			if len(tt.command.Value) == 0 {
				if len(newCommand.Value) != 0 {
					t.Errorf("Value should be nil or empty, got %v", newCommand.Value)
				}
			} else if !bytes.Equal(newCommand.Value, tt.command.Value) {
				t.Errorf("Value mismatch: got %v, want %v", newCommand.Value, tt.command.Value)
			}

			if tt.command.SizeBytes() != len(data) {
				t.Errorf("SizeBytes() = %d, but serialized data length = %d", tt.command.SizeBytes(), len(data))
			}
		})
	}
}

// TestDeserializeReusesBuffer checks that the value buffer is reused and does not alias the input
func TestDeserializeReusesBuffer(t *testing.T) {
	cmd := Command{Value: make([]byte, 0, 16)}
	data := (&Command{Type: CommandTPush, Value: []byte("abc")}).Serialize()
	if err := cmd.Deserialize(data); err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	data[1] = 'x'
	if string(cmd.Value) != "abc" || cap(cmd.Value) != 16 {
		t.Errorf("Value = %q (cap %d)", cmd.Value, cap(cmd.Value))
	}
}

func TestDeserializeErrors(t *testing.T) {
	var cmd Command
	if err := cmd.Deserialize(nil); err == nil || err.Error() != "data too short for command" {
		t.Errorf("Deserialize(nil) error = %v", err)
	}
	if CommandType(9).String() != "Unknown(9)" {
		t.Errorf("String() = %s", CommandType(9))
	}
}
