package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dAttr/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasSubject byte = 1 << 0
	hasValue   byte = 1 << 1
	hasOk      byte = 1 << 2
	hasCode    byte = 1 << 3
	hasErr     byte = 1 << 4
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, b.sizeBytes(msg))

	// Write message type, the flags byte is set at the end
	result[0] = byte(msg.MsgType)
	var flags byte = 0
	pos := 2

	if msg.Subject != "" {
		flags |= hasSubject
		pos = putBytes(result, pos, []byte(msg.Subject))
	}

	// nil and empty values are distinguished
	if msg.Value != nil {
		flags |= hasValue
		pos = putBytes(result, pos, msg.Value)
	}

	if msg.Ok {
		flags |= hasOk
	}

	if msg.Code != 0 {
		flags |= hasCode
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Code)
		pos += 8
	}

	if msg.Err != "" {
		flags |= hasErr
		pos = putBytes(result, pos, []byte(msg.Err))
	}

	result[1] = flags
	return result[:pos], nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	pos := 2

	// Read Subject if present
	msg.Subject = ""
	if flags&hasSubject != 0 {
		subject, next, err := readBytes(data, pos, "subject")
		if err != nil {
			return err
		}
		msg.Subject = string(subject)
		pos = next
	}

	// Read Value if present, reuse the buffer of msg if possible
	if flags&hasValue != 0 {
		value, next, err := readBytes(data, pos, "value")
		if err != nil {
			return err
		}
		if msg.Value == nil || cap(msg.Value) < len(value) {
			msg.Value = make([]byte, len(value))
		} else {
			msg.Value = msg.Value[:len(value)]
		}
		copy(msg.Value, value)
		pos = next
	} else {
		msg.Value = nil
	}

	msg.Ok = flags&hasOk != 0

	// Read Code if present
	msg.Code = 0
	if flags&hasCode != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for code")
		}
		msg.Code = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	}

	// Read Err if present
	msg.Err = ""
	if flags&hasErr != 0 {
		errBytes, _, err := readBytes(data, pos, "error")
		if err != nil {
			return err
		}
		msg.Err = string(errBytes)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Subject != "" {
		size += 4 + len(msg.Subject) // 4 bytes for length + subject string
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value) // 4 bytes for length + value bytes
	}
	if msg.Code != 0 {
		size += 8 // uint64
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}

	return size
}

// putBytes writes a length prefixed byte sequence at pos and returns the next position
func putBytes(dst []byte, pos int, v []byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(v)))
	pos += 4
	copy(dst[pos:pos+len(v)], v)
	return pos + len(v)
}

// readBytes reads a length prefixed byte sequence at pos. The result aliases data.
func readBytes(data []byte, pos int, what string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, 0, fmt.Errorf("data too short for %s length", what)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n < 0 || pos+n > len(data) {
		return nil, 0, fmt.Errorf("data too short for %s data", what)
	}
	return data[pos : pos+n], pos + n, nil
}
