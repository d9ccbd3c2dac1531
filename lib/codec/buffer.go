package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrDecode is returned (wrapped) by all read operations if the buffer content is
// truncated or malformed
var ErrDecode = errors.New("decode error")

const (
	sizeInt   = 4
	sizeFloat = 4
	sizeByte  = 1
)

// Buffer is the byte buffer that carries the encoded fields of attribute subjects.
// Writes always append to the end of the buffer, reads consume from the current
// read position.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer creates a new empty buffer with the given initial capacity
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// FromBytes creates a buffer for reading the given data. The data is not copied.
func FromBytes(data []byte) *Buffer {
	return &Buffer{data: data}
}

// --------------------------------------------------------------------------
// Buffer state
// --------------------------------------------------------------------------

// Bytes returns the complete content of the buffer (including already read bytes)
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the total number of bytes in the buffer
func (b *Buffer) Len() int {
	return len(b.data)
}

// Remaining returns the number of unread bytes
func (b *Buffer) Remaining() int {
	return len(b.data) - b.pos
}

// Reset empties the buffer and rewinds the read position. The underlying memory is reused.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.pos = 0
}

// need checks if at least n unread bytes are available
func (b *Buffer) need(n int, what string) error {
	if n < 0 || b.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes for %s, %d remaining", ErrDecode, n, what, b.Remaining())
	}
	return nil
}

// --------------------------------------------------------------------------
// Write Methods
// --------------------------------------------------------------------------

// WriteInt appends a signed 32-bit integer
func (b *Buffer) WriteInt(v int) {
	b.data = binary.BigEndian.AppendUint32(b.data, uint32(int32(v)))
}

// WriteByte appends a single byte. It never fails, the error return only exists
// to satisfy io.ByteWriter.
func (b *Buffer) WriteByte(v byte) error {
	b.data = append(b.data, v)
	return nil
}

// WriteBool appends a boolean as a single byte (0 or 1)
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.data = append(b.data, 1)
	} else {
		b.data = append(b.data, 0)
	}
}

// WriteFloat appends a 32-bit floating point number
func (b *Buffer) WriteFloat(v float32) {
	b.data = binary.BigEndian.AppendUint32(b.data, math.Float32bits(v))
}

// WriteString appends a length prefixed string
func (b *Buffer) WriteString(v string) {
	b.data = binary.BigEndian.AppendUint32(b.data, uint32(len(v)))
	b.data = append(b.data, v...)
}

// WriteStringVector appends a count prefixed sequence of strings
func (b *Buffer) WriteStringVector(v []string) {
	b.WriteInt(len(v))
	for _, s := range v {
		b.WriteString(s)
	}
}

// WriteIntVector appends a count prefixed sequence of integers
func (b *Buffer) WriteIntVector(v []int) {
	b.WriteInt(len(v))
	for _, i := range v {
		b.WriteInt(i)
	}
}

// WriteByteVector appends a count prefixed sequence of bytes
func (b *Buffer) WriteByteVector(v []byte) {
	b.WriteInt(len(v))
	b.data = append(b.data, v...)
}

// --------------------------------------------------------------------------
// Read Methods
// --------------------------------------------------------------------------

// ReadInt reads a signed 32-bit integer
func (b *Buffer) ReadInt() (int, error) {
	if err := b.need(sizeInt, "int"); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(b.data[b.pos:]))
	b.pos += sizeInt
	return int(v), nil
}

// ReadByte reads a single byte
func (b *Buffer) ReadByte() (byte, error) {
	if err := b.need(sizeByte, "byte"); err != nil {
		return 0, err
	}
	v := b.data[b.pos]
	b.pos += sizeByte
	return v, nil
}

// ReadBool reads a boolean. Any byte other than 0 or 1 is treated as malformed.
func (b *Buffer) ReadBool() (bool, error) {
	if err := b.need(sizeByte, "bool"); err != nil {
		return false, err
	}
	switch b.data[b.pos] {
	case 0:
		b.pos++
		return false, nil
	case 1:
		b.pos++
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool value %d", ErrDecode, b.data[b.pos])
	}
}

// ReadFloat reads a 32-bit floating point number
func (b *Buffer) ReadFloat() (float32, error) {
	if err := b.need(sizeFloat, "float"); err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.BigEndian.Uint32(b.data[b.pos:]))
	b.pos += sizeFloat
	return v, nil
}

// ReadString reads a length prefixed string
func (b *Buffer) ReadString() (string, error) {
	if err := b.need(sizeInt, "string length"); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(b.data[b.pos:])
	if uint64(n) > uint64(b.Remaining()-sizeInt) {
		return "", fmt.Errorf("%w: string length %d exceeds %d remaining bytes", ErrDecode, n, b.Remaining()-sizeInt)
	}
	start := b.pos + sizeInt
	v := string(b.data[start : start+int(n)])
	b.pos = start + int(n)
	return v, nil
}

// ReadStringVector reads a count prefixed sequence of strings.
// On failure the read position is restored so no partial sequence is consumed.
func (b *Buffer) ReadStringVector() ([]string, error) {
	start := b.pos
	n, err := b.readCount("string vector")
	if err != nil {
		return nil, err
	}
	v := make([]string, 0, min(n, b.Remaining()/sizeInt))
	for i := 0; i < n; i++ {
		s, err := b.ReadString()
		if err != nil {
			b.pos = start
			return nil, fmt.Errorf("string vector element %d: %w", i, err)
		}
		v = append(v, s)
	}
	return v, nil
}

// ReadIntVector reads a count prefixed sequence of integers
func (b *Buffer) ReadIntVector() ([]int, error) {
	start := b.pos
	n, err := b.readCount("int vector")
	if err != nil {
		return nil, err
	}
	if err := b.need(n*sizeInt, "int vector data"); err != nil {
		b.pos = start
		return nil, err
	}
	v := make([]int, n)
	for i := range v {
		v[i] = int(int32(binary.BigEndian.Uint32(b.data[b.pos:])))
		b.pos += sizeInt
	}
	return v, nil
}

// ReadByteVector reads a count prefixed sequence of bytes. The result is a copy.
func (b *Buffer) ReadByteVector() ([]byte, error) {
	start := b.pos
	n, err := b.readCount("byte vector")
	if err != nil {
		return nil, err
	}
	if err := b.need(n, "byte vector data"); err != nil {
		b.pos = start
		return nil, err
	}
	v := make([]byte, n)
	copy(v, b.data[b.pos:b.pos+n])
	b.pos += n
	return v, nil
}

// ReadCount reads a sequence count written with WriteInt and rejects negative values.
// It is used by subjects that encode sequences of nested entities.
func (b *Buffer) ReadCount() (int, error) {
	return b.readCount("count")
}

// readCount reads an int and validates it as a sequence length
func (b *Buffer) readCount(what string) (int, error) {
	start := b.pos
	n, err := b.ReadInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		b.pos = start
		return 0, fmt.Errorf("%w: negative %s length %d", ErrDecode, what, n)
	}
	return n, nil
}
