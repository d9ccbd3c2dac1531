package codec

import (
	"errors"
	"reflect"
	"testing"
)

// TestRoundTrip writes one value of every supported type and reads them back in order
func TestRoundTrip(t *testing.T) {
	b := NewBuffer(64)
	b.WriteInt(-42)
	b.WriteInt(1 << 30)
	_ = b.WriteByte(0xAB)
	b.WriteBool(true)
	b.WriteBool(false)
	b.WriteFloat(0.25)
	b.WriteString("hot")
	b.WriteString("with\x00null")
	b.WriteString("")
	b.WriteStringVector([]string{"a", "", "ccc"})
	b.WriteIntVector([]int{1, -2, 3})
	b.WriteByteVector([]byte{9, 8, 7})

	r := FromBytes(b.Bytes())

	if v, err := r.ReadInt(); err != nil || v != -42 {
		t.Fatalf("ReadInt() = %v, %v, want -42", v, err)
	}
	if v, err := r.ReadInt(); err != nil || v != 1<<30 {
		t.Fatalf("ReadInt() = %v, %v, want %d", v, err, 1<<30)
	}
	if v, err := r.ReadByte(); err != nil || v != 0xAB {
		t.Fatalf("ReadByte() = %v, %v, want 0xAB", v, err)
	}
	if v, err := r.ReadBool(); err != nil || !v {
		t.Fatalf("ReadBool() = %v, %v, want true", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v {
		t.Fatalf("ReadBool() = %v, %v, want false", v, err)
	}
	if v, err := r.ReadFloat(); err != nil || v != 0.25 {
		t.Fatalf("ReadFloat() = %v, %v, want 0.25", v, err)
	}
	for _, want := range []string{"hot", "with\x00null", ""} {
		if v, err := r.ReadString(); err != nil || v != want {
			t.Fatalf("ReadString() = %q, %v, want %q", v, err, want)
		}
	}
	if v, err := r.ReadStringVector(); err != nil || !reflect.DeepEqual(v, []string{"a", "", "ccc"}) {
		t.Fatalf("ReadStringVector() = %v, %v", v, err)
	}
	if v, err := r.ReadIntVector(); err != nil || !reflect.DeepEqual(v, []int{1, -2, 3}) {
		t.Fatalf("ReadIntVector() = %v, %v", v, err)
	}
	if v, err := r.ReadByteVector(); err != nil || !reflect.DeepEqual(v, []byte{9, 8, 7}) {
		t.Fatalf("ReadByteVector() = %v, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

// TestTruncated checks that every read on a truncated buffer fails with ErrDecode
// and does not move the read position
func TestTruncated(t *testing.T) {
	full := NewBuffer(32)
	full.WriteStringVector([]string{"first", "second"})
	data := full.Bytes()

	tests := []struct {
		name string
		data []byte
		read func(b *Buffer) error
	}{
		{"int", []byte{0, 0}, func(b *Buffer) error { _, err := b.ReadInt(); return err }},
		{"byte", nil, func(b *Buffer) error { _, err := b.ReadByte(); return err }},
		{"bool", nil, func(b *Buffer) error { _, err := b.ReadBool(); return err }},
		{"float", []byte{1, 2, 3}, func(b *Buffer) error { _, err := b.ReadFloat(); return err }},
		{"string length", []byte{0, 0, 0}, func(b *Buffer) error { _, err := b.ReadString(); return err }},
		{"string data", []byte{0, 0, 0, 5, 'a'}, func(b *Buffer) error { _, err := b.ReadString(); return err }},
		{"string vector", data[:len(data)-2], func(b *Buffer) error { _, err := b.ReadStringVector(); return err }},
		{"int vector", []byte{0, 0, 0, 2, 0, 0, 0, 1}, func(b *Buffer) error { _, err := b.ReadIntVector(); return err }},
		{"byte vector", []byte{0, 0, 0, 3, 1}, func(b *Buffer) error { _, err := b.ReadByteVector(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromBytes(tt.data)
			before := b.Remaining()
			err := tt.read(b)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
			if b.Remaining() != before {
				t.Errorf("read position moved: remaining %d, want %d", b.Remaining(), before)
			}
		})
	}
}

// TestNegativeLength checks that negative sequence counts are rejected as malformed
func TestNegativeLength(t *testing.T) {
	b := NewBuffer(8)
	b.WriteInt(-1)

	if _, err := FromBytes(b.Bytes()).ReadStringVector(); !errors.Is(err, ErrDecode) {
		t.Errorf("ReadStringVector() error = %v, want ErrDecode", err)
	}
	if _, err := FromBytes(b.Bytes()).ReadIntVector(); !errors.Is(err, ErrDecode) {
		t.Errorf("ReadIntVector() error = %v, want ErrDecode", err)
	}
	if _, err := FromBytes(b.Bytes()).ReadCount(); !errors.Is(err, ErrDecode) {
		t.Errorf("ReadCount() error = %v, want ErrDecode", err)
	}
}

// TestInvalidBool checks that only 0 and 1 are accepted as booleans
func TestInvalidBool(t *testing.T) {
	if _, err := FromBytes([]byte{2}).ReadBool(); !errors.Is(err, ErrDecode) {
		t.Errorf("ReadBool() error = %v, want ErrDecode", err)
	}
}

// TestReset checks that a reset buffer can be reused
func TestReset(t *testing.T) {
	b := NewBuffer(8)
	b.WriteString("abc")
	b.Reset()
	if b.Len() != 0 || b.Remaining() != 0 {
		t.Fatalf("after Reset() Len=%d Remaining=%d, want 0", b.Len(), b.Remaining())
	}
	b.WriteInt(7)
	if v, err := b.ReadInt(); err != nil || v != 7 {
		t.Errorf("ReadInt() = %v, %v, want 7", v, err)
	}
}
