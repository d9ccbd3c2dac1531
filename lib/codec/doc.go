// Package codec provides the binary channel codec used by every attribute subject
// to encode its fields for transmission between replicas.
//
// The package focuses on:
//   - A compact, big-endian wire format for scalars, strings and ordered sequences
//   - Length- and count-prefixed encodings (strings may contain arbitrary bytes)
//   - All-or-nothing reads: a read either consumes a complete value or fails
//
// Key Components:
//
//   - Buffer: An append-only write side combined with a cursor-based read side.
//     Write* methods append the canonical encoding of a value, Read* methods consume
//     the next value of a known type and advance the cursor.
//
//   - ErrDecode: Sentinel error wrapped by every read failure (truncated buffer,
//     negative declared length, invalid boolean byte, ...). Callers test for it with
//     errors.Is.
//
// Wire Format:
//
//   - int:          4 bytes, signed, big endian
//   - bool / byte:  1 byte (bool must be 0 or 1)
//   - float:        4 bytes, IEEE-754 single precision, big endian
//   - string:       uint32 length + raw bytes (no terminator)
//   - []string:     int count + count strings
//   - []int:        int count + count ints
//   - []byte:       int count + raw bytes
//
// Thread Safety:
//
//	A Buffer is not safe for concurrent use. It is owned by a single synchronization
//	pass and handed to the transport once encoding has finished.
package codec
