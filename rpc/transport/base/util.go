package base

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

const (
	// frameHeaderSize is shardID (8) + requestID (8) + payload length (4)
	frameHeaderSize = 20
	// maxFrameSize bounds the payload of a single frame, larger lengths indicate a corrupt stream
	maxFrameSize = 64 << 20
)

// writeFrame writes one frame, all header fields are big endian:
//
//	| shardID uint64 | requestID uint64 | length uint32 | payload |
func writeFrame(w io.Writer, shardID uint64, requestID uint64, data []byte) error {
	if len(data) > maxFrameSize {
		return fmt.Errorf("frame payload of %d bytes exceeds %d bytes", len(data), maxFrameSize)
	}
	var header [frameHeaderSize]byte
	binary.BigEndian.PutUint64(header[:8], shardID)
	binary.BigEndian.PutUint64(header[8:16], requestID)
	binary.BigEndian.PutUint32(header[16:20], uint32(len(data)))

	// header and payload go out in one writev call
	b := net.Buffers{header[:], data}
	_, err := b.WriteTo(w)
	return err
}

// readFrame reads one frame. The payload is read into buf if it is large enough,
// otherwise a new slice is allocated. The returned payload is only valid until buf is reused.
func readFrame(r io.Reader, buf []byte) (shardID uint64, requestID uint64, data []byte, err error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, 0, nil, err
	}

	shardID = binary.BigEndian.Uint64(header[:8])
	requestID = binary.BigEndian.Uint64(header[8:16])
	length := binary.BigEndian.Uint32(header[16:20])

	if length == 0 {
		return shardID, requestID, []byte{}, nil
	}
	if length > maxFrameSize {
		return 0, 0, nil, fmt.Errorf("frame payload of %d bytes exceeds %d bytes", length, maxFrameSize)
	}

	if len(buf) < int(length) {
		buf = make([]byte, length)
	}
	if _, err := io.ReadFull(r, buf[:length]); err != nil {
		return 0, 0, nil, err
	}
	return shardID, requestID, buf[:length], nil
}
