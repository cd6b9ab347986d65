// Package format implements the core's stable, versionless wire encoding:
// fixed-width little-endian integers for primitives plus the single shared
// length prefix used by every variable-length sequence. Every Node
// implementation in pkg/node serializes and deserializes through these
// helpers; PutVecLen is the system's sole length encoder (spec's
// serialize_vec_len), so round-tripping a sequence never requires knowing
// which Node type produced it.
package format

import (
	"encoding/binary"

	"github.com/autarkie-go/autarkie/internal/buf"
)

// PutU8 writes a byte to b at off.
func PutU8(b []byte, off int, v uint8) { b[off] = v }

// PutU16 writes a uint16 value to b at off in little-endian order.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutI32 writes an int32 value to b at off in little-endian order.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// PutU32 writes a uint32 value to b at off in little-endian order.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutU64 writes a uint64 value to b at off in little-endian order.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU8 reads the byte at off.
func ReadU8(b []byte, off int) uint8 { return b[off] }

// ReadU16 reads a little-endian uint16 from b at off.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadI32 reads a little-endian int32 from b at off.
func ReadI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}

// ReadU32 reads a little-endian uint32 from b at off.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadU64 reads a little-endian uint64 from b at off.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// VecLenSize is the width, in bytes, of the length prefix written by
// PutVecLen and consumed by ReadVecLen.
const VecLenSize = 4

// PutVecLen appends the length prefix for a variable-length sequence of n
// elements to dst and returns the extended slice. Every variable-length
// Iterable node writes exactly these bytes before its elements.
func PutVecLen(dst []byte, n int) []byte {
	var hdr [VecLenSize]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(n))
	return append(dst, hdr[:]...)
}

// ReadVecLen decodes a length prefix written by PutVecLen, returning the
// element count and the number of bytes consumed. ok is false when b is
// too short to hold a length prefix; callers must treat that as a
// deserialization failure (skip), never a panic.
func ReadVecLen(b []byte) (n int, consumed int, ok bool) {
	head, ok := buf.Slice(b, 0, VecLenSize)
	if !ok {
		return 0, 0, false
	}
	return int(binary.LittleEndian.Uint32(head)), VecLenSize, true
}
