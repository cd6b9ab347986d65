package format

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/autarkie-go/autarkie/internal/buf"
)

// utf16LE is the shared UTF-16LE codec for the String primitive's wire
// encoding. The teacher decodes registry value names the same way
// (golang.org/x/text/encoding/charmap for Windows-1252, unicode.UTF16
// for REG_SZ payloads); the fuzzer's String nodes reuse the UTF-16LE half
// of that family since it round-trips cleanly for arbitrary generated
// text, including values outside the Windows-1252 code page.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// PutString appends s to dst as a length-prefixed UTF-16LE blob:
// PutVecLen(len(encoded bytes)/2) followed by the encoded code units.
func PutString(dst []byte, s string) []byte {
	enc, err := utf16LE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// Unpaired surrogates or similarly malformed runes cannot occur in
		// strings produced by this package's own generator, but a spliced
		// donor chunk could still carry one; replace rather than fail the
		// whole serialization.
		enc = []byte{}
	}
	dst = PutVecLen(dst, len(enc)/2)
	return append(dst, enc...)
}

// ReadString decodes a string written by PutString, returning the decoded
// text and the number of bytes consumed. ok is false on a truncated or
// malformed blob.
func ReadString(b []byte) (s string, consumed int, ok bool) {
	units, hdr, ok := ReadVecLen(b)
	if !ok || units < 0 {
		return "", 0, false
	}
	byteLen := units * 2
	raw, ok := buf.Slice(b, hdr, byteLen)
	if !ok {
		return "", 0, false
	}
	dec, err := utf16LE.NewDecoder().Bytes(raw)
	if err != nil {
		return "", 0, false
	}
	return string(dec), hdr + byteLen, true
}
