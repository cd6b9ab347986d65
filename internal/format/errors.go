package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a
	// value of the expected shape (spec §4.D: deserialization never panics
	// on truncated input, it reports a failure the caller treats as "skip").
	ErrTruncated = errors.New("format: truncated buffer")

	// ErrOverlong indicates the buffer held more bytes than the decoded
	// length prefix accounts for, or a fixed-length value was followed by
	// unconsumed trailing bytes.
	ErrOverlong = errors.New("format: overlong buffer")

	// ErrIntegerOverflow indicates a length or count would overflow int
	// during decoding.
	ErrIntegerOverflow = errors.New("format: integer overflow")
)
