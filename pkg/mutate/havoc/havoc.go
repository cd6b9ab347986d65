// Package havoc is a small byte-level mutator bank for raw u8 buffers,
// standing in for the external havoc mutator set (libafl's
// havoc_mutations in original_source) the u8-array field mutator
// applies after regenerating a fresh value. There is no teacher or
// pack precedent for AFL-style bit/byte havoc in Go, so this is
// hand-written directly against the visitor's existing PRNG surface —
// see DESIGN.md.
package havoc

import "github.com/autarkie-go/autarkie/pkg/visitor"

// interestingBytes are values classic havoc mutators favor because
// they tend to sit on signed/unsigned and power-of-two boundaries.
var interestingBytes = []byte{0x00, 0x01, 0x7f, 0x80, 0xff}

type mutation func(v *visitor.Visitor, data []byte)

var mutations = []mutation{
	bitFlip,
	byteFlip,
	arithmetic,
	interestingByte,
	randomByte,
}

// Mutate applies one randomly chosen byte-level mutation to a copy of
// data and returns it. Returns a copy of data unchanged if data is
// empty (nothing to mutate).
func Mutate(v *visitor.Visitor, data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if len(out) == 0 {
		return out
	}
	mutations[v.RandomRange(0, len(mutations))](v, out)
	return out
}

func bitFlip(v *visitor.Visitor, data []byte) {
	idx := v.RandomRange(0, len(data))
	bit := v.RandomRange(0, 8)
	data[idx] ^= 1 << uint(bit)
}

func byteFlip(v *visitor.Visitor, data []byte) {
	idx := v.RandomRange(0, len(data))
	data[idx] ^= 0xff
}

func arithmetic(v *visitor.Visitor, data []byte) {
	idx := v.RandomRange(0, len(data))
	delta := byte(1 + v.RandomRange(0, 16))
	if v.Coinflip() {
		data[idx] += delta
	} else {
		data[idx] -= delta
	}
}

func interestingByte(v *visitor.Visitor, data []byte) {
	idx := v.RandomRange(0, len(data))
	data[idx] = interestingBytes[v.RandomRange(0, len(interestingBytes))]
}

func randomByte(v *visitor.Visitor, data []byte) {
	idx := v.RandomRange(0, len(data))
	data[idx] = byte(v.RandomRange(0, 256))
}
