package node

import "testing"

// FuzzU32RoundTrip is Testable Property 1 over the u32 wire encoding:
// Serialize then Deserialize must reproduce the original value and
// consume exactly the bytes Serialize wrote. Ambient Go test tooling,
// not the reimplemented fuzzer — grounded on the same property-test
// shape a native fuzz target exercises elsewhere in the corpus.
func FuzzU32RoundTrip(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(1))
	f.Add(^uint32(0))
	f.Add(uint32(0x7fffffff))

	f.Fuzz(func(t *testing.T, value uint32) {
		encoded := U32Node{Value: value}.Serialize(nil)
		decoded, consumed, ok := U32Node{}.Deserialize(encoded)
		if !ok {
			t.Fatalf("Deserialize failed for value %d", value)
		}
		if consumed != len(encoded) {
			t.Fatalf("consumed %d bytes, encoded %d", consumed, len(encoded))
		}
		if decoded.(U32Node).Value != value {
			t.Fatalf("round-trip mismatch: got %d, want %d", decoded.(U32Node).Value, value)
		}
	})
}

// FuzzStringRoundTrip covers the length-prefixed UTF-16 string encoding
// (internal/format.PutString/ReadString) against arbitrary Go strings,
// including ones containing invalid UTF-8, which need not come back
// byte-for-byte: the property checked is that decoding consumes the
// whole encoding and re-encoding the decoded value reproduces it.
func FuzzStringRoundTrip(f *testing.F) {
	f.Add("")
	f.Add("hello")
	f.Add("\xff\xfe\x00")
	f.Add("unicode: é中\U0001F600")

	f.Fuzz(func(t *testing.T, s string) {
		encoded := StringNode{Value: s}.Serialize(nil)
		decoded, consumed, ok := StringNode{}.Deserialize(encoded)
		if !ok {
			t.Fatalf("Deserialize failed for %q", s)
		}
		if consumed != len(encoded) {
			t.Fatalf("consumed %d bytes, encoded %d", consumed, len(encoded))
		}
		// A byte-level UTF-16 round trip need not preserve an invalid
		// UTF-8 input verbatim; re-encoding the decoded value must be
		// stable, which is the property that actually matters to a
		// donor chunk read back from disk.
		reEncoded := StringNode{Value: decoded.(StringNode).Value}.Serialize(nil)
		if string(reEncoded) != string(encoded) {
			t.Fatalf("re-encoding decoded value diverged: got %x, want %x", reEncoded, encoded)
		}
	})
}

// FuzzVecU8RoundTrip covers the variable-length Iterable encoding over
// arbitrary byte payloads, the shape a splice donor's bytes take on the
// wire.
func FuzzVecU8RoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x41, 0x42, 0x43})
	f.Add(make([]byte, 300))

	f.Fuzz(func(t *testing.T, payload []byte) {
		elems := make([]Node, len(payload))
		for i, b := range payload {
			elems[i] = U8Node{Value: b}
		}
		vec := VecNode{Elem: U8Factory(), Elements: elems}

		encoded := vec.Serialize(nil)
		decoded, consumed, ok := (VecNode{Elem: U8Factory()}).Deserialize(encoded)
		if !ok {
			t.Fatalf("Deserialize failed for payload of length %d", len(payload))
		}
		if consumed != len(encoded) {
			t.Fatalf("consumed %d bytes, encoded %d", consumed, len(encoded))
		}
		gotElems := decoded.(VecNode).Elements
		if len(gotElems) != len(payload) {
			t.Fatalf("element count mismatch: got %d, want %d", len(gotElems), len(payload))
		}
		for i, want := range payload {
			if gotElems[i].(U8Node).Value != want {
				t.Fatalf("element %d mismatch: got %#x, want %#x", i, gotElems[i].(U8Node).Value, want)
			}
		}
	})
}
