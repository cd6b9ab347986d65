package chunkstore

import "testing"

// FuzzWriteChunkIfAbsentDedups is the content-addressed dedup property:
// writing the same bytes under the same TypeId twice must never grow
// the on-disk chunk set or the in-memory index beyond one entry,
// regardless of the payload. Ambient Go test tooling, not the
// reimplemented fuzzer — ordinary property-based native fuzzing over
// the store's one side-effecting primitive.
func FuzzWriteChunkIfAbsentDedups(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0x41, 0x42, 0x43})
	f.Add(make([]byte, 512))

	f.Fuzz(func(t *testing.T, payload []byte) {
		store, err := Open(t.TempDir(), 0)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}

		const typeID = 0xC0FFEE
		if err := store.writeChunkIfAbsent(typeID, payload); err != nil {
			t.Fatalf("first write: %v", err)
		}
		if err := store.writeChunkIfAbsent(typeID, payload); err != nil {
			t.Fatalf("second write: %v", err)
		}

		got := store.InputsForType(typeID)
		if len(got) != 1 {
			t.Fatalf("expected exactly one deduped chunk, got %d: %v", len(got), got)
		}

		data, err := store.ReadChunk(got[0])
		if err != nil {
			t.Fatalf("ReadChunk: %v", err)
		}
		if string(data) != string(payload) {
			t.Fatalf("round-tripped chunk bytes diverged: got %x, want %x", data, payload)
		}
	})
}
