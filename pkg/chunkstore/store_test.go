package chunkstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/autarkie-go/autarkie/internal/fuzzsample"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

func newTestStore(t *testing.T) (*Store, *visitor.Visitor) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	r := types.NewRegistry()
	fuzzsample.Describe(r)
	recursion, gt, err := types.Analyze(r)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	v := visitor.New(visitor.Config{Seed1: 1, Seed2: 2, GenerateDepth: 3, IterateDepth: 4, StringPoolSize: 2}, r, recursion, gt)
	return store, v
}

func identityRender(n node.Node) []byte { return n.Serialize(nil) }

// TestS6ChunkStoreDedup registers two distinct Expr values sharing a
// Lit(7) sub-node and checks chunks/<u32-id>/ holds exactly one file
// decoding to u32(7); the directory also holds the other Lit values.
func TestS6ChunkStoreDedup(t *testing.T) {
	store, v := newTestStore(t)

	left := fuzzsample.Expr{Variant: 0, Lit: 7}
	leftWrap := fuzzsample.Expr{Variant: 1, Left: &left, Right: &fuzzsample.Expr{Variant: 0, Lit: 99}}
	right := fuzzsample.Expr{Variant: 0, Lit: 7}
	rightWrap := fuzzsample.Expr{Variant: 1, Left: &fuzzsample.Expr{Variant: 0, Lit: 123}, Right: &right}

	if err := store.Register(leftWrap, v, identityRender, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := store.Register(rightWrap, v, identityRender, false); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u32Dir := filepath.Join(store.root, chunksDirName, formatTypeIDHex(node.U32ID))
	entries, err := os.ReadDir(u32Dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var sevenCount int
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(u32Dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		decoded, _, ok := node.U32Node{}.Deserialize(data)
		if ok && decoded.(node.U32Node).Value == 7 {
			sevenCount++
		}
	}
	if sevenCount != 1 {
		t.Fatalf("expected exactly one chunk file decoding to u32(7), got %d", sevenCount)
	}
}

func TestChunkStoreIdempotentRegister(t *testing.T) {
	store, v := newTestStore(t)
	value := fuzzsample.Expr{Variant: 0, Lit: 42}

	if err := store.Register(value, v, identityRender, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	before := len(store.InputsForType(node.U32ID)) + len(store.InputsForType(fuzzsample.ExprID))

	if err := store.Register(value, v, identityRender, false); err != nil {
		t.Fatalf("Register (again): %v", err)
	}
	after := len(store.InputsForType(node.U32ID)) + len(store.InputsForType(fuzzsample.ExprID))

	if before != after {
		t.Fatalf("expected idempotent registration, index length changed from %d to %d", before, after)
	}
}

func TestChunkStoreEmptyRenderedGetsSentinel(t *testing.T) {
	store, v := newTestStore(t)
	value := fuzzsample.Expr{Variant: 0, Lit: 0}

	if err := store.Register(value, v, func(node.Node) []byte { return nil }, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(store.root, renderedCorpusDirName))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one rendered file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(store.root, renderedCorpusDirName, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("expected the 4-byte empty sentinel, got %d bytes", len(data))
	}
}
