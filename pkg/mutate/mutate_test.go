package mutate

import (
	"testing"

	"github.com/autarkie-go/autarkie/internal/fuzzsample"
	"github.com/autarkie-go/autarkie/pkg/chunkstore"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

func newTestHarness(t *testing.T) (*visitor.Visitor, *Base) {
	t.Helper()
	r := types.NewRegistry()
	fuzzsample.Describe(r)
	node.DescribeVec(r, node.U8ID)
	node.DescribeVec(r, fuzzsample.ExprID)
	recursion, gt, err := types.Analyze(r)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	v := visitor.New(visitor.Config{Seed1: 7, Seed2: 11, GenerateDepth: 3, IterateDepth: 4, StringPoolSize: 2}, r, recursion, gt)

	dir := t.TempDir()
	store, err := chunkstore.Open(dir, 0)
	if err != nil {
		t.Fatalf("chunkstore.Open: %v", err)
	}
	return v, NewBase(store, stats.NewBag())
}

func seedDonors(t *testing.T, v *visitor.Visitor, base *Base, values ...fuzzsample.Expr) {
	t.Helper()
	for _, val := range values {
		if err := base.Chunks.Register(val, v, func(n node.Node) []byte { return n.Serialize(nil) }, false); err != nil {
			t.Fatalf("Register donor: %v", err)
		}
	}
}

func u8Vec(bytes ...byte) node.VecNode {
	elems := make([]node.Node, len(bytes))
	for i, b := range bytes {
		elems[i] = node.U8Node{Value: b}
	}
	return node.VecNode{Elem: node.U8Factory(), Elements: elems}
}

func exprFactory() node.ElementFactory {
	return node.ElementFactory{
		TypeID: fuzzsample.ExprID,
		Generate: func(v *visitor.Visitor, remaining, current int) (node.Node, bool) {
			return fuzzsample.Expr{}.Generate(v, remaining, current)
		},
		Deserialize: func(b []byte) (node.Node, int, bool) { return fuzzsample.Expr{}.Deserialize(b) },
	}
}

func exprVec(exprs ...fuzzsample.Expr) node.VecNode {
	elems := make([]node.Node, len(exprs))
	for i, e := range exprs {
		elems[i] = e
	}
	return node.VecNode{Elem: exprFactory(), Elements: elems}
}

func TestSpliceSingleReplacesNonIterableField(t *testing.T) {
	v, base := newTestHarness(t)
	seedDonors(t, v, base, fuzzsample.Expr{Variant: 0, Lit: 0xabcd})

	root := fuzzsample.Expr{Variant: 0, Lit: 1}
	s := NewSplice(base, 4)

	var result node.Node
	var got Result
	var err error
	for i := 0; i < 50; i++ {
		result, got, err = s.Mutate(v, root)
		if err != nil {
			t.Fatalf("Mutate: %v", err)
		}
		if got == Mutated {
			break
		}
	}
	if got != Mutated {
		t.Fatalf("expected splice to eventually mutate with a u32 donor available")
	}
	if result.(fuzzsample.Expr).Variant != 0 {
		t.Fatalf("expected Lit variant preserved, got variant %d", result.(fuzzsample.Expr).Variant)
	}
}

func TestSpliceFullReplacesEmptyVec(t *testing.T) {
	v, base := newTestHarness(t)
	seedDonors(t, v, base, fuzzsample.Expr{Variant: 0, Lit: 1}, fuzzsample.Expr{Variant: 0, Lit: 2})

	root := exprVec()
	s := NewSplice(base, 4)

	result, got, err := s.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Mutated && got != Skipped {
		t.Fatalf("unexpected result %v", got)
	}
	if got == Mutated {
		if _, ok := result.(node.VecNode); !ok {
			t.Fatalf("expected VecNode result, got %T", result)
		}
	}
}

func TestSpliceAppendGrowsVariableLengthVec(t *testing.T) {
	v, base := newTestHarness(t)
	seedDonors(t, v, base, fuzzsample.Expr{Variant: 0, Lit: 9})

	root := exprVec(fuzzsample.Expr{Variant: 0, Lit: 1})
	sa := NewSpliceAppend(base)

	result, got, err := sa.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Mutated {
		t.Fatalf("expected SpliceAppend to mutate with a donor available, got %v", got)
	}
	vn := result.(node.VecNode)
	if len(vn.Elements) <= len(root.Elements) {
		t.Fatalf("expected growth, before=%d after=%d", len(root.Elements), len(vn.Elements))
	}
}

func TestSpliceAppendSkipsFixedLengthArray(t *testing.T) {
	v, base := newTestHarness(t)
	seedDonors(t, v, base, fuzzsample.Expr{Variant: 0, Lit: 9})

	root := node.ArrayNode{Elem: exprFactory(), Len: 2, Elements: []node.Node{
		fuzzsample.Expr{Variant: 0, Lit: 1},
		fuzzsample.Expr{Variant: 0, Lit: 2},
	}}
	sa := NewSpliceAppend(base)

	_, got, err := sa.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Skipped {
		t.Fatalf("expected Skipped for a fixed-length array, got %v", got)
	}
}

func TestIterablePopRemovesOneElement(t *testing.T) {
	v, base := newTestHarness(t)
	root := exprVec(
		fuzzsample.Expr{Variant: 0, Lit: 1},
		fuzzsample.Expr{Variant: 0, Lit: 2},
		fuzzsample.Expr{Variant: 0, Lit: 3},
	)
	p := NewIterablePop(base)

	result, got, err := p.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Mutated {
		t.Fatalf("expected Mutated, got %v", got)
	}
	vn := result.(node.VecNode)
	if len(vn.Elements) != len(root.Elements)-1 {
		t.Fatalf("expected one fewer element, before=%d after=%d", len(root.Elements), len(vn.Elements))
	}
}

func TestIterablePopSkipsEmptyVec(t *testing.T) {
	v, base := newTestHarness(t)
	root := exprVec()
	p := NewIterablePop(base)

	_, got, err := p.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Skipped {
		t.Fatalf("expected Skipped for an empty vec, got %v", got)
	}
}

func TestGenerateReplacePreservesType(t *testing.T) {
	v, base := newTestHarness(t)
	root := fuzzsample.Expr{Variant: 0, Lit: 1}
	g := NewGenerateReplace(base)

	result, got, err := g.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Mutated {
		t.Fatalf("expected Mutated, got %v", got)
	}
	if result.TypeID() != fuzzsample.ExprID {
		t.Fatalf("expected same TypeId after GenerateReplace")
	}
}

func TestRecurseMutateSkipsWithoutRecursiveTypes(t *testing.T) {
	r := types.NewRegistry()
	node.DescribeU8(r)
	recursion, gt, err := types.Analyze(r)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	v := visitor.New(visitor.Config{Seed1: 1, Seed2: 2, GenerateDepth: 3, IterateDepth: 4, StringPoolSize: 2}, r, recursion, gt)

	dir := t.TempDir()
	store, err := chunkstore.Open(dir, 0)
	if err != nil {
		t.Fatalf("chunkstore.Open: %v", err)
	}
	base := NewBase(store, stats.NewBag())
	rm := NewRecurseMutate(base)

	root := node.U8Node{Value: 1}
	_, got, err := rm.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Skipped {
		t.Fatalf("expected Skipped when registry has no recursive types, got %v", got)
	}
}

func TestRecurseMutatePreservesTypeWhenRecursive(t *testing.T) {
	v, base := newTestHarness(t)
	root := fuzzsample.Expr{Variant: 1,
		Left:  &fuzzsample.Expr{Variant: 0, Lit: 1},
		Right: &fuzzsample.Expr{Variant: 0, Lit: 2},
	}
	rm := NewRecurseMutate(base)

	result, got, err := rm.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Mutated {
		t.Fatalf("expected Mutated, got %v", got)
	}
	if result.TypeID() != fuzzsample.ExprID {
		t.Fatalf("expected same TypeId after RecurseMutate")
	}
}

func TestU8ArrayMutatesBytesInPlace(t *testing.T) {
	v, base := newTestHarness(t)
	root := u8Vec(1, 2, 3, 4)
	u := NewU8Array(base)

	result, got, err := u.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Mutated {
		t.Fatalf("expected Mutated, got %v", got)
	}
	if _, ok := result.(node.VecNode); !ok {
		t.Fatalf("expected VecNode result, got %T", result)
	}
}

func TestU8ArraySkipsNonU8Iterable(t *testing.T) {
	v, base := newTestHarness(t)
	root := exprVec(fuzzsample.Expr{Variant: 0, Lit: 1})
	u := NewU8Array(base)

	_, got, err := u.Mutate(v, root)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got != Skipped {
		t.Fatalf("expected Skipped for a non-u8 element type, got %v", got)
	}
}

func TestStatsRecordedOnMutation(t *testing.T) {
	v, base := newTestHarness(t)
	root := exprVec(
		fuzzsample.Expr{Variant: 0, Lit: 1},
		fuzzsample.Expr{Variant: 0, Lit: 2},
	)
	p := NewIterablePop(base)
	if _, got, err := p.Mutate(v, root); err != nil || got != Mutated {
		t.Fatalf("Mutate: got=%v err=%v", got, err)
	}
	if base.Stats.Count(stats.IterablePop) != 1 {
		t.Fatalf("expected one IterablePop recorded, got %d", base.Stats.Count(stats.IterablePop))
	}
}
