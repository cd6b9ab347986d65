package fuzzsample

import (
	"testing"

	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

func buildVisitor(t *testing.T, generateDepth int) *visitor.Visitor {
	t.Helper()
	r := types.NewRegistry()
	Describe(r)
	recursion, generate, err := types.Analyze(r)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !recursion.IsRecursive(ExprID, exprVariantAdd) {
		t.Fatalf("expected Add (variant 1) marked recursive")
	}
	if recursion.IsRecursive(ExprID, exprVariantLit) {
		t.Fatalf("did not expect Lit (variant 0) marked recursive")
	}
	return visitor.New(visitor.Config{Seed1: 11, Seed2: 22, GenerateDepth: generateDepth, IterateDepth: 4, StringPoolSize: 2}, r, recursion, generate)
}

func TestS1GenerateDepthZeroProducesOnlyLit(t *testing.T) {
	v := buildVisitor(t, 0)
	for i := 0; i < 50; i++ {
		got, ok := (Expr{}).Generate(v, 0, 0)
		if !ok {
			t.Fatal("expected generation to succeed")
		}
		e := got.(Expr)
		if e.Variant != exprVariantLit {
			t.Fatalf("expected only Lit at generate_depth=0, got variant %d", e.Variant)
		}
	}
}

func TestS1GenerateDepthThreeBoundsHeight(t *testing.T) {
	v := buildVisitor(t, 3)
	for i := 0; i < 200; i++ {
		got, ok := (Expr{}).Generate(v, 3, 0)
		if !ok {
			t.Fatal("expected generation to succeed")
		}
		if h := got.(Expr).Height(); h > 3 {
			t.Fatalf("expected tree height <= 3, got %d", h)
		}
	}
}

func TestExprRoundTrip(t *testing.T) {
	v := buildVisitor(t, 3)
	got, ok := (Expr{}).Generate(v, 3, 0)
	if !ok {
		t.Fatal("expected generation to succeed")
	}
	e := got.(Expr)
	encoded := e.Serialize(nil)
	decoded, consumed, ok := (Expr{}).Deserialize(encoded)
	if !ok {
		t.Fatal("expected deserialize to succeed")
	}
	if consumed != len(encoded) {
		t.Fatalf("expected to consume all %d bytes, consumed %d", len(encoded), consumed)
	}
	if decoded.(Expr).Serialize(nil) == nil {
		t.Fatal("unexpected nil re-serialization")
	}
}

// TestExprMutateSpliceAtWalkedFieldPath builds Add(Lit(1), Lit(2)),
// walks its fields, and splices a donor byte string at each recorded
// path in turn — exercising the leading-step-strip navigation contract
// shared by every Node.Mutate implementation, not just root-targeted
// mutation.
func TestExprMutateSpliceAtWalkedFieldPath(t *testing.T) {
	v := buildVisitor(t, 3)
	left := Expr{Variant: exprVariantLit, Lit: 1}
	right := Expr{Variant: exprVariantLit, Lit: 2}
	root := Expr{Variant: exprVariantAdd, Left: &left, Right: &right}

	v.ResetWalk()
	root.WalkFields(v, 0)
	fields := v.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 addressable leaf paths (Left.Lit, Right.Lit), got %d", len(fields))
	}

	donor := node.U32Node{Value: 0xabcd}.Serialize(nil)
	for i, path := range fields {
		replaced, ok := root.Mutate(node.MutationSplice, v, path, node.MutationArgs{Bytes: donor})
		if !ok {
			t.Fatalf("path %d: expected splice to succeed at %v", i, path)
		}
		re := replaced.(Expr)
		if re.Left.Lit != 0xabcd && re.Right.Lit != 0xabcd {
			t.Fatalf("path %d: expected one side spliced to 0xabcd, got Left=%d Right=%d", i, re.Left.Lit, re.Right.Lit)
		}
		if _, _, ok := (Expr{}).Deserialize(re.Serialize(nil)); !ok {
			t.Fatalf("path %d: spliced value failed to round-trip", i)
		}
	}
}

func TestExprMutateGenerateReplacePreservesType(t *testing.T) {
	v := buildVisitor(t, 3)
	got, _ := (Expr{}).Generate(v, 3, 0)
	e := got.(Expr)

	replaced, ok := e.Mutate(node.MutationGenerateReplace, v, nil, node.MutationArgs{})
	if !ok {
		t.Fatal("expected GenerateReplace to succeed")
	}
	if replaced.TypeID() != ExprID {
		t.Fatalf("expected replaced value to keep TypeId %d, got %d", ExprID, replaced.TypeID())
	}
	encoded := replaced.Serialize(nil)
	if _, _, ok := (Expr{}).Deserialize(encoded); !ok {
		t.Fatal("expected mutated value to round-trip")
	}
}
