package minimize

import (
	"testing"

	"github.com/autarkie-go/autarkie/internal/fuzzsample"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

func newHarness(t *testing.T) *visitor.Visitor {
	t.Helper()
	r := types.NewRegistry()
	fuzzsample.Describe(r)
	node.DescribeVec(r, node.U8ID)
	recursion, gt, err := types.Analyze(r)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return visitor.New(visitor.Config{Seed1: 3, Seed2: 5, GenerateDepth: 4, IterateDepth: 6, StringPoolSize: 2}, r, recursion, gt)
}

func render(n node.Node) []byte { return n.Serialize(nil) }

func u8Vec(n int) node.VecNode {
	elems := make([]node.Node, n)
	for i := range elems {
		elems[i] = node.U8Node{Value: byte(i)}
	}
	return node.VecNode{Elem: node.U8Factory(), Elements: elems}
}

// TestS3IterablePopMinimizationConverges mirrors spec scenario S3: a
// Vec<u8> of length 10 shrinks to length 4 under an oracle that accepts
// any candidate of length >= 4, regardless of content.
func TestS3IterablePopMinimizationConverges(t *testing.T) {
	v := newHarness(t)
	root := u8Vec(10)
	bag := stats.NewBag()

	oracle := func(rendered []byte) bool {
		decoded, _, ok := node.VecNode{Elem: node.U8Factory()}.Deserialize(rendered)
		if !ok {
			return false
		}
		return len(decoded.(node.VecNode).Elements) >= 4
	}

	result, changed := IterableMinimize(v, root, render, oracle, bag)
	if !changed {
		t.Fatalf("expected minimization to make progress")
	}
	vn := result.(node.VecNode)
	if len(vn.Elements) != 4 {
		t.Fatalf("expected convergence to length 4, got %d", len(vn.Elements))
	}
	if bag.Count(stats.IterableMinimization) == 0 {
		t.Fatalf("expected at least one IterableMinimization recorded")
	}
}

// TestS4RecursiveMinimizationConverges mirrors spec scenario S4:
// Add(Add(Lit(1),Lit(2)), Lit(3)) shrinks to some Lit(_) under an oracle
// that accepts any Lit(_) value.
func TestS4RecursiveMinimizationConverges(t *testing.T) {
	v := newHarness(t)
	inner := fuzzsample.Expr{Variant: 0, Lit: 1}
	inner2 := fuzzsample.Expr{Variant: 0, Lit: 2}
	left := fuzzsample.Expr{Variant: 1, Left: &inner, Right: &inner2}
	right := fuzzsample.Expr{Variant: 0, Lit: 3}
	root := fuzzsample.Expr{Variant: 1, Left: &left, Right: &right}
	bag := stats.NewBag()

	oracle := func(rendered []byte) bool {
		decoded, _, ok := (fuzzsample.Expr{}).Deserialize(rendered)
		if !ok {
			return false
		}
		return decoded.(fuzzsample.Expr).Variant == 0
	}

	result, changed := RecursiveMinimize(v, root, render, oracle, bag)
	if !changed {
		t.Fatalf("expected minimization to make progress")
	}
	if result.(fuzzsample.Expr).Variant != 0 {
		t.Fatalf("expected convergence to a Lit(_) value, got variant %d", result.(fuzzsample.Expr).Variant)
	}
	if bag.Count(stats.RecursiveMinimization) == 0 {
		t.Fatalf("expected at least one RecursiveMinimization recorded")
	}
}

// TestIterableMinimizeNeverIncreasesLength is property 7's monotonicity
// check for the iterable stage: under an oracle that never accepts any
// reduction, the result is unchanged and never longer than the input.
func TestIterableMinimizeNeverIncreasesLength(t *testing.T) {
	v := newHarness(t)
	root := u8Vec(6)
	bag := stats.NewBag()

	never := func([]byte) bool { return false }
	result, changed := IterableMinimize(v, root, render, never, bag)
	if changed {
		t.Fatalf("expected no change when oracle never accepts")
	}
	if len(result.(node.VecNode).Elements) != 6 {
		t.Fatalf("expected length unchanged at 6, got %d", len(result.(node.VecNode).Elements))
	}
}

// TestRecursiveMinimizeReplacesRecursiveWithNonRecursive is property 7's
// monotonicity check for the recursive stage: an oracle that accepts
// everything converges straight to a non-recursive Lit(_), never
// introducing a deeper recursive structure.
func TestRecursiveMinimizeReplacesRecursiveWithNonRecursive(t *testing.T) {
	v := newHarness(t)
	inner := fuzzsample.Expr{Variant: 0, Lit: 1}
	inner2 := fuzzsample.Expr{Variant: 0, Lit: 2}
	root := fuzzsample.Expr{Variant: 1, Left: &inner, Right: &inner2}
	bag := stats.NewBag()

	always := func([]byte) bool { return true }
	result, changed := RecursiveMinimize(v, root, render, always, bag)
	if !changed {
		t.Fatalf("expected minimization to make progress")
	}
	if result.(fuzzsample.Expr).Variant != 0 {
		t.Fatalf("expected the recursive Add variant replaced by Lit, got variant %d", result.(fuzzsample.Expr).Variant)
	}
}

func TestNoveltyMinimizeRecordsDistinctKind(t *testing.T) {
	v := newHarness(t)
	root := u8Vec(10)
	bag := stats.NewBag()

	oracle := func(rendered []byte) bool {
		decoded, _, ok := node.VecNode{Elem: node.U8Factory()}.Deserialize(rendered)
		if !ok {
			return false
		}
		return len(decoded.(node.VecNode).Elements) >= 4
	}

	_, changed := NoveltyMinimize(v, root, render, oracle, bag)
	if !changed {
		t.Fatalf("expected minimization to make progress")
	}
	if bag.Count(stats.NoveltyMinimization) == 0 {
		t.Fatalf("expected NoveltyMinimization recorded")
	}
	if bag.Count(stats.IterableMinimization) != 0 {
		t.Fatalf("expected NoveltyMinimize to record under NoveltyMinimization, not IterableMinimization")
	}
}
