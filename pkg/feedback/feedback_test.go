package feedback

import (
	"testing"

	"github.com/autarkie-go/autarkie/internal/fuzzsample"
	"github.com/autarkie-go/autarkie/pkg/chunkstore"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

func newHarness(t *testing.T) (*chunkstore.Store, *visitor.Visitor) {
	t.Helper()
	dir := t.TempDir()
	store, err := chunkstore.Open(dir, 0)
	if err != nil {
		t.Fatalf("chunkstore.Open: %v", err)
	}
	r := types.NewRegistry()
	fuzzsample.Describe(r)
	recursion, gt, err := types.Analyze(r)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	v := visitor.New(visitor.Config{Seed1: 1, Seed2: 2, GenerateDepth: 3, IterateDepth: 3, StringPoolSize: 1}, r, recursion, gt)
	return store, v
}

func identityRender(n node.Node) []byte { return n.Serialize(nil) }

func TestAcceptRegistersAndAttributesStats(t *testing.T) {
	store, v := newHarness(t)
	bag := stats.NewBag()
	value := fuzzsample.Expr{Variant: 0, Lit: 7}

	err := Accept(store, value, v, identityRender, false, bag, []stats.Kind{stats.SpliceSingle, stats.SpliceSingle, stats.Generate})
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if bag.Count(stats.SpliceSingle) != 2 {
		t.Fatalf("expected SpliceSingle counted twice, got %d", bag.Count(stats.SpliceSingle))
	}
	if bag.Count(stats.Generate) != 1 {
		t.Fatalf("expected Generate counted once, got %d", bag.Count(stats.Generate))
	}
	if len(store.InputsForType(fuzzsample.ExprID)) == 0 {
		t.Fatalf("expected value registered under its own type")
	}
}

func TestRareShareOnlySharesBelowThreshold(t *testing.T) {
	store, v := newHarness(t)
	value := fuzzsample.Expr{Variant: 0, Lit: 42}

	shared, err := RareShare(store, value, v, identityRender, 0.5, RareShareThreshold)
	if err != nil {
		t.Fatalf("RareShare: %v", err)
	}
	if shared {
		t.Fatalf("expected no share when noveltyScore >= threshold")
	}
	if len(store.InputsForType(fuzzsample.ExprID)) != 0 {
		t.Fatalf("expected nothing registered above threshold")
	}

	shared, err = RareShare(store, value, v, identityRender, 0.01, RareShareThreshold)
	if err != nil {
		t.Fatalf("RareShare: %v", err)
	}
	if !shared {
		t.Fatalf("expected a share when noveltyScore < threshold")
	}
	if len(store.InputsForType(fuzzsample.ExprID)) == 0 {
		t.Fatalf("expected value registered below threshold")
	}
}
