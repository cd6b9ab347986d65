package fuzzsample

import (
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/node/derivehelp"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// SingleID is Single's registered TypeId.
var SingleID = types.NewTypeID("fuzzsample.Single")

// DescribeSingle registers struct Single { n: u64 } against r and returns its
// TypeId — the single-field, non-enum product type the cmplog steering
// scenario is phrased against: its wire encoding is exactly its one
// field's bytes, with no variant tag in front of them.
func DescribeSingle(r *types.Registry) types.TypeId {
	if r.Begin(SingleID, "Single") {
		u64ID := node.DescribeU64(r)
		r.Finish(SingleID, "Single", []types.VariantEntry{{Children: []types.TypeId{u64ID}}})
	}
	return SingleID
}

// Single is struct Single { n: u64 } — a plain product type with a
// single field and no variant discriminator, used to exercise a path
// whose own addressable boundary coincides exactly with the primitive
// it wraps.
type Single struct {
	N uint64
}

func (Single) TypeID() types.TypeId { return SingleID }

func (Single) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (Single) Generate(v *visitor.Visitor, remaining, current int) (node.Node, bool) {
	n, ok := node.U64Node{}.Generate(v, remaining, current)
	if !ok {
		return nil, false
	}
	return Single{N: n.(node.U64Node).Value}, true
}

func (s Single) WalkFields(v *visitor.Visitor, index int) {
	derivehelp.WalkStructFields(v, index, SingleID, func() {
		node.U64Node{Value: s.N}.WalkFields(v, 0)
	})
}

func (s Single) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	derivehelp.WalkStructFields(v, index, SingleID, func() {
		node.U64Node{Value: s.N}.WalkCmps(v, 0, lhs, rhs)
	})
}

func (s Single) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(s.Serialize(nil), SingleID)
	node.U64Node{Value: s.N}.SerializeSubnodes(v)
}

func (s Single) Serialize(dst []byte) []byte {
	return node.U64Node{Value: s.N}.Serialize(dst)
}

func (Single) Deserialize(b []byte) (node.Node, int, bool) {
	n, consumed, ok := node.U64Node{}.Deserialize(b)
	if !ok {
		return nil, 0, false
	}
	return Single{N: n.(node.U64Node).Value}, consumed, true
}

// Locate mirrors Mutate's navigation without transforming anything.
func (s Single) Locate(v *visitor.Visitor, path types.Path) (node.Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) == 0 {
		return s, true
	}
	if path[0].Index != 0 {
		return nil, false
	}
	return node.U64Node{Value: s.N}.Locate(v, path)
}

// Mutate strips its own leading path step, then — if anything
// remains — descends into the N field; an empty remainder means Single
// itself is the target, so MutationSplice's args.Bytes is expected to
// be exactly one u64's worth of wire bytes (Single's whole encoding),
// not a variant-tagged encoding the way Expr's is.
func (s Single) Mutate(kind node.MutationKind, v *visitor.Visitor, path types.Path, args node.MutationArgs) (node.Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) > 0 {
		if path[0].Index != 0 {
			return nil, false
		}
		replaced, ok := node.U64Node{Value: s.N}.Mutate(kind, v, path, args)
		if !ok {
			return nil, false
		}
		return Single{N: replaced.(node.U64Node).Value}, true
	}

	switch kind {
	case node.MutationSplice:
		replaced, _, ok := (Single{}).Deserialize(args.Bytes)
		if !ok {
			return nil, false
		}
		return replaced, true
	case node.MutationGenerateReplace:
		return s.Generate(v, v.GenerateDepth(), 0)
	default:
		return nil, false
	}
}
