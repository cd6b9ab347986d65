package node

import (
	"github.com/autarkie-go/autarkie/internal/format"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// MapNode is an ordered map: a variable-length sequence of (key, value)
// pairs, structurally identical to Vec<Pair<K,V>> — ordered maps are
// treated as sequences of (key, value), so every Iterable operation
// VecNode already implements (splice, splice-append, pop, recurse,
// generate-replace) applies to a map without a dedicated map mutator.
// It is its own type, not a type alias for VecNode, only so the
// registry and the typemap CLI dump can name it "Map" rather than an
// anonymous "Vec".
type MapNode struct {
	KeyF, ValF ElementFactory
	Pairs      []Node
}

// MapTypeID derives the TypeId of Map<key, value>.
func MapTypeID(key, value types.TypeId) types.TypeId {
	return types.NewTypeID("core.map") ^ types.TypeId(key)<<4 ^ types.TypeId(value)<<6
}

// DescribeMap registers Map<keyID, valueID> given the already-registered
// key and value types, and returns the map's own TypeId. The underlying
// (key, value) pair type is registered as a dependency the same way
// DescribeVec registers its element type.
func DescribeMap(r *types.Registry, keyID, valueID types.TypeId) types.TypeId {
	pairID := DescribePair(r, keyID, valueID)
	id := MapTypeID(keyID, valueID)
	if r.Begin(id, "Map") {
		r.Finish(id, "Map", []types.VariantEntry{{Children: []types.TypeId{pairID}}})
	}
	return id
}

func (n MapNode) TypeID() types.TypeId { return MapTypeID(n.KeyF.TypeID, n.ValF.TypeID) }

func (MapNode) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindIterable }

func (n MapNode) pairFactory() ElementFactory { return PairFactory(n.KeyF, n.ValF) }

func (n MapNode) Generate(v *visitor.Visitor, remaining, current int) (Node, bool) {
	length := v.RandomRange(0, v.IterateDepth()+1)
	pairF := n.pairFactory()
	pairs := make([]Node, 0, length)
	for i := 0; i < length; i++ {
		p, ok := pairF.Generate(v, remaining, current)
		if !ok {
			return nil, false
		}
		pairs = append(pairs, p)
	}
	return MapNode{KeyF: n.KeyF, ValF: n.ValF, Pairs: pairs}, true
}

func (n MapNode) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindIterable, TypeID: n.TypeID()})
	v.PopField()
}

func (n MapNode) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	for i, p := range n.Pairs {
		v.RegisterFieldStack(types.PathStep{Index: i, Kind: p.NodeKind(v), TypeID: p.TypeID()})
		p.WalkCmps(v, i, lhs, rhs)
		v.PopField()
	}
}

func (n MapNode) SerializeSubnodes(v *visitor.Visitor) {
	for _, p := range n.Pairs {
		p.SerializeSubnodes(v)
	}
}

func (n MapNode) Serialize(dst []byte) []byte {
	dst = format.PutVecLen(dst, len(n.Pairs))
	for _, p := range n.Pairs {
		dst = p.Serialize(dst)
	}
	return dst
}

func (n MapNode) Deserialize(b []byte) (Node, int, bool) {
	length, off, ok := format.ReadVecLen(b)
	if !ok || length < 0 {
		return nil, 0, false
	}
	pairF := n.pairFactory()
	pairs := make([]Node, 0, length)
	for i := 0; i < length; i++ {
		p, consumed, ok := pairF.Deserialize(b[off:])
		if !ok {
			return nil, 0, false
		}
		pairs = append(pairs, p)
		off += consumed
	}
	return MapNode{KeyF: n.KeyF, ValF: n.ValF, Pairs: pairs}, off, true
}

// Locate mirrors VecNode.Locate over Pairs instead of Elements.
func (n MapNode) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) == 0 {
		return n, true
	}
	step := path[0]
	if step.Index < 0 || step.Index >= len(n.Pairs) {
		return nil, false
	}
	return n.Pairs[step.Index].Locate(v, path)
}

// Mutate mirrors VecNode.Mutate over Pairs instead of Elements; a
// donor's bytes are decoded with a (key, value) pair factory instead of
// a bare element factory when splicing a single entry.
func (n MapNode) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) > 0 {
		step := path[0]
		if step.Index < 0 || step.Index >= len(n.Pairs) {
			return nil, false
		}
		replaced, ok := n.Pairs[step.Index].Mutate(kind, v, path, args)
		if !ok {
			return nil, false
		}
		out := make([]Node, len(n.Pairs))
		copy(out, n.Pairs)
		out[step.Index] = replaced
		return MapNode{KeyF: n.KeyF, ValF: n.ValF, Pairs: out}, true
	}

	pairF := n.pairFactory()
	switch kind {
	case MutationSplice:
		replaced, _, ok := n.Deserialize(args.Bytes)
		if !ok {
			return nil, false
		}
		return replaced, true
	case MutationSpliceAppend, MutationGenerateAppend:
		appended, _, ok := pairF.Deserialize(args.Bytes)
		if !ok {
			return nil, false
		}
		out := make([]Node, len(n.Pairs), len(n.Pairs)+1)
		copy(out, n.Pairs)
		out = append(out, appended)
		return MapNode{KeyF: n.KeyF, ValF: n.ValF, Pairs: out}, true
	case MutationIterablePop:
		if len(n.Pairs) == 0 || args.Index < 0 || args.Index >= len(n.Pairs) {
			return nil, false
		}
		out := make([]Node, 0, len(n.Pairs)-1)
		out = append(out, n.Pairs[:args.Index]...)
		out = append(out, n.Pairs[args.Index+1:]...)
		return MapNode{KeyF: n.KeyF, ValF: n.ValF, Pairs: out}, true
	case MutationGenerateReplace:
		return n.Generate(v, v.GenerateDepth(), 0)
	case MutationRecursiveReplace:
		return n.Generate(v, 0, v.GenerateDepth())
	default:
		return nil, false
	}
}
