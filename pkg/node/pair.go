package node

import (
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// PairNode is a (key, value) product: the element type MapNode is built
// over. Non-recursive, always exactly two children, no variant choice —
// the same shape a two-field struct descriptor would have, reused here
// rather than inventing a bespoke key-value node kind.
type PairNode struct {
	KeyF, ValF ElementFactory
	Key, Value Node
}

// PairTypeID derives the TypeId of (key, value).
func PairTypeID(key, value types.TypeId) types.TypeId {
	return types.NewTypeID("core.pair") ^ types.TypeId(key)<<3 ^ types.TypeId(value)<<5
}

// DescribePair registers (keyID, valueID) given the already-registered
// key and value types, and returns the pair's own TypeId.
func DescribePair(r *types.Registry, keyID, valueID types.TypeId) types.TypeId {
	id := PairTypeID(keyID, valueID)
	if r.Begin(id, "Pair") {
		r.Finish(id, "Pair", []types.VariantEntry{{Children: []types.TypeId{keyID, valueID}}})
	}
	return id
}

func (n PairNode) TypeID() types.TypeId { return PairTypeID(n.KeyF.TypeID, n.ValF.TypeID) }

func (PairNode) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (n PairNode) Generate(v *visitor.Visitor, remaining, current int) (Node, bool) {
	key, ok := n.KeyF.Generate(v, remaining, current)
	if !ok {
		return nil, false
	}
	value, ok := n.ValF.Generate(v, remaining, current)
	if !ok {
		return nil, false
	}
	return PairNode{KeyF: n.KeyF, ValF: n.ValF, Key: key, Value: value}, true
}

func (n PairNode) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: n.NodeKind(v), TypeID: n.TypeID()})
	v.PopField()
}

func (n PairNode) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	v.RegisterFieldStack(types.PathStep{Index: 0, Kind: n.Key.NodeKind(v), TypeID: n.Key.TypeID()})
	n.Key.WalkCmps(v, 0, lhs, rhs)
	v.PopField()
	v.RegisterFieldStack(types.PathStep{Index: 1, Kind: n.Value.NodeKind(v), TypeID: n.Value.TypeID()})
	n.Value.WalkCmps(v, 1, lhs, rhs)
	v.PopField()
}

func (n PairNode) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(n.Serialize(nil), n.TypeID())
	n.Key.SerializeSubnodes(v)
	n.Value.SerializeSubnodes(v)
}

func (n PairNode) Serialize(dst []byte) []byte {
	dst = n.Key.Serialize(dst)
	dst = n.Value.Serialize(dst)
	return dst
}

func (n PairNode) Deserialize(b []byte) (Node, int, bool) {
	key, off, ok := n.KeyF.Deserialize(b)
	if !ok {
		return nil, 0, false
	}
	value, consumed, ok := n.ValF.Deserialize(b[off:])
	if !ok {
		return nil, 0, false
	}
	return PairNode{KeyF: n.KeyF, ValF: n.ValF, Key: key, Value: value}, off + consumed, true
}

// Locate strips its own leading path step first; index 0 descends into
// the key, index 1 into the value.
func (n PairNode) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) == 0 {
		return n, true
	}
	switch path[0].Index {
	case 0:
		return n.Key.Locate(v, path)
	case 1:
		return n.Value.Locate(v, path)
	default:
		return nil, false
	}
}

// Mutate mirrors Locate's key/value split for any remaining path, and
// falls back to replacing the whole pair (splice, generate-replace,
// recursive-replace) when the path bottoms out here.
func (n PairNode) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) > 0 {
		switch path[0].Index {
		case 0:
			replaced, ok := n.Key.Mutate(kind, v, path, args)
			if !ok {
				return nil, false
			}
			return PairNode{KeyF: n.KeyF, ValF: n.ValF, Key: replaced, Value: n.Value}, true
		case 1:
			replaced, ok := n.Value.Mutate(kind, v, path, args)
			if !ok {
				return nil, false
			}
			return PairNode{KeyF: n.KeyF, ValF: n.ValF, Key: n.Key, Value: replaced}, true
		default:
			return nil, false
		}
	}

	switch kind {
	case MutationSplice:
		replaced, _, ok := n.Deserialize(args.Bytes)
		if !ok {
			return nil, false
		}
		return replaced, true
	case MutationGenerateReplace:
		return n.Generate(v, v.GenerateDepth(), 0)
	case MutationRecursiveReplace:
		return n.Generate(v, 0, v.GenerateDepth())
	default:
		// SpliceAppend, GenerateAppend, and IterablePop only apply to
		// variable-length iterables, never to a fixed two-field pair.
		return nil, false
	}
}

// PairFactory builds the ElementFactory for (key, value) pairs that
// MapNode is a Vec over.
func PairFactory(keyF, valF ElementFactory) ElementFactory {
	proto := PairNode{KeyF: keyF, ValF: valF}
	return ElementFactory{
		TypeID: proto.TypeID(),
		Generate: func(v *visitor.Visitor, remaining, current int) (Node, bool) {
			return proto.Generate(v, remaining, current)
		},
		Deserialize: func(b []byte) (Node, int, bool) { return proto.Deserialize(b) },
	}
}
