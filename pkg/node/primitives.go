package node

import (
	"github.com/autarkie-go/autarkie/internal/buf"
	"github.com/autarkie-go/autarkie/internal/format"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// otherOperand reports which side of (lhs, rhs) val didn't match, so a
// WalkCmps match can record the replacement value rather than the
// value that was already there — matching §4.K step 2's "records the
// serialized form of the *other* side". ok is false if neither side
// matches val, in which case the caller records nothing.
func otherOperand(val, lhs, rhs uint64) (other uint64, ok bool) {
	switch val {
	case lhs:
		return rhs, true
	case rhs:
		return lhs, true
	default:
		return 0, false
	}
}

// BoolID, U8ID, U32ID, U64ID, I32ID, and StringID are the well-known
// TypeIds of the core's primitive types. They're exported so a user
// ADT's hand-written Describe method can reference them directly
// instead of re-deriving the identity string.
var (
	BoolID   = types.NewTypeID("core.bool")
	U8ID     = types.NewTypeID("core.u8")
	U32ID    = types.NewTypeID("core.u32")
	U64ID    = types.NewTypeID("core.u64")
	I32ID    = types.NewTypeID("core.i32")
	StringID = types.NewTypeID("core.string")
)

// DescribeBool registers the bool primitive and returns its TypeId.
func DescribeBool(r *types.Registry) types.TypeId {
	if r.Begin(BoolID, "bool") {
		r.Finish(BoolID, "bool", []types.VariantEntry{{}})
	}
	return BoolID
}

// DescribeU8 registers the u8 primitive and returns its TypeId.
func DescribeU8(r *types.Registry) types.TypeId {
	if r.Begin(U8ID, "u8") {
		r.Finish(U8ID, "u8", []types.VariantEntry{{}})
	}
	return U8ID
}

// DescribeU32 registers the u32 primitive and returns its TypeId.
func DescribeU32(r *types.Registry) types.TypeId {
	if r.Begin(U32ID, "u32") {
		r.Finish(U32ID, "u32", []types.VariantEntry{{}})
	}
	return U32ID
}

// DescribeU64 registers the u64 primitive and returns its TypeId.
func DescribeU64(r *types.Registry) types.TypeId {
	if r.Begin(U64ID, "u64") {
		r.Finish(U64ID, "u64", []types.VariantEntry{{}})
	}
	return U64ID
}

// DescribeI32 registers the i32 primitive and returns its TypeId.
func DescribeI32(r *types.Registry) types.TypeId {
	if r.Begin(I32ID, "i32") {
		r.Finish(I32ID, "i32", []types.VariantEntry{{}})
	}
	return I32ID
}

// DescribeString registers the string primitive and returns its TypeId.
func DescribeString(r *types.Registry) types.TypeId {
	if r.Begin(StringID, "string") {
		r.Finish(StringID, "string", []types.VariantEntry{{}})
	}
	return StringID
}

// BoolNode is a primitive leaf carrying a single bit.
type BoolNode struct{ Value bool }

func (BoolNode) TypeID() types.TypeId { return BoolID }
func (BoolNode) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (BoolNode) Generate(v *visitor.Visitor, _, _ int) (Node, bool) {
	return BoolNode{Value: v.Coinflip()}, true
}

func (n BoolNode) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: BoolID})
	v.PopField()
}

func (n BoolNode) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	v.RegisterFieldStack(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: BoolID})
	val := uint64(0)
	if n.Value {
		val = 1
	}
	if other, ok := otherOperand(val, lhs, rhs); ok {
		v.RegisterCmp(BoolNode{Value: other != 0}.Serialize(nil))
	}
	v.PopField()
}

func (n BoolNode) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(n.Serialize(nil), BoolID)
}

func (n BoolNode) Serialize(dst []byte) []byte {
	var b byte
	if n.Value {
		b = 1
	}
	return append(dst, b)
}

func (BoolNode) Deserialize(b []byte) (Node, int, bool) {
	if !buf.Has(b, 0, 1) {
		return nil, 0, false
	}
	return BoolNode{Value: b[0] != 0}, 1, true
}

func (n BoolNode) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	return mutateLeaf(n, kind, v, path, args)
}

func (n BoolNode) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	return locateLeaf(n, path)
}

// U8Node is a primitive leaf carrying a single byte.
type U8Node struct{ Value uint8 }

func (U8Node) TypeID() types.TypeId { return U8ID }
func (U8Node) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (U8Node) Generate(v *visitor.Visitor, _, _ int) (Node, bool) {
	return U8Node{Value: uint8(v.RandomRange(0, 256))}, true
}

func (n U8Node) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: U8ID})
	v.PopField()
}

func (n U8Node) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	v.RegisterFieldStack(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: U8ID})
	if other, ok := otherOperand(uint64(n.Value), lhs, rhs); ok {
		v.RegisterCmp(U8Node{Value: uint8(other)}.Serialize(nil))
	}
	v.PopField()
}

func (n U8Node) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(n.Serialize(nil), U8ID)
}

func (n U8Node) Serialize(dst []byte) []byte {
	return append(dst, n.Value)
}

func (U8Node) Deserialize(b []byte) (Node, int, bool) {
	if !buf.Has(b, 0, 1) {
		return nil, 0, false
	}
	return U8Node{Value: format.ReadU8(b, 0)}, 1, true
}

func (n U8Node) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	return mutateLeaf(n, kind, v, path, args)
}

func (n U8Node) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	return locateLeaf(n, path)
}

// U32Node is a primitive leaf carrying a 32-bit unsigned integer.
type U32Node struct{ Value uint32 }

func (U32Node) TypeID() types.TypeId { return U32ID }
func (U32Node) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (U32Node) Generate(v *visitor.Visitor, _, _ int) (Node, bool) {
	return U32Node{Value: uint32(v.RandomRange(0, 1<<31))}, true
}

func (n U32Node) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: U32ID})
	v.PopField()
}

func (n U32Node) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	v.RegisterFieldStack(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: U32ID})
	if other, ok := otherOperand(uint64(n.Value), lhs, rhs); ok {
		v.RegisterCmp(U32Node{Value: uint32(other)}.Serialize(nil))
	}
	v.PopField()
}

func (n U32Node) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(n.Serialize(nil), U32ID)
}

func (n U32Node) Serialize(dst []byte) []byte {
	var hdr [4]byte
	format.PutU32(hdr[:], 0, n.Value)
	return append(dst, hdr[:]...)
}

func (U32Node) Deserialize(b []byte) (Node, int, bool) {
	if !buf.Has(b, 0, 4) {
		return nil, 0, false
	}
	return U32Node{Value: format.ReadU32(b, 0)}, 4, true
}

func (n U32Node) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	return mutateLeaf(n, kind, v, path, args)
}

func (n U32Node) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	return locateLeaf(n, path)
}

// U64Node is a primitive leaf carrying a 64-bit unsigned integer.
type U64Node struct{ Value uint64 }

func (U64Node) TypeID() types.TypeId { return U64ID }
func (U64Node) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (U64Node) Generate(v *visitor.Visitor, _, _ int) (Node, bool) {
	hi := uint64(v.RandomRange(0, 1<<31))
	lo := uint64(v.RandomRange(0, 1<<31))
	return U64Node{Value: hi<<32 | lo}, true
}

func (n U64Node) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: U64ID})
	v.PopField()
}

func (n U64Node) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	v.RegisterFieldStack(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: U64ID})
	if other, ok := otherOperand(n.Value, lhs, rhs); ok {
		v.RegisterCmp(U64Node{Value: other}.Serialize(nil))
	}
	v.PopField()
}

func (n U64Node) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(n.Serialize(nil), U64ID)
}

func (n U64Node) Serialize(dst []byte) []byte {
	var hdr [8]byte
	format.PutU64(hdr[:], 0, n.Value)
	return append(dst, hdr[:]...)
}

func (U64Node) Deserialize(b []byte) (Node, int, bool) {
	if !buf.Has(b, 0, 8) {
		return nil, 0, false
	}
	return U64Node{Value: format.ReadU64(b, 0)}, 8, true
}

func (n U64Node) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	return mutateLeaf(n, kind, v, path, args)
}

func (n U64Node) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	return locateLeaf(n, path)
}

// I32Node is a primitive leaf carrying a signed 32-bit integer.
type I32Node struct{ Value int32 }

func (I32Node) TypeID() types.TypeId { return I32ID }
func (I32Node) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (I32Node) Generate(v *visitor.Visitor, _, _ int) (Node, bool) {
	return I32Node{Value: int32(v.RandomRange(-(1 << 30), 1<<30))}, true
}

func (n I32Node) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: I32ID})
	v.PopField()
}

func (n I32Node) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	v.RegisterFieldStack(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: I32ID})
	if other, ok := otherOperand(uint64(uint32(n.Value)), lhs, rhs); ok {
		v.RegisterCmp(I32Node{Value: int32(uint32(other))}.Serialize(nil))
	}
	v.PopField()
}

func (n I32Node) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(n.Serialize(nil), I32ID)
}

func (n I32Node) Serialize(dst []byte) []byte {
	var hdr [4]byte
	format.PutI32(hdr[:], 0, n.Value)
	return append(dst, hdr[:]...)
}

func (I32Node) Deserialize(b []byte) (Node, int, bool) {
	if !buf.Has(b, 0, 4) {
		return nil, 0, false
	}
	return I32Node{Value: format.ReadI32(b, 0)}, 4, true
}

func (n I32Node) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	return mutateLeaf(n, kind, v, path, args)
}

func (n I32Node) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	return locateLeaf(n, path)
}

// StringNode is a primitive leaf carrying a UTF-16LE length-prefixed
// string, drawn from or registered into the Visitor's string pool.
type StringNode struct{ Value string }

func (StringNode) TypeID() types.TypeId { return StringID }
func (StringNode) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindNonRecursive }

func (StringNode) Generate(v *visitor.Visitor, _, _ int) (Node, bool) {
	return StringNode{Value: v.GetString()}, true
}

func (n StringNode) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindNonRecursive, TypeID: StringID})
	v.PopField()
}

func (n StringNode) WalkCmps(*visitor.Visitor, int, uint64, uint64) {}

func (n StringNode) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(n.Serialize(nil), StringID)
}

func (n StringNode) Serialize(dst []byte) []byte {
	return format.PutString(dst, n.Value)
}

func (StringNode) Deserialize(b []byte) (Node, int, bool) {
	s, consumed, ok := format.ReadString(b)
	if !ok {
		return nil, 0, false
	}
	return StringNode{Value: s}, consumed, true
}

func (n StringNode) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	return mutateLeaf(n, kind, v, path, args)
}

func (n StringNode) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	return locateLeaf(n, path)
}

// locateLeaf implements the shared Locate contract for every
// primitive: strip the self-identity step, if present, and fail if
// anything remains — a leaf has no children to descend into.
func locateLeaf(self Node, path types.Path) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) > 0 {
		return nil, false
	}
	return self, true
}

// mutateLeaf implements the shared Mutate contract for every primitive.
// Every node's Mutate first strips its own leading path step (the
// self-identity entry its WalkFields/WalkCmps call pushed) before
// looking at what remains; for a leaf nothing should remain afterward,
// since it has no children to descend into. An empty remainder applies
// Splice, GenerateReplace, or RecursiveReplace directly (a leaf is its
// own recursion-free subtree, so RecursiveReplace degenerates to a
// plain regenerate).
func mutateLeaf(self Node, kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) > 0 {
		return nil, false
	}
	switch kind {
	case MutationSplice:
		replaced, consumed, ok := self.Deserialize(args.Bytes)
		if !ok || consumed == 0 {
			return nil, false
		}
		return replaced, true
	case MutationGenerateReplace:
		return self.Generate(v, v.GenerateDepth(), 0)
	case MutationRecursiveReplace:
		return self.Generate(v, 0, v.GenerateDepth())
	default:
		return nil, false
	}
}
