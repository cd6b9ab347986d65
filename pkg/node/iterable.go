package node

import (
	"github.com/autarkie-go/autarkie/internal/format"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// ElementFactory produces and parses elements of a container's element
// type. A Vec/Array is built over one, the way the wire codec's
// per-width Put/Read pairs are built over a shared helper rather than
// duplicated per primitive.
type ElementFactory struct {
	TypeID      types.TypeId
	Generate    func(v *visitor.Visitor, remaining, current int) (Node, bool)
	Deserialize func(b []byte) (Node, int, bool)
}

// VecNode is a variable-length homogeneous sequence, of NodeKind
// Iterable. Its own TypeId is derived from the
// element type's identity, the same way the registry identifies
// "Vec<Expr>" as a distinct type from "Expr" itself.
type VecNode struct {
	Elem     ElementFactory
	Elements []Node
}

// VecTypeID derives the TypeId of Vec<elem>.
func VecTypeID(elem types.TypeId) types.TypeId {
	return types.NewTypeID("core.vec") ^ types.TypeId(elem)<<1
}

// DescribeVec registers Vec<elemID> given the already-registered element
// type, and returns the vector's own TypeId.
func DescribeVec(r *types.Registry, elemID types.TypeId) types.TypeId {
	id := VecTypeID(elemID)
	if r.Begin(id, "Vec") {
		r.Finish(id, "Vec", []types.VariantEntry{{Children: []types.TypeId{elemID}}})
	}
	return id
}

func (n VecNode) TypeID() types.TypeId { return VecTypeID(n.Elem.TypeID) }

func (VecNode) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindIterable }

func (n VecNode) Generate(v *visitor.Visitor, remaining, current int) (Node, bool) {
	length := v.RandomRange(0, v.IterateDepth()+1)
	elems := make([]Node, 0, length)
	for i := 0; i < length; i++ {
		e, ok := n.Elem.Generate(v, remaining, current)
		if !ok {
			return nil, false
		}
		elems = append(elems, e)
	}
	return VecNode{Elem: n.Elem, Elements: elems}, true
}

func (n VecNode) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindIterable, TypeID: n.TypeID()})
	v.PopField()
}

func (n VecNode) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	for i, e := range n.Elements {
		v.RegisterFieldStack(types.PathStep{Index: i, Kind: e.NodeKind(v), TypeID: e.TypeID()})
		e.WalkCmps(v, i, lhs, rhs)
		v.PopField()
	}
}

func (n VecNode) SerializeSubnodes(v *visitor.Visitor) {
	for _, e := range n.Elements {
		e.SerializeSubnodes(v)
	}
}

func (n VecNode) Serialize(dst []byte) []byte {
	dst = format.PutVecLen(dst, len(n.Elements))
	for _, e := range n.Elements {
		dst = e.Serialize(dst)
	}
	return dst
}

func (n VecNode) Deserialize(b []byte) (Node, int, bool) {
	length, off, ok := format.ReadVecLen(b)
	if !ok || length < 0 {
		return nil, 0, false
	}
	elems := make([]Node, 0, length)
	for i := 0; i < length; i++ {
		e, consumed, ok := n.Elem.Deserialize(b[off:])
		if !ok {
			return nil, 0, false
		}
		elems = append(elems, e)
		off += consumed
	}
	return VecNode{Elem: n.Elem, Elements: elems}, off, true
}

// Locate strips its own leading path step first; an empty remainder
// returns this vector itself, a non-empty one descends into the
// addressed element.
func (n VecNode) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) == 0 {
		return n, true
	}
	step := path[0]
	if step.Index < 0 || step.Index >= len(n.Elements) {
		return nil, false
	}
	return n.Elements[step.Index].Locate(v, path)
}

// Mutate strips its own leading path step first (see internal/fuzzsample's
// Expr.Mutate for the full contract): what remains, if anything, is an
// element-index step, either left by a cmp-log walk_cmps descent through
// this vector's elements or appended by pkg/mutate's sub-slice modes;
// walk_fields never records one (it treats an iterable as one atomic
// pick and never records a path past it).
func (n VecNode) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) > 0 {
		step := path[0]
		if step.Index < 0 || step.Index >= len(n.Elements) {
			return nil, false
		}
		replaced, ok := n.Elements[step.Index].Mutate(kind, v, path, args)
		if !ok {
			return nil, false
		}
		out := make([]Node, len(n.Elements))
		copy(out, n.Elements)
		out[step.Index] = replaced
		return VecNode{Elem: n.Elem, Elements: out}, true
	}

	switch kind {
	case MutationSplice:
		replaced, _, ok := n.Deserialize(args.Bytes)
		if !ok {
			return nil, false
		}
		return replaced, true
	case MutationSpliceAppend, MutationGenerateAppend:
		appended, _, ok := n.Elem.Deserialize(args.Bytes)
		if !ok {
			return nil, false
		}
		out := make([]Node, len(n.Elements), len(n.Elements)+1)
		copy(out, n.Elements)
		out = append(out, appended)
		return VecNode{Elem: n.Elem, Elements: out}, true
	case MutationIterablePop:
		if len(n.Elements) == 0 || args.Index < 0 || args.Index >= len(n.Elements) {
			return nil, false
		}
		out := make([]Node, 0, len(n.Elements)-1)
		out = append(out, n.Elements[:args.Index]...)
		out = append(out, n.Elements[args.Index+1:]...)
		return VecNode{Elem: n.Elem, Elements: out}, true
	case MutationGenerateReplace:
		return n.Generate(v, v.GenerateDepth(), 0)
	case MutationRecursiveReplace:
		return n.Generate(v, 0, v.GenerateDepth())
	default:
		return nil, false
	}
}
