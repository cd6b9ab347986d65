package node

import (
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// ArrayNode is a fixed-length homogeneous sequence, of NodeKind
// Iterable. Length never changes under mutation or minimization: the
// whole array is spliced or regenerated with exactly Len elements, and
// IterablePop and SpliceAppend never apply to it.
type ArrayNode struct {
	Elem     ElementFactory
	Len      int
	Elements []Node
}

// ArrayTypeID derives the TypeId of [elem; n].
func ArrayTypeID(elem types.TypeId, n int) types.TypeId {
	return types.NewTypeID("core.array") ^ types.TypeId(elem)<<2 ^ types.TypeId(n)
}

// DescribeArray registers [elemID; n] given the already-registered
// element type, and returns the array's own TypeId.
func DescribeArray(r *types.Registry, elemID types.TypeId, n int) types.TypeId {
	id := ArrayTypeID(elemID, n)
	if r.Begin(id, "Array") {
		r.Finish(id, "Array", []types.VariantEntry{{Children: []types.TypeId{elemID}}})
	}
	return id
}

func (n ArrayNode) TypeID() types.TypeId { return ArrayTypeID(n.Elem.TypeID, n.Len) }

func (ArrayNode) NodeKind(*visitor.Visitor) types.NodeKind { return types.NodeKindIterable }

func (n ArrayNode) Generate(v *visitor.Visitor, remaining, current int) (Node, bool) {
	elems := make([]Node, 0, n.Len)
	for i := 0; i < n.Len; i++ {
		e, ok := n.Elem.Generate(v, remaining, current)
		if !ok {
			return nil, false
		}
		elems = append(elems, e)
	}
	return ArrayNode{Elem: n.Elem, Len: n.Len, Elements: elems}, true
}

func (n ArrayNode) WalkFields(v *visitor.Visitor, index int) {
	v.RegisterField(types.PathStep{Index: index, Kind: types.NodeKindIterable, TypeID: n.TypeID()})
	v.PopField()
}

func (n ArrayNode) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	for i, e := range n.Elements {
		v.RegisterFieldStack(types.PathStep{Index: i, Kind: e.NodeKind(v), TypeID: e.TypeID()})
		e.WalkCmps(v, i, lhs, rhs)
		v.PopField()
	}
}

func (n ArrayNode) SerializeSubnodes(v *visitor.Visitor) {
	for _, e := range n.Elements {
		e.SerializeSubnodes(v)
	}
}

func (n ArrayNode) Serialize(dst []byte) []byte {
	for _, e := range n.Elements {
		dst = e.Serialize(dst)
	}
	return dst
}

func (n ArrayNode) Deserialize(b []byte) (Node, int, bool) {
	elems := make([]Node, 0, n.Len)
	off := 0
	for i := 0; i < n.Len; i++ {
		e, consumed, ok := n.Elem.Deserialize(b[off:])
		if !ok {
			return nil, 0, false
		}
		elems = append(elems, e)
		off += consumed
	}
	return ArrayNode{Elem: n.Elem, Len: n.Len, Elements: elems}, off, true
}

// Locate mirrors VecNode.Locate.
func (n ArrayNode) Locate(v *visitor.Visitor, path types.Path) (Node, bool) {
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

// Mutate strips its own leading path step first; see VecNode.Mutate and
// internal/fuzzsample's Expr.Mutate for the shared contract.
func (n ArrayNode) Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool) {
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
		return ArrayNode{Elem: n.Elem, Len: n.Len, Elements: out}, true
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
		// variable-length iterables.
		return nil, false
	}
}
