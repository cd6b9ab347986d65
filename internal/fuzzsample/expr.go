// Package fuzzsample is a worked example of a user algebraic data type
// implementing the node.Node contract by hand — the role an external
// derive step would play for a real target. It exists so the generator,
// mutator, minimizer, and chunk-store packages have a genuinely
// recursive, multi-variant type to exercise in their tests, modeled as
// Expr = Lit(u32) | Add(Expr, Expr).
package fuzzsample

import (
	"github.com/autarkie-go/autarkie/internal/format"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/node/derivehelp"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// ExprID is Expr's registered TypeId.
var ExprID = types.NewTypeID("fuzzsample.Expr")

const (
	exprVariantLit = 0
	exprVariantAdd = 1
)

// Describe registers Expr = Lit(u32) | Add(Expr, Expr) against r and
// returns its TypeId. Add recurses into Expr itself, so the registrar
// observes the back edge on its second visit and stops descending —
// exactly the self-recursion case §4.B's tie-break resolves by marking
// the Add variant (index 1) recursive.
func Describe(r *types.Registry) types.TypeId {
	if r.Begin(ExprID, "Expr") {
		u32ID := node.DescribeU32(r)
		variants := []types.VariantEntry{
			{Children: []types.TypeId{u32ID}},
			{Children: []types.TypeId{ExprID, ExprID}},
		}
		r.Finish(ExprID, "Expr", variants)
	}
	return ExprID
}

// Expr is Lit(u32) | Add(Expr, Expr). Variant selects which field is
// meaningful: exprVariantLit uses Lit, exprVariantAdd uses Left/Right.
type Expr struct {
	Variant int
	Lit     uint32
	Left    *Expr
	Right   *Expr
}

func (Expr) TypeID() types.TypeId { return ExprID }

func (e Expr) NodeKind(v *visitor.Visitor) types.NodeKind {
	if v.Recursion().IsRecursive(ExprID, e.Variant) {
		return types.NodeKindRecursive
	}
	return types.NodeKindNonRecursive
}

func (Expr) Generate(v *visitor.Visitor, remaining, current int) (node.Node, bool) {
	variant, recursive, ok := v.ChooseVariant(ExprID, current)
	if !ok {
		return nil, false
	}
	nextRemaining := remaining
	nextCurrent := current
	if recursive {
		nextRemaining--
		nextCurrent++
	}

	switch variant {
	case exprVariantLit:
		lit, ok := node.U32Node{}.Generate(v, nextRemaining, nextCurrent)
		if !ok {
			return nil, false
		}
		return Expr{Variant: exprVariantLit, Lit: lit.(node.U32Node).Value}, true
	case exprVariantAdd:
		left, ok := (Expr{}).Generate(v, nextRemaining, nextCurrent)
		if !ok {
			return nil, false
		}
		right, ok := (Expr{}).Generate(v, nextRemaining, nextCurrent)
		if !ok {
			return nil, false
		}
		l, r := left.(Expr), right.(Expr)
		return Expr{Variant: exprVariantAdd, Left: &l, Right: &r}, true
	default:
		return nil, false
	}
}

func (e Expr) WalkFields(v *visitor.Visitor, index int) {
	switch e.Variant {
	case exprVariantLit:
		derivehelp.WalkEnumVariant(v, index, types.NodeKindNonRecursive, ExprID, func() {
			node.U32Node{Value: e.Lit}.WalkFields(v, 0)
		})
	case exprVariantAdd:
		derivehelp.WalkEnumVariant(v, index, e.NodeKind(v), ExprID, func() {
			e.Left.WalkFields(v, 0)
			e.Right.WalkFields(v, 1)
		})
	}
}

func (e Expr) WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64) {
	switch e.Variant {
	case exprVariantLit:
		derivehelp.WalkEnumVariant(v, index, types.NodeKindNonRecursive, ExprID, func() {
			node.U32Node{Value: e.Lit}.WalkCmps(v, 0, lhs, rhs)
		})
	case exprVariantAdd:
		derivehelp.WalkEnumVariant(v, index, e.NodeKind(v), ExprID, func() {
			e.Left.WalkCmps(v, 0, lhs, rhs)
			e.Right.WalkCmps(v, 1, lhs, rhs)
		})
	}
}

func (e Expr) SerializeSubnodes(v *visitor.Visitor) {
	v.AddSerialized(e.Serialize(nil), ExprID)
	switch e.Variant {
	case exprVariantLit:
		node.U32Node{Value: e.Lit}.SerializeSubnodes(v)
	case exprVariantAdd:
		e.Left.SerializeSubnodes(v)
		e.Right.SerializeSubnodes(v)
	}
}

func (e Expr) Serialize(dst []byte) []byte {
	dst = append(dst, byte(e.Variant))
	switch e.Variant {
	case exprVariantLit:
		dst = node.U32Node{Value: e.Lit}.Serialize(dst)
	case exprVariantAdd:
		dst = e.Left.Serialize(dst)
		dst = e.Right.Serialize(dst)
	}
	return dst
}

func (Expr) Deserialize(b []byte) (node.Node, int, bool) {
	if len(b) < 1 {
		return nil, 0, false
	}
	variant := int(format.ReadU8(b, 0))
	off := 1
	switch variant {
	case exprVariantLit:
		lit, consumed, ok := node.U32Node{}.Deserialize(b[off:])
		if !ok {
			return nil, 0, false
		}
		return Expr{Variant: exprVariantLit, Lit: lit.(node.U32Node).Value}, off + consumed, true
	case exprVariantAdd:
		leftNode, consumed, ok := (Expr{}).Deserialize(b[off:])
		if !ok {
			return nil, 0, false
		}
		off += consumed
		rightNode, consumed, ok := (Expr{}).Deserialize(b[off:])
		if !ok {
			return nil, 0, false
		}
		off += consumed
		l, r := leftNode.(Expr), rightNode.(Expr)
		return Expr{Variant: exprVariantAdd, Left: &l, Right: &r}, off, true
	default:
		return nil, 0, false
	}
}

// Height reports the Expr's actual recursion depth (0 for a bare Lit),
// used by tests checking generation stays within generate_depth.
func (e Expr) Height() int {
	if e.Variant != exprVariantAdd {
		return 0
	}
	lh, rh := e.Left.Height(), e.Right.Height()
	if lh > rh {
		return lh + 1
	}
	return rh + 1
}

// Locate mirrors Mutate's navigation without transforming anything.
func (e Expr) Locate(v *visitor.Visitor, path types.Path) (node.Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) == 0 {
		return e, true
	}
	step := path[0]
	switch {
	case e.Variant == exprVariantLit && step.Index == 0:
		return node.U32Node{Value: e.Lit}.Locate(v, path)
	case e.Variant == exprVariantAdd && step.Index == 0:
		return e.Left.Locate(v, path)
	case e.Variant == exprVariantAdd && step.Index == 1:
		return e.Right.Locate(v, path)
	default:
		return nil, false
	}
}

// Mutate strips its own leading path step first — the self-identity
// entry WalkFields/WalkCmps pushed on the way in — then, if anything
// remains, the next step's Index picks which child to descend into;
// the child's own Mutate call strips that same step in turn. An empty
// remainder means this Expr itself is the mutation target.
func (e Expr) Mutate(kind node.MutationKind, v *visitor.Visitor, path types.Path, args node.MutationArgs) (node.Node, bool) {
	if len(path) > 0 {
		path = path[1:]
	}
	if len(path) > 0 {
		step := path[0]
		switch {
		case e.Variant == exprVariantLit && step.Index == 0:
			replaced, ok := node.U32Node{Value: e.Lit}.Mutate(kind, v, path, args)
			if !ok {
				return nil, false
			}
			return Expr{Variant: exprVariantLit, Lit: replaced.(node.U32Node).Value}, true
		case e.Variant == exprVariantAdd && step.Index == 0:
			replaced, ok := e.Left.Mutate(kind, v, path, args)
			if !ok {
				return nil, false
			}
			r := replaced.(Expr)
			return Expr{Variant: exprVariantAdd, Left: &r, Right: e.Right}, true
		case e.Variant == exprVariantAdd && step.Index == 1:
			replaced, ok := e.Right.Mutate(kind, v, path, args)
			if !ok {
				return nil, false
			}
			r := replaced.(Expr)
			return Expr{Variant: exprVariantAdd, Left: e.Left, Right: &r}, true
		default:
			return nil, false
		}
	}

	switch kind {
	case node.MutationSplice:
		replaced, _, ok := (Expr{}).Deserialize(args.Bytes)
		if !ok {
			return nil, false
		}
		return replaced, true
	case node.MutationGenerateReplace:
		return e.Generate(v, v.GenerateDepth(), 0)
	case node.MutationRecursiveReplace:
		return e.Generate(v, 0, v.GenerateDepth())
	default:
		return nil, false
	}
}
