// Package derivehelp factors the RegisterFieldStack/PopField bookkeeping
// every hand-written Node.WalkFields/WalkCmps implementation repeats at
// each call site into two small composable helpers, one per shape a
// user algebraic data type actually has: a product type always walks
// every field, a sum type walks only the chosen variant's fields. A
// real target gets this for free from its derive step; a hand-written
// implementation imports it instead of re-deriving the push/pop pairing
// by hand, the way a generated NK/VK record walker factors child
// enumeration out of the specific cell format rather than reimplementing
// it per record kind.
package derivehelp

import (
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// WalkVariant pushes the self-identity step for one Node onto the
// traversal stack, runs walkChildren to record whatever children that
// node has (zero or more further Register*/Walk* calls), and pops the
// step back off before returning. Every WalkFields/WalkCmps
// implementation in this module follows exactly this push-children-pop
// shape; the only thing that varies per call site is what walkChildren
// does.
func WalkVariant(v *visitor.Visitor, index int, kind types.NodeKind, typeID types.TypeId, walkChildren func()) {
	v.RegisterFieldStack(types.PathStep{Index: index, Kind: kind, TypeID: typeID})
	walkChildren()
	v.PopField()
}

// WalkStructFields is WalkVariant specialized to a product type: a
// struct has no variant choice, so its NodeKind is always
// NodeKindNonRecursive at this level (recursion, if any, lives in a
// child field's own NodeKind, not the struct's).
func WalkStructFields(v *visitor.Visitor, index int, typeID types.TypeId, walkFields func()) {
	WalkVariant(v, index, types.NodeKindNonRecursive, typeID, walkFields)
}

// WalkEnumVariant is WalkVariant specialized to a sum type: kind comes
// from the caller's own recursion check (e.g. v.Recursion().IsRecursive)
// against the specific variant chosen, since only some of a sum type's
// variants are typically recursive.
func WalkEnumVariant(v *visitor.Visitor, index int, kind types.NodeKind, typeID types.TypeId, walkVariantFields func()) {
	WalkVariant(v, index, kind, typeID, walkVariantFields)
}
