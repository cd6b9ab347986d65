package types

import "github.com/cespare/xxhash/v2"

// TypeId stably identifies a registered node type across a process
// lifetime and across corpus files written by different builds of the
// same type graph. It is derived from the type's fully-qualified
// identity string, never from memory layout or declaration order, so
// a chunk store populated by one binary stays valid input to another
// binary built from the same source.
type TypeId uint64

// NewTypeID hashes identity (conventionally "<import path>.<type name>",
// optionally suffixed with a generic parameter such as "Vec<Expr>") into
// a TypeId. Two distinct identities may theoretically collide; Registry
// detects that case at registration time rather than silently merging
// two unrelated types.
func NewTypeID(identity string) TypeId {
	return TypeId(xxhash.Sum64String(identity))
}

// NodeKind is the classification every value reports about itself:
// NonRecursive for a leaf or a struct/enum instance that isn't
// structurally recursive at this node, Recursive for an enum instance
// currently holding a variant the analyzer marked recursive, and
// Iterable for any sequence-shaped node (fixed array, variable vector,
// or ordered map treated as a sequence of pairs).
type NodeKind int

const (
	NodeKindNonRecursive NodeKind = iota
	NodeKindRecursive
	NodeKindIterable
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindNonRecursive:
		return "non_recursive"
	case NodeKindRecursive:
		return "recursive"
	case NodeKindIterable:
		return "iterable"
	default:
		return "unknown"
	}
}
