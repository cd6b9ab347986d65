// Package node defines the polymorphic contract every generated value
// satisfies — generate, walk fields, walk cmps, classify node kind,
// serialize sub-nodes, mutate at path — plus the primitive and
// container implementations the core provides directly. User algebraic
// data types implement the same interface; a real build would get that
// implementation from an external derive step instead of hand-typing
// it per type. Here it is hand-written per example type, playing the
// role the derive would play.
package node

import (
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// MutationKind closes the set of structural transformations Mutate
// accepts. Byte-level havoc and cmp-guided splice compose on top of
// these at the pkg/mutate layer; they don't need their own Node-level
// verb because they ultimately invoke Splice with prepared bytes.
type MutationKind int

const (
	MutationSplice MutationKind = iota
	MutationSpliceAppend
	MutationGenerateAppend
	MutationIterablePop
	MutationRecursiveReplace
	MutationGenerateReplace
)

func (k MutationKind) String() string {
	switch k {
	case MutationSplice:
		return "splice"
	case MutationSpliceAppend:
		return "splice_append"
	case MutationGenerateAppend:
		return "generate_append"
	case MutationIterablePop:
		return "iterable_pop"
	case MutationRecursiveReplace:
		return "recursive_replace"
	case MutationGenerateReplace:
		return "generate_replace"
	default:
		return "unknown"
	}
}

// MutationArgs carries the payload a given MutationKind needs beyond the
// Visitor and the path. Bytes holds already-serialized donor material
// for Splice/SpliceAppend; Index selects the element IterablePop
// removes. Unused fields are ignored by mutation kinds that don't need
// them.
type MutationArgs struct {
	Bytes []byte
	Index int
}

// Node is the contract every typed value — primitive, container, or
// user ADT — satisfies. Values are treated as immutable: every mutating
// operation returns a new Node rather than modifying the receiver,
// matching the "Option<Self>" shape of the source contract this
// protocol is modeled on.
type Node interface {
	// TypeID returns this value's registered type identifier.
	TypeID() types.TypeId

	// NodeKind classifies the value: Recursive if the current variant
	// was marked recursive by the analyzer, Iterable for sequences,
	// NonRecursive otherwise.
	NodeKind(v *visitor.Visitor) types.NodeKind

	// Generate produces a fresh, unrelated value of this same type,
	// ignoring the receiver's own data — the receiver serves only to
	// select which concrete implementation runs. remaining is
	// decremented on every recursive step taken; current is compared
	// against the Visitor's generate-depth budget to decide whether
	// recursive variants remain eligible.
	Generate(v *visitor.Visitor, remaining, current int) (Node, bool)

	// WalkFields performs a depth-first traversal, pushing a PathStep
	// for every child onto the Visitor's stack and recording one only
	// at leaves and iterables — the addressable mutation points. index
	// is this node's own position at its parent level (0 for the root
	// call).
	WalkFields(v *visitor.Visitor, index int)

	// WalkCmps mirrors WalkFields' traversal shape; primitives record a
	// cmp hit when their value equals lhs or rhs.
	WalkCmps(v *visitor.Visitor, index int, lhs, rhs uint64)

	// SerializeSubnodes emits every sub-value that is not itself an
	// iterable into the Visitor's serialized buffer, tagged by type.
	SerializeSubnodes(v *visitor.Visitor)

	// Serialize appends this value's wire encoding to dst and returns
	// the extended slice.
	Serialize(dst []byte) []byte

	// Deserialize parses a value of this same type from the front of b,
	// returning the new value, the number of bytes consumed, and
	// whether parsing succeeded. The receiver's own data is ignored; as
	// with Generate, it only selects the implementation. ok is false on
	// truncated or malformed input — deserialization never panics.
	Deserialize(b []byte) (Node, int, bool)

	// Locate returns the node addressed by path, using the same
	// leading-step-strip-and-descend navigation Mutate uses, without
	// transforming anything. Used by pkg/mutate to inspect a picked
	// field (its concrete type, an iterable's current length) before
	// deciding how to mutate it.
	Locate(v *visitor.Visitor, path types.Path) (Node, bool)

	// Mutate applies kind at the node addressed by path. Every
	// implementation first strips its own leading step — the
	// self-identity entry its own WalkFields/WalkCmps call pushed on
	// the way in — then, if anything remains, the next step's Index
	// picks which child to recurse into (passing the same, still
	// self-prefixed, remainder so the child repeats the strip). An
	// empty remainder applies the mutation to this node itself. ok is
	// false when the mutation cannot apply (e.g. IterablePop on a
	// length-0 value) or path addresses a child that doesn't exist.
	Mutate(kind MutationKind, v *visitor.Visitor, path types.Path, args MutationArgs) (Node, bool)
}

// Catalog maps a TypeId to a zero-value instance of its Go type, used
// wherever code holds a type identifier but no value — reconstituting a
// splice donor read from the chunk store, or dispatching GenerateReplace
// by type rather than by an already-addressed instance. There is no
// static dispatch by type alone in Go the way the source's derive
// permits a direct `Type::generate(...)` call, so a prototype registry
// fills the same role: call Generate/Deserialize on the zero value and
// ignore its (empty) data.
type Catalog struct {
	prototypes map[types.TypeId]Node
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{prototypes: make(map[types.TypeId]Node)}
}

// Register associates id with a prototype instance. Re-registering the
// same id with an equal-typed prototype is harmless; callers normally
// call this once per type at startup, alongside that type's Describe
// call against the type registry.
func (c *Catalog) Register(id types.TypeId, prototype Node) {
	c.prototypes[id] = prototype
}

// Lookup returns the prototype registered for id, if any.
func (c *Catalog) Lookup(id types.TypeId) (Node, bool) {
	p, ok := c.prototypes[id]
	return p, ok
}
