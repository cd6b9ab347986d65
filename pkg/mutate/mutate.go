// Package mutate is the set of structural mutator strategies §4.G
// describes: each one walks a value's fields, picks one uniformly, and
// dispatches a transformation by the picked field's node kind. The
// shape mirrors hive/merge/strategy's Strategy interface plus a shared
// Base embedding the dependencies every concrete strategy needs — here
// the chunk store (for splice donors) and the stats bag (for recording
// which kind fired), in place of the hive, allocator, and dirty
// tracker a storage strategy shares.
package mutate

import (
	"github.com/autarkie-go/autarkie/pkg/chunkstore"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// Result reports whether a mutator actually changed the value.
type Result int

const (
	// Skipped means the mutator's precondition wasn't met (e.g. no
	// donors of the required type, or the picked field isn't the right
	// shape) and root is returned unchanged.
	Skipped Result = iota
	// Mutated means root was transformed.
	Mutated
)

// Mutator is one structural strategy. Implementations never panic;
// every failure mode that isn't a propagated I/O error is reported as
// Skipped, matching §4.G's "Results: Mutated or Skipped; errors are
// fatal and propagate."
type Mutator interface {
	Mutate(v *visitor.Visitor, root node.Node) (node.Node, Result, error)
}

// Base holds the dependencies shared by every concrete mutator: the
// chunk store splice-family mutators draw donors from, and the stats
// bag successful mutations record into.
type Base struct {
	Chunks *chunkstore.Store
	Stats  *stats.Bag
}

// NewBase builds the shared dependency set every mutator embeds.
func NewBase(chunks *chunkstore.Store, bag *stats.Bag) *Base {
	return &Base{Chunks: chunks, Stats: bag}
}

// pickField resets the visitor's walk state, walks root's fields, and
// returns one recorded path chosen uniformly at random. ok is false
// only when root has no addressable fields at all.
func pickField(v *visitor.Visitor, root node.Node) (types.Path, bool) {
	v.ResetWalk()
	root.WalkFields(v, 0)
	fields := v.Fields()
	if len(fields) == 0 {
		return nil, false
	}
	return fields[v.RandomRange(0, len(fields))], true
}

// randomDonor reads a random chunk of typeID from the chunk store. ok
// is false when no donors of that type are registered yet.
func randomDonor(v *visitor.Visitor, chunks *chunkstore.Store, typeID types.TypeId) ([]byte, bool, error) {
	inputs := chunks.InputsForType(typeID)
	if len(inputs) == 0 {
		return nil, false, nil
	}
	path := inputs[v.RandomRange(0, len(inputs))]
	data, err := chunks.ReadChunk(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// elementTypeOf looks up the registered element TypeId of an Iterable
// field (Vec<T> or [T;n]) from the frozen type registry, the way
// DescribeVec/DescribeArray recorded it: as the sole child of the
// iterable's single variant.
func elementTypeOf(v *visitor.Visitor, iterableType types.TypeId) (types.TypeId, bool) {
	entry, ok := v.Registry().Lookup(iterableType)
	if !ok || len(entry.Variants) == 0 || len(entry.Variants[0].Children) == 0 {
		return 0, false
	}
	return entry.Variants[0].Children[0], true
}
