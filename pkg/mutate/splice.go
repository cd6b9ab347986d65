package mutate

import (
	"github.com/autarkie-go/autarkie/internal/format"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// subsliceCoinProb is the bias §4.G gives sub-slice mode over
// full-replace mode when the picked field is a long enough iterable.
const subsliceCoinProb = 0.6

// minLenForSubslice is the iterable length below which sub-slice mode
// never applies — there's no meaningful window shorter than this.
const minLenForSubslice = 3

// Splice picks one field and replaces it with donor material drawn
// from the chunk store. Three modes, matching §4.G: sub-slice (an
// iterable of length >= 3, biased at 0.6, replaces a window of its
// elements one donor at a time), full-replace (any other iterable,
// replaced wholesale by concatenating freshly chosen donor elements
// behind a fresh length header), and single (a non-iterable field,
// replaced by one donor of its own type).
type Splice struct {
	*Base
	MaxSubsliceSize int
}

// NewSplice returns a Splice mutator. maxSubsliceSize bounds the
// sub-slice mode's window length.
func NewSplice(base *Base, maxSubsliceSize int) *Splice {
	return &Splice{Base: base, MaxSubsliceSize: maxSubsliceSize}
}

func (s *Splice) Mutate(v *visitor.Visitor, root node.Node) (node.Node, Result, error) {
	path, ok := pickField(v, root)
	if !ok {
		return root, Skipped, nil
	}
	target := path[len(path)-1]

	if target.Kind != types.NodeKindIterable {
		return s.spliceSingle(v, root, path, target)
	}

	found, ok := root.Locate(v, path)
	if !ok {
		return root, Skipped, nil
	}
	length, fixed, ok := iterableLength(found)
	if !ok {
		return root, Skipped, nil
	}

	if !fixed && length >= minLenForSubslice && v.CoinflipWithProb(subsliceCoinProb) {
		return s.spliceSubSlice(v, root, path, target, length)
	}
	return s.spliceFull(v, root, path, target, length)
}

func (s *Splice) spliceSingle(v *visitor.Visitor, root node.Node, path types.Path, target types.PathStep) (node.Node, Result, error) {
	donor, ok, err := randomDonor(v, s.Chunks, target.TypeID)
	if err != nil {
		return root, Skipped, err
	}
	if !ok {
		return root, Skipped, nil
	}
	replaced, ok := root.Mutate(node.MutationSplice, v, path, node.MutationArgs{Bytes: donor})
	if !ok {
		return root, Skipped, nil
	}
	s.Stats.Record(stats.SpliceSingle)
	return replaced, Mutated, nil
}

func (s *Splice) spliceSubSlice(v *visitor.Visitor, root node.Node, path types.Path, target types.PathStep, length int) (node.Node, Result, error) {
	elemID, ok := elementTypeOf(v, target.TypeID)
	if !ok {
		return root, Skipped, nil
	}
	windowLen := 1 + v.RandomRange(0, s.MaxSubsliceSize)
	if windowLen > length {
		windowLen = length
	}
	start := v.RandomRange(0, length-windowLen+1)

	result := root
	changed := false
	for i := start; i < start+windowLen; i++ {
		donor, ok, err := randomDonor(v, s.Chunks, elemID)
		if err != nil {
			return root, Skipped, err
		}
		if !ok {
			continue
		}
		elemPath := append(append(types.Path{}, path...), types.PathStep{Index: i, TypeID: elemID})
		next, ok := result.Mutate(node.MutationSplice, v, elemPath, node.MutationArgs{Bytes: donor})
		if !ok {
			continue
		}
		result, changed = next, true
	}
	if !changed {
		return root, Skipped, nil
	}
	s.Stats.Record(stats.SpliceSubSplice)
	return result, Mutated, nil
}

func (s *Splice) spliceFull(v *visitor.Visitor, root node.Node, path types.Path, target types.PathStep, currentLength int) (node.Node, Result, error) {
	elemID, ok := elementTypeOf(v, target.TypeID)
	if !ok {
		return root, Skipped, nil
	}
	length := v.RandomRange(0, v.IterateDepth()+1)
	blob := format.PutVecLen(nil, length)
	for i := 0; i < length; i++ {
		donor, ok, err := randomDonor(v, s.Chunks, elemID)
		if err != nil {
			return root, Skipped, err
		}
		if !ok {
			return root, Skipped, nil
		}
		blob = append(blob, donor...)
	}
	replaced, ok := root.Mutate(node.MutationSplice, v, path, node.MutationArgs{Bytes: blob})
	if !ok {
		return root, Skipped, nil
	}
	s.Stats.Record(stats.SpliceFull)
	return replaced, Mutated, nil
}

// iterableLength returns an iterable node's current element count and
// whether its length is fixed (an Array) rather than variable (a Vec).
func iterableLength(n node.Node) (length int, fixed bool, ok bool) {
	switch t := n.(type) {
	case node.VecNode:
		return len(t.Elements), false, true
	case node.ArrayNode:
		return len(t.Elements), true, true
	default:
		return 0, false, false
	}
}
