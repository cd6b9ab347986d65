package mutate

import (
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// RecurseMutate picks a field and regenerates it, at full generate-depth
// budget with probability 0.5 and forced to depth 0 otherwise. An
// iterable of length >= 3 instead picks a sub-slice and regenerates
// each element independently. Skips entirely when the registry has no
// recursive types — without one, this degenerates to GenerateReplace.
type RecurseMutate struct{ *Base }

func NewRecurseMutate(base *Base) *RecurseMutate { return &RecurseMutate{Base: base} }

func (r *RecurseMutate) Mutate(v *visitor.Visitor, root node.Node) (node.Node, Result, error) {
	if !v.Recursion().HasAny() {
		return root, Skipped, nil
	}
	path, ok := pickField(v, root)
	if !ok {
		return root, Skipped, nil
	}
	kind := node.MutationGenerateReplace
	if !v.CoinflipWithProb(0.5) {
		kind = node.MutationRecursiveReplace
	}
	target := path[len(path)-1]

	if target.Kind == types.NodeKindIterable {
		if found, ok := root.Locate(v, path); ok {
			if length, fixed, ok := iterableLength(found); ok && !fixed && length >= minLenForSubslice {
				return r.subSliceRegenerate(v, root, path, length, kind)
			}
		}
	}

	replaced, ok := root.Mutate(kind, v, path, node.MutationArgs{})
	if !ok {
		return root, Skipped, nil
	}
	r.Stats.Record(stats.RandomMutateSingle)
	return replaced, Mutated, nil
}

func (r *RecurseMutate) subSliceRegenerate(v *visitor.Visitor, root node.Node, path types.Path, length int, kind node.MutationKind) (node.Node, Result, error) {
	windowLen := 1 + v.RandomRange(0, length)
	start := v.RandomRange(0, length-windowLen+1)

	result := root
	changed := false
	for i := start; i < start+windowLen; i++ {
		elemPath := append(append(types.Path{}, path...), types.PathStep{Index: i})
		next, ok := result.Mutate(kind, v, elemPath, node.MutationArgs{})
		if !ok {
			continue
		}
		result, changed = next, true
	}
	if !changed {
		return root, Skipped, nil
	}
	r.Stats.Record(stats.RandomMutateSubsplice)
	return result, Mutated, nil
}
