package mutate

import (
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// SpliceAppend picks a field, and if it is a variable-length iterable,
// appends 1..iterate_depth donor chunks of the element type at its
// path. Fixed-length iterables (Array) skip, per §4.G.
type SpliceAppend struct{ *Base }

func NewSpliceAppend(base *Base) *SpliceAppend { return &SpliceAppend{Base: base} }

func (s *SpliceAppend) Mutate(v *visitor.Visitor, root node.Node) (node.Node, Result, error) {
	path, ok := pickField(v, root)
	if !ok {
		return root, Skipped, nil
	}
	target := path[len(path)-1]
	if target.Kind != types.NodeKindIterable {
		return root, Skipped, nil
	}
	found, ok := root.Locate(v, path)
	if !ok {
		return root, Skipped, nil
	}
	if _, fixed, ok := iterableLength(found); !ok || fixed {
		return root, Skipped, nil
	}
	elemID, ok := elementTypeOf(v, target.TypeID)
	if !ok {
		return root, Skipped, nil
	}

	count := 1 + v.RandomRange(0, v.IterateDepth())
	result := root
	appended := 0
	for i := 0; i < count; i++ {
		donor, ok, err := randomDonor(v, s.Chunks, elemID)
		if err != nil {
			return root, Skipped, err
		}
		if !ok {
			break
		}
		next, ok := result.Mutate(node.MutationSpliceAppend, v, path, node.MutationArgs{Bytes: donor})
		if !ok {
			break
		}
		result = next
		appended++
	}
	if appended == 0 {
		return root, Skipped, nil
	}
	s.Stats.Record(stats.SpliceAppend)
	return result, Mutated, nil
}
