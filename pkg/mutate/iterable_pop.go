package mutate

import (
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// IterablePop picks a field, and if it is a variable-length iterable
// with at least one element, removes a uniformly chosen element.
type IterablePop struct{ *Base }

func NewIterablePop(base *Base) *IterablePop { return &IterablePop{Base: base} }

func (s *IterablePop) Mutate(v *visitor.Visitor, root node.Node) (node.Node, Result, error) {
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
	length, fixed, ok := iterableLength(found)
	if !ok || fixed || length == 0 {
		return root, Skipped, nil
	}

	n := v.RandomRange(0, length)
	replaced, ok := root.Mutate(node.MutationIterablePop, v, path, node.MutationArgs{Index: n})
	if !ok {
		return root, Skipped, nil
	}
	s.Stats.Record(stats.IterablePop)
	return replaced, Mutated, nil
}
