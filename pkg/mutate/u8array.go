package mutate

import (
	"github.com/autarkie-go/autarkie/internal/format"
	"github.com/autarkie-go/autarkie/pkg/mutate/havoc"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// U8Array picks a field, and if it is Iterable(_, _, element_type=u8),
// regenerates a fresh value for it, runs the external byte-level havoc
// mutator over its raw element bytes, and splices the result back
// behind a fresh length header.
type U8Array struct{ *Base }

func NewU8Array(base *Base) *U8Array { return &U8Array{Base: base} }

func (u *U8Array) Mutate(v *visitor.Visitor, root node.Node) (node.Node, Result, error) {
	path, ok := pickField(v, root)
	if !ok {
		return root, Skipped, nil
	}
	target := path[len(path)-1]
	if target.Kind != types.NodeKindIterable {
		return root, Skipped, nil
	}
	elemID, ok := elementTypeOf(v, target.TypeID)
	if !ok || elemID != node.U8ID {
		return root, Skipped, nil
	}

	fresh, ok := root.Mutate(node.MutationGenerateReplace, v, path, node.MutationArgs{})
	if !ok {
		return root, Skipped, nil
	}
	freshField, ok := fresh.Locate(v, path)
	if !ok {
		return root, Skipped, nil
	}
	vn, ok := freshField.(node.VecNode)
	if !ok {
		return root, Skipped, nil
	}

	raw := make([]byte, len(vn.Elements))
	for i, e := range vn.Elements {
		raw[i] = e.(node.U8Node).Value
	}
	mutated := havoc.Mutate(v, raw)

	blob := format.PutVecLen(nil, len(mutated))
	blob = append(blob, mutated...)
	replaced, ok := fresh.Mutate(node.MutationSplice, v, path, node.MutationArgs{Bytes: blob})
	if !ok {
		return root, Skipped, nil
	}
	u.Stats.Record(stats.Afl)
	return replaced, Mutated, nil
}
