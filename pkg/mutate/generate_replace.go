package mutate

import (
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// GenerateReplace picks a single field and regenerates it at the full
// generate-depth bias, independent of RecurseMutate's coin-flipped
// depth choice and sub-slice handling.
type GenerateReplace struct{ *Base }

func NewGenerateReplace(base *Base) *GenerateReplace { return &GenerateReplace{Base: base} }

func (g *GenerateReplace) Mutate(v *visitor.Visitor, root node.Node) (node.Node, Result, error) {
	path, ok := pickField(v, root)
	if !ok {
		return root, Skipped, nil
	}
	replaced, ok := root.Mutate(node.MutationGenerateReplace, v, path, node.MutationArgs{})
	if !ok {
		return root, Skipped, nil
	}
	g.Stats.Record(stats.Generate)
	return replaced, Mutated, nil
}
