// Package generate is the sole public entry point for producing a fresh
// value from a registered root type. Mutators reuse Node.Generate
// directly on sub-trees; only the initial seed goes through here.
package generate

import (
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// DefaultMaxAttempts bounds how many times Generate retries a failed
// attempt before giving up. A single attempt fails only when the depth
// budget runs out with no non-recursive variant available anywhere on
// the path taken — rare for a correctly registered type graph, but not
// provably impossible depending on which variants the RNG visits first.
const DefaultMaxAttempts = 64

// Generate drives root.Generate with remaining_depth = visitor's
// generate-depth budget and current_depth = 0, retrying up to
// maxAttempts times on failure. root supplies only its type (its own
// field values are ignored) — callers normally pass a zero value of the
// target Go type, e.g. generate.Generate(fuzzsample.Expr{}, v, 64).
func Generate(root node.Node, v *visitor.Visitor, maxAttempts int) (node.Node, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if result, ok := root.Generate(v, v.GenerateDepth(), 0); ok {
			return result, nil
		}
	}
	return nil, &types.Error{
		Kind: types.ErrKindGeneration,
		Msg:  "exhausted generation attempts without producing a value",
	}
}
