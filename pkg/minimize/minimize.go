// Package minimize implements the shrink loops §4.H describes:
// iterable-length reduction and recursive-variant reduction, each
// gated by a caller-supplied coverage fingerprint oracle. Adapted from
// hive/dirty's checkpoint-and-verify bookkeeping: a minimization step's
// "is this candidate still interesting" re-check plays the role
// dirty.Tracker.FlushDataOnly plays for a dirty range — both decide
// whether a tentative change is kept or discarded, never partially
// applied.
package minimize

import (
	"fmt"

	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// Oracle reports whether rendered bytes still reproduce the fingerprint
// a minimization run was started against (a full coverage index set for
// IterableMinimize/RecursiveMinimize, novelty bits for NoveltyMinimize).
type Oracle func(rendered []byte) bool

// Render turns a candidate value into the bytes Oracle consumes — the
// same shape as chunkstore.RenderConverter, kept as its own type here so
// this package doesn't need to import pkg/chunkstore.
type Render func(node.Node) []byte

func fieldPaths(v *visitor.Visitor, root node.Node) []types.Path {
	v.ResetWalk()
	root.WalkFields(v, 0)
	fields := v.Fields()
	out := make([]types.Path, len(fields))
	copy(out, fields)
	return out
}

// iterableLength mirrors pkg/mutate's helper of the same purpose: the
// concrete VecNode/ArrayNode type tells current length and whether it's
// fixed, without adding a Len() method to the Node interface.
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

// IterableMinimize repeatedly pops elements from variable-length
// iterable fields, keeping each pop iff oracle still accepts the
// rendered result, until no field yields a further accepted pop. Length
// only ever decreases — property 7's monotonicity.
func IterableMinimize(v *visitor.Visitor, root node.Node, render Render, oracle Oracle, bag *stats.Bag) (node.Node, bool) {
	return reduceIterable(v, root, render, oracle, bag, stats.IterableMinimization)
}

// RecursiveMinimize repeatedly regenerates recursive-variant fields at
// depth 0 (RecursiveReplace), keeping the replacement iff oracle still
// accepts it, until a full pass over the current recursive fields skips
// every one or none remain. Property 7: only ever replaces a recursive
// variant with a non-recursive one, never the reverse.
func RecursiveMinimize(v *visitor.Visitor, root node.Node, render Render, oracle Oracle, bag *stats.Bag) (node.Node, bool) {
	return reduceRecursive(v, root, render, oracle, bag, stats.RecursiveMinimization)
}

// NoveltyMinimize runs the same two reduce loops as IterableMinimize and
// RecursiveMinimize but against a novelty-bits oracle, recording both
// under the distinct NoveltyMinimization stats kind rather than
// IterableMinimization/RecursiveMinimization — §4.H's "same structure,
// keyed to the novelty-bits fingerprint rather than the index set".
func NoveltyMinimize(v *visitor.Visitor, root node.Node, render Render, oracle Oracle, bag *stats.Bag) (node.Node, bool) {
	root, c1 := reduceIterable(v, root, render, oracle, bag, stats.NoveltyMinimization)
	root, c2 := reduceRecursive(v, root, render, oracle, bag, stats.NoveltyMinimization)
	return root, c1 || c2
}

func reduceIterable(v *visitor.Visitor, root node.Node, render Render, oracle Oracle, bag *stats.Bag, kind stats.Kind) (node.Node, bool) {
	changed := false
	for {
		progressed := false
		for _, path := range fieldPaths(v, root) {
			step := path[len(path)-1]
			if step.Kind != types.NodeKindIterable {
				continue
			}
			found, ok := root.Locate(v, path)
			if !ok {
				continue
			}
			length, fixed, ok := iterableLength(found)
			if !ok || fixed {
				continue
			}
			for i := 0; i < length; i++ {
				candidate, ok := root.Mutate(node.MutationIterablePop, v, path, node.MutationArgs{Index: i})
				if !ok {
					continue
				}
				if oracle(render(candidate)) {
					root = candidate
					changed = true
					progressed = true
					bag.Record(kind)
					break
				}
			}
			if progressed {
				break
			}
		}
		if !progressed {
			break
		}
	}
	return root, changed
}

func reduceRecursive(v *visitor.Visitor, root node.Node, render Render, oracle Oracle, bag *stats.Bag, kind stats.Kind) (node.Node, bool) {
	changed := false
	for {
		paths := recursivePaths(v, root)
		if len(paths) == 0 {
			break
		}
		progressed := false
		skips := 0
		for _, path := range paths {
			candidate, ok := root.Mutate(node.MutationRecursiveReplace, v, path, node.MutationArgs{})
			if !ok {
				skips++
				if skips > len(paths) {
					return root, changed
				}
				continue
			}
			if oracle(render(candidate)) {
				root = candidate
				changed = true
				progressed = true
				bag.Record(kind)
				break
			}
			skips++
			if skips > len(paths) {
				return root, changed
			}
		}
		if !progressed {
			break
		}
	}
	return root, changed
}

// recursivePaths finds every distinct recursive node reachable from
// root. A recorded leaf/iterable path is a full stack snapshot, so it
// carries every ancestor step — including the intermediate Recursive
// steps WalkFields pushes with RegisterFieldStack on its way down to a
// leaf, never recorded as a path of their own. Scanning every recorded
// path's prefixes (not just its last element) and deduplicating by
// prefix recovers exactly the set of recursive nodes a dedicated
// "for each recursive node" traversal would, without the Node
// interface needing a second walk method just for this.
func recursivePaths(v *visitor.Visitor, root node.Node) []types.Path {
	seen := make(map[string]bool)
	var out []types.Path
	for _, path := range fieldPaths(v, root) {
		for i, step := range path {
			if step.Kind != types.NodeKindRecursive {
				continue
			}
			prefix := path[:i+1]
			key := fmt.Sprint(prefix)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, prefix.Clone())
		}
	}
	return out
}
