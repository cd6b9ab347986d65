// Package cmplog turns operand pairs observed during a target's last
// execution into candidate replacement values, §4.K's steering stage.
// Adapted from hive/link's symbolic-link resolution: there, a link cell
// is indirection from one registry key to another NK by name; here the
// indirection runs from an observed runtime comparison to the typed
// tree location whose serialized value produced one side of it, found
// by walking the value with WalkCmps rather than following a stored
// target path.
package cmplog

import (
	"bytes"

	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// Render turns a candidate value into the bytes the raw-byte operand
// search scans and the round-trip check re-parses — the same shape as
// chunkstore.RenderConverter and minimize.Render, kept as its own type
// so this package pulls in neither.
type Render func(node.Node) []byte

// OperandPair is one (lhs, rhs) integer comparison observed by the
// external executor's cmplog instrumentation during the last run of the
// current input.
type OperandPair struct {
	Lhs, Rhs uint64
}

// RawPair is one comparison observed between two byte strings rather
// than two integers — a memcmp/strcmp-style comparison the executor's
// instrumentation reports independently of the integer pairs.
type RawPair struct {
	Lhs, Rhs []byte
}

// DedupOperandPairs removes duplicate pairs, keeping first-seen order —
// §4.K step 1.
func DedupOperandPairs(pairs []OperandPair) []OperandPair {
	seen := make(map[OperandPair]bool, len(pairs))
	out := make([]OperandPair, 0, len(pairs))
	for _, p := range pairs {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// DedupRawPairs removes duplicate raw-byte pairs, keeping first-seen
// order — the raw-byte half of §4.K step 1.
func DedupRawPairs(pairs []RawPair) []RawPair {
	seen := make(map[string]bool, len(pairs))
	out := make([]RawPair, 0, len(pairs))
	for _, p := range pairs {
		key := string(p.Lhs) + "\x00" + string(p.Rhs)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// IntegerCandidates implements §4.K steps 2 and 3: for each deduplicated
// integer pair, WalkCmps finds every primitive node whose value equals
// one side, records the serialized form of the other side at that
// node's path, and this then splices each recorded candidate back in at
// its path. Every successfully spliced candidate is attributed to the
// Cmplog stats kind.
func IntegerCandidates(v *visitor.Visitor, root node.Node, pairs []OperandPair, bag *stats.Bag) []node.Node {
	var out []node.Node
	for _, pair := range DedupOperandPairs(pairs) {
		v.ResetWalk()
		v.ClearCmps()
		root.WalkCmps(v, 0, pair.Lhs, pair.Rhs)
		for _, hit := range v.Cmps() {
			candidate, ok := root.Mutate(node.MutationSplice, v, hit.Path, node.MutationArgs{Bytes: hit.Candidate})
			if !ok {
				continue
			}
			bag.Record(stats.Cmplog)
			out = append(out, candidate)
		}
	}
	v.ClearCmps()
	return out
}

// RawByteCandidates implements §4.K step 4, independently of the
// integer pass: for each deduplicated raw-byte pair, it searches root's
// rendered serialization for every occurrence of either side and
// splices in the other, keeping only candidates whose spliced bytes
// round-trip through Deserialize — a malformed splice (one that cuts
// across a length header or a variant tag) is silently discarded rather
// than submitted, matching pkg/types.Error{Kind: ErrKindDeserialize}'s
// treatment of malformed input as an expected, non-fatal outcome here.
func RawByteCandidates(root node.Node, render Render, pairs []RawPair, bag *stats.Bag) []node.Node {
	rendered := render(root)
	var out []node.Node
	for _, pair := range DedupRawPairs(pairs) {
		out = append(out, spliceOccurrences(rendered, pair.Lhs, pair.Rhs, root, bag)...)
		out = append(out, spliceOccurrences(rendered, pair.Rhs, pair.Lhs, root, bag)...)
	}
	return out
}

// spliceOccurrences replaces every occurrence of needle in rendered,
// overlapping ones included, with replacement, one occurrence at a time,
// keeping each result that re-deserializes cleanly.
func spliceOccurrences(rendered, needle, replacement []byte, root node.Node, bag *stats.Bag) []node.Node {
	if len(needle) == 0 || len(needle) != len(replacement) {
		return nil
	}
	var out []node.Node
	start := 0
	for {
		idx := bytes.Index(rendered[start:], needle)
		if idx < 0 {
			return out
		}
		pos := start + idx
		spliced := make([]byte, len(rendered))
		copy(spliced, rendered)
		copy(spliced[pos:pos+len(replacement)], replacement)

		if candidate, _, ok := root.Deserialize(spliced); ok {
			bag.Record(stats.CmplogBytes)
			out = append(out, candidate)
		}
		start = pos + 1
	}
}
