// Package visitor holds the single mutable context threaded through
// every generation, walk, and mutation operation: the PRNG, the string
// pool, the traversal stack, and the transient buffers the chunk store
// and cmplog steering drain after a walk. A Visitor is never shared
// across goroutines — each fuzzing worker owns exactly one.
package visitor

import (
	"math/rand/v2"

	"github.com/autarkie-go/autarkie/pkg/types"
)

// Config seeds a new Visitor. GenerateDepth bounds, in node units, how
// deep generation may go before only non-recursive choices remain
// available; IterateDepth caps how many elements a generated iterable
// holds.
type Config struct {
	Seed1, Seed2   uint64
	GenerateDepth  int
	IterateDepth   int
	StringPoolSize int
}

// CmpHit pairs a field path with the candidate replacement bytes a
// primitive recorded while walk_cmps matched it against an observed
// comparison operand.
type CmpHit struct {
	Path      types.Path
	Candidate []byte
}

// SerializedNode is one sub-value emitted by serialize_subnodes, tagged
// with the type it was serialized from so the chunk store can file it
// under the right type-partitioned directory.
type SerializedNode struct {
	Bytes  []byte
	TypeID types.TypeId
}

// Visitor is the process-scoped mutable context. All access is
// single-threaded by contract; nothing here takes a lock.
type Visitor struct {
	rng *rand.Rand

	generateDepth int
	iterateDepth  int

	registry  *types.Registry
	recursion types.RecursionTable
	generate  types.GenerateTable

	stringPool []string

	stack types.Path
	paths []types.Path

	cmps       []CmpHit
	serialized []SerializedNode
}

// New builds a Visitor with its string pool pre-seeded to cfg.StringPoolSize
// random printable strings. registry, recursion, and generate are expected
// to be frozen: built once at startup by pkg/types.Analyze and shared
// read-only across every worker process (each process re-registers from
// source rather than sharing the value across a process boundary).
func New(cfg Config, registry *types.Registry, recursion types.RecursionTable, generate types.GenerateTable) *Visitor {
	v := &Visitor{
		rng:           rand.New(rand.NewPCG(cfg.Seed1, cfg.Seed2)),
		generateDepth: cfg.GenerateDepth,
		iterateDepth:  cfg.IterateDepth,
		registry:      registry,
		recursion:     recursion,
		generate:      generate,
	}
	v.stringPool = make([]string, 0, cfg.StringPoolSize)
	for i := 0; i < cfg.StringPoolSize; i++ {
		v.stringPool = append(v.stringPool, v.randomPrintableString())
	}
	return v
}

// GenerateDepth returns the configured generation depth budget.
func (v *Visitor) GenerateDepth() int { return v.generateDepth }

// IterateDepth returns the configured iterable-length depth budget.
func (v *Visitor) IterateDepth() int { return v.iterateDepth }

// Registry returns the frozen type registry.
func (v *Visitor) Registry() *types.Registry { return v.registry }

// Recursion returns the frozen recursion table.
func (v *Visitor) Recursion() types.RecursionTable { return v.recursion }

// --- PRNG surface ---

// RandomRange returns a pseudo-random int in [lo, hi). Returns lo
// unchanged if hi <= lo.
func (v *Visitor) RandomRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + v.rng.IntN(hi-lo)
}

// Coinflip returns true or false with equal probability.
func (v *Visitor) Coinflip() bool {
	return v.rng.IntN(2) == 0
}

// CoinflipWithProb returns true with probability p.
func (v *Visitor) CoinflipWithProb(p float64) bool {
	return v.rng.Float64() < p
}

// GenerateBytes returns n pseudo-random bytes.
func (v *Visitor) GenerateBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(v.rng.IntN(256))
	}
	return b
}

// --- String pool ---

// GetString returns a pseudo-randomly chosen string from the pool, or
// the empty string if the pool is empty.
func (v *Visitor) GetString() string {
	if len(v.stringPool) == 0 {
		return ""
	}
	return v.stringPool[v.rng.IntN(len(v.stringPool))]
}

// RegisterString appends s to the pool so future GetString calls may
// return it.
func (v *Visitor) RegisterString(s string) {
	v.stringPool = append(v.stringPool, s)
}

func (v *Visitor) randomPrintableString() string {
	const lo, hi = 0x20, 0x7e
	n := 1 + v.rng.IntN(16)
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(lo + v.rng.IntN(hi-lo+1))
	}
	return string(b)
}

// --- Traversal stack ---

// RegisterFieldStack pushes step onto the traversal stack without
// recording a path. Callers pop it themselves after descending (or
// immediately, for a leaf that doesn't descend).
func (v *Visitor) RegisterFieldStack(step types.PathStep) {
	v.stack = append(v.stack, step)
}

// RegisterField pushes step and snapshots the resulting stack into the
// completed-paths list. Used at leaves and iterables, the addressable
// mutation points, never at intermediate struct/enum levels.
func (v *Visitor) RegisterField(step types.PathStep) {
	v.stack = append(v.stack, step)
	v.paths = append(v.paths, v.stack.Clone())
}

// PopField removes the most recently pushed step.
func (v *Visitor) PopField() {
	if len(v.stack) > 0 {
		v.stack = v.stack[:len(v.stack)-1]
	}
}

// Fields returns every path recorded since the last ResetWalk.
func (v *Visitor) Fields() []types.Path {
	return v.paths
}

// ResetWalk clears the traversal stack and the completed-paths list,
// readying the Visitor for a fresh walk_fields or walk_cmps pass.
func (v *Visitor) ResetWalk() {
	v.stack = v.stack[:0]
	v.paths = v.paths[:0]
}

// --- Serialized sub-node buffer ---

// AddSerialized records one serialized sub-value for the chunk store to
// drain after a feedback-hook walk.
func (v *Visitor) AddSerialized(b []byte, id types.TypeId) {
	v.serialized = append(v.serialized, SerializedNode{Bytes: b, TypeID: id})
}

// Serialized returns every sub-node recorded since the last ClearSerialized.
func (v *Visitor) Serialized() []SerializedNode {
	return v.serialized
}

// ClearSerialized empties the serialized-subnode buffer.
func (v *Visitor) ClearSerialized() {
	v.serialized = v.serialized[:0]
}

// --- Cmp buffer ---

// RegisterCmp records a cmp hit at the current traversal stack depth,
// pairing it with the serialized form of the comparison's other operand.
func (v *Visitor) RegisterCmp(candidate []byte) {
	v.cmps = append(v.cmps, CmpHit{Path: v.stack.Clone(), Candidate: candidate})
}

// Cmps returns every cmp hit recorded since the last ClearCmps.
func (v *Visitor) Cmps() []CmpHit {
	return v.cmps
}

// ClearCmps empties the cmp-hit buffer.
func (v *Visitor) ClearCmps() {
	v.cmps = v.cmps[:0]
}

// ClearTransient clears every per-operation buffer: the traversal stack
// and completed paths, the serialized-subnode buffer, and the cmp-hit
// buffer. The stage wrapper calls this on exit so no stage observes
// residue left behind by another.
func (v *Visitor) ClearTransient() {
	v.ResetWalk()
	v.ClearSerialized()
	v.ClearCmps()
}

// --- Variant choice ---

// ChooseVariant picks a variant index for id per the frozen generate
// table. When currentDepth is within the generate-depth budget, the
// draw is uniform over the union of recursive and non-recursive
// variants; once the budget is exhausted, only non-recursive variants
// are eligible. ok is false iff the eligible set is empty, which
// callers must propagate as a failed generation attempt rather than a
// panic.
func (v *Visitor) ChooseVariant(id types.TypeId, currentDepth int) (variant int, recursive bool, ok bool) {
	choices := v.generate[id]
	if currentDepth < v.generateDepth {
		all := make([]int, 0, len(choices.Recursive)+len(choices.NonRecursive))
		all = append(all, choices.Recursive...)
		all = append(all, choices.NonRecursive...)
		if len(all) == 0 {
			return 0, false, false
		}
		pick := all[v.rng.IntN(len(all))]
		return pick, v.recursion.IsRecursive(id, pick), true
	}
	if len(choices.NonRecursive) == 0 {
		return 0, false, false
	}
	pick := choices.NonRecursive[v.rng.IntN(len(choices.NonRecursive))]
	return pick, false, true
}
