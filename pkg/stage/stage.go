// Package stage wraps one mutating sub-stage with the cleanup §4.I
// requires: whatever the sub-stage does to the Visitor's transient
// buffers, they must be empty again before the next stage runs. Adapted
// directly from hive/tx.Manager's Begin/Commit/Rollback lifecycle:
// Begin there bumps the sequence number and marks a transaction active;
// here there's nothing to prepare, so Run's "begin" half is a no-op.
// Commit there always flushes dirty pages before marking the
// transaction complete; here the always-run cleanup is
// Visitor.ClearTransient, regardless of whether the sub-stage mutated,
// skipped, or returned an error — the same "if a crash occurs between
// Begin and Commit" framing repurposed as "transient buffers must never
// leak into the next stage".
package stage

import (
	"context"

	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// ExitKind classifies how the external executor's run of a serialized
// input concluded.
type ExitKind int

const (
	ExitOK ExitKind = iota
	ExitCrash
	ExitTimeout
)

func (k ExitKind) String() string {
	switch k {
	case ExitOK:
		return "ok"
	case ExitCrash:
		return "crash"
	case ExitTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// CoverageDelta reports whether an execution touched new coverage,
// opaque beyond that: the external executor owns the edge-map
// representation (spec.md §1's explicit Non-goal), the core only acts
// on whether it grew.
type CoverageDelta struct {
	IsNovel bool
}

// Executor is the consumer-side seam onto the external coverage-
// measuring executor (forkserver or in-process harness) spec.md §1
// explicitly keeps out of scope. The core never implements one; a
// harness supplies it.
type Executor interface {
	Run(ctx context.Context, input []byte) (ExitKind, CoverageDelta, error)
}

// Outcome reports what a wrapped sub-stage did.
type Outcome int

const (
	Skipped Outcome = iota
	Ran
)

// SubStage is the function a Wrapper runs: a mutator's Mutate, a
// minimization pass, or a cmplog step, each returning whether it made
// progress. Implementations may read and write the Visitor but must not
// assume its transient buffers are clear on entry beyond what the
// previous Wrapper.Run already guaranteed.
type SubStage func(v *visitor.Visitor) (Outcome, error)

// Wrapper runs exactly one SubStage and guarantees the Visitor's
// transient traversal, cmp-hit, and serialized-subnode buffers are
// empty when Run returns — on success, on Skipped, and on error alike.
// This is property 8's sole guard: no stage may observe residue from
// another.
type Wrapper struct{}

// NewWrapper returns a stage Wrapper. It holds no state; Run's cleanup
// is unconditional regardless of caller-held Visitor or chunk-store
// handles.
func NewWrapper() *Wrapper { return &Wrapper{} }

// Run executes sub against v, always clearing v's transient buffers
// before returning — matching tx.Manager's guarantee that a completed
// (or aborted) transaction never leaves dirty state for the next one to
// trip over.
func (w *Wrapper) Run(ctx context.Context, v *visitor.Visitor, sub SubStage) (Outcome, error) {
	defer v.ClearTransient()

	if err := ctx.Err(); err != nil {
		return Skipped, err
	}
	return sub(v)
}
