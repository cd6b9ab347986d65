package main

import (
	"time"

	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// RunConfig is the parsed form of the fuzz subcommand's flags, mapping
// 1:1 to spec.md §6's CLI surface (-o -c -t -i -I -G -z -l -x -s -n -e
// -r -p). It is built once from the flag variables and threaded down
// explicitly from there — §4.0.1's "never read from globals inside the
// core packages" applies to everything below main.go, even though
// cobra's own flag variables are necessarily package-level globals here.
type RunConfig struct {
	OutDir          string        // -o: output directory (required)
	Cores           int           // -c: worker set size
	Timeout         time.Duration // -t: per-execution timeout
	InitialInputs   int           // -i: initial generated inputs per worker
	IterateDepth    int           // -I: max element count per iterable
	GenerateDepth   int           // -G: max recursive descent
	MaxSubsliceSize int           // -z: max sub-slice window size
	StringPoolSize  int           // -l: string-pool size
	DictFile        string        // -x: optional dictionary of strings
	Seed            uint64        // -s: RNG seed
	NoveltyMinimize bool          // -n: enable novelty minimization
	Cmplog          bool          // -e: enable cmplog stage
	RenderedViews   bool          // -r: write rendered views
	BrokerPort      int           // -p: broker port for external event bus

	// Iterations overrides defaultIterations when positive. Not exposed
	// as a flag (spec.md's CLI surface has none for it); it exists so a
	// test can bound a run's length without touching the package
	// constant every other caller relies on.
	Iterations int
}

// seed2Mix is xor'd into a zero or user-supplied -s value to derive the
// PCG generator's second 64-bit word; math/rand/v2's rand.NewPCG takes
// two seed words; leaving the second at zero would quietly collapse the
// generator's state space for every run that doesn't also set it.
const seed2Mix = 0x9e3779b97f4a7c15

// VisitorConfig translates the Visitor-relevant subset of RunConfig into
// visitor.Config.
func (c RunConfig) VisitorConfig() visitor.Config {
	return visitor.Config{
		Seed1:          c.Seed,
		Seed2:          c.Seed ^ seed2Mix,
		GenerateDepth:  c.GenerateDepth,
		IterateDepth:   c.IterateDepth,
		StringPoolSize: c.StringPoolSize,
	}
}
