package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/autarkie-go/autarkie/internal/fuzzsample"
	"github.com/autarkie-go/autarkie/internal/obslog"
	"github.com/autarkie-go/autarkie/pkg/chunkstore"
	"github.com/autarkie-go/autarkie/pkg/cmplog"
	"github.com/autarkie-go/autarkie/pkg/feedback"
	"github.com/autarkie-go/autarkie/pkg/generate"
	"github.com/autarkie-go/autarkie/pkg/minimize"
	"github.com/autarkie-go/autarkie/pkg/mutate"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stage"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/types"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// defaultIterations bounds a single-process demo run when no real
// forkserver-driven executor supplies its own stopping condition
// (Ctrl-C). spec.md's CLI surface has no "-n iterations" flag — a real
// deployment runs until killed — so this is a constant, not a flag.
const defaultIterations = 20000

var runCfg RunConfig

func init() {
	cmd := newFuzzCmd()
	cmd.Flags().StringVarP(&runCfg.OutDir, "out", "o", "", "output directory (required)")
	cmd.Flags().IntVarP(&runCfg.Cores, "cores", "c", 1, "worker set size")
	timeoutMs := cmd.Flags().IntP("timeout", "t", 1000, "per-execution timeout, milliseconds")
	cmd.Flags().IntVarP(&runCfg.InitialInputs, "initial", "i", 16, "initial generated inputs per worker")
	cmd.Flags().IntVarP(&runCfg.IterateDepth, "iterate-depth", "I", 8, "max element count per iterable")
	cmd.Flags().IntVarP(&runCfg.GenerateDepth, "generate-depth", "G", 8, "max recursive descent")
	cmd.Flags().IntVarP(&runCfg.MaxSubsliceSize, "subslice", "z", 4, "max sub-slice window size")
	cmd.Flags().IntVarP(&runCfg.StringPoolSize, "string-pool", "l", 64, "string-pool size")
	cmd.Flags().StringVarP(&runCfg.DictFile, "dict", "x", "", "optional dictionary of strings")
	seed := cmd.Flags().Int64P("seed", "s", 0, "RNG seed (0 derives one from the current time)")
	cmd.Flags().BoolVarP(&runCfg.NoveltyMinimize, "novelty-minimize", "n", false, "enable novelty minimization")
	cmd.Flags().BoolVarP(&runCfg.Cmplog, "cmplog", "e", false, "enable cmplog stage")
	cmd.Flags().BoolVarP(&runCfg.RenderedViews, "rendered", "r", false, "write rendered views")
	cmd.Flags().IntVarP(&runCfg.BrokerPort, "port", "p", 0, "broker port for external event bus")

	cobra.OnInitialize(func() {
		runCfg.Timeout = time.Duration(*timeoutMs) * time.Millisecond
		if *seed != 0 {
			runCfg.Seed = uint64(*seed)
		} else {
			runCfg.Seed = uint64(time.Now().UnixNano())
		}
	})

	rootCmd.AddCommand(cmd)
}

func newFuzzCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fuzz",
		Short: "Generate and mutate values under the bundled sample schema",
		Long: `The fuzz command drives the core's full generate/mutate/feedback
loop against the bundled sample schema, writing queue entries, chunks,
and stats.json under the output directory.

Example:
  autarkiectl fuzz -o out/ -s 1
  autarkiectl fuzz -o out/ -G 12 -n -e`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runCfg.OutDir == "" {
				return fmt.Errorf("-o <dir> is required")
			}
			return runFuzz(cmd.Context(), runCfg)
		},
	}
}

// render is the RenderConverter/cmplog.Render/minimize.Render every
// package needing target-visible bytes shares: this core has no
// user-supplied render step of its own (§10's "render escape hatch" is
// the identity function here), so the wire Serialize output doubles as
// the rendered view.
func render(n node.Node) []byte { return n.Serialize(nil) }

func runFuzz(ctx context.Context, cfg RunConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := obslog.New(obslog.Options{
		Enabled:  verbose,
		LogDir:   filepath.Join(cfg.OutDir, "logs"),
		Level:    slog.LevelInfo,
		WorkerID: "main",
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	// BrokerPort has no broker to pass it to in this core — the external
	// event bus is out of scope (§1) — so it's only logged, matching
	// §6's "the core passes these through unchanged" treatment of other
	// executor-side environment it doesn't interpret itself.
	logger.Info("starting fuzz run", "out", cfg.OutDir, "seed", cfg.Seed, "broker_port", cfg.BrokerPort)

	registry := types.NewRegistry()
	rootID := fuzzsample.Describe(registry)
	singleID := fuzzsample.DescribeSingle(registry)

	recursion, genTable, err := types.Analyze(registry)
	if err != nil {
		return fmt.Errorf("analyze type graph: %w", err)
	}

	v := visitor.New(cfg.VisitorConfig(), registry, recursion, genTable)
	if cfg.DictFile != "" {
		if err := loadDictionary(v, cfg.DictFile); err != nil {
			return fmt.Errorf("load dictionary: %w", err)
		}
	}

	catalog := node.NewCatalog()
	catalog.Register(rootID, fuzzsample.Expr{})
	catalog.Register(singleID, fuzzsample.Single{})

	store, err := chunkstore.Open(cfg.OutDir, 0)
	if err != nil {
		return fmt.Errorf("open chunk store: %w", err)
	}

	bag := stats.NewBag()
	reporter := stats.NewReporter(bag, cfg.OutDir, stats.DefaultInterval)
	reporterDone := make(chan error, 1)
	go func() { reporterDone <- reporter.Run(ctx) }()

	if err := writeTypeInputMap(cfg.OutDir, registry); err != nil {
		return fmt.Errorf("write type_input_map.json: %w", err)
	}

	base := mutate.NewBase(store, bag)
	mutators := []mutate.Mutator{
		mutate.NewSplice(base, cfg.MaxSubsliceSize),
		mutate.NewSpliceAppend(base),
		mutate.NewIterablePop(base),
		mutate.NewRecurseMutate(base),
		mutate.NewGenerateReplace(base),
		mutate.NewU8Array(base),
	}
	wrapper := stage.NewWrapper()
	seen := make(map[uint64]bool)

	seedQueue := func() error {
		for i := 0; i < cfg.InitialInputs; i++ {
			val, err := generate.Generate(fuzzsample.Expr{}, v, 0)
			if err != nil {
				return err
			}
			if err := feedback.Accept(store, val, v, render, false, bag, []stats.Kind{stats.Generate}); err != nil {
				return err
			}
		}
		return nil
	}
	if err := seedQueue(); err != nil {
		return fmt.Errorf("seed initial corpus: %w", err)
	}

	current, err := generate.Generate(fuzzsample.Expr{}, v, 0)
	if err != nil {
		return fmt.Errorf("generate starting value: %w", err)
	}

	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = defaultIterations
	}
	for i := 0; i < iterations; i++ {
		if ctx.Err() != nil {
			break
		}
		mutator := mutators[v.RandomRange(0, len(mutators))]

		var candidate node.Node
		outcome, stageErr := wrapper.Run(ctx, v, func(v *visitor.Visitor) (stage.Outcome, error) {
			next, result, err := mutator.Mutate(v, current)
			if err != nil {
				return stage.Skipped, err
			}
			if result == mutate.Skipped {
				return stage.Skipped, nil
			}
			candidate = next
			return stage.Ran, nil
		})
		if stageErr != nil {
			return fmt.Errorf("mutation stage: %w", stageErr)
		}
		if outcome != stage.Ran {
			continue
		}

		rendered := render(candidate)
		hash := xxhash.Sum64(rendered)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		current = candidate

		if err := feedback.Accept(store, candidate, v, render, false, bag, nil); err != nil {
			return fmt.Errorf("accept candidate: %w", err)
		}
		if cfg.RenderedViews {
			logger.Debug("accepted candidate", "rendered", rendered)
		}

		if cfg.Cmplog && v.Coinflip() {
			// No real executor's instrumentation is wired here (§1's
			// Non-goal), so the operand pair steered against is the
			// candidate's own content hash against zero, standing in
			// for whatever comparison the harness would have reported.
			pairs := []cmplog.OperandPair{{Lhs: 0, Rhs: hash}}
			for _, steered := range cmplog.IntegerCandidates(v, candidate, pairs, bag) {
				if err := feedback.Accept(store, steered, v, render, false, bag, nil); err != nil {
					return fmt.Errorf("accept cmplog candidate: %w", err)
				}
			}
		}
	}

	if donors := store.InputsForType(rootID); len(donors) > 0 {
		// Exercises the exact seam Catalog exists for: post-mortem code
		// holding only a TypeId and a chunk path, no live Node, needs a
		// prototype to call Deserialize on.
		if prototype, ok := catalog.Lookup(rootID); ok {
			if raw, err := store.ReadChunk(donors[0]); err == nil {
				if decoded, _, ok := prototype.Deserialize(raw); ok {
					logger.Debug("decoded donor chunk", "path", donors[0], "bytes", render(decoded))
				}
			}
		}
	}

	if cfg.NoveltyMinimize {
		// Stand-in oracle: "still reproduces a fingerprint this run has
		// already seen" in place of the external executor's coverage or
		// novelty bitmap (§1's Non-goal).
		oracle := func(rendered []byte) bool { return seen[xxhash.Sum64(rendered)] }
		if minimized, changed := minimize.NoveltyMinimize(v, current, render, oracle, bag); changed {
			current = minimized
			if err := feedback.Accept(store, current, v, render, false, bag, nil); err != nil {
				return fmt.Errorf("accept minimized value: %w", err)
			}
		}
	}

	stop()
	if err := <-reporterDone; err != nil {
		return fmt.Errorf("stats reporter: %w", err)
	}
	logger.Info("fuzz run finished", "iterations", iterations)
	printInfo("wrote run artifacts to %s\n", cfg.OutDir)
	return nil
}

func loadDictionary(v *visitor.Visitor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v.RegisterString(line)
	}
	return scanner.Err()
}

func writeTypeInputMap(outDir string, registry *types.Registry) error {
	out := make(map[string]string)
	for _, entry := range registry.Types() {
		out[strconv.FormatUint(uint64(entry.ID), 16)] = entry.Name
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "type_input_map.json"), data, 0o644)
}
