package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <out-dir>",
		Short: "Print a prior run's stats.json",
		Long: `The stats command reads <out-dir>/stats.json, the periodic mutation
counter snapshot a fuzz run writes, and prints it sorted by descending
count.

Example:
  autarkiectl stats out/
  autarkiectl stats out/ --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args[0])
		},
	}
}

func runStats(outDir string) error {
	data, err := os.ReadFile(filepath.Join(outDir, "stats.json"))
	if err != nil {
		return fmt.Errorf("read stats.json: %w", err)
	}

	var snapshot map[string]int64
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("parse stats.json: %w", err)
	}

	if jsonOut {
		return printJSON(snapshot)
	}

	type kindCount struct {
		Kind  string
		Count int64
	}
	counts := make([]kindCount, 0, len(snapshot))
	var total int64
	for k, c := range snapshot {
		counts = append(counts, kindCount{k, c})
		total += c
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	printInfo("Mutation Stats: %s\n\n", outDir)
	for _, kc := range counts {
		printInfo("  %-24s %d\n", kc.Kind, kc.Count)
	}
	printInfo("\n  %-24s %d\n", "total", total)
	return nil
}
