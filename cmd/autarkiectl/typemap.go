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
	rootCmd.AddCommand(newTypemapCmd())
}

func newTypemapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typemap <out-dir>",
		Short: "Print a prior run's type_input_map.json",
		Long: `The typemap command reads <out-dir>/type_input_map.json, the
TypeId-hex-to-name mapping a fuzz run writes once at startup, useful for
matching a chunks/<type-hex>/ directory back to the registered Go type
it holds post-mortem.

Example:
  autarkiectl typemap out/
  autarkiectl typemap out/ --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypemap(args[0])
		},
	}
}

func runTypemap(outDir string) error {
	data, err := os.ReadFile(filepath.Join(outDir, "type_input_map.json"))
	if err != nil {
		return fmt.Errorf("read type_input_map.json: %w", err)
	}

	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return fmt.Errorf("parse type_input_map.json: %w", err)
	}

	if jsonOut {
		return printJSON(mapping)
	}

	ids := make([]string, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	printInfo("Registered Types: %s\n\n", outDir)
	for _, id := range ids {
		printInfo("  %-16s %s\n", id, mapping[id])
	}
	return nil
}
