package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRunFuzzWritesRunArtifacts(t *testing.T) {
	verbose = false
	quiet = true
	defer func() { quiet = false }()

	dir := t.TempDir()
	cfg := RunConfig{
		OutDir:          dir,
		InitialInputs:   4,
		IterateDepth:    4,
		GenerateDepth:   4,
		MaxSubsliceSize: 2,
		StringPoolSize:  8,
		Seed:            42,
		Iterations:      50,
	}

	if err := runFuzz(context.Background(), cfg); err != nil {
		t.Fatalf("runFuzz: %v", err)
	}

	for _, name := range []string{"stats.json", "type_input_map.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "chunks")); err != nil {
		t.Errorf("expected chunks/ directory created by the chunk store: %v", err)
	}
}

func TestRunFuzzRequiresOutDir(t *testing.T) {
	cmd := newFuzzCmd()
	cmd.SetArgs(nil)
	runCfg = RunConfig{}
	if err := cmd.RunE(cmd, nil); err == nil {
		t.Fatalf("expected error when -o is not set")
	}
}
