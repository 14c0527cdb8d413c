package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[heap]
gc_threshold = 128

[trace]
level = "detail"

[stress]
agents = 2
seed = 99
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Heap.GCThreshold != 128 {
		t.Fatalf("expected gc_threshold 128, got %d", cfg.Heap.GCThreshold)
	}
	if cfg.Heap.InitialCapacity != Default().Heap.InitialCapacity {
		t.Fatalf("expected default initial_capacity, got %d", cfg.Heap.InitialCapacity)
	}
	if cfg.Trace.Level != "detail" || cfg.Trace.Mode != "ring" {
		t.Fatalf("expected level detail and default mode, got %q %q", cfg.Trace.Level, cfg.Trace.Mode)
	}
	if cfg.Stress.Agents != 2 || cfg.Stress.Seed != 99 || !cfg.Stress.Verify {
		t.Fatalf("unexpected stress config: %+v", cfg.Stress)
	}
	if cfg.Path != path {
		t.Fatalf("expected path %q, got %q", path, cfg.Path)
	}
	opts := cfg.AgentOptions(nil)
	if opts.GCThreshold != 128 {
		t.Fatalf("expected agent threshold 128, got %d", opts.GCThreshold)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[heap]
gc_treshold = 1
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "heap.gc_treshold") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"negative threshold", "[heap]\ngc_threshold = -1\n", "gc_threshold"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "invalid trace level"},
		{"bad mode", "[trace]\nmode = \"disk\"\n", "invalid storage mode"},
		{"zero agents", "[stress]\nagents = 0\n", "agents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestTraceOutputImpliesLevel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[trace]\noutput = \"gc.ndjson\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Trace.Level != "phase" {
		t.Fatalf("expected implied level phase, got %q", cfg.Trace.Level)
	}
}

func TestDiscoverWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[heap]\ninitial_capacity = 8\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Heap.InitialCapacity != 8 {
		t.Fatalf("expected initial_capacity 8, got %d", cfg.Heap.InitialCapacity)
	}
}

func TestTraceConfig(t *testing.T) {
	cfg := Default()
	cfg.Trace.Level = "phase"
	cfg.Trace.Output = "trace.ndjson"
	tc, err := cfg.Tracing()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.Level.String() != "phase" || tc.Mode.String() != "ring" || tc.OutputPath != "trace.ndjson" {
		t.Fatalf("unexpected trace config: %+v", tc)
	}
}
