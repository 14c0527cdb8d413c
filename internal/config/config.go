// Package config loads nova.toml, the settings file shared by the nova
// commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/JamesPatrickGill/nova/internal/trace"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

// FileName is the configuration file looked up from the working directory
// upward.
const FileName = "nova.toml"

// Config is the decoded nova.toml.
type Config struct {
	Heap   HeapConfig   `toml:"heap"`
	Trace  TraceConfig  `toml:"trace"`
	Stress StressConfig `toml:"stress"`

	// Path is the file the values came from; empty for defaults.
	Path string `toml:"-"`
}

// HeapConfig maps to [heap].
type HeapConfig struct {
	InitialCapacity int `toml:"initial_capacity"`
	GCThreshold     int `toml:"gc_threshold"`
}

// TraceConfig maps to [trace].
type TraceConfig struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	Format   string `toml:"format"`
	RingSize int    `toml:"ring_size"`
}

// StressConfig maps to [stress].
type StressConfig struct {
	Agents     int   `toml:"agents"`
	Iterations int   `toml:"iterations"`
	Jobs       int   `toml:"jobs"`
	Seed       int64 `toml:"seed"`
	Verify     bool  `toml:"verify"`
}

// Default returns the configuration used without a nova.toml.
func Default() Config {
	opts := vm.DefaultOptions()
	return Config{
		Heap: HeapConfig{
			InitialCapacity: opts.InitialCapacity,
			GCThreshold:     opts.GCThreshold,
		},
		Trace: TraceConfig{
			Level:    "off",
			Mode:     "ring",
			Output:   "-",
			Format:   "auto",
			RingSize: 4096,
		},
		Stress: StressConfig{
			Agents:     4,
			Iterations: 2000,
			Jobs:       0,
			Seed:       1,
			Verify:     true,
		},
	}
}

// Find walks from startDir up to the filesystem root looking for nova.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest nova.toml, or the defaults when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path on top of the defaults. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	// An output without a level means the user wants a trace.
	if meta.IsDefined("trace", "output") && !meta.IsDefined("trace", "level") {
		cfg.Trace.Level = "phase"
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Heap.InitialCapacity < 0 {
		return fmt.Errorf("[heap].initial_capacity must not be negative")
	}
	if c.Heap.GCThreshold < 0 {
		return fmt.Errorf("[heap].gc_threshold must not be negative")
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	if c.Stress.Agents < 1 {
		return fmt.Errorf("[stress].agents must be at least 1")
	}
	if c.Stress.Iterations < 0 || c.Stress.Jobs < 0 {
		return fmt.Errorf("[stress].iterations and [stress].jobs must not be negative")
	}
	return nil
}

// Tracing converts [trace] into a tracer configuration.
func (c Config) Tracing() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}

// AgentOptions converts [heap] into agent options.
func (c Config) AgentOptions(t trace.Tracer) vm.Options {
	return vm.Options{
		InitialCapacity: c.Heap.InitialCapacity,
		GCThreshold:     c.Heap.GCThreshold,
		Tracer:          t,
	}
}
