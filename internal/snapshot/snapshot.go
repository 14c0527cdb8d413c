// Package snapshot persists heap snapshots of an agent as msgpack files so a
// stress run can be inspected after the process exits.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/JamesPatrickGill/nova/internal/vm"
)

// SchemaVersion is bumped whenever the Snapshot layout changes.
const SchemaVersion uint16 = 1

// ErrSchema reports a snapshot written by an incompatible version.
var ErrSchema = errors.New("snapshot schema mismatch")

// Snapshot is one captured heap.
type Snapshot struct {
	Schema  uint16          `msgpack:"schema"`
	Label   string          `msgpack:"label"`
	Created time.Time       `msgpack:"created"`
	Stats   vm.HeapStats    `msgpack:"stats"`
	Last    vm.CollectStats `msgpack:"last"`
	Graph   *vm.HeapGraph   `msgpack:"graph"`
	Dump    string          `msgpack:"dump"`
}

// Capture records the agent's current heap. extra are host roots that are
// not registered with the agent, such as a value stack passed to Safepoint.
// Call it between collection points; the graph holds raw handles.
func Capture(a *vm.Agent, label string, extra ...vm.HeapMarkAndSweep) *Snapshot {
	return &Snapshot{
		Schema:  SchemaVersion,
		Label:   label,
		Created: time.Now().UTC(),
		Stats:   a.HeapStats(),
		Last:    a.LastCollection(),
		Graph:   a.HeapGraph(extra...),
		Dump:    a.HeapDump(),
	}
}

// Write stores s at path, replacing any previous file atomically.
func Write(path string, s *Snapshot) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*.snap")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Read loads a snapshot and checks its schema.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Snapshot
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: decode snapshot: %w", path, err)
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSchema, s.Schema, SchemaVersion)
	}
	if s.Graph == nil {
		s.Graph = &vm.HeapGraph{}
	}
	return &s, nil
}

// KindSummary counts one kind in a snapshot.
type KindSummary struct {
	Kind        string
	Nodes       int
	Unreachable int
}

// Summary is what inspect prints for a snapshot.
type Summary struct {
	Label       string
	Nodes       int
	Edges       int
	Roots       int
	Unreachable int
	Kinds       []KindSummary
}

// Summarize computes per-kind node counts and how much of the heap is
// garbage at capture time.
func (s *Snapshot) Summarize() Summary {
	reached := s.Graph.Reachable()
	byKind := make(map[string]*KindSummary, len(vm.Kinds))
	sum := Summary{
		Label: s.Label,
		Nodes: len(s.Graph.Nodes),
		Edges: len(s.Graph.Edges),
		Roots: len(s.Graph.Roots),
		Kinds: make([]KindSummary, len(vm.Kinds)),
	}
	for i, k := range vm.Kinds {
		sum.Kinds[i].Kind = k
		byKind[k] = &sum.Kinds[i]
	}
	for _, n := range s.Graph.Nodes {
		ks, ok := byKind[n.Ref.Kind]
		if !ok {
			continue
		}
		ks.Nodes++
		if !reached[n.Ref] {
			ks.Unreachable++
			sum.Unreachable++
		}
	}
	return sum
}
