package trace_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/JamesPatrickGill/nova/internal/trace"
	"github.com/JamesPatrickGill/nova/internal/vm"
)

func names(events []trace.Event, kind trace.Kind) []string {
	var out []string
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev.Name)
		}
	}
	return out
}

func TestCollectionSpansAtPhaseLevel(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	a := vm.NewAgent(vm.Options{Tracer: ring})
	a.NewPlainObject()
	a.GcScope().Collect()

	events := ring.Snapshot()
	got := strings.Join(names(events, trace.KindSpanEnd), ",")
	if got != "mark,sweep,compact,roots,collect" {
		t.Fatalf("expected phase spans closed before collect, got %q", got)
	}
	for _, ev := range events {
		if ev.Scope > trace.ScopePhase {
			t.Fatalf("expected nothing below phase scope, got %s %s", ev.Scope, ev.Name)
		}
	}
}

func TestDebugLevelRecordsAllocations(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	a := vm.NewAgent(vm.Options{Tracer: ring})
	a.NewSymbol("x")

	points := names(ring.Snapshot(), trace.KindPoint)
	if len(points) == 0 || points[len(points)-1] != "alloc:symbol" {
		t.Fatalf("expected alloc:symbol point, got %v", points)
	}
}

func TestRingWrapsAndDumps(t *testing.T) {
	ring := trace.NewRingTracer(2, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(ring, trace.ScopeAgent, name, "", 0)
	}
	if got := strings.Join(names(ring.Snapshot(), trace.KindPoint), ","); got != "b,c" {
		t.Fatalf("expected the last two events, got %q", got)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, trace.FormatNDJSON); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
	if !strings.Contains(buf.String(), `"name":"c"`) {
		t.Fatalf("expected ndjson event, got %s", buf.String())
	}
}

func TestRingOf(t *testing.T) {
	ring := trace.NewRingTracer(4, trace.LevelPhase)
	var stream bytes.Buffer
	multi := trace.NewMultiTracer(trace.LevelPhase, trace.NewStreamTracer(&stream, trace.LevelPhase, trace.FormatText), ring)

	if got, ok := trace.RingOf(multi); !ok || got != ring {
		t.Fatalf("expected ring behind multi tracer")
	}
	if _, ok := trace.RingOf(trace.Nop); ok {
		t.Fatalf("expected no ring behind nop tracer")
	}
}

func TestParseLevelAndShouldEmit(t *testing.T) {
	tests := []struct {
		level string
		scope trace.Scope
		want  bool
	}{
		{"off", trace.ScopeAgent, false},
		{"phase", trace.ScopePhase, true},
		{"phase", trace.ScopeKind, false},
		{"detail", trace.ScopeKind, true},
		{"detail", trace.ScopeObject, false},
		{"debug", trace.ScopeObject, true},
	}
	for _, tt := range tests {
		l, err := trace.ParseLevel(tt.level)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.level, err)
		}
		if got := l.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%s.ShouldEmit(%s): expected %v, got %v", tt.level, tt.scope, tt.want, got)
		}
	}
	if _, err := trace.ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestHeartbeatCarriesProbe(t *testing.T) {
	if hb := trace.StartHeartbeat(trace.Nop, time.Millisecond, nil); hb != nil {
		t.Fatalf("expected no heartbeat for a disabled tracer")
	}

	ring := trace.NewRingTracer(16, trace.LevelPhase)
	hb := trace.StartHeartbeat(ring, 2*time.Millisecond, func() map[string]string {
		return map[string]string{"collections": "3"}
	})
	defer hb.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, ev := range ring.Snapshot() {
			if ev.Kind == trace.KindHeartbeat {
				if ev.Extra["collections"] != "3" {
					t.Fatalf("expected probe extras, got %v", ev.Extra)
				}
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected a heartbeat within the deadline")
}

func TestForAgentLabelsEvents(t *testing.T) {
	if got := trace.ForAgent(trace.Nop, "agent 0"); got != trace.Nop {
		t.Fatalf("expected a disabled tracer to stay Nop")
	}

	ring := trace.NewRingTracer(8, trace.LevelPhase)
	labeled := trace.ForAgent(ring, "agent 2")
	trace.Point(labeled, trace.ScopeAgent, "start", "", 0)
	trace.Begin(labeled, trace.ScopeCollect, "collect", 0).End("done")

	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Source != "agent 2" {
			t.Fatalf("expected source %q, got %q on %s", "agent 2", ev.Source, ev.Name)
		}
	}
	if got, ok := trace.RingOf(labeled); !ok || got != ring {
		t.Fatalf("expected ring behind the agent label")
	}

	text := string(trace.FormatEvent(&events[0], trace.FormatText))
	if !strings.Contains(text, "agent 2: ") {
		t.Fatalf("expected source in text output, got %q", text)
	}
}

func TestRingReportsDropped(t *testing.T) {
	ring := trace.NewRingTracer(3, trace.LevelPhase)
	for range 5 {
		trace.Point(ring, trace.ScopeAgent, "p", "", 0)
	}
	if got := ring.Dropped(); got != 2 {
		t.Fatalf("expected 2 dropped events, got %d", got)
	}
	snap := ring.Snapshot()
	for i := 1; i < len(snap); i++ {
		if snap[i].Seq <= snap[i-1].Seq {
			t.Fatalf("expected events oldest first, got seq %d before %d", snap[i-1].Seq, snap[i].Seq)
		}
	}
}

type closeErr struct {
	trace.Tracer
	err error
}

func (c closeErr) Close() error { return c.err }

func TestMultiCloseJoinsErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	multi := trace.NewMultiTracer(trace.LevelPhase,
		closeErr{trace.Nop, first}, closeErr{trace.Nop, nil}, closeErr{trace.Nop, second})
	err := multi.Close()
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both close errors, got %v", err)
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	dir := t.TempDir()
	tr, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeStream, OutputPath: dir + "/run.ndjson"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	trace.Point(tr, trace.ScopeAgent, "hello", "", 0)
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(dir + "/run.ndjson")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "{") || !strings.Contains(string(data), `"name":"hello"`) {
		t.Fatalf("expected ndjson output, got %q", data)
	}
	if _, err := trace.ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
