package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeAgent   Scope = iota + 1 // host work on one agent
	ScopeCollect                  // one collection cycle
	ScopePhase                    // mark, sweep, compact, roots
	ScopeKind                     // per-kind work inside a phase
	ScopeObject                   // single allocations and exceptions
)

var scopeNames = [...]string{
	ScopeAgent:   "agent",
	ScopeCollect: "collect",
	ScopePhase:   "phase",
	ScopeKind:    "kind",
	ScopeObject:  "object",
}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Source   string // agent label set by ForAgent, empty otherwise
	Name     string // "collect", "mark", "sweep:object", ...
	Detail   string
	Extra    map[string]string
}
