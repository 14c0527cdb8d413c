package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // crash dump only
	LevelPhase               // agent, collection and phase boundaries
	LevelDetail              // per-kind sweep results
	LevelDebug               // single allocations and exceptions
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// deepest scope each level emits; zero emits nothing
var levelDepth = [...]Scope{
	LevelPhase:  ScopePhase,
	LevelDetail: ScopeKind,
	LevelDebug:  ScopeObject,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a level name, in any case, to a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at level l.
// LevelError records nothing live; its events come from the crash dump.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelDepth) {
		return false
	}
	return scope > 0 && scope <= levelDepth[l]
}

// leveled is the level bookkeeping shared by the concrete tracers.
type leveled struct {
	level Level
}

// Level returns the configured level.
func (l leveled) Level() Level { return l.level }

// Enabled reports whether the level is above LevelOff.
func (l leveled) Enabled() bool { return l.level > LevelOff }

// accepts reports whether ev passes the level filter. Heartbeats always do.
func (l leveled) accepts(ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.level.ShouldEmit(ev.Scope)
}
