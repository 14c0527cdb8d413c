package trace

import (
	"fmt"
	"sync"
	"time"
)

// Probe reports counters attached to every heartbeat. It runs on the
// heartbeat goroutine, so it must only read synchronized state.
type Probe func() map[string]string

// Heartbeat emits periodic liveness events so long stress runs show progress
// even while a single collection is running.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat emits a heartbeat to tracer every interval until Stop.
// probe may be nil. A disabled tracer or a non-positive interval returns nil,
// which is safe to Stop.
func StartHeartbeat(tracer Tracer, interval time.Duration, probe Probe) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(tracer, interval, probe)
	return h
}

func (h *Heartbeat) run(tracer Tracer, interval time.Duration, probe Probe) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			ev := &Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeAgent,
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d", beat),
			}
			if probe != nil {
				ev.Extra = probe()
			}
			tracer.Emit(ev)
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
