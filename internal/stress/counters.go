package stress

import (
	"strconv"
	"sync/atomic"
)

// Counters aggregates progress across agents. Workers add to it, so it can be
// read from another goroutine while a run is in flight.
type Counters struct {
	iterations  atomic.Uint64
	collections atomic.Uint64
	freed       atomic.Uint64
	finished    atomic.Uint64
}

func (c *Counters) addCycle(iterations, freed int) {
	if c == nil {
		return
	}
	c.iterations.Add(uint64(max(iterations, 0)))
	c.freed.Add(uint64(max(freed, 0)))
	c.collections.Add(1)
}

func (c *Counters) addIterations(n int) {
	if c == nil {
		return
	}
	c.iterations.Add(uint64(max(n, 0)))
}

func (c *Counters) finish() {
	if c != nil {
		c.finished.Add(1)
	}
}

// Probe reports the counters as heartbeat extras.
func (c *Counters) Probe() map[string]string {
	return map[string]string{
		"iterations":  strconv.FormatUint(c.iterations.Load(), 10),
		"collections": strconv.FormatUint(c.collections.Load(), 10),
		"freed":       strconv.FormatUint(c.freed.Load(), 10),
		"finished":    strconv.FormatUint(c.finished.Load(), 10),
	}
}
