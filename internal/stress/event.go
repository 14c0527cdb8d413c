package stress

import "time"

// Stage identifies what an agent is doing.
type Stage string

const (
	// StageSetup covers agent creation.
	StageSetup Stage = "setup"
	// StageMutate is the random mutation loop between safepoints.
	StageMutate Stage = "mutate"
	// StageCollect is a collection and its verification.
	StageCollect Stage = "collect"
	// StageTeardown drops every root and checks the heap returns to its
	// initial size.
	StageTeardown Stage = "teardown"
)

// Status is the state of an agent within a stage.
type Status string

const (
	// StatusQueued indicates the agent is waiting for a worker slot.
	StatusQueued Status = "queued"
	// StatusWorking indicates the agent is running.
	StatusWorking Status = "working"
	// StatusDone indicates the agent finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates the agent stopped on a failure.
	StatusError Status = "error"
)

// Event reports agent progress.
type Event struct {
	Agent     int
	Stage     Stage
	Status    Status
	Iteration int
	Cycle     uint64
	Live      int
	Freed     int
	Err       error
	Elapsed   time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
