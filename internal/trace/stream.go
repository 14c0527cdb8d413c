package trace

import (
	"io"
	"sync"
)

// StreamTracer formats and writes each event as it arrives.
type StreamTracer struct {
	leveled
	mu     sync.Mutex
	w      io.Writer
	format Format
}

// NewStreamTracer writes to w. FormatAuto means text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{leveled: leveled{level}, w: w, format: format}
}

// Emit writes ev. Write errors are dropped: a broken trace sink must not
// fail the agent that is being traced.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.accepts(ev) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	_, _ = t.w.Write(data)
	t.mu.Unlock()
}

// Flush flushes w when it buffers.
func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w when it is a Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
