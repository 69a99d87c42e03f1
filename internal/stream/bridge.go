// Package stream adapts callback-style token emission onto a byte stream.
package stream

import (
	"strings"
)

// Sink is the output stream the bridge writes to. Close signals a clean end
// of stream; Abort terminates the stream abnormally, surfacing err to the
// consumer as a read failure. The bridge invokes at most one of Close or
// Abort, exactly once, over the bridge's lifetime.
type Sink interface {
	Write(p []byte) (int, error)
	Close() error
	Abort(err error)
}

// Bridge converts a generator's token/end/error callbacks into writes on a
// Sink. It is a two-state machine: open until the first terminal event, then
// closed forever. Events delivered after the first terminal event are
// silently discarded, which guards against a generator that fires its end
// callback after its error callback, or emits a token after completion.
//
// Callbacks are assumed to arrive on the request's goroutine; the bridge is
// not safe for concurrent use.
type Bridge struct {
	sink   Sink
	open   bool
	answer strings.Builder
}

// New returns an open bridge writing to sink.
func New(sink Sink) *Bridge {
	return &Bridge{sink: sink, open: true}
}

// HandleToken writes one answer fragment to the sink and appends it to the
// full-answer accumulator. A write failure means the consumer went away:
// the bridge closes locally without attempting Close or Abort on a stream
// that no longer has a reader.
func (b *Bridge) HandleToken(token string) {
	if !b.open {
		return
	}
	if _, err := b.sink.Write([]byte(token)); err != nil {
		b.open = false
		return
	}
	b.answer.WriteString(token)
}

// HandleEnd closes the sink cleanly. No-op if a terminal event already fired.
func (b *Bridge) HandleEnd() {
	if !b.open {
		return
	}
	b.open = false
	_ = b.sink.Close()
}

// HandleError aborts the sink with err. No-op if a terminal event already
// fired, so a late error after a clean end is swallowed.
func (b *Bridge) HandleError(err error) {
	if !b.open {
		return
	}
	b.open = false
	b.sink.Abort(err)
}

// Open reports whether no terminal event has been processed yet.
func (b *Bridge) Open() bool {
	return b.open
}

// Answer returns the fragments successfully written so far, concatenated in
// emission order. Used for post-hoc logging; never sent to the client as a
// separate payload.
func (b *Bridge) Answer() string {
	return b.answer.String()
}
