package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordSink records lifecycle calls and can be scripted to fail writes.
type recordSink struct {
	written   []byte
	closes    int
	aborts    int
	abortErr  error
	failWrite bool
}

func (s *recordSink) Write(p []byte) (int, error) {
	if s.failWrite {
		return 0, errors.New("consumer gone")
	}
	s.written = append(s.written, p...)
	return len(p), nil
}

func (s *recordSink) Close() error {
	s.closes++
	return nil
}

func (s *recordSink) Abort(err error) {
	s.aborts++
	s.abortErr = err
}

func TestBridgeWritesTokensInOrder(t *testing.T) {
	sink := &recordSink{}
	b := New(sink)

	for _, token := range []string{"Ghi", "ță și Ana ", "sunt..."} {
		b.HandleToken(token)
	}
	b.HandleEnd()

	assert.Equal(t, "Ghiță și Ana sunt...", string(sink.written))
	assert.Equal(t, "Ghiță și Ana sunt...", b.Answer())
	assert.Equal(t, 1, sink.closes)
	assert.Equal(t, 0, sink.aborts)
}

func TestBridgeFirstTerminalWins(t *testing.T) {
	t.Run("end then error", func(t *testing.T) {
		sink := &recordSink{}
		b := New(sink)

		b.HandleToken("a")
		b.HandleEnd()
		b.HandleError(errors.New("late"))
		b.HandleEnd()

		assert.Equal(t, 1, sink.closes)
		assert.Equal(t, 0, sink.aborts)
	})

	t.Run("error then end", func(t *testing.T) {
		sink := &recordSink{}
		b := New(sink)

		cause := errors.New("model failed")
		b.HandleError(cause)
		b.HandleEnd()
		b.HandleError(errors.New("other"))

		assert.Equal(t, 0, sink.closes)
		assert.Equal(t, 1, sink.aborts)
		assert.Equal(t, cause, sink.abortErr)
	})
}

func TestBridgeDiscardsTokensAfterTerminal(t *testing.T) {
	sink := &recordSink{}
	b := New(sink)

	b.HandleToken("kept")
	b.HandleEnd()
	b.HandleToken("dropped")

	assert.Equal(t, "kept", string(sink.written))
	assert.Equal(t, "kept", b.Answer())
	assert.False(t, b.Open())
}

func TestBridgeWriteFailureForcesLocalClose(t *testing.T) {
	sink := &recordSink{}
	b := New(sink)

	b.HandleToken("a")
	sink.failWrite = true
	b.HandleToken("b")

	assert.False(t, b.Open())

	// The failed fragment never reached the consumer, so it is not part of
	// the accumulated answer either.
	assert.Equal(t, "a", b.Answer())

	// A terminal event after the forced close must not touch the sink.
	b.HandleEnd()
	b.HandleError(errors.New("late"))
	assert.Equal(t, 0, sink.closes)
	assert.Equal(t, 0, sink.aborts)
}

func TestBridgeErrorWithNoTokens(t *testing.T) {
	sink := &recordSink{}
	b := New(sink)

	b.HandleError(errors.New("boom"))

	assert.Empty(t, sink.written)
	assert.Equal(t, "", b.Answer())
	assert.Equal(t, 1, sink.aborts)
}
