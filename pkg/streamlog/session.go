package streamlog

import (
	"bytes"
	"io"
	"sync"
)

// Session is one interception of a Stream. From New until Close it is the
// stream's backing writer: written bytes accumulate in a pending buffer, and
// each Flush hands the accumulated text to the console and persistent sinks
// selected at construction.
//
// The session does not own the stream, only its backing-writer slot for the
// session's lifetime. At most one session should be installed per slot at a
// time, though sessions may be chained: each captures the writer active at
// its construction and restores exactly that writer on Close.
type Session struct {
	stream  Stream
	prev    io.Writer // captured at construction, restored on Close
	level   Level
	buf     bytes.Buffer
	emit    func(msg string)
	restore sync.Once
}

// New installs a session as the backing writer of stream. The level is fixed
// for the session's lifetime; the dispatch handler it selects is resolved
// here, once, rather than on every flush.
func New(stream Stream, level Level, console, persistent Sink) *Session {
	s := &Session{
		stream: stream,
		prev:   stream.Output(),
		level:  level,
		emit:   dispatcher(level, console, persistent),
	}
	stream.SetOutput(s)
	return s
}

// Write appends p to the pending buffer. It always consumes the full slice;
// the interception path never rejects input, since rejecting would corrupt
// the stream's write semantics for its callers.
func (s *Session) Write(p []byte) (int, error) {
	s.buf.Write(p)
	return len(p), nil
}

// Flush dispatches the pending text as one unit and resets the buffer.
// Flushing with nothing pending is a no-op. Newlines are ordinary buffered
// content; only Flush turns pending text into a dispatched line.
func (s *Session) Flush() {
	if s.buf.Len() == 0 {
		return
	}
	s.emit(s.buf.String())
	s.buf.Reset()
}

// Close restores the backing writer captured at construction. The
// restoration runs exactly once, no matter how often or from which exit path
// Close is called. Pending unflushed text is dropped, not dispatched.
func (s *Session) Close() {
	s.restore.Do(func() {
		s.stream.SetOutput(s.prev)
	})
}

// Level returns the severity the session was bound to at construction.
func (s *Session) Level() Level {
	return s.level
}

// Passthrough returns a writer that reaches the destination that was active
// before this session was installed, bypassing interception.
func (s *Session) Passthrough() io.Writer {
	return s.prev
}
